package training

import (
	"net/url"

	"labdesk/frontend/shared/dates"
	"labdesk/frontend/shared/grid"
	"labdesk/frontend/shared/rowactions"
	"labdesk/infrastructure/labapi"
)

var Columns = []grid.Column{
	{Key: "name", Label: "Module", Sortable: true},
	{Key: "department", Label: "Department", Sortable: true, Hideable: true},
	{Key: "trainer", Label: "Trainer", Sortable: true, Hideable: true},
	{Key: "duration", Label: "Hours", Sortable: true, Hideable: true},
	{Key: "validfrom", Label: "Valid From", Sortable: true, Hideable: true},
}

func Rows(items []labapi.TrainingModule) []grid.Row {
	rows := make([]grid.Row, 0, len(items))
	for _, m := range items {
		rows = append(rows, grid.Row{
			ID: m.ID.String(),
			Cells: map[string]string{
				"name":       m.Name.String(),
				"department": m.Department.String(),
				"trainer":    m.Trainer.String(),
				"duration":   m.Duration.String(),
				"validfrom":  dates.DisplayOrRaw(m.ValidFrom.String()),
			},
			Actions: rowactions.Set{Actions: []rowactions.Action{
				{Label: "Edit", Href: listPath + "/" + url.PathEscape(m.ID.String()) + "/edit", Method: "GET"},
			}},
		})
	}
	return rows
}
