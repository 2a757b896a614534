package documents

import (
	"labdesk/frontend/shared/dates"
	"labdesk/frontend/shared/grid"
	"labdesk/frontend/shared/rowactions"
	"labdesk/infrastructure/labapi"
)

var Columns = []grid.Column{
	{Key: "number", Label: "Document No", Sortable: true},
	{Key: "title", Label: "Title", Sortable: true},
	{Key: "department", Label: "Department", Sortable: true, Hideable: true},
	{Key: "revision", Label: "Revision", Sortable: true, Hideable: true},
	{Key: "effective", Label: "Effective", Sortable: true, Hideable: true},
}

func Rows(docs []labapi.MasterDocument, employeeID string) []grid.Row {
	rows := make([]grid.Row, 0, len(docs))
	for _, d := range docs {
		row := grid.Row{
			ID: d.ID.String(),
			Cells: map[string]string{
				"number":     d.Number.String(),
				"title":      d.Title.String(),
				"department": d.Department.String(),
				"revision":   d.Revision.String(),
				"effective":  dates.DisplayOrRaw(d.EffectiveDate.String()),
			},
			Actions: rowactions.DocumentActions(d, employeeID),
		}
		if d.ObsoleteStatus.Int() == 1 {
			row.Class = "muted"
		}
		rows = append(rows, row)
	}
	return rows
}
