package assign

import (
	"time"

	"labdesk/frontend/shared/dates"
	"labdesk/frontend/shared/grid"
	"labdesk/frontend/shared/rowactions"
	"labdesk/infrastructure/labapi"
)

var Columns = []grid.Column{
	{Key: "lrn", Label: "LRN", Sortable: true},
	{Key: "product", Label: "Product", Sortable: true, Hideable: true},
	{Key: "parameter", Label: "Parameter", Sortable: true, Hideable: true},
	{Key: "allotdate", Label: "Allot Date", Sortable: true, Hideable: true},
	{Key: "tat", Label: "TAT", Sortable: true},
	{Key: "chemist", Label: "Chemist", Sortable: true, Hideable: true},
	{Key: "nabl", Label: "NABL", Sortable: true, Hideable: true},
}

// Rows projects HOD requests. Rows whose TAT is today or earlier carry the
// overdue class.
func Rows(reqs []labapi.HODRequest, today time.Time) []grid.Row {
	rows := make([]grid.Row, 0, len(reqs))
	for _, req := range reqs {
		tat := dates.DisplayOrRaw(req.TAT.String())
		chemist := req.ChemistName.String()
		if chemist == "" {
			chemist = req.Chemist.String()
		}
		nabl := ""
		if req.NABL.Bool() {
			nabl = "Yes"
		}
		row := grid.Row{
			ID: req.ID.String(),
			Cells: map[string]string{
				"lrn":       req.LRN.String(),
				"product":   req.Product.String(),
				"parameter": req.Parameter.String(),
				"allotdate": dates.DisplayOrRaw(req.AllotDate.String()),
				"tat":       tat,
				"chemist":   chemist,
				"nabl":      nabl,
			},
			Actions: rowactions.HODActions(req),
		}
		if dates.IsOverdue(tat, today) {
			row.Class = "overdue"
		}
		rows = append(rows, row)
	}
	return rows
}
