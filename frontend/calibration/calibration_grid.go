package calibration

import (
	"net/url"

	"labdesk/frontend/shared/grid"
	"labdesk/frontend/shared/rowactions"
	"labdesk/infrastructure/labapi"
)

var InstrumentColumns = []grid.Column{
	{Key: "code", Label: "Code", Sortable: true},
	{Key: "name", Label: "Instrument", Sortable: true},
}

var PriceColumns = []grid.Column{
	{Key: "parameter", Label: "Parameter", Sortable: true},
	{Key: "description", Label: "Description", Sortable: true, Hideable: true},
	{Key: "amount", Label: "Amount", Sortable: true},
}

var MatrixColumns = []grid.Column{
	{Key: "name", Label: "Matrix", Sortable: true},
	{Key: "range", Label: "Range", Hideable: true},
	{Key: "unit", Label: "Unit", Sortable: true, Hideable: true},
}

var PointColumns = []grid.Column{
	{Key: "value", Label: "Value", Sortable: true},
	{Key: "unit", Label: "Unit", Sortable: true, Hideable: true},
	{Key: "description", Label: "Description", Sortable: true, Hideable: true},
}

func link(label, href string) rowactions.Action {
	return rowactions.Action{Label: label, Href: href, Method: "GET"}
}

func InstrumentRows(items []labapi.Instrument) []grid.Row {
	rows := make([]grid.Row, 0, len(items))
	for _, it := range items {
		s := Scope{Instrument: it.ID.String()}
		rows = append(rows, grid.Row{
			ID:      it.ID.String(),
			Cells:   map[string]string{"code": it.Code.String(), "name": it.Name.String()},
			Actions: rowactions.Set{Actions: []rowactions.Action{link("Prices", s.PricesPath())}},
		})
	}
	return rows
}

func PriceRows(scope Scope, items []labapi.Price) []grid.Row {
	rows := make([]grid.Row, 0, len(items))
	for _, it := range items {
		s := scope
		s.Price = it.ID.String()
		rows = append(rows, grid.Row{
			ID: it.ID.String(),
			Cells: map[string]string{
				"parameter":   it.Parameter.String(),
				"description": it.Description.String(),
				"amount":      it.Amount.StringFixed(2),
			},
			Actions: rowactions.Set{Actions: []rowactions.Action{
				link("Edit", scope.PricesPath()+"/"+url.PathEscape(s.Price)+"/edit"),
				link("Matrices", s.MatricesPath()),
			}},
		})
	}
	return rows
}

func MatrixRows(scope Scope, items []labapi.Matrix) []grid.Row {
	rows := make([]grid.Row, 0, len(items))
	for _, it := range items {
		s := scope
		s.Matrix = it.ID.String()
		rng := ""
		if it.RangeFrom.String() != "" || it.RangeTo.String() != "" {
			rng = it.RangeFrom.String() + " - " + it.RangeTo.String()
		}
		rows = append(rows, grid.Row{
			ID:      it.ID.String(),
			Cells:   map[string]string{"name": it.Name.String(), "range": rng, "unit": it.Unit.String()},
			Actions: rowactions.Set{Actions: []rowactions.Action{link("Points", s.PointsPath())}},
		})
	}
	return rows
}

func PointRows(scope Scope, items []labapi.Point) []grid.Row {
	rows := make([]grid.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, grid.Row{
			ID: it.ID.String(),
			Cells: map[string]string{
				"value":       it.Value.String(),
				"unit":        it.Unit.String(),
				"description": it.Description.String(),
			},
			Actions: rowactions.Set{Actions: []rowactions.Action{
				link("Edit", scope.PointsPath()+"/"+url.PathEscape(it.ID.String())+"/edit"),
			}},
		})
	}
	return rows
}
