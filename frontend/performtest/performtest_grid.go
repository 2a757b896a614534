package performtest

import (
	"labdesk/frontend/shared/grid"
	"labdesk/frontend/shared/rowactions"
	"labdesk/infrastructure/labapi"
)

var Columns = []grid.Column{
	{Key: "parameter", Label: "Parameter", Sortable: true},
	{Key: "chemist", Label: "Chemist", Sortable: true, Hideable: true},
	{Key: "starttime", Label: "Started", Sortable: true, Hideable: true},
	{Key: "result", Label: "Result", Sortable: true, Hideable: true},
}

// Rows projects test events. In a report stage the screen is read-only and
// rows carry no actions.
func Rows(events []labapi.TestEvent, readOnly bool) []grid.Row {
	rows := make([]grid.Row, 0, len(events))
	for _, ev := range events {
		row := grid.Row{
			ID: ev.ID.String(),
			Cells: map[string]string{
				"parameter": ev.Parameter.String(),
				"chemist":   ev.Chemist.String(),
				"starttime": ev.StartTime.String(),
				"result":    ev.Result.String(),
			},
		}
		if !readOnly {
			row.Actions = rowactions.TestEventActions(ev)
		}
		rows = append(rows, row)
	}
	return rows
}

func findEvent(events []labapi.TestEvent, id string) (labapi.TestEvent, bool) {
	for _, ev := range events {
		if ev.ID.String() == id {
			return ev, true
		}
	}
	return labapi.TestEvent{}, false
}
