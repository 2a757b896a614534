package feedback

import (
	"labdesk/frontend/shared/grid"
	"labdesk/infrastructure/labapi"
)

const TableName = "feedback_forms"

const listPath = "/lab/feedback"

// RatingFields are the five 1..5 scores in display order.
var RatingFields = []struct {
	Name  string
	Label string
}{
	{"quality", "Quality of results"},
	{"timeliness", "Turnaround time"},
	{"communication", "Communication"},
	{"pricing", "Pricing"},
	{"overall", "Overall satisfaction"},
}

type PageData struct {
	Grid      *grid.Grid
	LoadError string
}

type DetailData struct {
	Form    labapi.FeedbackForm
	Average string
}

type FormData struct {
	Today string
}
