package training

import (
	"labdesk/frontend/shared/grid"
	"labdesk/frontend/shared/html"
	"labdesk/infrastructure/labapi"
)

const TableName = "training_modules"

const listPath = "/lab/training"

// ImportHeader is the required CSV header row, in order.
var ImportHeader = []string{"name", "department", "duration", "validfrom", "trainer"}

type PageData struct {
	Grid      *grid.Grid
	LoadError string
}

type FormData struct {
	Input       labapi.TrainingModuleInput
	ValidFrom   string // YYYY-MM-DD for the date input
	Action      string
	Departments []html.Option
}

type ImportSummary struct {
	Created int
	Errors  int
	Lines   []string
}
