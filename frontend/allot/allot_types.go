package allot

import (
	"labdesk/frontend/shared/grid"
	"labdesk/infrastructure/labapi"
)

// TableName keys preferences, exports and live notices for this screen.
const TableName = "allot"

type PageData struct {
	Grid      *grid.Grid
	From      string
	To        string
	Status    string
	LoadError string
}

// ParameterLine is one row of the allot form.
type ParameterLine struct {
	ID       string
	Name     string
	Unit     string
	Quantity string
	NABL     bool
}

type FormData struct {
	ID         string
	Sample     labapi.SampleRow
	Parameters []ParameterLine
	LoadError  string
}

type LabelData struct {
	LRN          string
	BRN          string
	Customer     string
	Product      string
	GradeSize    string
	ReceivedDate string
}
