package assign

import "labdesk/frontend/shared/grid"

const TableName = "hod_queue"

type PageData struct {
	Grid       *grid.Grid
	Department string
	LoadError  string
}

// AssignLine is one parameter request on the assign form.
type AssignLine struct {
	RequestID string
	Parameter string
	NABL      bool
	Chemist   string
	TAT       string // YYYY-MM-DD for the date input
}

type ChemistOption struct {
	ID   string
	Name string
}

type FormData struct {
	TRFProduct string
	LRN        string
	Product    string
	Lines      []AssignLine
	Chemists   []ChemistOption
	LoadError  string
}
