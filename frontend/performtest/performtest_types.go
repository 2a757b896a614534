package performtest

import "labdesk/frontend/shared/grid"

const TableName = "test_events"

// MaxUploadBytes caps result and report attachments.
const MaxUploadBytes = 10 << 20

// Report stages reachable through ?view= once testing is done.
var stageTitles = map[string]string{
	"draft":    "Draft Report",
	"review":   "Review Report",
	"generate": "Generate Report",
	"final":    "Final Report",
}

type PageData struct {
	TRFProduct string
	Stage      string
	StageTitle string
	Grid       *grid.Grid
	LoadError  string
}

type ResultFormData struct {
	TRFProduct  string
	EventID     string
	Parameter   string
	Result      string
	DocumentURL string
	ReadOnly    bool
}

type ReportFormData struct {
	TRFProduct string
}
