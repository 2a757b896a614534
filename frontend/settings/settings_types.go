package settings

import (
	"labdesk/frontend/allot"
	"labdesk/frontend/assign"
	"labdesk/frontend/calibration"
	"labdesk/frontend/documents"
	"labdesk/frontend/feedback"
	"labdesk/frontend/performtest"
	"labdesk/frontend/shared/grid"
	"labdesk/frontend/training"
)

// Table is a grid whose column layout users can save.
type Table struct {
	Name    string
	Label   string
	Columns []grid.Column
}

var Tables = []Table{
	{Name: allot.TableName, Label: "Allot Sample", Columns: allot.Columns},
	{Name: assign.TableName, Label: "HOD Queue", Columns: assign.Columns},
	{Name: performtest.TableName, Label: "Test Events", Columns: performtest.Columns},
	{Name: calibration.InstrumentsTable, Label: "Calibration Instruments", Columns: calibration.InstrumentColumns},
	{Name: calibration.PricesTable, Label: "Calibration Prices", Columns: calibration.PriceColumns},
	{Name: calibration.MatricesTable, Label: "Calibration Matrices", Columns: calibration.MatrixColumns},
	{Name: calibration.PointsTable, Label: "Calibration Points", Columns: calibration.PointColumns},
	{Name: documents.TableName, Label: "Master Documents", Columns: documents.Columns},
	{Name: training.TableName, Label: "Training Modules", Columns: training.Columns},
	{Name: feedback.TableName, Label: "Customer Feedback", Columns: feedback.Columns},
}

func findTable(name string) (Table, bool) {
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

type PageData struct {
	Tables   []Table
	Selected Table
	Pref     grid.Preference
}
