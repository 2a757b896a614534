package allot

import (
	"net/url"
	"strings"

	"labdesk/frontend/shared/dates"
	"labdesk/frontend/shared/grid"
	"labdesk/frontend/shared/rowactions"
	"labdesk/infrastructure/labapi"
)

var Columns = []grid.Column{
	{Key: "id", Label: "ID", Sortable: true},
	{Key: "customer", Label: "Customer", Sortable: true, Hideable: true},
	{Key: "product", Label: "Product", Sortable: true, Hideable: true},
	{Key: "package", Label: "Package", Sortable: true, Hideable: true},
	{Key: "lrn", Label: "LRN", Sortable: true},
	{Key: "brn", Label: "BRN", Sortable: true, Hideable: true},
	{Key: "grade", Label: "Grade / Size", Sortable: true, Hideable: true},
	{Key: "brand", Label: "Brand", Sortable: true, Hideable: true},
	{Key: "customertype", Label: "Customer Type", Sortable: true, Hideable: true},
	{Key: "purpose", Label: "Specific Purpose", Hideable: true},
	{Key: "received", Label: "Received", Sortable: true, Hideable: true},
	{Key: "status", Label: "Status", Sortable: true, Hideable: true},
}

var statusLabels = map[int]string{
	rowactions.TRFAwaitingAllotment: "Awaiting Allotment",
	rowactions.TRFAwaitingChemist:   "Awaiting Chemist",
	rowactions.TRFInTesting:         "In Testing",
	rowactions.TRFDraftReport:       "Draft Report",
	rowactions.TRFReviewReport:      "Report Review",
	rowactions.TRFGenerateReport:    "Report Generation",
	rowactions.TRFFinalReport:       "Final Report",
}

func StatusLabel(code int) string {
	if s, ok := statusLabels[code]; ok {
		return s
	}
	return "Pending TRF Approval"
}

func gradeSize(s labapi.SampleRow) string {
	parts := make([]string, 0, 2)
	for _, v := range []string{s.Grade.String(), s.Size.String()} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " / ")
}

// Rows projects backend samples into grid rows with their actions.
func Rows(samples []labapi.SampleRow) []grid.Row {
	rows := make([]grid.Row, 0, len(samples))
	for _, s := range samples {
		actions := rowactions.TRFActions(s)
		if s.LRN.String() != "" {
			actions.Actions = append(actions.Actions, rowactions.Action{
				Label:  "Label",
				Href:   "/lab/allot/" + url.PathEscape(s.ID.String()) + "/label",
				Method: "GET",
			})
		}
		rows = append(rows, grid.Row{
			ID: s.ID.String(),
			Cells: map[string]string{
				"id":           s.ID.String(),
				"customer":     s.Customer.String(),
				"product":      s.Product.String(),
				"package":      s.Package.String(),
				"lrn":          s.LRN.String(),
				"brn":          s.BRN.String(),
				"grade":        gradeSize(s),
				"brand":        s.Brand.String(),
				"customertype": s.CustomerType.String(),
				"purpose":      s.SpecificPurpose.String(),
				"received":     dates.DisplayOrRaw(s.ReceivedDate.String()),
				"status":       StatusLabel(s.TRFStatus.Int()),
			},
			Actions: actions,
		})
	}
	return rows
}
