package feedback

import (
	"net/url"

	"github.com/shopspring/decimal"

	"labdesk/frontend/shared/dates"
	"labdesk/frontend/shared/grid"
	"labdesk/frontend/shared/rowactions"
	"labdesk/infrastructure/labapi"
)

var Columns = []grid.Column{
	{Key: "customer", Label: "Customer", Sortable: true},
	{Key: "lrn", Label: "LRN", Sortable: true, Hideable: true},
	{Key: "date", Label: "Date", Sortable: true, Hideable: true},
	{Key: "average", Label: "Avg Rating", Sortable: true},
}

// AverageRating is the mean of the in-range ratings, to one decimal place.
// Forms with no valid rating show an empty average.
func AverageRating(ratings []int) string {
	sum, n := 0, 0
	for _, v := range ratings {
		if v >= 1 && v <= 5 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return ""
	}
	return decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(n))).StringFixed(1)
}

func Rows(forms []labapi.FeedbackForm) []grid.Row {
	rows := make([]grid.Row, 0, len(forms))
	for _, f := range forms {
		rows = append(rows, grid.Row{
			ID: f.ID.String(),
			Cells: map[string]string{
				"customer": f.Customer.String(),
				"lrn":      f.LRN.String(),
				"date":     dates.DisplayOrRaw(f.FeedbackDate.String()),
				"average":  AverageRating(f.Ratings()),
			},
			Actions: rowactions.Set{Actions: []rowactions.Action{
				{Label: "View", Href: listPath + "/" + url.PathEscape(f.ID.String()), Method: "GET"},
			}},
		})
	}
	return rows
}
