package feedback

import (
	"context"
	"strconv"

	"labdesk/frontend/shared/dates"
	"labdesk/frontend/shared/html"
)

func FeedbackPage(data PageData) html.Component {
	return html.Render(func(ctx context.Context, b *html.Writer) {
		if data.LoadError != "" {
			b.Rawf(`<div class="toast err" role="alert">%s</div>`, data.LoadError)
		}
		b.Raw(`<div class="row"><a class="btn" href="/lab/feedback/new">New Feedback</a></div>`)
		b.Component(ctx, data.Grid.Component())
	})
}

func FeedbackDetail(data DetailData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		f := data.Form
		b.Raw(`<dl class="summary">`)
		b.Rawf(`<dt>Customer</dt><dd>%s</dd><dt>LRN</dt><dd>%s</dd><dt>Date</dt><dd>%s</dd>`,
			f.Customer.String(), f.LRN.String(), dates.DisplayOrRaw(f.FeedbackDate.String()))
		ratings := f.Ratings()
		for i, rf := range RatingFields {
			b.Rawf(`<dt>%s</dt><dd>%s / 5</dd>`, rf.Label, ratings[i])
		}
		b.Rawf(`<dt>Average</dt><dd>%s</dd><dt>Comments</dt><dd>%s</dd></dl>`, data.Average, f.Comments.String())
		b.Raw(`<p><a href="/lab/feedback">Back</a></p>`)
	})
}

func FeedbackForm(data FormData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		b.Raw(`<form class="stack" method="post" action="/lab/feedback">`)
		html.Input(b, "Customer", "customer", "text", "", "required")
		html.Input(b, "LRN", "lrn", "text", "", "")
		html.Input(b, "Feedback date", "feedbackdate", "date", data.Today, "required")
		for _, rf := range RatingFields {
			opts := make([]html.Option, 0, 5)
			for v := 5; v >= 1; v-- {
				s := strconv.Itoa(v)
				opts = append(opts, html.Option{Value: s, Label: s})
			}
			html.Select(b, rf.Label, rf.Name, opts, true)
		}
		b.Raw(`<label>Comments<textarea name="comments" rows="3"></textarea></label>`)
		b.Raw(`<div class="row"><button type="submit">Save</button> <a href="/lab/feedback">Cancel</a></div></form>`)
	})
}
