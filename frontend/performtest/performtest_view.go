package performtest

import (
	"context"

	"labdesk/frontend/shared/html"
)

func TestingPage(data PageData) html.Component {
	return html.Render(func(ctx context.Context, b *html.Writer) {
		if data.LoadError != "" {
			b.Rawf(`<div class="toast err" role="alert">%s</div>`, data.LoadError)
		}
		if data.Stage != "" {
			b.Rawf(`<p class="banner">%s for item %s. Test events are read-only at this stage.</p>`, data.StageTitle, data.TRFProduct)
		}
		b.Component(ctx, data.Grid.Component())
		b.Raw(`<p><a href="/lab/assign">Back to queue</a></p>`)
	})
}

func ResultForm(data ResultFormData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		b.Rawf(`<p><strong>%s</strong></p>`, data.Parameter)
		back := "/lab/testing/" + data.TRFProduct
		if data.ReadOnly {
			b.Rawf(`<dl class="summary"><dt>Result</dt><dd>%s</dd></dl>`, data.Result)
			if data.DocumentURL != "" {
				b.Rawf(`<p><a href="%s" target="_blank" rel="noopener">Open document</a></p>`, data.DocumentURL)
			}
			b.Rawf(`<p><a href="%s">Back</a></p>`, back)
			return
		}
		b.Rawf(`<form class="stack" method="post" enctype="multipart/form-data" action="/lab/testing/%s/events/%s/result">`, data.TRFProduct, data.EventID)
		html.Input(b, "Result", "result", "text", data.Result, "required")
		b.Raw(`<label>Remarks<textarea name="remarks" rows="3"></textarea></label>`)
		b.Raw(`<label>Attachment (max 10MB)<input type="file" name="file"></label>`)
		b.Rawf(`<div class="row"><button type="submit">Upload</button> <a href="%s">Cancel</a></div></form>`, back)
	})
}

func ReportForm(data ReportFormData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		b.Rawf(`<form class="stack" method="post" enctype="multipart/form-data" action="/lab/testing/%s/report">`, data.TRFProduct)
		b.Raw(`<label>Report file (max 10MB)<input type="file" name="file" required></label>`)
		b.Raw(`<div class="row"><button type="submit">Upload Report</button> <a href="/lab/assign">Cancel</a></div></form>`)
	})
}
