package assign

import (
	"context"

	"labdesk/frontend/shared/html"
)

func AssignPage(data PageData) html.Component {
	return html.Render(func(ctx context.Context, b *html.Writer) {
		if data.LoadError != "" {
			b.Rawf(`<div class="toast err" role="alert">%s</div>`, data.LoadError)
		}
		if data.Department != "" {
			b.Rawf(`<p class="muted">Department: %s. <a href="/lab/departments">Switch</a></p>`, data.Department)
		}
		b.Component(ctx, data.Grid.Component())
	})
}

func AssignForm(data FormData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		if data.LoadError != "" {
			b.Rawf(`<div class="toast err" role="alert">%s</div>`, data.LoadError)
		}
		b.Rawf(`<p><strong>%s</strong> %s</p>`, data.LRN, data.Product)
		b.Rawf(`<form class="stack" method="post" action="/lab/assign/%s">`, data.TRFProduct)
		b.Raw(`<table class="grid"><thead><tr><th>Parameter</th><th>NABL</th><th>Chemist</th><th>TAT</th></tr></thead><tbody>`)
		for _, line := range data.Lines {
			nabl := ""
			if line.NABL {
				nabl = "Yes"
			}
			b.Rawf(`<tr><td>%s<input type="hidden" name="request" value="%s"></td><td>%s</td><td>`, line.Parameter, line.RequestID, nabl)
			opts := make([]html.Option, 0, len(data.Chemists))
			for _, c := range data.Chemists {
				opts = append(opts, html.Option{Value: c.ID, Label: c.Name, Selected: c.ID == line.Chemist})
			}
			html.Select(b, "", "chemist_"+line.RequestID, opts, false)
			b.Rawf(`</td><td><input type="date" name="tat_%s" value="%s"></td></tr>`, line.RequestID, line.TAT)
		}
		b.Raw(`</tbody></table><div class="row"><button type="submit">Assign</button> <a href="/lab/assign">Cancel</a></div></form>`)
	})
}
