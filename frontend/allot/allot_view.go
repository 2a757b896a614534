package allot

import (
	"context"
	"strconv"

	"labdesk/frontend/shared/html"
)

func AllotPage(data PageData) html.Component {
	return html.Render(func(ctx context.Context, b *html.Writer) {
		if data.LoadError != "" {
			b.Rawf(`<div class="toast err" role="alert">%s</div>`, data.LoadError)
		}
		b.Raw(`<form class="filters" method="get" action="/lab/allot">`)
		html.Input(b, "From", "from", "date", data.From, "")
		html.Input(b, "To", "to", "date", data.To, "")
		opts := []html.Option{}
		for code := 3; code <= 9; code++ {
			v := strconv.Itoa(code)
			opts = append(opts, html.Option{Value: v, Label: StatusLabel(code), Selected: v == data.Status})
		}
		html.Select(b, "Status", "trfstatus", opts, false)
		b.Raw(`<button type="submit">Apply</button></form>`)
		b.Component(ctx, data.Grid.Component())
	})
}

func AllotForm(data FormData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		s := data.Sample
		b.Raw(`<dl class="summary">`)
		for _, kv := range [][2]string{
			{"LRN", s.LRN.String()},
			{"Customer", s.Customer.String()},
			{"Product", s.Product.String()},
			{"Package", s.Package.String()},
			{"Grade / Size", gradeSize(s)},
		} {
			b.Rawf(`<dt>%s</dt><dd>%s</dd>`, kv[0], kv[1])
		}
		b.Raw(`</dl>`)

		b.Rawf(`<form class="stack" method="post" action="/lab/allot/%s">`, data.ID)
		b.Raw(`<table class="grid"><thead><tr><th>Parameter</th><th>NABL</th><th>Quantity</th><th>Unit</th></tr></thead><tbody>`)
		if len(data.Parameters) == 0 {
			b.Raw(`<tr><td class="empty" colspan="4">No parameters on this item.</td></tr>`)
		}
		for _, p := range data.Parameters {
			nabl := ""
			if p.NABL {
				nabl = "Yes"
			}
			b.Rawf(`<tr><td>%s<input type="hidden" name="parameter" value="%s"></td><td>%s</td>`, p.Name, p.ID, nabl)
			b.Rawf(`<td><input type="number" min="0" step="any" name="qty_%s" value="%s"></td>`, p.ID, p.Quantity)
			b.Rawf(`<td><input type="text" name="unit_%s" value="%s"></td></tr>`, p.ID, p.Unit)
		}
		b.Raw(`</tbody></table><div class="row"><button type="submit">Allot</button> <a href="/lab/allot">Cancel</a></div></form>`)
	})
}
