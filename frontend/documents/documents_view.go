package documents

import (
	"context"

	"labdesk/frontend/shared/dates"
	"labdesk/frontend/shared/grid"
	"labdesk/frontend/shared/html"
)

func DocumentsPage(data PageData) html.Component {
	return html.Render(func(ctx context.Context, b *html.Writer) {
		if data.LoadError != "" {
			b.Rawf(`<div class="toast err" role="alert">%s</div>`, data.LoadError)
		}
		b.Raw(`<div class="row"><a class="btn" href="/lab/documents/new">New Document</a></div>`)
		b.Component(ctx, data.Grid.Component())
	})
}

func DocumentDetail(data DetailData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		d := data.Document
		b.Raw(`<dl class="summary">`)
		for _, kv := range [][2]string{
			{"Document No", d.Number.String()},
			{"Title", d.Title.String()},
			{"Department", d.Department.String()},
			{"Revision", d.Revision.String()},
			{"Effective", dates.DisplayOrRaw(d.EffectiveDate.String())},
			{"Created by", d.CreatedBy.String()},
			{"Reviewer", d.ReviewedBy.String()},
			{"Approver", d.ApprovedBy.String()},
			{"Remarks", d.Remarks.String()},
		} {
			b.Rawf(`<dt>%s</dt><dd>%s</dd>`, kv[0], kv[1])
		}
		b.Raw(`</dl>`)
		if d.FileURL.String() != "" {
			b.Rawf(`<p><a href="%s" target="_blank" rel="noopener">Open file</a></p>`, d.FileURL.String())
		}
		b.Raw(`<div class="actions">`)
		grid.RenderActions(b, data.Actions)
		b.Raw(`</div>`)
		if len(data.History) > 0 {
			b.Raw(`<h2>History</h2><table class="grid"><thead><tr><th>When</th><th>Action</th></tr></thead><tbody>`)
			for _, h := range data.History {
				b.Rawf(`<tr><td>%s</td><td>%s</td></tr>`, h.CreatedAt.Format("02/01/2006 15:04"), h.Action)
			}
			b.Raw(`</tbody></table>`)
		}
		b.Raw(`<p><a href="/lab/documents">Back</a></p>`)
	})
}

func DocumentForm(data FormData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		in := data.Input
		b.Rawf(`<form class="stack" method="post" action="%s">`, data.Action)
		html.Input(b, "Title", "title", "text", in.Title, "required")
		html.Input(b, "Document No", "documentno", "text", in.Number, "required")
		html.Input(b, "Department", "department", "text", in.Department, "")
		html.Input(b, "Revision", "revision", "text", in.Revision, "")
		html.Input(b, "Effective date", "effectivedate", "date", data.Date, "")
		html.Input(b, "Reviewer employee id", "reviewedby", "text", in.ReviewedBy, "")
		html.Input(b, "Approver employee id", "approvedby", "text", in.ApprovedBy, "")
		b.Raw(`<div class="row"><button type="submit">Save</button> <a href="/lab/documents">Cancel</a></div></form>`)
	})
}

func DecideForm(data DecideData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		d := data.Document
		b.Rawf(`<p><strong>%s</strong> %s (rev %s)</p>`, d.Number.String(), d.Title.String(), d.Revision.String())
		b.Rawf(`<form class="stack" method="post" action="/lab/documents/%s/decide">`, d.ID.String())
		b.Rawf(`<input type="hidden" name="d" value="%s">`, string(data.Decision))
		b.Raw(`<label>Remarks<textarea name="remarks" rows="3"></textarea></label>`)
		b.Rawf(`<div class="row"><button type="submit">%s</button> <a href="/lab/documents/%s">Cancel</a></div></form>`, decisionLabels[data.Decision], d.ID.String())
	})
}
