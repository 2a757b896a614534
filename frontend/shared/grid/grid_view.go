package grid

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"labdesk/frontend/shared/html"
	"labdesk/frontend/shared/rowactions"
)

// Component renders the search box, export links, table and pager.
func (g *Grid) Component() templ.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		b.Rawf(`<section class="grid-wrap" data-table="%s">`, g.Name)
		g.renderToolbar(b)
		formID := "bulk-" + g.Name
		if g.Selectable && g.BulkAction != "" {
			label := g.BulkLabel
			if label == "" {
				label = "Delete selected"
			}
			b.Rawf(`<form id="%s" method="post" action="%s" onsubmit="return confirm('Apply to selected rows?')"><button type="submit">%s</button></form>`, formID, g.BulkAction, label)
		}

		cols := g.VisibleColumns()
		b.Raw(`<table class="grid"><thead><tr>`)
		if g.Selectable {
			b.Rawf(`<th class="sel"><input type="checkbox" aria-label="Select all" onclick="document.querySelectorAll('input[form=%s]').forEach(function(c){c.checked=this.checked}.bind(this))"></th>`, formID)
		}
		for _, c := range cols {
			class := ""
			if g.IsPinned(c.Key) {
				class = "pinned"
			}
			b.Rawf(`<th class="%s">`, class)
			if c.Sortable {
				marker := ""
				if g.Params.Sort == c.Key {
					marker = " ▲"
					if g.Params.Dir == "desc" {
						marker = " ▼"
					}
				}
				b.Rawf(`<a href="%s">%s%s</a>`, g.SortLink(c.Key), c.Label, marker)
			} else {
				b.Text(c.Label)
			}
			b.Raw(`</th>`)
		}
		b.Raw(`<th>Actions</th></tr></thead><tbody>`)

		rows := g.PageRows()
		if len(rows) == 0 {
			span := len(cols) + 1
			if g.Selectable {
				span++
			}
			b.Rawf(`<tr><td class="empty" colspan="%s">%s</td></tr>`, strconv.Itoa(span), g.Empty)
		}
		for _, row := range rows {
			b.Rawf(`<tr class="%s">`, row.Class)
			if g.Selectable {
				b.Rawf(`<td class="sel"><input type="checkbox" name="ids" value="%s" form="%s"></td>`, row.ID, formID)
			}
			for _, c := range cols {
				class := ""
				if g.IsPinned(c.Key) {
					class = "pinned"
				}
				b.Rawf(`<td class="%s">%s</td>`, class, row.Cells[c.Key])
			}
			b.Raw(`<td class="actions">`)
			RenderActions(b, row.Actions)
			b.Raw(`</td></tr>`)
		}
		b.Raw(`</tbody></table>`)
		g.renderPager(b)
		b.Raw(`</section>`)
	})
}

func (g *Grid) renderToolbar(b *html.Writer) {
	b.Rawf(`<div class="toolbar"><form method="get" action="%s">`, g.Params.Path)
	for k, vs := range g.Params.Extra {
		for _, v := range vs {
			b.Rawf(`<input type="hidden" name="%s" value="%s">`, k, v)
		}
	}
	b.Rawf(`<input type="search" name="q" value="%s" placeholder="Search"><button type="submit">Filter</button></form>`, g.Params.Query)
	b.Rawf(`<a href="%s">CSV</a> <a href="%s">XLSX</a>`,
		g.Link(map[string]string{"format": "csv", "page": ""}),
		g.Link(map[string]string{"format": "xlsx", "page": ""}))
	b.Raw(`</div>`)
}

func (g *Grid) renderPager(b *html.Writer) {
	b.Raw(`<div class="pager">`)
	if g.Params.Page > 1 {
		b.Rawf(`<a href="%s">Previous</a>`, g.Link(map[string]string{"page": strconv.Itoa(g.Params.Page - 1)}))
	}
	b.Rawf(`<span>Page %s of %s (%s rows)</span>`, g.Params.Page, g.Pages, g.Total)
	if g.Params.Page < g.Pages {
		b.Rawf(`<a href="%s">Next</a>`, g.Link(map[string]string{"page": strconv.Itoa(g.Params.Page + 1)}))
	}
	b.Raw(`</div>`)
}

// RenderActions writes links for GET actions and one-button forms for POST
// actions. A note renders after the actions.
func RenderActions(b *html.Writer, set rowactions.Set) {
	for _, a := range set.Actions {
		if a.IsPost() {
			b.Rawf(`<form class="inline" method="post" action="%s"`, a.Href)
			if a.Confirm != "" {
				b.Rawf(` onsubmit="return confirm('%s')"`, a.Confirm)
			}
			b.Rawf(`><button type="submit">%s</button></form>`, a.Label)
			continue
		}
		b.Rawf(`<a class="btn" href="%s">%s</a>`, a.Href, a.Label)
	}
	if set.Note != "" {
		b.Rawf(`<span class="note">%s</span>`, set.Note)
	}
}
