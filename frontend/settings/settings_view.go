package settings

import (
	"context"
	"strconv"

	"labdesk/frontend/shared/grid"
	"labdesk/frontend/shared/html"
)

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func ColumnSettingsPage(data PageData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		b.Raw(`<form class="filters" method="get" action="/lab/settings/columns">`)
		opts := make([]html.Option, 0, len(data.Tables))
		for _, t := range data.Tables {
			opts = append(opts, html.Option{Value: t.Name, Label: t.Label, Selected: t.Name == data.Selected.Name})
		}
		html.Select(b, "Table", "table", opts, true)
		b.Raw(`<button type="submit">Open</button></form>`)

		b.Raw(`<form class="stack" method="post" action="/lab/settings/columns">`)
		b.Rawf(`<input type="hidden" name="table" value="%s">`, data.Selected.Name)
		b.Raw(`<table class="grid"><thead><tr><th>Column</th><th>Hidden</th><th>Pinned</th></tr></thead><tbody>`)
		for _, c := range data.Selected.Columns {
			b.Rawf(`<tr><td>%s</td><td>`, c.Label)
			if c.Hideable {
				checked := ""
				if contains(data.Pref.Hidden, c.Key) {
					checked = " checked"
				}
				b.Rawf(`<input type="checkbox" name="hidden" value="%s"%s>`, c.Key, checked)
			}
			checked := ""
			if contains(data.Pref.Pinned, c.Key) {
				checked = " checked"
			}
			b.Rawf(`</td><td><input type="checkbox" name="pinned" value="%s"%s></td></tr>`, c.Key, checked)
		}
		b.Raw(`</tbody></table>`)
		per := data.Pref.PerPage
		if per == 0 {
			per = grid.DefaultPerPage
		}
		perOpts := []html.Option{}
		for _, n := range []int{10, 25, 50, 100, 200} {
			v := strconv.Itoa(n)
			perOpts = append(perOpts, html.Option{Value: v, Label: v, Selected: n == per})
		}
		html.Select(b, "Rows per page", "per_page", perOpts, false)
		b.Raw(`<button type="submit">Save</button></form>`)
	})
}
