package departments

import (
	"context"

	"labdesk/frontend/shared/html"
	"labdesk/infrastructure/department"
)

func DepartmentsPage(data PageData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		b.Raw(`<form class="filters" method="get" action="/lab/departments">`)
		html.Select(b, "Show", "filter", []html.Option{
			{Value: department.StatusActive, Label: "Active", Selected: data.Filter == department.StatusActive},
			{Value: department.StatusInactive, Label: "Inactive", Selected: data.Filter == department.StatusInactive},
			{Value: "all", Label: "All", Selected: data.Filter == "all"},
		}, true)
		b.Raw(`<button type="submit">Filter</button></form>`)

		if data.IsAdmin {
			b.Raw(`<form method="post" action="/lab/departments/sync"><button type="submit">Sync from backend</button></form>`)
		}

		b.Raw(`<table class="grid" data-table="departments"><thead><tr><th>Name</th><th>Code</th><th>Backend ID</th><th>Status</th><th></th></tr></thead><tbody>`)
		if len(data.Rows) == 0 {
			b.Raw(`<tr><td colspan="5" class="empty">No departments</td></tr>`)
		}
		for _, row := range data.Rows {
			cls := ""
			if row.IsCurrent {
				cls = "current"
			}
			b.Rawf(`<tr class="%s"><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td class="actions">`, cls, row.Name, row.Code, row.BackendID, row.Status)
			if row.IsCurrent {
				b.Raw(`<span class="note">Current</span>`)
			} else if row.Status == department.StatusActive {
				b.Rawf(`<form method="post" action="/lab/departments/%s/activate"><button type="submit">Use</button></form>`, row.ID)
			}
			if data.IsAdmin {
				next := department.StatusInactive
				label := "Deactivate"
				if row.Status == department.StatusInactive {
					next, label = department.StatusActive, "Activate"
				}
				b.Rawf(`<form method="post" action="/lab/departments/%s/status"><input type="hidden" name="status" value="%s"><input type="hidden" name="filter" value="%s"><button type="submit">%s</button></form>`, row.ID, next, data.Filter, label)
				b.Rawf(`<a href="/lab/departments/%s/logs">Log</a>`, row.ID)
			}
			b.Raw(`</td></tr>`)
		}
		b.Raw(`</tbody></table>`)

		if data.IsAdmin {
			b.Raw(`<h2>Add department</h2><form class="stack" method="post" action="/lab/departments">`)
			html.Input(b, "Name", "name", "text", "", "required")
			html.Input(b, "Code", "code", "text", "", "")
			html.Input(b, "Backend ID", "backend_id", "text", "", "required")
			b.Raw(`<button type="submit">Create</button></form>`)
		}
	})
}

func LogsPage(data LogsPageData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		b.Rawf(`<p>Status: %s. <a href="/lab/departments?filter=all">Back to departments</a></p>`, data.DepartmentStatus)
		b.Raw(`<table class="grid"><thead><tr><th>When</th><th>Who</th><th>Action</th><th>Before</th><th>After</th></tr></thead><tbody>`)
		if len(data.Rows) == 0 {
			b.Raw(`<tr><td colspan="5" class="empty">No changes recorded</td></tr>`)
		}
		for _, r := range data.Rows {
			b.Rawf(`<tr><td>%s</td><td>%s</td><td>%s</td><td><code>%s</code></td><td><code>%s</code></td></tr>`, r.CreatedAt, r.Actor, r.Action, r.BeforeJSON, r.AfterJSON)
		}
		b.Raw(`</tbody></table>`)
	})
}
