package adminusers

import (
	"context"
	"strconv"

	"labdesk/frontend/shared/html"
)

func roleOptions(roles []string, selected string) []html.Option {
	opts := make([]html.Option, 0, len(roles))
	for _, r := range roles {
		opts = append(opts, html.Option{Value: r, Label: r, Selected: r == selected})
	}
	return opts
}

func departmentOptions(all []html.Option, selected *int64) []html.Option {
	opts := make([]html.Option, len(all))
	copy(opts, all)
	for i := range opts {
		opts[i].Selected = selected != nil && opts[i].Value == strconv.FormatInt(*selected, 10)
	}
	return opts
}

func UsersListPage(data PageData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		b.Raw(`<table class="grid"><thead><tr><th>Username</th><th>Role</th><th>Employee ID</th><th>Department</th><th></th></tr></thead><tbody>`)
		for _, u := range data.Users {
			formID := "user-" + strconv.FormatInt(u.ID, 10)
			b.Rawf(`<tr><td>%s</td><td>`, u.Username)
			b.Rawf(`<form id="%s" method="post" action="/lab/admin/users/update"><input type="hidden" name="user_id" value="%s"></form>`, formID, u.ID)
			b.Rawf(`<select name="role" form="%s">`, formID)
			for _, o := range roleOptions(data.Roles, u.Role) {
				sel := ""
				if o.Selected {
					sel = " selected"
				}
				b.Rawf(`<option value="%s"%s>%s</option>`, o.Value, sel, o.Label)
			}
			b.Rawf(`</select></td><td><input type="text" name="employee_id" value="%s" form="%s"></td><td>`, u.EmployeeID, formID)
			b.Rawf(`<select name="department_id" form="%s"><option value="">None</option>`, formID)
			for _, o := range departmentOptions(data.Departments, u.DepartmentID) {
				sel := ""
				if o.Selected {
					sel = " selected"
				}
				b.Rawf(`<option value="%s"%s>%s</option>`, o.Value, sel, o.Label)
			}
			b.Rawf(`</select></td><td><button type="submit" form="%s">Save</button></td></tr>`, formID)
		}
		b.Raw(`</tbody></table>`)

		b.Raw(`<h2>New user</h2><form class="stack" method="post" action="/lab/admin/users">`)
		html.Input(b, "Username", "username", "text", "", "required")
		html.Input(b, "Password", "password", "password", "", `autocomplete="new-password" required`)
		html.Select(b, "Role", "role", roleOptions(data.Roles, ""), true)
		html.Input(b, "Employee ID", "employee_id", "text", "", "")
		html.Select(b, "Department", "department_id", data.Departments, false)
		b.Raw(`<button type="submit">Create user</button></form>`)
	})
}
