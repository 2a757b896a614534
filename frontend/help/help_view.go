package help

import (
	"context"

	"labdesk/frontend/shared/html"
)

func legendTable(b *html.Writer, title string, rows []LegendRow) {
	b.Rawf(`<h2>%s</h2><table class="grid"><thead><tr><th>Status</th><th>Actions</th></tr></thead><tbody>`, title)
	for _, r := range rows {
		b.Rawf(`<tr><td>%s</td><td>%s</td></tr>`, r.Status, r.Actions)
	}
	b.Raw(`</tbody></table>`)
}

func HelpPage(data PageData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		b.Rawf(`<p>Signed in as <strong>%s</strong>. Your home screen is <a href="%s">%s</a>.</p>`, data.Role, data.Home, data.Home)
		b.Raw(`<p>Buttons follow the status the lab backend reports. The backend still decides whether an action is allowed.</p>`)
		legendTable(b, "Allot Sample", data.AllotRows)
		legendTable(b, "HOD Queue", data.QueueRows)
		b.Raw(`<h2>Perform Testing</h2><ul>`)
		b.Raw(`<li>No chemist on the event: Awaiting Chemist</li>`)
		b.Raw(`<li>Witness lock set: Locked for Witness</li>`)
		b.Raw(`<li>Not started: Start Test</li>`)
		b.Raw(`<li>Started: Upload Result (file up to 10MB)</li>`)
		b.Raw(`<li>Result uploaded: View Document</li></ul>`)
		if data.IsReviewer {
			b.Raw(`<h2>Master Documents</h2><p>Review, Approve and Mark Obsolete appear only when your employee id is the one named on the document. Reject needs remarks.</p>`)
		}
		if len(data.Codes) > 0 {
			b.Raw(`<h2>Your permissions</h2><ul class="codes">`)
			for _, c := range data.Codes {
				b.Rawf(`<li><code>%s</code></li>`, c)
			}
			b.Raw(`</ul>`)
		}
		if data.IsAdmin {
			b.Raw(`<h2>Administration</h2><p>Non-admin users need an employee id. Changing a role signs the user out.</p>`)
		}
	})
}
