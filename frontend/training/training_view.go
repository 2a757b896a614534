package training

import (
	"context"
	"strings"

	"labdesk/frontend/shared/html"
)

func TrainingPage(data PageData) html.Component {
	return html.Render(func(ctx context.Context, b *html.Writer) {
		if data.LoadError != "" {
			b.Rawf(`<div class="toast err" role="alert">%s</div>`, data.LoadError)
		}
		b.Raw(`<div class="row"><a class="btn" href="/lab/training/new">New Module</a> <a class="btn" href="/lab/training/import">Import CSV</a></div>`)
		b.Component(ctx, data.Grid.Component())
	})
}

func TrainingForm(data FormData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		in := data.Input
		b.Rawf(`<form class="stack" method="post" action="%s">`, data.Action)
		html.Input(b, "Name", "name", "text", in.Name, "required")
		html.Select(b, "Department", "department", data.Departments, true)
		html.Input(b, "Trainer", "trainer", "text", in.Trainer, "")
		html.Input(b, "Duration (hours)", "duration", "number", in.Duration, `min="0.5" step="0.5" required`)
		html.Input(b, "Valid from", "validfrom", "date", data.ValidFrom, "")
		b.Rawf(`<label>Description<textarea name="description" rows="3">%s</textarea></label>`, in.Description)
		b.Raw(`<div class="row"><button type="submit">Save</button> <a href="/lab/training">Cancel</a></div></form>`)
	})
}

func ImportForm() html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		b.Rawf(`<p>Upload a CSV with header: <code>%s</code>. Dates may be DD/MM/YYYY or YYYY-MM-DD.</p>`, strings.Join(ImportHeader, ","))
		b.Raw(`<form class="stack" method="post" enctype="multipart/form-data" action="/lab/training/import">`)
		b.Raw(`<label>CSV file<input type="file" name="file" accept=".csv,text/csv" required></label>`)
		b.Raw(`<div class="row"><button type="submit">Import</button> <a href="/lab/training">Cancel</a></div></form>`)
	})
}
