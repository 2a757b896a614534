package calibration

import (
	"context"

	"labdesk/frontend/shared/html"
)

func ListPage(data ListPageData) html.Component {
	return html.Render(func(ctx context.Context, b *html.Writer) {
		if data.LoadError != "" {
			b.Rawf(`<div class="toast err" role="alert">%s</div>`, data.LoadError)
		}
		b.Rawf(`<div class="row"><h2>%s</h2>`, data.Heading)
		if data.NewHref != "" {
			b.Rawf(` <a class="btn" href="%s">%s</a>`, data.NewHref, data.NewLabel)
		}
		if data.BackHref != "" {
			b.Rawf(` <a href="%s">Back</a>`, data.BackHref)
		}
		b.Raw(`</div>`)
		b.Component(ctx, data.Grid.Component())
	})
}

func PriceForm(data PriceFormData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		b.Rawf(`<form class="stack" method="post" action="%s">`, data.Action)
		html.Input(b, "Parameter", "parameter", "text", data.Input.Parameter, "required")
		html.Input(b, "Description", "description", "text", data.Input.Description, "")
		html.Input(b, "Amount", "amount", "number", data.Amount, `min="0" step="0.01" required`)
		b.Rawf(`<div class="row"><button type="submit">Save</button> <a href="%s">Cancel</a></div></form>`, data.Scope.PricesPath())
	})
}

func MatrixForm(data MatrixFormData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		b.Rawf(`<form class="stack" method="post" action="%s">`, data.Scope.MatricesPath())
		html.Input(b, "Name", "name", "text", data.Input.Name, "required")
		html.Input(b, "Range from", "rangefrom", "text", data.Input.RangeFrom, "")
		html.Input(b, "Range to", "rangeto", "text", data.Input.RangeTo, "")
		html.Input(b, "Unit", "unit", "text", data.Input.Unit, "")
		b.Rawf(`<div class="row"><button type="submit">Save</button> <a href="%s">Cancel</a></div></form>`, data.Scope.MatricesPath())
	})
}

func PointForm(data PointFormData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		b.Rawf(`<form class="stack" method="post" action="%s">`, data.Action)
		html.Input(b, "Value", "value", "text", data.Input.Value, "required")
		html.Input(b, "Unit", "unit", "text", data.Input.Unit, "")
		html.Input(b, "Description", "description", "text", data.Input.Description, "")
		b.Rawf(`<div class="row"><button type="submit">Save</button> <a href="%s">Cancel</a></div></form>`, data.Scope.PointsPath())
	})
}
