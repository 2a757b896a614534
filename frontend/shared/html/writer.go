package html

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Component is re-exported so screen packages need not import templ.
type Component = templ.Component

// Writer accumulates markup and keeps the first write error.
type Writer struct {
	w   io.Writer
	err error
}

func (b *Writer) Raw(s string) {
	if b.err != nil {
		return
	}
	_, b.err = io.WriteString(b.w, s)
}

// Text writes s HTML-escaped.
func (b *Writer) Text(s string) { b.Raw(templ.EscapeString(s)) }

// Rawf formats with every argument escaped.
func (b *Writer) Rawf(format string, args ...any) {
	escaped := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case string:
			escaped[i] = templ.EscapeString(v)
		default:
			escaped[i] = templ.EscapeString(fmt.Sprint(v))
		}
	}
	b.Raw(fmt.Sprintf(format, escaped...))
}

// Component renders a child component inline.
func (b *Writer) Component(ctx context.Context, c templ.Component) {
	if b.err != nil || c == nil {
		return
	}
	b.err = c.Render(ctx, b.w)
}

func (b *Writer) Err() error { return b.err }

// Render adapts a writer callback into a templ component.
func Render(fn func(ctx context.Context, b *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &Writer{w: w}
		fn(ctx, b)
		return b.err
	})
}

// Input renders a labelled form input. Extra is appended verbatim and must be
// trusted markup (required, min, step).
func Input(b *Writer, label, name, typ, value, extra string) {
	b.Rawf(`<label>%s<input type="%s" name="%s" value="%s"`, label, typ, name, value)
	if extra != "" {
		b.Raw(" " + extra)
	}
	b.Raw("></label>")
}

// Option is one select entry.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

func Select(b *Writer, label, name string, opts []Option, required bool) {
	b.Rawf(`<label>%s<select name="%s"`, label, name)
	if required {
		b.Raw(" required")
	}
	b.Raw(`><option value="">Select</option>`)
	for _, o := range opts {
		b.Rawf(`<option value="%s"`, o.Value)
		if o.Selected {
			b.Raw(" selected")
		}
		b.Rawf(`>%s</option>`, o.Label)
	}
	b.Raw("</select></label>")
}
