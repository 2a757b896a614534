package exports

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	sessioncontext "labdesk/frontend/shared/context"
	"labdesk/frontend/shared/grid"
	"labdesk/frontend/shared/html"
	"labdesk/infrastructure/sqlite"
)

// Requested reports whether the list request asked for a download.
func Requested(r *http.Request) bool {
	return r.URL.Query().Get("format") != ""
}

// ServeGrid writes the grid as a download and records the run.
func ServeGrid(w http.ResponseWriter, r *http.Request, db *sqlite.DB, g *grid.Grid) {
	Serve(w, r, db, FromGrid(g), r.URL.Query().Get("format"))
}

func Serve(w http.ResponseWriter, r *http.Request, db *sqlite.DB, t Table, format string) {
	format = NormalizeFormat(format)
	filename := sheetName(t.Name) + "." + format
	var err error
	switch format {
	case FormatXLSX:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)
		err = WriteXLSX(w, t)
	default:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)
		err = WriteCSV(w, t)
	}
	if err != nil {
		slog.Error("export failed", slog.String("table", t.Name), slog.String("format", format), slog.Any("err", err))
		http.Error(w, "failed to export "+format, http.StatusInternalServerError)
		return
	}
	if db == nil {
		return
	}
	if err := RecordExportRun(r.Context(), db, sessioncontext.SessionUserID(r.Context()), t.Name, format, len(t.Rows)); err != nil {
		slog.Error("record export run failed", slog.String("table", t.Name), slog.Any("err", err))
	}
}

func ExportsPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runs, err := ListRecentRuns(r.Context(), db, 200)
		if err != nil {
			http.Error(w, "failed to load export history", http.StatusInternalServerError)
			return
		}
		if err := html.WritePage(w, r, "Export history", exportsBody(PageData{Runs: runs})); err != nil {
			http.Error(w, "failed to render exports page", http.StatusInternalServerError)
			return
		}
	}
}

func exportsBody(data PageData) html.Component {
	return html.Render(func(_ context.Context, b *html.Writer) {
		b.Raw(`<table class="grid"><thead><tr><th>When</th><th>User</th><th>Table</th><th>Format</th><th>Rows</th></tr></thead><tbody>`)
		if len(data.Runs) == 0 {
			b.Raw(`<tr><td class="empty" colspan="5">No exports yet.</td></tr>`)
		}
		for _, run := range data.Runs {
			b.Rawf(`<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				run.CreatedAt.Format("02/01/2006 15:04"), run.Username, run.TableName, run.Format, strconv.Itoa(run.RowCount))
		}
		b.Raw(`</tbody></table>`)
	})
}
