package training

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"labdesk/frontend/exports"
	sessioncontext "labdesk/frontend/shared/context"
	"labdesk/frontend/shared/dates"
	"labdesk/frontend/shared/grid"
	"labdesk/frontend/shared/html"
	"labdesk/infrastructure/audit"
	"labdesk/infrastructure/department"
	"labdesk/infrastructure/labapi"
	"labdesk/infrastructure/live"
	"labdesk/infrastructure/sqlite"
)

const maxImportBytes = 10 << 20

func TrainingPageQueryHandler(api *labapi.Client, db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := PageData{}
		items, err := api.TrainingModules(r.Context())
		if err != nil {
			slog.Error("load training modules failed", slog.Any("err", err))
			data.LoadError = labapi.UserMessage(err)
		}
		pref, err := grid.LoadPreference(r.Context(), db, sessioncontext.SessionUserID(r.Context()), TableName)
		if err != nil {
			slog.Warn("load table preference failed", slog.String("table", TableName), slog.Any("err", err))
		}
		data.Grid = grid.New(TableName, Columns, Rows(items), grid.FromRequest(r), pref)
		data.Grid.Selectable = true
		data.Grid.BulkAction = listPath + "/delete"
		if exports.Requested(r) {
			exports.ServeGrid(w, r, db, data.Grid)
			return
		}
		if err := html.WritePage(w, r, "Training Modules", TrainingPage(data)); err != nil {
			http.Error(w, "failed to render training page", http.StatusInternalServerError)
			return
		}
	}
}

func departmentOptions(r *http.Request, db *sqlite.DB, selected string) []html.Option {
	depts, err := department.List(r.Context(), db, department.StatusActive)
	if err != nil {
		slog.Warn("load departments failed", slog.Any("err", err))
	}
	opts := make([]html.Option, 0, len(depts)+1)
	found := selected == ""
	for _, d := range depts {
		opts = append(opts, html.Option{Value: d.BackendID, Label: d.Name, Selected: d.BackendID == selected})
		found = found || d.BackendID == selected
	}
	if !found {
		opts = append(opts, html.Option{Value: selected, Label: selected, Selected: true})
	}
	return opts
}

func TrainingFormPageQueryHandler(api *labapi.Client, db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		data := FormData{Action: listPath}
		title := "New Training Module"
		if id != "" {
			m, err := api.TrainingModule(r.Context(), id)
			if err != nil {
				slog.Error("load training module failed", slog.String("id", id), slog.Any("err", err))
				html.RedirectError(w, r, listPath, labapi.UserMessage(err))
				return
			}
			title = "Edit Training Module"
			data.Action = listPath + "/" + url.PathEscape(id)
			data.Input = labapi.TrainingModuleInput{
				ID:          id,
				Name:        m.Name.String(),
				Department:  m.Department.String(),
				Trainer:     m.Trainer.String(),
				Description: m.Description.String(),
				Duration:    m.Duration.String(),
			}
			data.ValidFrom = dates.ISOOrEmpty(m.ValidFrom.String())
		} else if d, ok := sessioncontext.GetDepartmentFromContext(r.Context()); ok {
			data.Input.Department = d.BackendID
		}
		data.Departments = departmentOptions(r, db, data.Input.Department)
		if err := html.WritePage(w, r, title, TrainingForm(data)); err != nil {
			http.Error(w, "failed to render training form", http.StatusInternalServerError)
			return
		}
	}
}

func SaveTrainingCommandHandler(api *labapi.Client, auditSvc *audit.Service, hub *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		formPath := listPath + "/new"
		if id != "" {
			formPath = listPath + "/" + url.PathEscape(id) + "/edit"
		}
		if err := r.ParseForm(); err != nil {
			html.RedirectError(w, r, formPath, "Invalid form data")
			return
		}
		in, err := ParseModuleForm(id, r.PostForm)
		if err != nil {
			html.RedirectError(w, r, formPath, err.Error())
			return
		}
		if err := api.SaveTrainingModule(r.Context(), in); err != nil {
			slog.Error("save training module failed", slog.String("name", in.Name), slog.Any("err", err))
			html.RedirectError(w, r, formPath, labapi.UserMessage(err))
			return
		}
		action := "training.create"
		if id != "" {
			action = "training.update"
		}
		if err := auditSvc.Record(r.Context(), sessioncontext.SessionUserID(r.Context()), action, "training_module", id, nil, in); err != nil {
			slog.Error("audit save training module failed", slog.Any("err", err))
		}
		hub.TableChanged(TableName)
		html.RedirectStatus(w, r, listPath, "Training module saved")
	}
}

func DeleteTrainingCommandHandler(api *labapi.Client, auditSvc *audit.Service, hub *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			html.RedirectError(w, r, listPath, "Invalid form data")
			return
		}
		ids := r.PostForm["ids"]
		if len(ids) == 0 {
			html.RedirectError(w, r, listPath, "Select at least one training module")
			return
		}
		res := api.DeleteTrainingModules(r.Context(), ids)
		userID := sessioncontext.SessionUserID(r.Context())
		for _, id := range res.Succeeded {
			if err := auditSvc.Record(r.Context(), userID, "training.delete", "training_module", id, nil, nil); err != nil {
				slog.Error("audit delete training module failed", slog.String("id", id), slog.Any("err", err))
			}
		}
		if len(res.Succeeded) > 0 {
			hub.TableChanged(TableName)
		}
		if len(res.Failed) > 0 {
			failed := make([]string, 0, len(res.Failed))
			for id, err := range res.Failed {
				slog.Error("delete training module failed", slog.String("id", id), slog.Any("err", err))
				failed = append(failed, id)
			}
			sort.Strings(failed)
			html.RedirectError(w, r, listPath, fmt.Sprintf("Deleted %d training module(s); failed: %s", len(res.Succeeded), strings.Join(failed, ", ")))
			return
		}
		html.RedirectStatus(w, r, listPath, fmt.Sprintf("Deleted %d training module(s)", len(res.Succeeded)))
	}
}

func ImportPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := html.WritePage(w, r, "Import Training Modules", ImportForm()); err != nil {
			http.Error(w, "failed to render import page", http.StatusInternalServerError)
			return
		}
	}
}

func ImportCommandHandler(api *labapi.Client, auditSvc *audit.Service, hub *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		importPath := listPath + "/import"
		r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes+(1<<20))
		if err := r.ParseMultipartForm(maxImportBytes); err != nil {
			html.RedirectError(w, r, importPath, "Error: invalid upload")
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			html.RedirectError(w, r, importPath, "Error: file is required")
			return
		}
		defer file.Close()

		summary, err := ImportCSV(r.Context(), api, auditSvc, sessioncontext.SessionUserID(r.Context()), file)
		if err != nil {
			html.RedirectError(w, r, importPath, "Error: "+err.Error())
			return
		}
		if summary.Created > 0 {
			hub.TableChanged(TableName)
		}
		status := fmt.Sprintf("Imported: %d created, %d errors", summary.Created, summary.Errors)
		if len(summary.Lines) > 0 {
			first := summary.Lines
			if len(first) > 3 {
				first = first[:3]
			}
			status += " (" + strings.Join(first, "; ") + ")"
		}
		if summary.Created == 0 && summary.Errors > 0 {
			html.RedirectError(w, r, importPath, status)
			return
		}
		html.RedirectStatus(w, r, listPath, status)
	}
}
