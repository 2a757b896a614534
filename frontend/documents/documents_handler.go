package documents

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"labdesk/frontend/exports"
	sessioncontext "labdesk/frontend/shared/context"
	"labdesk/frontend/shared/dates"
	"labdesk/frontend/shared/grid"
	"labdesk/frontend/shared/html"
	"labdesk/frontend/shared/rowactions"
	"labdesk/infrastructure/audit"
	"labdesk/infrastructure/labapi"
	"labdesk/infrastructure/live"
	"labdesk/infrastructure/sqlite"
)

const auditEntity = "master_document"

var (
	errTitleRequired   = errors.New("title is required")
	errNumberRequired  = errors.New("document number is required")
	errRemarksRequired = errors.New("remarks are required when rejecting")
	errUnknownDecision = errors.New("unknown decision")
)

func documentPath(id string) string { return listPath + "/" + url.PathEscape(id) }

func DocumentsPageQueryHandler(api *labapi.Client, db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := PageData{}
		q := r.URL.Query()
		docs, err := api.Documents(r.Context(), labapi.DocumentFilter{
			Department: strings.TrimSpace(q.Get("department")),
			Status:     strings.TrimSpace(q.Get("docstatus")),
		})
		if err != nil {
			slog.Error("load documents failed", slog.Any("err", err))
			data.LoadError = labapi.UserMessage(err)
		}
		pref, err := grid.LoadPreference(r.Context(), db, sessioncontext.SessionUserID(r.Context()), TableName)
		if err != nil {
			slog.Warn("load table preference failed", slog.String("table", TableName), slog.Any("err", err))
		}
		data.Grid = grid.New(TableName, Columns, Rows(docs, sessioncontext.EmployeeID(r.Context())), grid.FromRequest(r), pref)
		if exports.Requested(r) {
			exports.ServeGrid(w, r, db, data.Grid)
			return
		}
		if err := html.WritePage(w, r, "Master Documents", DocumentsPage(data)); err != nil {
			http.Error(w, "failed to render documents page", http.StatusInternalServerError)
			return
		}
	}
}

func DocumentDetailPageQueryHandler(api *labapi.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		doc, err := api.Document(r.Context(), id)
		if err != nil {
			slog.Error("load document failed", slog.String("id", id), slog.Any("err", err))
			html.RedirectError(w, r, listPath, labapi.UserMessage(err))
			return
		}
		data := DetailData{Document: doc, Actions: rowactions.DocumentActions(doc, sessioncontext.EmployeeID(r.Context()))}
		if auditSvc != nil {
			data.History, err = auditSvc.ListForEntity(r.Context(), auditEntity, id, 20)
			if err != nil {
				slog.Warn("load document history failed", slog.String("id", id), slog.Any("err", err))
			}
		}
		if err := html.WritePage(w, r, doc.Title.String(), DocumentDetail(data)); err != nil {
			http.Error(w, "failed to render document", http.StatusInternalServerError)
			return
		}
	}
}

func DocumentFormPageQueryHandler(api *labapi.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		data := FormData{Action: listPath}
		title := "New Document"
		if id != "" {
			doc, err := api.Document(r.Context(), id)
			if err != nil {
				slog.Error("load document failed", slog.String("id", id), slog.Any("err", err))
				html.RedirectError(w, r, listPath, labapi.UserMessage(err))
				return
			}
			title = "Edit Document"
			data.Action = documentPath(id)
			data.Input = labapi.DocumentInput{
				ID:         id,
				Title:      doc.Title.String(),
				Number:     doc.Number.String(),
				Department: doc.Department.String(),
				Revision:   doc.Revision.String(),
				ReviewedBy: doc.ReviewedBy.String(),
				ApprovedBy: doc.ApprovedBy.String(),
				CreatedBy:  doc.CreatedBy.String(),
			}
			data.Date = dates.ISOOrEmpty(doc.EffectiveDate.String())
		} else if d, ok := sessioncontext.GetDepartmentFromContext(r.Context()); ok {
			data.Input.Department = d.BackendID
		}
		if err := html.WritePage(w, r, title, DocumentForm(data)); err != nil {
			http.Error(w, "failed to render document form", http.StatusInternalServerError)
			return
		}
	}
}

// ParseDocumentForm validates title and number and converts the effective
// date to DD/MM/YYYY.
func ParseDocumentForm(id string, form url.Values) (labapi.DocumentInput, error) {
	in := labapi.DocumentInput{
		ID:         strings.TrimSpace(id),
		Title:      strings.TrimSpace(form.Get("title")),
		Number:     strings.TrimSpace(form.Get("documentno")),
		Department: strings.TrimSpace(form.Get("department")),
		Revision:   strings.TrimSpace(form.Get("revision")),
		ReviewedBy: strings.TrimSpace(form.Get("reviewedby")),
		ApprovedBy: strings.TrimSpace(form.Get("approvedby")),
	}
	if in.Title == "" {
		return in, errTitleRequired
	}
	if in.Number == "" {
		return in, errNumberRequired
	}
	date, err := dates.ToDisplay(form.Get("effectivedate"))
	if err != nil {
		return in, fmt.Errorf("effective date: %w", err)
	}
	in.EffectiveDate = date
	return in, nil
}

func SaveDocumentCommandHandler(api *labapi.Client, auditSvc *audit.Service, hub *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		formPath := listPath + "/new"
		if id != "" {
			formPath = documentPath(id) + "/edit"
		}
		if err := r.ParseForm(); err != nil {
			html.RedirectError(w, r, formPath, "Invalid form data")
			return
		}
		in, err := ParseDocumentForm(id, r.PostForm)
		if err != nil {
			html.RedirectError(w, r, formPath, err.Error())
			return
		}
		var before any
		if id == "" {
			in.CreatedBy = sessioncontext.EmployeeID(r.Context())
		} else {
			current, err := api.Document(r.Context(), id)
			if err != nil {
				slog.Error("load document failed", slog.String("id", id), slog.Any("err", err))
				html.RedirectError(w, r, formPath, labapi.UserMessage(err))
				return
			}
			in.CreatedBy = current.CreatedBy.String()
			before = current
		}
		if err := api.SaveDocument(r.Context(), in); err != nil {
			slog.Error("save document failed", slog.String("number", in.Number), slog.Any("err", err))
			html.RedirectError(w, r, formPath, labapi.UserMessage(err))
			return
		}
		action := "document.create"
		if id != "" {
			action = "document.update"
		}
		if err := auditSvc.Record(r.Context(), sessioncontext.SessionUserID(r.Context()), action, auditEntity, id, before, in); err != nil {
			slog.Error("audit save document failed", slog.Any("err", err))
		}
		hub.TableChanged(TableName)
		html.RedirectStatus(w, r, listPath, "Document saved")
	}
}

func DecidePageQueryHandler(api *labapi.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		d := labapi.Decision(strings.TrimSpace(r.URL.Query().Get("d")))
		if !d.Valid() {
			html.RedirectError(w, r, documentPath(id), errUnknownDecision.Error())
			return
		}
		doc, err := api.Document(r.Context(), id)
		if err != nil {
			slog.Error("load document failed", slog.String("id", id), slog.Any("err", err))
			html.RedirectError(w, r, listPath, labapi.UserMessage(err))
			return
		}
		if err := html.WritePage(w, r, decisionLabels[d]+" Document", DecideForm(DecideData{Document: doc, Decision: d})); err != nil {
			http.Error(w, "failed to render decision form", http.StatusInternalServerError)
			return
		}
	}
}

// DecideCommandHandler sends review, approve, reject or obsolete. The backend
// enforces who may take each step; rejects need remarks.
func DecideCommandHandler(api *labapi.Client, auditSvc *audit.Service, hub *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if err := r.ParseForm(); err != nil {
			html.RedirectError(w, r, documentPath(id), "Invalid form data")
			return
		}
		d := labapi.Decision(strings.TrimSpace(r.PostForm.Get("d")))
		if !d.Valid() {
			html.RedirectError(w, r, documentPath(id), errUnknownDecision.Error())
			return
		}
		formPath := documentPath(id) + "/decide?d=" + url.QueryEscape(string(d))
		remarks := strings.TrimSpace(r.PostForm.Get("remarks"))
		if d == labapi.DecisionReject && remarks == "" {
			html.RedirectError(w, r, formPath, errRemarksRequired.Error())
			return
		}
		employee := sessioncontext.EmployeeID(r.Context())
		if err := api.DecideDocument(r.Context(), d, id, employee, remarks); err != nil {
			slog.Error("document decision failed", slog.String("id", id), slog.String("decision", string(d)), slog.Any("err", err))
			html.RedirectError(w, r, formPath, labapi.UserMessage(err))
			return
		}
		after := map[string]string{"decision": string(d), "employee": employee, "remarks": remarks}
		if err := auditSvc.Record(r.Context(), sessioncontext.SessionUserID(r.Context()), "document."+string(d), auditEntity, id, nil, after); err != nil {
			slog.Error("audit document decision failed", slog.Any("err", err))
		}
		hub.TableChanged(TableName)
		html.RedirectStatus(w, r, listPath, decisionLabels[d]+" recorded")
	}
}
