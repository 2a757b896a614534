package assign

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"labdesk/frontend/exports"
	sessioncontext "labdesk/frontend/shared/context"
	"labdesk/frontend/shared/dates"
	"labdesk/frontend/shared/grid"
	"labdesk/frontend/shared/html"
	"labdesk/infrastructure/audit"
	"labdesk/infrastructure/labapi"
	"labdesk/infrastructure/live"
	"labdesk/infrastructure/sqlite"
)

const listPath = "/lab/assign"

var now = time.Now

var errNoAssignment = errors.New("pick a chemist and TAT for at least one parameter")

func activeDepartment(r *http.Request) (backendID, name string) {
	if d, ok := sessioncontext.GetDepartmentFromContext(r.Context()); ok {
		return d.BackendID, d.Name
	}
	return "", ""
}

func AssignPageQueryHandler(api *labapi.Client, db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deptID, deptName := activeDepartment(r)
		data := PageData{Department: deptName}

		var reqs []labapi.HODRequest
		if deptID == "" {
			data.LoadError = "Select a department to see its queue"
		} else {
			var err error
			reqs, err = api.HODRequests(r.Context(), labapi.HODFilter{Department: deptID})
			if err != nil {
				slog.Error("load hod requests failed", slog.String("department", deptID), slog.Any("err", err))
				data.LoadError = labapi.UserMessage(err)
			}
		}

		pref, err := grid.LoadPreference(r.Context(), db, sessioncontext.SessionUserID(r.Context()), TableName)
		if err != nil {
			slog.Warn("load table preference failed", slog.String("table", TableName), slog.Any("err", err))
		}
		data.Grid = grid.New(TableName, Columns, Rows(reqs, now()), grid.FromRequest(r), pref)
		if exports.Requested(r) {
			exports.ServeGrid(w, r, db, data.Grid)
			return
		}
		if err := html.WritePage(w, r, "Assign Chemist", AssignPage(data)); err != nil {
			http.Error(w, "failed to render assign page", http.StatusInternalServerError)
			return
		}
	}
}

func AssignFormPageQueryHandler(api *labapi.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trf := strings.TrimSpace(chi.URLParam(r, "id"))
		deptID, _ := activeDepartment(r)

		reqs, err := api.HODRequests(r.Context(), labapi.HODFilter{Department: deptID, TRFProduct: trf})
		if err != nil {
			slog.Error("load hod requests failed", slog.String("trfproduct", trf), slog.Any("err", err))
			html.RedirectError(w, r, listPath, labapi.UserMessage(err))
			return
		}
		chemists, err := api.Chemists(r.Context(), deptID)
		if err != nil {
			slog.Error("load chemists failed", slog.String("department", deptID), slog.Any("err", err))
			html.RedirectError(w, r, listPath, labapi.UserMessage(err))
			return
		}

		data := FormData{TRFProduct: trf}
		for _, c := range chemists {
			data.Chemists = append(data.Chemists, ChemistOption{ID: c.ID.String(), Name: c.Name.String()})
		}
		for _, req := range reqs {
			if data.LRN == "" {
				data.LRN, data.Product = req.LRN.String(), req.Product.String()
			}
			data.Lines = append(data.Lines, AssignLine{
				RequestID: req.ID.String(),
				Parameter: req.Parameter.String(),
				NABL:      req.NABL.Bool(),
				Chemist:   req.Chemist.String(),
				TAT:       dates.ISOOrEmpty(req.TAT.String()),
			})
		}
		if len(data.Lines) == 0 {
			data.LoadError = "No open parameter requests for this item"
		}
		if err := html.WritePage(w, r, "Assign Chemist", AssignForm(data)); err != nil {
			http.Error(w, "failed to render assign form", http.StatusInternalServerError)
			return
		}
	}
}

// ParseAssignForm reads chemist_<request> and tat_<request> for each posted
// request id. A line with neither is skipped; a line with only one is an
// error. TAT is sent as DD/MM/YYYY.
func ParseAssignForm(trf string, form url.Values) (labapi.AssignRequest, error) {
	out := labapi.AssignRequest{TRFProduct: trf}
	for _, id := range form["request"] {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		chemist := strings.TrimSpace(form.Get("chemist_" + id))
		tat := strings.TrimSpace(form.Get("tat_" + id))
		if chemist == "" && tat == "" {
			continue
		}
		if chemist == "" || tat == "" {
			return out, fmt.Errorf("request %s needs both a chemist and a TAT date", id)
		}
		display, err := dates.ToDisplay(tat)
		if err != nil {
			return out, fmt.Errorf("request %s: %w", id, err)
		}
		out.Assignments = append(out.Assignments, labapi.ChemistAssignment{Request: id, Chemist: chemist, TAT: display})
	}
	if len(out.Assignments) == 0 {
		return out, errNoAssignment
	}
	return out, nil
}

func AssignChemistsCommandHandler(api *labapi.Client, auditSvc *audit.Service, hub *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trf := strings.TrimSpace(chi.URLParam(r, "id"))
		formPath := listPath + "/" + url.PathEscape(trf)
		if err := r.ParseForm(); err != nil {
			html.RedirectError(w, r, formPath, "Invalid form data")
			return
		}
		req, err := ParseAssignForm(trf, r.PostForm)
		if err != nil {
			html.RedirectError(w, r, formPath, err.Error())
			return
		}
		if err := api.AssignChemists(r.Context(), req); err != nil {
			slog.Error("assign chemists failed", slog.String("trfproduct", trf), slog.Any("err", err))
			html.RedirectError(w, r, formPath, labapi.UserMessage(err))
			return
		}
		if err := auditSvc.Record(r.Context(), sessioncontext.SessionUserID(r.Context()), "assign.chemists", "trf_product", trf, nil, req); err != nil {
			slog.Error("audit assign chemists failed", slog.Any("err", err))
		}
		hub.TableChanged(TableName)
		html.RedirectStatus(w, r, listPath, fmt.Sprintf("%d parameter(s) assigned", len(req.Assignments)))
	}
}
