package calibration

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	sessioncontext "labdesk/frontend/shared/context"
	"labdesk/frontend/shared/html"
	"labdesk/infrastructure/audit"
	"labdesk/infrastructure/labapi"
	"labdesk/infrastructure/live"
	"labdesk/infrastructure/sqlite"
)

func PointsPageQueryHandler(api *labapi.Client, db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := scopeFromRequest(r)
		data := ListPageData{
			Scope:    scope,
			Heading:  "Points",
			NewHref:  scope.PointsPath() + "/new",
			NewLabel: "Add Point",
			BackHref: scope.MatricesPath(),
		}
		items, err := api.Points(r.Context(), scope.Matrix)
		if err != nil {
			slog.Error("load points failed", slog.String("matrix", scope.Matrix), slog.Any("err", err))
			data.LoadError = labapi.UserMessage(err)
		}
		renderList(w, r, db, "Calibration Points", data, PointsTable, PointColumns, PointRows(scope, items), true)
	}
}

func PointFormPageQueryHandler(api *labapi.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := scopeFromRequest(r)
		pointID := strings.TrimSpace(chi.URLParam(r, "point"))
		data := PointFormData{Scope: scope, Action: scope.PointsPath()}
		title := "Add Point"
		if pointID != "" {
			p, err := api.Point(r.Context(), pointID)
			if err != nil {
				slog.Error("load point failed", slog.String("point", pointID), slog.Any("err", err))
				html.RedirectError(w, r, scope.PointsPath(), labapi.UserMessage(err))
				return
			}
			title = "Edit Point"
			data.Action = scope.PointsPath() + "/" + url.PathEscape(pointID)
			data.Input = labapi.PointInput{
				ID:          pointID,
				Matrix:      scope.Matrix,
				Value:       p.Value.String(),
				Unit:        p.Unit.String(),
				Description: p.Description.String(),
			}
		}
		if err := html.WritePage(w, r, title, PointForm(data)); err != nil {
			http.Error(w, "failed to render point form", http.StatusInternalServerError)
			return
		}
	}
}

// ResolvePointHandler opens a point editor reached without its matrix id.
// The matrix comes from the query when present, otherwise from the backend
// lookup chain; the user is redirected to the fully scoped edit URL.
func ResolvePointHandler(api *labapi.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pointID := strings.TrimSpace(chi.URLParam(r, "point"))
		q := r.URL.Query()
		scope := Scope{
			Instrument: strings.TrimSpace(q.Get("instrument")),
			Price:      strings.TrimSpace(q.Get("price")),
			Matrix:     strings.TrimSpace(q.Get("matrix")),
		}
		if scope.Matrix == "" {
			matrix, strategy, err := api.ResolveMatrixID(r.Context(), pointID, scope.Price)
			if err != nil {
				html.RedirectError(w, r, rootPath, "Could not find the matrix for this point")
				return
			}
			slog.Info("resolved point matrix", slog.String("point", pointID), slog.String("matrix", matrix), slog.String("strategy", strategy))
			scope.Matrix = matrix
		}
		completeScope(r.Context(), api, pointID, &scope)
		if scope.Instrument == "" || scope.Price == "" {
			html.RedirectError(w, r, rootPath, "Open this point from its instrument and price")
			return
		}
		http.Redirect(w, r, scope.PointsPath()+"/"+url.PathEscape(pointID)+"/edit", http.StatusSeeOther)
	}
}

// completeScope fills the price from the point's matrix and the instrument
// from the price record. Parents already in the scope are left alone.
func completeScope(ctx context.Context, api *labapi.Client, pointID string, scope *Scope) {
	if scope.Price == "" {
		m, err := api.MatrixForPoint(ctx, pointID)
		if err == nil && m.ID.String() == scope.Matrix {
			scope.Price = m.Price.String()
		}
	}
	if scope.Instrument == "" && scope.Price != "" {
		if p, err := api.Price(ctx, scope.Price); err == nil {
			scope.Instrument = p.Instrument.String()
		}
	}
}

func SavePointCommandHandler(api *labapi.Client, auditSvc *audit.Service, hub *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := scopeFromRequest(r)
		pointID := strings.TrimSpace(chi.URLParam(r, "point"))
		formPath := scope.PointsPath() + "/new"
		if pointID != "" {
			formPath = scope.PointsPath() + "/" + url.PathEscape(pointID) + "/edit"
		}
		if err := r.ParseForm(); err != nil {
			html.RedirectError(w, r, formPath, "Invalid form data")
			return
		}
		in, err := ParsePointForm(scope, pointID, r.PostForm)
		if err != nil {
			html.RedirectError(w, r, formPath, err.Error())
			return
		}
		if err := api.SavePoint(r.Context(), in); err != nil {
			slog.Error("save point failed", slog.String("matrix", scope.Matrix), slog.Any("err", err))
			html.RedirectError(w, r, formPath, labapi.UserMessage(err))
			return
		}
		action := "calibration.point.create"
		if in.ID != "" {
			action = "calibration.point.update"
		}
		if err := auditSvc.Record(r.Context(), sessioncontext.SessionUserID(r.Context()), action, "calibration_point", in.ID, nil, in); err != nil {
			slog.Error("audit save point failed", slog.Any("err", err))
		}
		hub.TableChanged(PointsTable)
		html.RedirectStatus(w, r, scope.PointsPath(), "Point saved")
	}
}

// DeletePointsCommandHandler deletes every selected point with one backend
// call each and reports partial failures.
func DeletePointsCommandHandler(api *labapi.Client, auditSvc *audit.Service, hub *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := scopeFromRequest(r)
		if err := r.ParseForm(); err != nil {
			html.RedirectError(w, r, scope.PointsPath(), "Invalid form data")
			return
		}
		ids := r.PostForm["ids"]
		if len(ids) == 0 {
			html.RedirectError(w, r, scope.PointsPath(), "Select at least one point")
			return
		}
		res := api.DeletePoints(r.Context(), ids)
		userID := sessioncontext.SessionUserID(r.Context())
		for _, id := range res.Succeeded {
			if err := auditSvc.Record(r.Context(), userID, "calibration.point.delete", "calibration_point", id, nil, nil); err != nil {
				slog.Error("audit delete point failed", slog.String("point", id), slog.Any("err", err))
			}
		}
		if len(res.Succeeded) > 0 {
			hub.TableChanged(PointsTable)
		}
		if len(res.Failed) > 0 {
			failed := make([]string, 0, len(res.Failed))
			for id, err := range res.Failed {
				slog.Error("delete point failed", slog.String("point", id), slog.Any("err", err))
				failed = append(failed, id)
			}
			sort.Strings(failed)
			html.RedirectError(w, r, scope.PointsPath(), fmt.Sprintf("Deleted %d point(s); failed: %s", len(res.Succeeded), strings.Join(failed, ", ")))
			return
		}
		html.RedirectStatus(w, r, scope.PointsPath(), fmt.Sprintf("Deleted %d point(s)", len(res.Succeeded)))
	}
}
