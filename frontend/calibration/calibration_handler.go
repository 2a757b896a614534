package calibration

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"labdesk/frontend/exports"
	sessioncontext "labdesk/frontend/shared/context"
	"labdesk/frontend/shared/grid"
	"labdesk/frontend/shared/html"
	"labdesk/infrastructure/audit"
	"labdesk/infrastructure/labapi"
	"labdesk/infrastructure/live"
	"labdesk/infrastructure/sqlite"
)

func scopeFromRequest(r *http.Request) Scope {
	return Scope{
		Instrument: strings.TrimSpace(chi.URLParam(r, "instrument")),
		Price:      strings.TrimSpace(chi.URLParam(r, "price")),
		Matrix:     strings.TrimSpace(chi.URLParam(r, "matrix")),
	}
}

// renderList applies preferences, serves exports and writes the list page.
func renderList(w http.ResponseWriter, r *http.Request, db *sqlite.DB, title string, data ListPageData, table string, cols []grid.Column, rows []grid.Row, selectable bool) {
	pref, err := grid.LoadPreference(r.Context(), db, sessioncontext.SessionUserID(r.Context()), table)
	if err != nil {
		slog.Warn("load table preference failed", slog.String("table", table), slog.Any("err", err))
	}
	data.Grid = grid.New(table, cols, rows, grid.FromRequest(r), pref)
	if selectable {
		data.Grid.Selectable = true
		data.Grid.BulkAction = data.Scope.PointsPath() + "/delete"
	}
	if exports.Requested(r) {
		exports.ServeGrid(w, r, db, data.Grid)
		return
	}
	if err := html.WritePage(w, r, title, ListPage(data)); err != nil {
		http.Error(w, "failed to render calibration page", http.StatusInternalServerError)
		return
	}
}

func InstrumentsPageQueryHandler(api *labapi.Client, db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := ListPageData{Heading: "Instruments"}
		items, err := api.Instruments(r.Context())
		if err != nil {
			slog.Error("load instruments failed", slog.Any("err", err))
			data.LoadError = labapi.UserMessage(err)
		}
		renderList(w, r, db, "Calibration", data, InstrumentsTable, InstrumentColumns, InstrumentRows(items), false)
	}
}

func PricesPageQueryHandler(api *labapi.Client, db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := scopeFromRequest(r)
		data := ListPageData{
			Scope:    scope,
			Heading:  "Prices",
			NewHref:  scope.PricesPath() + "/new",
			NewLabel: "Add Price",
			BackHref: rootPath,
		}
		items, err := api.Prices(r.Context(), scope.Instrument)
		if err != nil {
			slog.Error("load prices failed", slog.String("instrument", scope.Instrument), slog.Any("err", err))
			data.LoadError = labapi.UserMessage(err)
		}
		renderList(w, r, db, "Calibration Prices", data, PricesTable, PriceColumns, PriceRows(scope, items), false)
	}
}

func PriceFormPageQueryHandler(api *labapi.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := scopeFromRequest(r)
		data := PriceFormData{Scope: scope, Action: scope.PricesPath()}
		if scope.Price != "" {
			p, err := api.Price(r.Context(), scope.Price)
			if err != nil {
				slog.Error("load price failed", slog.String("price", scope.Price), slog.Any("err", err))
				html.RedirectError(w, r, scope.PricesPath(), labapi.UserMessage(err))
				return
			}
			data.Action = scope.PricesPath() + "/" + url.PathEscape(scope.Price)
			data.Input = labapi.PriceInput{
				ID:          p.ID.String(),
				Instrument:  scope.Instrument,
				Parameter:   p.Parameter.String(),
				Description: p.Description.String(),
				Amount:      p.Amount.Decimal,
			}
			data.Amount = p.Amount.StringFixed(2)
		}
		title := "Add Price"
		if scope.Price != "" {
			title = "Edit Price"
		}
		if err := html.WritePage(w, r, title, PriceForm(data)); err != nil {
			http.Error(w, "failed to render price form", http.StatusInternalServerError)
			return
		}
	}
}

// SavePriceCommandHandler creates a price, or updates it when the route
// carries a price id.
func SavePriceCommandHandler(api *labapi.Client, auditSvc *audit.Service, hub *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := scopeFromRequest(r)
		formPath := scope.PricesPath() + "/new"
		if scope.Price != "" {
			formPath = scope.PricesPath() + "/" + url.PathEscape(scope.Price) + "/edit"
		}
		if err := r.ParseForm(); err != nil {
			html.RedirectError(w, r, formPath, "Invalid form data")
			return
		}
		in, err := ParsePriceForm(scope, scope.Price, r.PostForm)
		if err != nil {
			html.RedirectError(w, r, formPath, err.Error())
			return
		}
		if err := api.SavePrice(r.Context(), in); err != nil {
			slog.Error("save price failed", slog.String("instrument", scope.Instrument), slog.Any("err", err))
			html.RedirectError(w, r, formPath, labapi.UserMessage(err))
			return
		}
		action := "calibration.price.create"
		if in.ID != "" {
			action = "calibration.price.update"
		}
		if err := auditSvc.Record(r.Context(), sessioncontext.SessionUserID(r.Context()), action, "calibration_price", in.ID, nil, in); err != nil {
			slog.Error("audit save price failed", slog.Any("err", err))
		}
		hub.TableChanged(PricesTable)
		html.RedirectStatus(w, r, scope.PricesPath(), "Price saved")
	}
}

func MatricesPageQueryHandler(api *labapi.Client, db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := scopeFromRequest(r)
		data := ListPageData{
			Scope:    scope,
			Heading:  "Matrices",
			NewHref:  scope.MatricesPath() + "/new",
			NewLabel: "Add Matrix",
			BackHref: scope.PricesPath(),
		}
		items, err := api.Matrices(r.Context(), scope.Price)
		if err != nil {
			slog.Error("load matrices failed", slog.String("price", scope.Price), slog.Any("err", err))
			data.LoadError = labapi.UserMessage(err)
		}
		renderList(w, r, db, "Calibration Matrices", data, MatricesTable, MatrixColumns, MatrixRows(scope, items), false)
	}
}

func MatrixFormPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := MatrixFormData{Scope: scopeFromRequest(r)}
		if err := html.WritePage(w, r, "Add Matrix", MatrixForm(data)); err != nil {
			http.Error(w, "failed to render matrix form", http.StatusInternalServerError)
			return
		}
	}
}

func CreateMatrixCommandHandler(api *labapi.Client, auditSvc *audit.Service, hub *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := scopeFromRequest(r)
		formPath := scope.MatricesPath() + "/new"
		if err := r.ParseForm(); err != nil {
			html.RedirectError(w, r, formPath, "Invalid form data")
			return
		}
		in, err := ParseMatrixForm(scope, r.PostForm)
		if err != nil {
			html.RedirectError(w, r, formPath, err.Error())
			return
		}
		if err := api.SaveMatrix(r.Context(), in); err != nil {
			slog.Error("create matrix failed", slog.String("price", scope.Price), slog.Any("err", err))
			html.RedirectError(w, r, formPath, labapi.UserMessage(err))
			return
		}
		if err := auditSvc.Record(r.Context(), sessioncontext.SessionUserID(r.Context()), "calibration.matrix.create", "calibration_price", scope.Price, nil, in); err != nil {
			slog.Error("audit create matrix failed", slog.Any("err", err))
		}
		hub.TableChanged(MatricesTable)
		html.RedirectStatus(w, r, scope.MatricesPath(), "Matrix added")
	}
}
