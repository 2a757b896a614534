package allot

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

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

const listPath = "/lab/allot"

var (
	errNoQuantity      = errors.New("enter a quantity for at least one parameter")
	errInvalidQuantity = errors.New("quantities must be non-negative numbers")
)

func AllotPageQueryHandler(api *labapi.Client, db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		data := PageData{
			From:   strings.TrimSpace(q.Get("from")),
			To:     strings.TrimSpace(q.Get("to")),
			Status: strings.TrimSpace(q.Get("trfstatus")),
		}
		filter := labapi.AllotFilter{
			From:   dateParam(data.From),
			To:     dateParam(data.To),
			Status: data.Status,
		}
		samples, err := api.AllotSamples(r.Context(), filter)
		if err != nil {
			slog.Error("load allot samples failed", slog.Any("err", err))
			data.LoadError = labapi.UserMessage(err)
		}

		pref, err := grid.LoadPreference(r.Context(), db, sessioncontext.SessionUserID(r.Context()), TableName)
		if err != nil {
			slog.Warn("load table preference failed", slog.String("table", TableName), slog.Any("err", err))
		}
		data.Grid = grid.New(TableName, Columns, Rows(samples), grid.FromRequest(r), pref)
		if exports.Requested(r) {
			exports.ServeGrid(w, r, db, data.Grid)
			return
		}
		if err := html.WritePage(w, r, "Allot Sample", AllotPage(data)); err != nil {
			http.Error(w, "failed to render allot page", http.StatusInternalServerError)
			return
		}
	}
}

// dateParam converts a date input value to the backend's DD/MM/YYYY and drops
// anything unparseable.
func dateParam(v string) string {
	out, err := dates.ToDisplay(v)
	if err != nil {
		return ""
	}
	return out
}

func AllotFormPageQueryHandler(api *labapi.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		item, err := api.AllotItem(r.Context(), id)
		if err != nil {
			slog.Error("load allot item failed", slog.String("id", id), slog.Any("err", err))
			html.RedirectError(w, r, listPath, labapi.UserMessage(err))
			return
		}
		data := FormData{ID: id, Sample: item.Sample}
		for _, p := range item.Parameters {
			data.Parameters = append(data.Parameters, ParameterLine{
				ID:       p.ID.String(),
				Name:     p.Name.String(),
				Unit:     p.Unit.String(),
				Quantity: p.Quantity.String(),
				NABL:     p.NABL.Bool(),
			})
		}
		if err := html.WritePage(w, r, "Allot Quantity", AllotForm(data)); err != nil {
			http.Error(w, "failed to render allot form", http.StatusInternalServerError)
			return
		}
	}
}

// ParseAllotForm reads qty_<parameter> and unit_<parameter> pairs. At least
// one quantity must be positive; blank quantities are skipped.
func ParseAllotForm(id string, form map[string][]string) (labapi.AllotRequest, error) {
	req := labapi.AllotRequest{TRFProduct: id}
	for _, paramID := range form["parameter"] {
		paramID = strings.TrimSpace(paramID)
		raw := strings.TrimSpace(first(form["qty_"+paramID]))
		if paramID == "" || raw == "" {
			continue
		}
		qty, err := decimal.NewFromString(raw)
		if err != nil || qty.IsNegative() {
			return req, errInvalidQuantity
		}
		if qty.IsZero() {
			continue
		}
		req.Parameters = append(req.Parameters, labapi.AllotQuantity{
			Parameter: paramID,
			Quantity:  qty.String(),
			Unit:      strings.TrimSpace(first(form["unit_"+paramID])),
		})
	}
	if len(req.Parameters) == 0 {
		return req, errNoQuantity
	}
	return req, nil
}

func first(v []string) string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

func AllotQuantityCommandHandler(api *labapi.Client, auditSvc *audit.Service, hub *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		formPath := listPath + "/" + id
		if err := r.ParseForm(); err != nil {
			html.RedirectError(w, r, formPath, "Invalid form data")
			return
		}
		req, err := ParseAllotForm(id, r.PostForm)
		if err != nil {
			html.RedirectError(w, r, formPath, err.Error())
			return
		}
		if err := api.AllotQuantity(r.Context(), req); err != nil {
			slog.Error("allot quantity failed", slog.String("id", id), slog.Any("err", err))
			html.RedirectError(w, r, formPath, labapi.UserMessage(err))
			return
		}
		if err := auditSvc.Record(r.Context(), sessioncontext.SessionUserID(r.Context()), "allot.quantity", "trf_product", id, nil, req); err != nil {
			slog.Error("audit allot quantity failed", slog.Any("err", err))
		}
		hub.TableChanged(TableName)
		html.RedirectStatus(w, r, listPath, "Quantity allotted")
	}
}

func RemoveItemCommandHandler(api *labapi.Client, auditSvc *audit.Service, hub *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			html.RedirectError(w, r, listPath, "Invalid item id")
			return
		}
		if err := api.RemoveItem(r.Context(), id); err != nil {
			slog.Error("remove item failed", slog.String("id", id), slog.Any("err", err))
			html.RedirectError(w, r, listPath, labapi.UserMessage(err))
			return
		}
		if err := auditSvc.Record(r.Context(), sessioncontext.SessionUserID(r.Context()), "allot.remove_item", "trf_product", id, nil, map[string]string{"id": id}); err != nil {
			slog.Error("audit remove item failed", slog.Any("err", err))
		}
		hub.TableChanged(TableName)
		html.RedirectStatus(w, r, listPath, "Item removed")
	}
}

func SampleLabelPDFHandler(api *labapi.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		item, err := api.AllotItem(r.Context(), id)
		if err != nil {
			slog.Error("load sample for label failed", slog.String("id", id), slog.Any("err", err))
			html.RedirectError(w, r, listPath, labapi.UserMessage(err))
			return
		}
		s := item.Sample
		pdf, err := renderSampleLabelsPDF([]LabelData{{
			LRN:          s.LRN.String(),
			BRN:          s.BRN.String(),
			Customer:     s.Customer.String(),
			Product:      s.Product.String(),
			GradeSize:    gradeSize(s),
			ReceivedDate: dates.DisplayOrRaw(s.ReceivedDate.String()),
		}})
		if err != nil {
			slog.Error("render sample label failed", slog.String("id", id), slog.Any("err", err))
			html.RedirectError(w, r, listPath, "Could not render label: "+err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "inline; filename=sample-"+labelFileName(s.LRN.String())+".pdf")
		_, _ = w.Write(pdf)
	}
}
