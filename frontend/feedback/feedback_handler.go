package feedback

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
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

var (
	errCustomerRequired = errors.New("customer is required")
	errDateRequired     = errors.New("feedback date is required")
)

func FeedbackPageQueryHandler(api *labapi.Client, db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := PageData{}
		forms, err := api.FeedbackForms(r.Context())
		if err != nil {
			slog.Error("load feedback forms failed", slog.Any("err", err))
			data.LoadError = labapi.UserMessage(err)
		}
		pref, err := grid.LoadPreference(r.Context(), db, sessioncontext.SessionUserID(r.Context()), TableName)
		if err != nil {
			slog.Warn("load table preference failed", slog.String("table", TableName), slog.Any("err", err))
		}
		data.Grid = grid.New(TableName, Columns, Rows(forms), grid.FromRequest(r), pref)
		if exports.Requested(r) {
			exports.ServeGrid(w, r, db, data.Grid)
			return
		}
		if err := html.WritePage(w, r, "Customer Feedback", FeedbackPage(data)); err != nil {
			http.Error(w, "failed to render feedback page", http.StatusInternalServerError)
			return
		}
	}
}

func FeedbackDetailPageQueryHandler(api *labapi.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		form, err := api.FeedbackForm(r.Context(), id)
		if err != nil {
			slog.Error("load feedback form failed", slog.String("id", id), slog.Any("err", err))
			html.RedirectError(w, r, listPath, labapi.UserMessage(err))
			return
		}
		data := DetailData{Form: form, Average: AverageRating(form.Ratings())}
		if err := html.WritePage(w, r, "Feedback "+form.Customer.String(), FeedbackDetail(data)); err != nil {
			http.Error(w, "failed to render feedback", http.StatusInternalServerError)
			return
		}
	}
}

func FeedbackFormPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := FormData{Today: time.Now().Format(dates.ISOLayout)}
		if err := html.WritePage(w, r, "New Feedback", FeedbackForm(data)); err != nil {
			http.Error(w, "failed to render feedback form", http.StatusInternalServerError)
			return
		}
	}
}

// ParseFeedbackForm requires a customer, a date and every rating in 1..5.
func ParseFeedbackForm(form url.Values) (labapi.FeedbackInput, error) {
	in := labapi.FeedbackInput{
		Customer: strings.TrimSpace(form.Get("customer")),
		LRN:      strings.TrimSpace(form.Get("lrn")),
		Comments: strings.TrimSpace(form.Get("comments")),
	}
	if in.Customer == "" {
		return in, errCustomerRequired
	}
	raw := strings.TrimSpace(form.Get("feedbackdate"))
	if raw == "" {
		return in, errDateRequired
	}
	date, err := dates.ToDisplay(raw)
	if err != nil {
		return in, fmt.Errorf("feedback date: %w", err)
	}
	in.FeedbackDate = date

	targets := []*int{&in.Quality, &in.Timeliness, &in.Communication, &in.Pricing, &in.Overall}
	for i, f := range RatingFields {
		v, err := strconv.Atoi(strings.TrimSpace(form.Get(f.Name)))
		if err != nil || v < 1 || v > 5 {
			return in, fmt.Errorf("%s rating must be between 1 and 5", strings.ToLower(f.Label))
		}
		*targets[i] = v
	}
	return in, nil
}

func AddFeedbackCommandHandler(api *labapi.Client, auditSvc *audit.Service, hub *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formPath := listPath + "/new"
		if err := r.ParseForm(); err != nil {
			html.RedirectError(w, r, formPath, "Invalid form data")
			return
		}
		in, err := ParseFeedbackForm(r.PostForm)
		if err != nil {
			html.RedirectError(w, r, formPath, err.Error())
			return
		}
		if err := api.AddFeedback(r.Context(), in); err != nil {
			slog.Error("add feedback failed", slog.String("customer", in.Customer), slog.Any("err", err))
			html.RedirectError(w, r, formPath, labapi.UserMessage(err))
			return
		}
		if err := auditSvc.Record(r.Context(), sessioncontext.SessionUserID(r.Context()), "feedback.create", "feedback_form", in.LRN, nil, in); err != nil {
			slog.Error("audit add feedback failed", slog.Any("err", err))
		}
		hub.TableChanged(TableName)
		html.RedirectStatus(w, r, listPath, "Feedback recorded")
	}
}
