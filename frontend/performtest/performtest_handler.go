package performtest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
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

var (
	errResultRequired = errors.New("result is required")
	errFileRequired   = errors.New("report file is required")
	errFileTooLarge   = fmt.Errorf("file must be %dMB or smaller", MaxUploadBytes>>20)
)

func eventsPath(trf string) string { return "/lab/testing/" + url.PathEscape(trf) }

func TestingPageQueryHandler(api *labapi.Client, db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trf := strings.TrimSpace(chi.URLParam(r, "id"))
		stage := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("view")))
		data := PageData{TRFProduct: trf}
		if title, ok := stageTitles[stage]; ok {
			data.Stage, data.StageTitle = stage, title
		}

		events, err := api.TestEvents(r.Context(), trf)
		if err != nil {
			slog.Error("load test events failed", slog.String("trfproduct", trf), slog.Any("err", err))
			data.LoadError = labapi.UserMessage(err)
		}

		pref, err := grid.LoadPreference(r.Context(), db, sessioncontext.SessionUserID(r.Context()), TableName)
		if err != nil {
			slog.Warn("load table preference failed", slog.String("table", TableName), slog.Any("err", err))
		}
		p := grid.FromRequest(r)
		data.Grid = grid.New(TableName, Columns, Rows(events, data.Stage != ""), p, pref)
		data.Grid.Empty = "No test events for this item."
		if exports.Requested(r) {
			exports.ServeGrid(w, r, db, data.Grid)
			return
		}
		title := "Perform Testing"
		if data.StageTitle != "" {
			title = data.StageTitle
		}
		if err := html.WritePage(w, r, title, TestingPage(data)); err != nil {
			http.Error(w, "failed to render testing page", http.StatusInternalServerError)
			return
		}
	}
}

func StartTestCommandHandler(api *labapi.Client, auditSvc *audit.Service, hub *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trf := strings.TrimSpace(chi.URLParam(r, "id"))
		eventID := strings.TrimSpace(chi.URLParam(r, "event"))
		if eventID == "" {
			html.RedirectError(w, r, eventsPath(trf), "Missing test event")
			return
		}
		if err := api.StartTest(r.Context(), eventID); err != nil {
			slog.Error("start test failed", slog.String("event", eventID), slog.Any("err", err))
			html.RedirectError(w, r, eventsPath(trf), labapi.UserMessage(err))
			return
		}
		if err := auditSvc.Record(r.Context(), sessioncontext.SessionUserID(r.Context()), "testing.start", "test_event", eventID, nil, map[string]string{"trfproduct": trf}); err != nil {
			slog.Error("audit start test failed", slog.Any("err", err))
		}
		hub.TableChanged(TableName)
		html.RedirectStatus(w, r, eventsPath(trf), "Test started")
	}
}

func ResultFormPageQueryHandler(api *labapi.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trf := strings.TrimSpace(chi.URLParam(r, "id"))
		eventID := strings.TrimSpace(chi.URLParam(r, "event"))
		events, err := api.TestEvents(r.Context(), trf)
		if err != nil {
			slog.Error("load test events failed", slog.String("trfproduct", trf), slog.Any("err", err))
			html.RedirectError(w, r, eventsPath(trf), labapi.UserMessage(err))
			return
		}
		ev, ok := findEvent(events, eventID)
		if !ok {
			html.RedirectError(w, r, eventsPath(trf), "Test event not found")
			return
		}
		data := ResultFormData{
			TRFProduct:  trf,
			EventID:     eventID,
			Parameter:   ev.Parameter.String(),
			Result:      ev.Result.String(),
			DocumentURL: ev.DocumentURL.String(),
			ReadOnly:    ev.DocumentExists.Bool(),
		}
		if err := html.WritePage(w, r, "Upload Result", ResultForm(data)); err != nil {
			http.Error(w, "failed to render result form", http.StatusInternalServerError)
			return
		}
	}
}

// readUpload parses a multipart body capped at MaxUploadBytes and returns the
// named file, or nil when none was sent.
func readUpload(w http.ResponseWriter, r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return nil, nil, errFileTooLarge
		}
		return nil, nil, fmt.Errorf("invalid form data: %w", err)
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", field, err)
	}
	if header.Size > MaxUploadBytes {
		_ = file.Close()
		return nil, nil, errFileTooLarge
	}
	return file, header, nil
}

func uploadError(err error) string {
	if errors.Is(err, errFileTooLarge) {
		return err.Error()
	}
	return "Invalid form data"
}

func UploadResultCommandHandler(api *labapi.Client, auditSvc *audit.Service, hub *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trf := strings.TrimSpace(chi.URLParam(r, "id"))
		eventID := strings.TrimSpace(chi.URLParam(r, "event"))
		formPath := eventsPath(trf) + "/events/" + url.PathEscape(eventID) + "/result"

		file, header, err := readUpload(w, r, "file")
		if err != nil {
			html.RedirectError(w, r, formPath, uploadError(err))
			return
		}
		up := labapi.ResultUpload{
			EventID: eventID,
			Result:  strings.TrimSpace(r.FormValue("result")),
			Remarks: strings.TrimSpace(r.FormValue("remarks")),
		}
		if file != nil {
			defer file.Close()
			up.FileName, up.File = header.Filename, io.Reader(file)
		}
		if up.Result == "" {
			html.RedirectError(w, r, formPath, errResultRequired.Error())
			return
		}
		if err := api.UploadResult(r.Context(), up); err != nil {
			slog.Error("upload result failed", slog.String("event", eventID), slog.Any("err", err))
			html.RedirectError(w, r, formPath, labapi.UserMessage(err))
			return
		}
		after := map[string]string{"result": up.Result, "remarks": up.Remarks, "file": up.FileName}
		if err := auditSvc.Record(r.Context(), sessioncontext.SessionUserID(r.Context()), "testing.upload_result", "test_event", eventID, nil, after); err != nil {
			slog.Error("audit upload result failed", slog.Any("err", err))
		}
		hub.TableChanged(TableName)
		html.RedirectStatus(w, r, eventsPath(trf), "Result uploaded")
	}
}

func ReportFormPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := ReportFormData{TRFProduct: strings.TrimSpace(chi.URLParam(r, "id"))}
		if err := html.WritePage(w, r, "Upload Report", ReportForm(data)); err != nil {
			http.Error(w, "failed to render report form", http.StatusInternalServerError)
			return
		}
	}
}

func UploadReportCommandHandler(api *labapi.Client, auditSvc *audit.Service, hub *live.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trf := strings.TrimSpace(chi.URLParam(r, "id"))
		formPath := eventsPath(trf) + "/report"

		file, header, err := readUpload(w, r, "file")
		if err != nil {
			html.RedirectError(w, r, formPath, uploadError(err))
			return
		}
		if file == nil {
			html.RedirectError(w, r, formPath, errFileRequired.Error())
			return
		}
		defer file.Close()

		if err := api.UploadReport(r.Context(), trf, header.Filename, file); err != nil {
			slog.Error("upload report failed", slog.String("trfproduct", trf), slog.Any("err", err))
			html.RedirectError(w, r, formPath, labapi.UserMessage(err))
			return
		}
		if err := auditSvc.Record(r.Context(), sessioncontext.SessionUserID(r.Context()), "testing.upload_report", "trf_product", trf, nil, map[string]string{"file": header.Filename}); err != nil {
			slog.Error("audit upload report failed", slog.Any("err", err))
		}
		hub.TableChanged("hod_queue")
		html.RedirectStatus(w, r, "/lab/assign", "Report uploaded")
	}
}
