package feedback

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"labdesk/infrastructure/labapi"
	"labdesk/infrastructure/sqlite"
)

func validForm() url.Values {
	return url.Values{
		"customer":      {"Acme Foods"},
		"lrn":           {"LRN-9"},
		"feedbackdate":  {"2024-05-20"},
		"quality":       {"5"},
		"timeliness":    {"4"},
		"communication": {"4"},
		"pricing":       {"3"},
		"overall":       {"4"},
	}
}

func TestAverageRating(t *testing.T) {
	require.Equal(t, "4.0", AverageRating([]int{5, 4, 4, 3, 4}))
	require.Equal(t, "4.5", AverageRating([]int{5, 4, 0, 0, 0}))
	require.Equal(t, "", AverageRating([]int{0, 0, 0, 0, 0}))
}

func TestParseFeedbackForm(t *testing.T) {
	in, err := ParseFeedbackForm(validForm())
	require.NoError(t, err)
	require.Equal(t, "20/05/2024", in.FeedbackDate)
	require.Equal(t, 3, in.Pricing)

	form := validForm()
	form.Set("pricing", "6")
	_, err = ParseFeedbackForm(form)
	require.ErrorContains(t, err, "pricing rating must be between 1 and 5")

	form = validForm()
	form.Del("overall")
	_, err = ParseFeedbackForm(form)
	require.ErrorContains(t, err, "overall satisfaction rating")

	form = validForm()
	form.Set("customer", " ")
	_, err = ParseFeedbackForm(form)
	require.ErrorIs(t, err, errCustomerRequired)

	form = validForm()
	form.Del("feedbackdate")
	_, err = ParseFeedbackForm(form)
	require.ErrorIs(t, err, errDateRequired)
}

func newBackend(t *testing.T, posted *[]byte) *labapi.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/master/get-feedback-forms":
			_, _ = io.WriteString(w, `[{"id":1,"customer":"Acme","lrn":"LRN-1","feedbackdate":"2024-05-01","quality":5,"timeliness":"3","communication":4,"pricing":4,"overall":4}]`)
		case "/master/get-feedback-form":
			_, _ = io.WriteString(w, `{"data":{"id":1,"customer":"Acme","quality":5,"timeliness":5,"communication":5,"pricing":5,"overall":5,"comments":"great"}}`)
		case "/master/add-feedback":
			*posted, _ = io.ReadAll(r.Body)
			_, _ = io.WriteString(w, `{"status":true}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	api, err := labapi.New(srv.URL)
	require.NoError(t, err)
	return api
}

func TestFeedbackPageShowsAverage(t *testing.T) {
	var posted []byte
	api := newBackend(t, &posted)
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "feedback.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.ApplyEmbeddedMigrations(context.Background(), db))

	rec := httptest.NewRecorder()
	FeedbackPageQueryHandler(api, db)(rec, httptest.NewRequest(http.MethodGet, "/lab/feedback", nil))

	body := rec.Body.String()
	require.Contains(t, body, "<td class=\"\">4.0</td>")
	require.Contains(t, body, "01/05/2024")
	require.Contains(t, body, `href="/lab/feedback/1"`)
}

func TestFeedbackDetailShowsRatings(t *testing.T) {
	var posted []byte
	api := newBackend(t, &posted)

	req := httptest.NewRequest(http.MethodGet, "/lab/feedback/1", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()
	FeedbackDetailPageQueryHandler(api)(rec, req)

	body := rec.Body.String()
	require.Contains(t, body, "5.0")
	require.Contains(t, body, "great")
}

func TestAddFeedbackPostsPayload(t *testing.T) {
	var posted []byte
	api := newBackend(t, &posted)

	req := httptest.NewRequest(http.MethodPost, "/lab/feedback", strings.NewReader(validForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	AddFeedbackCommandHandler(api, nil, nil)(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	var sent labapi.FeedbackInput
	require.NoError(t, json.Unmarshal(posted, &sent))
	require.Equal(t, "Acme Foods", sent.Customer)
	require.Equal(t, "20/05/2024", sent.FeedbackDate)
	require.Equal(t, 5, sent.Quality)
}
