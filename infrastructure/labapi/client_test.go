package labapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api", opts...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/api")
	require.Error(t, err)
}

func TestAllotSamplesSendsQueryAndHeaders(t *testing.T) {
	var gotQuery, gotAuth, gotReqID, gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		_, _ = io.WriteString(w, `{"Data":[{"id":"11","lrn":"LRN/24/001","trfstatus":"3","packagetype":1}]}`)
	}), WithToken("tkn"))

	ctx := ContextWithRequestID(context.Background(), "req-42")
	rows, err := c.AllotSamples(ctx, AllotFilter{From: "01/05/2024", Status: "3"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "LRN/24/001", rows[0].LRN.String())
	require.Equal(t, 3, rows[0].TRFStatus.Int())

	require.Equal(t, "/api/actionitem/get-allot-sample", gotPath)
	require.Equal(t, "from=01%2F05%2F2024&status=3", gotQuery)
	require.Equal(t, "Bearer tkn", gotAuth)
	require.Equal(t, "req-42", gotReqID)
}

func TestGetListFailureReturnsEmptySliceAndMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"database offline"}`)
	}))

	rows, err := c.HODRequests(context.Background(), HODFilter{Department: "2"})
	require.Error(t, err)
	require.NotNil(t, rows)
	require.Len(t, rows, 0)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusInternalServerError, apiErr.Status)
	require.Equal(t, "database offline", UserMessage(err))
}

func TestGetOneNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[]}`)
	}))

	_, err := c.Document(context.Background(), "5")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUnreachableBackendMessage(t *testing.T) {
	c, err := New("http://127.0.0.1:1/api")
	require.NoError(t, err)
	_, err = c.Instruments(context.Background())
	require.Error(t, err)
	require.Contains(t, UserMessage(err), "could not be reached")
}

func TestPostJSONStatusFalseIsError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":false,"message":"Chemist already assigned"}`)
	}))
	err := c.AssignChemists(context.Background(), AssignRequest{TRFProduct: "1"})
	require.Error(t, err)
	require.Equal(t, "Chemist already assigned", UserMessage(err))
}

func TestSavePriceEncodesDecimalAndPicksEndpoint(t *testing.T) {
	var paths []string
	var bodies []map[string]any
	var mu sync.Mutex
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		paths = append(paths, r.URL.Path)
		bodies = append(bodies, body)
		mu.Unlock()
		_, _ = io.WriteString(w, `{"status":true}`)
	}))

	amount := decimal.RequireFromString("1250.50")
	require.NoError(t, c.SavePrice(context.Background(), PriceInput{Instrument: "3", Parameter: "Pressure", Amount: amount}))
	require.NoError(t, c.SavePrice(context.Background(), PriceInput{ID: "8", Instrument: "3", Amount: amount}))

	require.Equal(t, []string{"/api/calibrationoperations/add-price", "/api/calibrationoperations/update-price"}, paths)
	require.Equal(t, "1250.5", bodies[0]["amount"])
	require.Equal(t, "8", bodies[1]["id"])
}

func TestUploadResultMultipart(t *testing.T) {
	var fields = map[string]string{}
	var fileName, fileBody string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		b, _ := io.ReadAll(f)
		fileName, fileBody = hdr.Filename, string(b)
		_, _ = io.WriteString(w, `{"data":{"ok":1}}`)
	}))

	err := c.UploadResult(context.Background(), ResultUpload{
		EventID: "77", Result: "6.8", Remarks: "pH at 25C",
		FileName: "raw.csv", File: strings.NewReader("a,b\n1,2\n"),
	})
	require.NoError(t, err)
	require.Equal(t, "77", fields["id"])
	require.Equal(t, "6.8", fields["result"])
	require.Equal(t, "raw.csv", fileName)
	require.Equal(t, "a,b\n1,2\n", fileBody)
}

func TestDecideDocumentRejectsUnknownDecision(t *testing.T) {
	c, err := New("http://example.test/api")
	require.NoError(t, err)
	err = c.DecideDocument(context.Background(), Decision("publish"), "1", "E1", "")
	require.Error(t, err)
}
