package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const samplesJSON = `{"status":true,"data":[
	{"id":"11","customer":"Acme","product":"Cement","lrn":"LRN-11","trfstatus":3,"packagetype":0},
	{"id":"12","customer":"Beta","product":"Sand","lrn":"","trfstatus":1,"packagetype":0}
]}`

func fakeBackend(t *testing.T, seen *url.Values) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = r.URL.Query()
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/actionitem/get-allot-sample":
			_, _ = w.Write([]byte(samplesJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LABDESK_CONFIG", "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAllotListPrintsActions(t *testing.T) {
	var seen url.Values
	srv := fakeBackend(t, &seen)

	out, err := runCmd(t, "--api", srv.URL, "allot", "list", "--from", "2026-01-05", "--status", "3")
	require.NoError(t, err)
	require.Equal(t, "05/01/2026", seen.Get("from"))
	require.Equal(t, "3", seen.Get("status"))
	require.Contains(t, out, "LRN-11")
	require.Contains(t, out, "Allot Quantity, Remove Item, Label")
	require.Contains(t, out, "Pending TRF Approval")
}

func TestAllotListRejectsBadDate(t *testing.T) {
	srv := fakeBackend(t, nil)
	_, err := runCmd(t, "--api", srv.URL, "allot", "list", "--from", "yesterday")
	require.Error(t, err)
	require.Contains(t, err.Error(), "--from")
}

func TestHODListRequiresDepartment(t *testing.T) {
	srv := fakeBackend(t, nil)
	_, err := runCmd(t, "--api", srv.URL, "hod", "list")
	require.EqualError(t, err, "--department is required")
}

func TestExportCSV(t *testing.T) {
	srv := fakeBackend(t, nil)
	path := filepath.Join(t.TempDir(), "allot.csv")

	_, err := runCmd(t, "--api", srv.URL, "export", "allot", "--out", path)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "ID,Customer,Product"))
	require.True(t, strings.HasPrefix(lines[1], "11,Acme,Cement"))
}

func TestExportXLSX(t *testing.T) {
	srv := fakeBackend(t, nil)
	path := filepath.Join(t.TempDir(), "allot.xlsx")

	_, err := runCmd(t, "--api", srv.URL, "export", "allot", "--format", "xlsx", "-o", path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "ID", rows[0][0])
	require.Equal(t, "LRN-11", rows[1][4])
}

func TestExportUnknownTable(t *testing.T) {
	srv := fakeBackend(t, nil)
	_, err := runCmd(t, "--api", srv.URL, "export", "invoices")
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown table "invoices"`)
}
