package grid

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/uptrace/bun"

	"labdesk/frontend/shared/rowactions"
	"labdesk/infrastructure/sqlite"
)

var testColumns = []Column{
	{Key: "id", Label: "ID", Sortable: true},
	{Key: "customer", Label: "Customer", Sortable: true, Hideable: true},
	{Key: "lrn", Label: "LRN", Sortable: true, Hideable: true},
	{Key: "received", Label: "Received", Sortable: true, Hideable: true},
}

func testRows() []Row {
	return []Row{
		{ID: "10", Cells: map[string]string{"id": "10", "customer": "beta labs", "lrn": "L-3", "received": "02/01/2024"}},
		{ID: "9", Cells: map[string]string{"id": "9", "customer": "Alpha Foods", "lrn": "L-1", "received": "15/12/2023"}},
		{ID: "100", Cells: map[string]string{"id": "100", "customer": "Gamma", "lrn": "L-2", "received": "01/02/2024"}},
	}
}

func ids(rows []Row) string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return strings.Join(out, ",")
}

func TestFromRequestKeepsScreenFilters(t *testing.T) {
	r := httptest.NewRequest("GET", "/lab/allot?sort=lrn&dir=DESC&page=2&per=50&q=alp&from=2024-01-01&status=saved", nil)
	p := FromRequest(r)
	if p.Sort != "lrn" || p.Dir != "desc" || p.Page != 2 || p.PerPage != 50 || p.Query != "alp" {
		t.Fatalf("unexpected params: %+v", p)
	}
	if p.Extra.Get("from") != "2024-01-01" || p.Extra.Has("status") {
		t.Fatalf("unexpected extra: %v", p.Extra)
	}
}

func TestSortNumericDateAndCollated(t *testing.T) {
	cases := []struct {
		sort, dir, want string
	}{
		{"id", "asc", "9,10,100"},
		{"id", "desc", "100,10,9"},
		{"received", "asc", "9,10,100"},
		{"customer", "asc", "9,10,100"},
	}
	for _, tc := range cases {
		g := New("allot", testColumns, testRows(), Params{Path: "/lab/allot", Sort: tc.sort, Dir: tc.dir}, Preference{})
		if got := ids(g.Rows()); got != tc.want {
			t.Fatalf("sort %s %s: got %s want %s", tc.sort, tc.dir, got, tc.want)
		}
	}
}

func TestFilterIsCaseInsensitiveOnVisibleColumns(t *testing.T) {
	g := New("allot", testColumns, testRows(), Params{Query: "ALPHA"}, Preference{})
	if got := ids(g.Rows()); got != "9" {
		t.Fatalf("expected only row 9, got %s", got)
	}
	g = New("allot", testColumns, testRows(), Params{Query: "alpha"}, Preference{Hidden: []string{"customer"}})
	if g.Total != 0 {
		t.Fatalf("hidden columns must not match, got %d rows", g.Total)
	}
}

func TestPaginationClamps(t *testing.T) {
	rows := make([]Row, 0, 45)
	for i := 1; i <= 45; i++ {
		id := strconv.Itoa(i)
		rows = append(rows, Row{ID: id, Cells: map[string]string{"id": id}})
	}
	g := New("t", testColumns, rows, Params{Page: 9, PerPage: 3}, Preference{})
	if g.Params.PerPage != MinPerPage || g.Pages != 5 || g.Params.Page != 5 {
		t.Fatalf("unexpected clamp: per=%d pages=%d page=%d", g.Params.PerPage, g.Pages, g.Params.Page)
	}
	if len(g.PageRows()) != 5 {
		t.Fatalf("expected 5 rows on last page, got %d", len(g.PageRows()))
	}
	g = New("t", testColumns, rows, Params{PerPage: 5000}, Preference{})
	if g.Params.PerPage != MaxPerPage || g.Pages != 1 {
		t.Fatalf("expected max clamp, got per=%d pages=%d", g.Params.PerPage, g.Pages)
	}
	g = New("t", testColumns, nil, Params{}, Preference{PerPage: 50})
	if g.Params.PerPage != 50 || g.Pages != 1 || g.Params.Page != 1 {
		t.Fatalf("unexpected empty grid state: %+v pages=%d", g.Params, g.Pages)
	}
}

func TestVisibleColumnsPinnedFirstHiddenDropped(t *testing.T) {
	g := New("t", testColumns, nil, Params{}, Preference{Pinned: []string{"received", "lrn"}, Hidden: []string{"customer", "id"}})
	var keys []string
	for _, c := range g.VisibleColumns() {
		keys = append(keys, c.Key)
	}
	// id is not hideable; pinned keep declared order.
	if strings.Join(keys, ",") != "lrn,received,id" {
		t.Fatalf("unexpected column order: %v", keys)
	}
}

func TestComponentRendersSelectionActionsAndEscapes(t *testing.T) {
	rows := []Row{{
		ID:      "7",
		Cells:   map[string]string{"id": "7", "customer": "<script>x</script>"},
		Actions: rowactions.Set{Actions: []rowactions.Action{{Label: "Remove Item", Href: "/lab/allot/7/remove", Method: "POST", Confirm: "Sure?"}}},
	}}
	g := New("allot", testColumns, rows, Params{Path: "/lab/allot"}, Preference{})
	g.Selectable = true
	g.BulkAction = "/lab/allot/delete"

	var buf bytes.Buffer
	if err := g.Component().Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`data-table="allot"`, `name="ids" value="7"`, `action="/lab/allot/7/remove"`, `&lt;script&gt;`, `format=xlsx`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
	if strings.Contains(out, "<script>x") {
		t.Fatalf("cell content was not escaped")
	}
}

func TestSortLinkTogglesDirection(t *testing.T) {
	g := New("t", testColumns, nil, Params{Path: "/lab/x", Sort: "id", Dir: "asc", Query: "a b"}, Preference{})
	link := g.SortLink("id")
	if !strings.Contains(link, "dir=desc") || !strings.Contains(link, "q=a+b") {
		t.Fatalf("unexpected sort link: %s", link)
	}
}

func TestPreferenceRoundTrip(t *testing.T) {
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "grid.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	if err := sqlite.ApplyEmbeddedMigrations(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, role) VALUES (1, 'hod', 'x', 'hod')`)
		return err
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	pref, err := LoadPreference(ctx, db, 1, "allot")
	if err != nil || len(pref.Hidden) != 0 {
		t.Fatalf("expected empty preference, got %+v err=%v", pref, err)
	}
	if err := SavePreference(ctx, db, 1, "allot", testColumns, Preference{Hidden: []string{"lrn", "id", "bogus"}, Pinned: []string{"customer"}, PerPage: 500}); err != nil {
		t.Fatalf("save: %v", err)
	}
	pref, err = LoadPreference(ctx, db, 1, "allot")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if strings.Join(pref.Hidden, ",") != "lrn" || strings.Join(pref.Pinned, ",") != "customer" || pref.PerPage != MaxPerPage {
		t.Fatalf("unexpected saved preference: %+v", pref)
	}
}
