// Package grid renders the filterable, sortable, paginated tables every
// lab screen shows.
package grid

import (
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"labdesk/frontend/shared/dates"
	"labdesk/frontend/shared/rowactions"
)

const (
	DefaultPerPage = 25
	MinPerPage     = 10
	MaxPerPage     = 200
)

type Column struct {
	Key      string
	Label    string
	Sortable bool
	Hideable bool
}

// Row is one projected record. Cells are plain strings keyed by column key.
type Row struct {
	ID      string
	Cells   map[string]string
	Actions rowactions.Set
	Class   string
}

// Params is the table state carried in the query string.
type Params struct {
	Path    string
	Sort    string
	Dir     string
	Query   string
	Page    int
	PerPage int
	// Extra holds page filters (from, to, status) that links must keep.
	Extra url.Values
}

// FromRequest reads sort, dir, page, per and q. Unknown keys are kept in
// Extra so sort and page links do not drop screen filters.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()
	p := Params{
		Path:  r.URL.Path,
		Sort:  strings.TrimSpace(q.Get("sort")),
		Dir:   strings.ToLower(strings.TrimSpace(q.Get("dir"))),
		Query: strings.TrimSpace(q.Get("q")),
		Extra: url.Values{},
	}
	if p.Dir != "desc" {
		p.Dir = "asc"
	}
	p.Page, _ = strconv.Atoi(q.Get("page"))
	p.PerPage, _ = strconv.Atoi(q.Get("per"))
	for k, v := range q {
		switch k {
		case "sort", "dir", "page", "per", "q", "status", "error", "format":
			continue
		}
		p.Extra[k] = v
	}
	return p
}

func ClampPerPage(n int) int {
	switch {
	case n <= 0:
		return DefaultPerPage
	case n < MinPerPage:
		return MinPerPage
	case n > MaxPerPage:
		return MaxPerPage
	}
	return n
}

// Grid is a table ready to render. Build it with New.
type Grid struct {
	Name       string
	Columns    []Column
	Params     Params
	Selectable bool
	// BulkAction is the POST target of the selection form; empty hides it.
	BulkAction string
	BulkLabel  string
	Empty      string

	hidden map[string]bool
	pinned []string

	matched []Row
	Total   int
	Pages   int
}

// New filters, sorts and paginates rows. Pref supplies hidden and pinned
// columns and the per-page default when the query string has none.
func New(name string, columns []Column, rows []Row, p Params, pref Preference) *Grid {
	g := &Grid{
		Name:    name,
		Columns: columns,
		Params:  p,
		Empty:   "No records found.",
		hidden:  make(map[string]bool),
	}
	for _, key := range pref.Hidden {
		if col, ok := g.column(key); ok && col.Hideable {
			g.hidden[key] = true
		}
	}
	for _, key := range pref.Pinned {
		if _, ok := g.column(key); ok {
			g.pinned = append(g.pinned, key)
		}
	}
	if g.Params.PerPage <= 0 {
		g.Params.PerPage = pref.PerPage
	}
	g.Params.PerPage = ClampPerPage(g.Params.PerPage)

	g.matched = g.filter(rows)
	g.sortRows()
	g.Total = len(g.matched)
	g.Pages = (g.Total + g.Params.PerPage - 1) / g.Params.PerPage
	if g.Pages < 1 {
		g.Pages = 1
	}
	if g.Params.Page < 1 {
		g.Params.Page = 1
	}
	if g.Params.Page > g.Pages {
		g.Params.Page = g.Pages
	}
	return g
}

func (g *Grid) column(key string) (Column, bool) {
	for _, c := range g.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// VisibleColumns returns pinned columns first, in declared order, then the
// remaining unhidden columns.
func (g *Grid) VisibleColumns() []Column {
	pinned := make(map[string]bool, len(g.pinned))
	for _, k := range g.pinned {
		pinned[k] = true
	}
	out := make([]Column, 0, len(g.Columns))
	for _, c := range g.Columns {
		if pinned[c.Key] && !g.hidden[c.Key] {
			out = append(out, c)
		}
	}
	for _, c := range g.Columns {
		if !pinned[c.Key] && !g.hidden[c.Key] {
			out = append(out, c)
		}
	}
	return out
}

func (g *Grid) IsPinned(key string) bool {
	for _, k := range g.pinned {
		if k == key {
			return true
		}
	}
	return false
}

// Rows returns every filtered and sorted row across all pages.
func (g *Grid) Rows() []Row { return g.matched }

// PageRows returns the rows of the current page.
func (g *Grid) PageRows() []Row {
	start := (g.Params.Page - 1) * g.Params.PerPage
	if start >= len(g.matched) {
		return nil
	}
	end := start + g.Params.PerPage
	if end > len(g.matched) {
		end = len(g.matched)
	}
	return g.matched[start:end]
}

func (g *Grid) filter(rows []Row) []Row {
	needle := strings.ToLower(g.Params.Query)
	if needle == "" {
		return append([]Row(nil), rows...)
	}
	visible := g.VisibleColumns()
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		for _, c := range visible {
			if strings.Contains(strings.ToLower(row.Cells[c.Key]), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

func (g *Grid) sortRows() {
	col, ok := g.column(g.Params.Sort)
	if !ok || !col.Sortable {
		g.Params.Sort = ""
		return
	}
	cl := collate.New(language.English, collate.IgnoreCase, collate.Loose)
	desc := g.Params.Dir == "desc"
	sort.SliceStable(g.matched, func(i, j int) bool {
		c := compareCells(cl, g.matched[i].Cells[col.Key], g.matched[j].Cells[col.Key])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// compareCells orders numbers numerically, DD/MM/YYYY dates chronologically
// and everything else by collation.
func compareCells(cl *collate.Collator, a, b string) int {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if fa, errA := strconv.ParseFloat(a, 64); errA == nil {
		if fb, errB := strconv.ParseFloat(b, 64); errB == nil {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	if strings.Count(a, "/") == 2 && strings.Count(b, "/") == 2 {
		ia, errA := dates.ToISO(a)
		ib, errB := dates.ToISO(b)
		if errA == nil && errB == nil {
			return strings.Compare(ia, ib)
		}
	}
	return cl.CompareString(a, b)
}

// Link builds a URL for this table with the given overrides applied.
func (g *Grid) Link(overrides map[string]string) string {
	q := url.Values{}
	for k, v := range g.Params.Extra {
		q[k] = append([]string(nil), v...)
	}
	if g.Params.Query != "" {
		q.Set("q", g.Params.Query)
	}
	if g.Params.Sort != "" {
		q.Set("sort", g.Params.Sort)
		q.Set("dir", g.Params.Dir)
	}
	if g.Params.Page > 1 {
		q.Set("page", strconv.Itoa(g.Params.Page))
	}
	if g.Params.PerPage != DefaultPerPage {
		q.Set("per", strconv.Itoa(g.Params.PerPage))
	}
	for k, v := range overrides {
		if v == "" {
			q.Del(k)
			continue
		}
		q.Set(k, v)
	}
	if len(q) == 0 {
		return g.Params.Path
	}
	return g.Params.Path + "?" + q.Encode()
}

// SortLink toggles direction when key is already the sort column.
func (g *Grid) SortLink(key string) string {
	dir := "asc"
	if g.Params.Sort == key && g.Params.Dir == "asc" {
		dir = "desc"
	}
	return g.Link(map[string]string{"sort": key, "dir": dir, "page": ""})
}
