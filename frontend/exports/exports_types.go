package exports

import "time"

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Table is a rendered grid flattened for download.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Run is one recorded download.
type Run struct {
	ID        int64     `bun:"id"`
	Username  string    `bun:"username"`
	TableName string    `bun:"table_name"`
	Format    string    `bun:"format"`
	RowCount  int       `bun:"row_count"`
	CreatedAt time.Time `bun:"created_at"`
}

type PageData struct {
	Runs []Run
}
