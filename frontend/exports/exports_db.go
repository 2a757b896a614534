package exports

import (
	"context"

	"github.com/uptrace/bun"

	"labdesk/infrastructure/sqlite"
)

func RecordExportRun(ctx context.Context, db *sqlite.DB, userID int64, table, format string, rowCount int) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var uid any
		if userID > 0 {
			uid = userID
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO export_runs (user_id, table_name, format, row_count, created_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`, uid, table, format, rowCount)
		return err
	})
}

func ListRecentRuns(ctx context.Context, db *sqlite.DB, limit int) ([]Run, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	runs := make([]Run, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT er.id, COALESCE(u.username, '') AS username, er.table_name, er.format, er.row_count, er.created_at
FROM export_runs er
LEFT JOIN users u ON u.id = er.user_id
ORDER BY er.created_at DESC, er.id DESC
LIMIT ?`, limit).Scan(ctx, &runs)
	})
	return runs, err
}
