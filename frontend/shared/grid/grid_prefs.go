package grid

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"labdesk/infrastructure/sqlite"
	"labdesk/models"
)

// Preference is a user's saved column layout for one table.
type Preference struct {
	Hidden  []string
	Pinned  []string
	PerPage int
}

// LoadPreference returns an empty preference when none is saved.
func LoadPreference(ctx context.Context, db *sqlite.DB, userID int64, table string) (Preference, error) {
	if db == nil || userID <= 0 {
		return Preference{}, nil
	}
	var row models.TablePreference
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&row).
			Where("tp.user_id = ?", userID).
			Where("tp.table_name = ?", table).
			Limit(1).
			Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Preference{}, nil
	}
	if err != nil {
		return Preference{}, fmt.Errorf("load table preference %s: %w", table, err)
	}
	return Preference{
		Hidden:  splitKeys(row.Hidden),
		Pinned:  splitKeys(row.Pinned),
		PerPage: row.PerPage,
	}, nil
}

// SavePreference upserts the layout after dropping keys not in columns.
func SavePreference(ctx context.Context, db *sqlite.DB, userID int64, table string, columns []Column, pref Preference) error {
	known := make(map[string]Column, len(columns))
	for _, c := range columns {
		known[c.Key] = c
	}
	hidden := make([]string, 0, len(pref.Hidden))
	for _, k := range pref.Hidden {
		if c, ok := known[k]; ok && c.Hideable {
			hidden = append(hidden, k)
		}
	}
	pinned := make([]string, 0, len(pref.Pinned))
	for _, k := range pref.Pinned {
		if _, ok := known[k]; ok {
			pinned = append(pinned, k)
		}
	}
	perPage := ClampPerPage(pref.PerPage)

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO table_preferences (user_id, table_name, hidden, pinned, per_page, updated_at)
VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(user_id, table_name) DO UPDATE SET
  hidden = excluded.hidden,
  pinned = excluded.pinned,
  per_page = excluded.per_page,
  updated_at = CURRENT_TIMESTAMP`, userID, table, strings.Join(hidden, ","), strings.Join(pinned, ","), perPage)
		if err != nil {
			return fmt.Errorf("save table preference %s: %w", table, err)
		}
		return nil
	})
}

func splitKeys(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
