package departments

import (
	"context"
	"strconv"
	"strings"

	"github.com/uptrace/bun"

	"labdesk/infrastructure/cache"
	"labdesk/infrastructure/department"
	"labdesk/infrastructure/sqlite"
	"labdesk/models"
)

const auditEntity = "departments"

// Active returns the active department list, served from c while fresh.
func Active(ctx context.Context, db *sqlite.DB, c *cache.DepartmentCache) ([]models.Department, error) {
	if c != nil {
		if items, ok := c.Get(); ok {
			return items, nil
		}
	}
	items, err := department.List(ctx, db, department.StatusActive)
	if err != nil {
		return nil, err
	}
	if c != nil {
		c.Set(items)
	}
	return items, nil
}

// Lookup finds an active department by local id. ok is false for inactive or
// unknown ids.
func Lookup(ctx context.Context, db *sqlite.DB, c *cache.DepartmentCache, id int64) (models.Department, bool, error) {
	items, err := Active(ctx, db, c)
	if err != nil {
		return models.Department{}, false, err
	}
	for _, d := range items {
		if d.ID == id {
			return d, true, nil
		}
	}
	return models.Department{}, false, nil
}

func LoadLogsPageData(ctx context.Context, db *sqlite.DB, id int64) (LogsPageData, error) {
	data := LogsPageData{DepartmentID: id, Rows: make([]LogRow, 0)}

	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewRaw(`SELECT name, status FROM departments WHERE id = ?`, id).
			Scan(ctx, &data.DepartmentName, &data.DepartmentStatus); err != nil {
			return err
		}

		type row struct {
			CreatedAt  string `bun:"created_at_display"`
			Actor      string `bun:"actor"`
			Action     string `bun:"action"`
			BeforeJSON string `bun:"before_json"`
			AfterJSON  string `bun:"after_json"`
		}
		rows := make([]row, 0)
		if err := tx.NewRaw(`
SELECT
	COALESCE(strftime('%d/%m/%Y %H:%M', al.created_at), '') AS created_at_display,
	COALESCE(u.username, '-') AS actor,
	al.action,
	COALESCE(al.before_json, '') AS before_json,
	COALESCE(al.after_json, '') AS after_json
FROM audit_logs al
LEFT JOIN users u ON u.id = al.user_id
WHERE
	al.action <> 'department.activate'
	AND (
		(al.entity_type = ? AND al.entity_id = ?)
		OR (json_valid(al.after_json) = 1 AND json_extract(al.after_json, '$.department_id') = ?)
	)
ORDER BY al.created_at DESC, al.id DESC`,
			auditEntity, strconv.FormatInt(id, 10), id,
		).Scan(ctx, &rows); err != nil {
			return err
		}

		for _, r := range rows {
			actor := strings.TrimSpace(r.Actor)
			if actor == "" {
				actor = "-"
			}
			data.Rows = append(data.Rows, LogRow{
				CreatedAt:  strings.TrimSpace(r.CreatedAt),
				Actor:      actor,
				Action:     strings.TrimSpace(r.Action),
				BeforeJSON: strings.TrimSpace(r.BeforeJSON),
				AfterJSON:  strings.TrimSpace(r.AfterJSON),
			})
		}
		return nil
	})
	return data, err
}
