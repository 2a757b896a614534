// Package department stores the local department list that scopes HOD queues
// and chemist lists, and tracks each session's active department.
package department

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/uptrace/bun"

	"labdesk/infrastructure/sqlite"
	"labdesk/models"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var (
	ErrNameRequired      = errors.New("department name is required")
	ErrBackendIDRequired = errors.New("backend department id is required")
)

type CreateInput struct {
	Name      string
	Code      string
	BackendID string
	Status    string
}

func NormalizeStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusInactive:
		return StatusInactive
	default:
		return StatusActive
	}
}

func NormalizeListFilter(filter string) string {
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case StatusInactive:
		return StatusInactive
	case "all":
		return "all"
	default:
		return StatusActive
	}
}

func List(ctx context.Context, db *sqlite.DB, filter string) ([]models.Department, error) {
	filter = NormalizeListFilter(filter)
	departments := make([]models.Department, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewSelect().Model(&departments).OrderExpr("name ASC, id ASC")
		if filter != "all" {
			q = q.Where("status = ?", filter)
		}
		return q.Scan(ctx)
	})
	return departments, err
}

func LoadByID(ctx context.Context, db *sqlite.DB, id int64) (models.Department, error) {
	var d models.Department
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&d).Where("id = ?", id).Limit(1).Scan(ctx)
	})
	return d, err
}

// BackendID returns the backend id used in department query parameters, or
// "" when id is nil or unknown.
func BackendID(ctx context.Context, db *sqlite.DB, id *int64) (string, error) {
	if id == nil || *id <= 0 {
		return "", nil
	}
	d, err := LoadByID(ctx, db, *id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return d.BackendID, nil
}

// ResolveSessionActiveDepartmentID keeps current when it still exists and is
// active, then falls back to the user's home department, then to the first
// active department.
func ResolveSessionActiveDepartmentID(ctx context.Context, db *sqlite.DB, home, current *int64) (*int64, error) {
	for _, candidate := range []*int64{current, home} {
		if candidate == nil || *candidate <= 0 {
			continue
		}
		d, err := LoadByID(ctx, db, *candidate)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if d.Status == StatusActive {
			return int64Ptr(d.ID), nil
		}
	}

	var id int64
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT id FROM departments WHERE status = ? ORDER BY name ASC, id ASC LIMIT 1`, StatusActive).Scan(ctx, &id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return int64Ptr(id), nil
}

func SetSessionActiveDepartmentID(ctx context.Context, db *sqlite.DB, sessionID string, departmentID *int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if departmentID == nil || *departmentID <= 0 {
			_, err := tx.ExecContext(ctx, `UPDATE sessions SET active_department_id = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, sessionID)
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE sessions SET active_department_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, *departmentID, sessionID)
		return err
	})
}

func Create(ctx context.Context, db *sqlite.DB, input CreateInput) (models.Department, error) {
	var d models.Department
	name := strings.TrimSpace(input.Name)
	backendID := strings.TrimSpace(input.BackendID)
	if name == "" {
		return d, ErrNameRequired
	}
	if backendID == "" {
		return d, ErrBackendIDRequired
	}
	code := normalizeCode(input.Code)
	if code == "" {
		code = normalizeCode(name)
	}
	if code == "" {
		code = "department"
	}

	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		uniqueCode, err := nextUniqueCode(ctx, tx, code)
		if err != nil {
			return err
		}
		d = models.Department{
			Name:      name,
			Code:      uniqueCode,
			BackendID: backendID,
			Status:    NormalizeStatus(input.Status),
		}
		_, err = tx.NewInsert().Model(&d).Exec(ctx)
		return err
	})
	return d, err
}

func SetStatus(ctx context.Context, db *sqlite.DB, id int64, status string) error {
	status = NormalizeStatus(status)
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE departments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
		return err
	})
}

// SyncResult counts rows touched by Sync.
type SyncResult struct {
	Created int
	Renamed int
}

// Sync upserts backend departments by backend id. Local status is left as is
// so a department switched off locally stays off.
func Sync(ctx context.Context, db *sqlite.DB, remote []RemoteDepartment) (SyncResult, error) {
	var res SyncResult
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for _, r := range remote {
			backendID := strings.TrimSpace(r.BackendID)
			name := strings.TrimSpace(r.Name)
			if backendID == "" || name == "" {
				continue
			}
			var existing models.Department
			err := tx.NewSelect().Model(&existing).Where("backend_id = ?", backendID).Limit(1).Scan(ctx)
			switch {
			case errors.Is(err, sql.ErrNoRows):
				code := normalizeCode(r.Code)
				if code == "" {
					code = normalizeCode(name)
				}
				uniqueCode, err := nextUniqueCode(ctx, tx, code)
				if err != nil {
					return err
				}
				d := models.Department{Name: name, Code: uniqueCode, BackendID: backendID, Status: StatusActive}
				if _, err := tx.NewInsert().Model(&d).Exec(ctx); err != nil {
					return fmt.Errorf("insert department %s: %w", backendID, err)
				}
				res.Created++
			case err != nil:
				return err
			case existing.Name != name:
				if _, err := tx.ExecContext(ctx, `UPDATE departments SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, name, existing.ID); err != nil {
					return fmt.Errorf("rename department %s: %w", backendID, err)
				}
				res.Renamed++
			}
		}
		return nil
	})
	return res, err
}

// RemoteDepartment is the subset of a backend department Sync needs.
type RemoteDepartment struct {
	BackendID string
	Name      string
	Code      string
}

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

func normalizeCode(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = slugRegex.ReplaceAllString(v, "-")
	v = strings.Trim(v, "-")
	if len(v) > 64 {
		v = v[:64]
	}
	return v
}

func nextUniqueCode(ctx context.Context, tx bun.Tx, baseCode string) (string, error) {
	try := baseCode
	for i := 0; i < 1000; i++ {
		var count int
		if err := tx.NewRaw(`SELECT COUNT(1) FROM departments WHERE code = ?`, try).Scan(ctx, &count); err != nil {
			return "", err
		}
		if count == 0 {
			return try, nil
		}
		try = fmt.Sprintf("%s-%d", baseCode, i+2)
	}
	return "", fmt.Errorf("unable to find unique department code")
}

func int64Ptr(v int64) *int64 {
	return &v
}
