package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"labdesk/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "lab.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime caller unavailable")
	require.NoError(t, ApplyMigrations(context.Background(), db, filepath.Join(filepath.Dir(file), "migrations")))
	return db
}

func countDepartments(t *testing.T, db *DB, code string) int {
	t.Helper()
	var n int
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		var err error
		n, err = tx.NewSelect().Model((*models.Department)(nil)).Where("code = ?", code).Count(ctx)
		return err
	})
	require.NoError(t, err)
	return n
}

func insertDepartment(ctx context.Context, tx bun.Tx, code string) error {
	_, err := tx.NewInsert().Model(&models.Department{Name: "Dept " + code, Code: code, BackendID: code, Status: "active"}).Exec(ctx)
	return err
}

func TestWithWriteTx(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return insertDepartment(ctx, tx, "CHEM")
	}))
	require.Equal(t, 1, countDepartments(t, db, "CHEM"))

	boom := errors.New("backend refused")
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := insertDepartment(ctx, tx, "MICRO"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Zero(t, countDepartments(t, db, "MICRO"), "failed tx must roll back")
}

func TestWithReadTxRejectsWrite(t *testing.T) {
	db := openTestDB(t)

	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return insertDepartment(ctx, tx, "RO")
	})
	require.Error(t, err)
	require.Zero(t, countDepartments(t, db, "RO"))
}

func TestForeignKeysEnforced(t *testing.T) {
	db := openTestDB(t)

	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&models.Session{ID: "orphan", UserID: 999, ExpiresAt: time.Now().Add(time.Hour)}).Exec(ctx)
		return err
	})
	require.Error(t, err, "session without a user must be rejected")
}
