package audit

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"labdesk/infrastructure/sqlite"
)

func openAuditTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "audit-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestRecordAndListForEntity(t *testing.T) {
	db := openAuditTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	if err := svc.Record(ctx, 7, "allot.remove", "trf_product", "41", map[string]any{"id": 41}, nil); err != nil {
		t.Fatalf("record 1: %v", err)
	}
	if err := svc.Record(ctx, 7, "allot.quantity", "trf_product", "41", nil, map[string]any{"qty": "20"}); err != nil {
		t.Fatalf("record 2: %v", err)
	}
	if err := svc.Record(ctx, 7, "allot.quantity", "trf_product", "42", nil, nil); err != nil {
		t.Fatalf("record 3: %v", err)
	}

	logs, err := svc.ListForEntity(ctx, "trf_product", "41", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(logs))
	}
	if logs[0].Action != "allot.quantity" || logs[0].AfterJSON != `{"qty":"20"}` {
		t.Fatalf("unexpected newest row: %+v", logs[0])
	}
	if logs[1].BeforeJSON != `{"id":41}` {
		t.Fatalf("unexpected before json: %q", logs[1].BeforeJSON)
	}
}

func TestNilServiceIsNoop(t *testing.T) {
	var svc *Service
	if err := svc.Record(context.Background(), 1, "x", "y", "z", nil, nil); err != nil {
		t.Fatalf("expected nil service noop, got %v", err)
	}
}
