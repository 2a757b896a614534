package department

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"

	"labdesk/infrastructure/sqlite"
)

func openDepartmentTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "department-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestCreateMakesUniqueCodes(t *testing.T) {
	db := openDepartmentTestDB(t)
	ctx := context.Background()

	a, err := Create(ctx, db, CreateInput{Name: "Chemical Lab", BackendID: "11"})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := Create(ctx, db, CreateInput{Name: "Chemical Lab 2", Code: "chemical lab", BackendID: "12"})
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if a.Code != "chemical-lab" || b.Code != "chemical-lab-2" {
		t.Fatalf("unexpected codes: %q %q", a.Code, b.Code)
	}
	if _, err := Create(ctx, db, CreateInput{Name: "x"}); err != ErrBackendIDRequired {
		t.Fatalf("expected ErrBackendIDRequired, got %v", err)
	}
}

func TestResolveSessionActiveDepartmentID(t *testing.T) {
	db := openDepartmentTestDB(t)
	ctx := context.Background()

	micro, _ := Create(ctx, db, CreateInput{Name: "Microbiology", BackendID: "2"})
	chem, _ := Create(ctx, db, CreateInput{Name: "Chemical", BackendID: "1"})
	off, _ := Create(ctx, db, CreateInput{Name: "Archive", BackendID: "9", Status: StatusInactive})

	got, err := ResolveSessionActiveDepartmentID(ctx, db, nil, nil)
	if err != nil || got == nil || *got != chem.ID {
		t.Fatalf("expected first active by name %d, got %v err=%v", chem.ID, got, err)
	}
	got, _ = ResolveSessionActiveDepartmentID(ctx, db, &micro.ID, nil)
	if got == nil || *got != micro.ID {
		t.Fatalf("expected home department, got %v", got)
	}
	got, _ = ResolveSessionActiveDepartmentID(ctx, db, &micro.ID, &off.ID)
	if got == nil || *got != micro.ID {
		t.Fatalf("inactive current must fall back to home, got %v", got)
	}
	missing := int64(999)
	got, _ = ResolveSessionActiveDepartmentID(ctx, db, nil, &missing)
	if got == nil || *got != chem.ID {
		t.Fatalf("missing current must fall back, got %v", got)
	}
}

func TestSetSessionActiveDepartmentAndBackendID(t *testing.T) {
	db := openDepartmentTestDB(t)
	ctx := context.Background()
	chem, _ := Create(ctx, db, CreateInput{Name: "Chemical", BackendID: "77"})

	if err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, role) VALUES (1, 'hod', 'x', 'hod')`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO sessions (id, user_id, expires_at) VALUES ('tok', 1, DATETIME('now', '+1 hour'))`)
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := SetSessionActiveDepartmentID(ctx, db, "tok", &chem.ID); err != nil {
		t.Fatalf("set active: %v", err)
	}
	var stored int64
	if err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT active_department_id FROM sessions WHERE id = 'tok'`).Scan(ctx, &stored)
	}); err != nil || stored != chem.ID {
		t.Fatalf("expected stored %d, got %d err=%v", chem.ID, stored, err)
	}

	backendID, err := BackendID(ctx, db, &chem.ID)
	if err != nil || backendID != "77" {
		t.Fatalf("expected backend id 77, got %q err=%v", backendID, err)
	}
	if backendID, _ := BackendID(ctx, db, nil); backendID != "" {
		t.Fatalf("nil id must give empty backend id")
	}
}

func TestSyncCreatesAndRenames(t *testing.T) {
	db := openDepartmentTestDB(t)
	ctx := context.Background()
	if _, err := Create(ctx, db, CreateInput{Name: "Chem", BackendID: "1", Status: StatusInactive}); err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := Sync(ctx, db, []RemoteDepartment{
		{BackendID: "1", Name: "Chemical"},
		{BackendID: "2", Name: "Microbiology", Code: "MICRO"},
		{BackendID: "", Name: "ignored"},
	})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if res.Created != 1 || res.Renamed != 1 {
		t.Fatalf("unexpected sync result: %+v", res)
	}
	all, err := List(ctx, db, "all")
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 departments, got %d err=%v", len(all), err)
	}
	for _, d := range all {
		if d.BackendID == "1" && (d.Name != "Chemical" || d.Status != StatusInactive) {
			t.Fatalf("rename must keep local status: %+v", d)
		}
		if d.BackendID == "2" && d.Code != "micro" {
			t.Fatalf("unexpected code: %+v", d)
		}
	}
}
