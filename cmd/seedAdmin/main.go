package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"labdesk/frontend/login"
	"labdesk/infrastructure/config"
	"labdesk/infrastructure/rbac"
	"labdesk/infrastructure/sqlite"
)

func main() {
	cfg, err := config.Load(os.Getenv("LABDESK_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	seed := login.SeedUser{
		Username: getenv("ADMIN_USERNAME", "admin"),
		Role:     rbac.RoleAdmin,
		Password: os.Getenv("ADMIN_PASSWORD"),
	}
	if err := run(context.Background(), cfg, seed); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("seeded admin user (username=%s)\n", seed.Username)
}

// run migrates the configured database and upserts one login.
func run(ctx context.Context, cfg config.Config, seed login.SeedUser) error {
	if strings.TrimSpace(seed.Password) == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	db, err := sqlite.OpenDB(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(ctx, db, cfg.Migrations); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if err := login.UpsertUserPasswordHash(ctx, db, seed); err != nil {
		return fmt.Errorf("seed %s: %w", seed.Username, err)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
