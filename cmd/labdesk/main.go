package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"labdesk/infrastructure/audit"
	"labdesk/infrastructure/cache"
	"labdesk/infrastructure/config"
	httpserver "labdesk/infrastructure/http"
	"labdesk/infrastructure/labapi"
	"labdesk/infrastructure/live"
	"labdesk/infrastructure/rbac"
	"labdesk/infrastructure/session"
	"labdesk/infrastructure/sqlite"
)

func main() {
	cfg, err := config.Load(os.Getenv("LABDESK_CONFIG"))
	if err != nil {
		slog.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)})))

	db, err := sqlite.OpenDB(cfg.SQLitePath)
	if err != nil {
		slog.Error("open db", slog.String("path", cfg.SQLitePath), slog.Any("err", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, cfg.Migrations); err != nil {
		slog.Error("apply migrations", slog.Any("err", err))
		os.Exit(1)
	}

	api, err := labapi.New(cfg.API.BaseURL,
		labapi.WithToken(cfg.API.Token),
		labapi.WithTimeout(cfg.API.Timeout),
		labapi.WithBulkWorkers(cfg.API.BulkWorkers),
	)
	if err != nil {
		slog.Error("lab api client", slog.Any("err", err))
		os.Exit(1)
	}
	session.Lifetime = cfg.Session.Lifetime

	rbacCache := cache.NewRbacRolesCache()
	server := httpserver.NewServer(cfg.Addr, httpserver.Deps{
		DB:              db,
		API:             api,
		SessionCache:    cache.NewUserSessionCache(),
		UserCache:       cache.NewUserCache(),
		DepartmentCache: cache.NewDepartmentCache(5 * time.Minute),
		RbacCache:       rbacCache,
		Rbac:            rbac.New(rbacCache),
		Audit:           audit.NewService(db),
		Hub:             live.NewHub(),
	})
	if err := server.Start(); err != nil {
		slog.Error("start server", slog.Any("err", err))
		os.Exit(1)
	}
	slog.Info("labdesk listening", slog.String("addr", cfg.Addr), slog.String("api", cfg.API.BaseURL))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		slog.Error("graceful shutdown", slog.Any("err", err))
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
