package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"

	"labdesk/infrastructure/sqlite"
	"labdesk/models"
)

// Service records backend mutations issued through the dashboard. The
// backend owns the data; the local log answers "who clicked what".
type Service struct {
	db *sqlite.DB
}

func NewService(db *sqlite.DB) *Service {
	return &Service{db: db}
}

// Write inserts an audit row inside the caller transaction.
func (s *Service) Write(ctx context.Context, tx bun.Tx, userID int64, action, entityType, entityID string, before, after any) error {
	beforeJSON, err := marshal(before)
	if err != nil {
		return err
	}
	afterJSON, err := marshal(after)
	if err != nil {
		return err
	}
	log := &models.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		BeforeJSON: beforeJSON,
		AfterJSON:  afterJSON,
	}
	_, err = tx.NewInsert().Model(log).Exec(ctx)
	return err
}

// Record writes one audit row in its own transaction. A nil service is a
// no-op so handlers can be tested without audit wiring.
func (s *Service) Record(ctx context.Context, userID int64, action, entityType, entityID string, before, after any) error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return s.Write(ctx, tx, userID, action, entityType, entityID, before, after)
	})
	if err != nil {
		return fmt.Errorf("audit %s: %w", action, err)
	}
	return nil
}

// ListForEntity returns the newest-first history of one backend record.
func (s *Service) ListForEntity(ctx context.Context, entityType, entityID string, limit int) ([]models.AuditLog, error) {
	logs := make([]models.AuditLog, 0)
	if s == nil || s.db == nil {
		return logs, nil
	}
	if limit <= 0 {
		limit = 50
	}
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&logs).
			Where("entity_type = ?", entityType).
			Where("entity_id = ?", entityID).
			OrderExpr("id DESC").
			Limit(limit).
			Scan(ctx)
	})
	return logs, err
}

func marshal(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
