package login

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"labdesk/infrastructure/argon"
	"labdesk/infrastructure/department"
	"labdesk/infrastructure/rbac"
	"labdesk/infrastructure/sqlite"
	"labdesk/models"
)

func findUserByUsername(ctx context.Context, tx bun.Tx, username string) (models.User, error) {
	var user models.User
	err := tx.NewSelect().
		Model(&user).
		Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// authenticateUser checks the password and upgrades hashes made with weaker
// argon2 parameters. A failed upgrade does not fail the login.
func authenticateUser(ctx context.Context, db *sqlite.DB, username, password string) (models.User, error) {
	var user models.User
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		user, err = findUserByUsername(ctx, tx, username)
		return err
	})
	if err != nil {
		return models.User{}, err
	}

	ok, err := argon.ComparePasswordAndHash(password, user.PasswordHash)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, sql.ErrNoRows
	}

	if argon.NeedsRehash(user.PasswordHash, argon.DefaultParams) {
		if err := rehashPassword(ctx, db, user.ID, password); err != nil {
			slog.Warn("password rehash failed", slog.Int64("user_id", user.ID), slog.Any("err", err))
		}
	}
	return user, nil
}

func rehashPassword(ctx context.Context, db *sqlite.DB, userID int64, password string) error {
	hash, err := argon.CreateHash(password, argon.DefaultParams)
	if err != nil {
		return err
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().Model((*models.User)(nil)).
			Set("password_hash = ?", hash).
			Set("updated_at = CURRENT_TIMESTAMP").
			Where("id = ?", userID).
			Exec(ctx)
		return err
	})
}

// persistSession stores the session with the user's home department active,
// falling back to the first active department.
func persistSession(ctx context.Context, db *sqlite.DB, session *models.Session) error {
	active, err := department.ResolveSessionActiveDepartmentID(ctx, db, session.User.DepartmentID, nil)
	if err != nil {
		return err
	}
	session.ActiveDepartmentID = active
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&models.Session{
			ID:                 session.ID,
			UserID:             session.UserID,
			ActiveDepartmentID: session.ActiveDepartmentID,
			ExpiresAt:          session.ExpiresAt,
		}).Exec(ctx)
		return err
	})
}

func DeleteSessionByToken(ctx context.Context, db *sqlite.DB, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.Session)(nil)).Where("id = ?", token).Exec(ctx)
		return err
	})
}

func LoadSessionByToken(ctx context.Context, db *sqlite.DB, token string) (models.Session, error) {
	var session models.Session
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().
			Model(&session).
			Relation("User").
			Where("s.id = ?", token).
			Limit(1).
			Scan(ctx); err != nil {
			return err
		}
		session.UserRoles = []string{session.User.Role}
		if session.ScreenPermissions == nil {
			session.ScreenPermissions = make(map[string]int)
		}
		return nil
	})
	if err != nil {
		return models.Session{}, err
	}
	if session.Expired() {
		_ = DeleteSessionByToken(ctx, db, token)
		return models.Session{}, sql.ErrNoRows
	}
	return session, nil
}

// SeedUser is the input for creating or resetting a local login.
type SeedUser struct {
	Username     string
	Role         string
	Password     string
	EmployeeID   string
	DepartmentID *int64
}

// UpsertUserPasswordHash creates the user or resets its password, role,
// employee id and department.
func UpsertUserPasswordHash(ctx context.Context, db *sqlite.DB, in SeedUser) error {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return errors.New("username is required")
	}
	if !rbac.ValidRole(in.Role) {
		return errors.New("invalid role")
	}
	rawPassword := strings.TrimSpace(in.Password)
	if rawPassword == "" {
		return errors.New("password is required")
	}
	if err := ValidatePasswordPolicy(rawPassword); err != nil {
		return err
	}
	hash, err := argon.CreateHash(rawPassword, argon.DefaultParams)
	if err != nil {
		return err
	}

	now := time.Now()
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO users (username, password_hash, role, employee_id, department_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(username) DO UPDATE SET
  password_hash = excluded.password_hash,
  role = excluded.role,
  employee_id = excluded.employee_id,
  department_id = excluded.department_id,
  updated_at = excluded.updated_at`, username, hash, in.Role, strings.TrimSpace(in.EmployeeID), in.DepartmentID, now, now)
		return err
	})
}
