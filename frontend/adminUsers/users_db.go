package adminusers

import (
	"context"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	"labdesk/frontend/login"
	"labdesk/infrastructure/argon"
	"labdesk/infrastructure/rbac"
	"labdesk/infrastructure/sqlite"
	"labdesk/models"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrInvalidRole      = errors.New("invalid role")
	ErrUsernameExists   = errors.New("username already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmployeeRequired = errors.New("employee id is required for lab roles")
)

func LoadUsers(ctx context.Context, db *sqlite.DB) ([]UserView, error) {
	users := make([]UserView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT u.id, u.username, u.role, u.employee_id, u.department_id, COALESCE(d.name, '') AS department_name
FROM users u
LEFT JOIN departments d ON d.id = u.department_id
ORDER BY u.username COLLATE NOCASE ASC`).Scan(ctx, &users)
	})
	return users, err
}

// validateProfile enforces the role and, for non-admin roles, an employee id
// since document and chemist actions key off it.
func validateProfile(role, employeeID string) error {
	if !rbac.ValidRole(role) {
		return ErrInvalidRole
	}
	if role != rbac.RoleAdmin && employeeID == "" {
		return ErrEmployeeRequired
	}
	return nil
}

func CreateUser(ctx context.Context, db *sqlite.DB, in CreateUserInput) (models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Password = strings.TrimSpace(in.Password)
	in.Role = strings.TrimSpace(in.Role)
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	if in.Username == "" {
		return models.User{}, ErrUsernameRequired
	}
	if in.Password == "" {
		return models.User{}, ErrPasswordRequired
	}
	if err := validateProfile(in.Role, in.EmployeeID); err != nil {
		return models.User{}, err
	}
	if err := login.ValidatePasswordPolicy(in.Password); err != nil {
		return models.User{}, err
	}
	hash, err := argon.CreateHash(in.Password, argon.DefaultParams)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Username:     in.Username,
		PasswordHash: hash,
		Role:         in.Role,
		EmployeeID:   in.EmployeeID,
		DepartmentID: in.DepartmentID,
	}
	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*models.User)(nil)).Where("LOWER(username) = ?", strings.ToLower(in.Username)).Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrUsernameExists
		}
		_, err = tx.NewInsert().Model(&user).Exec(ctx)
		return err
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdateUser changes role, employee id and home department. It returns the
// previous row for auditing.
func UpdateUser(ctx context.Context, db *sqlite.DB, in UpdateUserInput) (models.User, error) {
	in.Role = strings.TrimSpace(in.Role)
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	if err := validateProfile(in.Role, in.EmployeeID); err != nil {
		return models.User{}, err
	}
	var before models.User
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(&before).Where("id = ?", in.ID).Scan(ctx); err != nil {
			return ErrUserNotFound
		}
		_, err := tx.NewUpdate().Model((*models.User)(nil)).
			Set("role = ?", in.Role).
			Set("employee_id = ?", in.EmployeeID).
			Set("department_id = ?", in.DepartmentID).
			Set("updated_at = CURRENT_TIMESTAMP").
			Where("id = ?", in.ID).
			Exec(ctx)
		return err
	})
	return before, err
}

// DeleteUserSessions signs the user out everywhere.
func DeleteUserSessions(ctx context.Context, db *sqlite.DB, userID int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.Session)(nil)).Where("user_id = ?", userID).Exec(ctx)
		return err
	})
}
