package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User represents an authenticated dashboard user.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,unique,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Role         string    `bun:"role,notnull"`
	EmployeeID   string    `bun:"employee_id,notnull,default:''"`
	DepartmentID *int64    `bun:"department_id"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Session is used by middleware and auth handlers.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID                 string         `bun:"id,pk"`
	UserID             int64          `bun:"user_id,notnull"`
	User               User           `bun:"rel:belongs-to,join:user_id=id"`
	UserRoles          []string       `bun:"-"`
	ScreenPermissions  map[string]int `bun:"-"`
	ActiveDepartmentID *int64         `bun:"active_department_id"`
	ExpiresAt          time.Time      `bun:"expires_at,notnull"`
	CreatedAt          time.Time      `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt          time.Time      `bun:"updated_at,notnull,default:current_timestamp"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Department is a lab section; HOD queues and chemist lists are scoped by it.
type Department struct {
	bun.BaseModel `bun:"table:departments,alias:d"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull,unique"`
	Code      string    `bun:"code,notnull,unique"`
	BackendID string    `bun:"backend_id,notnull"`
	Status    string    `bun:"status,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// TablePreference stores per-user column visibility and pinning for a grid.
type TablePreference struct {
	bun.BaseModel `bun:"table:table_preferences,alias:tp"`

	UserID    int64     `bun:"user_id,pk"`
	TableName string    `bun:"table_name,pk"`
	Hidden    string    `bun:"hidden,notnull,default:''"`
	Pinned    string    `bun:"pinned,notnull,default:''"`
	PerPage   int       `bun:"per_page,notnull,default:25"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// AuditLog captures immutable change history for backend mutations issued
// through the dashboard.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     int64     `bun:"user_id,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
