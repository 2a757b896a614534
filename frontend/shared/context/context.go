package context

import (
	"context"

	"labdesk/models"
)

type sessionKey struct{}

func NewContextWithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func GetSessionFromContext(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(models.Session)
	return s, ok
}

// SessionUserID returns 0 when the request is not authenticated.
func SessionUserID(ctx context.Context) int64 {
	if s, ok := GetSessionFromContext(ctx); ok {
		return s.UserID
	}
	return 0
}

// EmployeeID is the backend employee id of the signed-in user.
func EmployeeID(ctx context.Context) string {
	if s, ok := GetSessionFromContext(ctx); ok {
		return s.User.EmployeeID
	}
	return ""
}

type departmentKey struct{}

// NewContextWithDepartment stores the session's active department.
func NewContextWithDepartment(ctx context.Context, d models.Department) context.Context {
	return context.WithValue(ctx, departmentKey{}, d)
}

func GetDepartmentFromContext(ctx context.Context) (models.Department, bool) {
	d, ok := ctx.Value(departmentKey{}).(models.Department)
	return d, ok && d.ID > 0
}
