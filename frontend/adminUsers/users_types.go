package adminusers

import "labdesk/frontend/shared/html"

type UserView struct {
	ID             int64  `bun:"id"`
	Username       string `bun:"username"`
	Role           string `bun:"role"`
	EmployeeID     string `bun:"employee_id"`
	DepartmentID   *int64 `bun:"department_id"`
	DepartmentName string `bun:"department_name"`
}

type CreateUserInput struct {
	Username     string
	Password     string
	Role         string
	EmployeeID   string
	DepartmentID *int64
}

type UpdateUserInput struct {
	ID           int64
	Role         string
	EmployeeID   string
	DepartmentID *int64
}

type PageData struct {
	Users       []UserView
	Roles       []string
	Departments []html.Option
}
