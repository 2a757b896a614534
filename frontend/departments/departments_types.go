package departments

type DepartmentRow struct {
	ID        int64
	Name      string
	Code      string
	BackendID string
	Status    string
	IsCurrent bool
}

type PageData struct {
	Filter  string
	IsAdmin bool
	Rows    []DepartmentRow
}

type LogsPageData struct {
	DepartmentID     int64
	DepartmentName   string
	DepartmentStatus string
	Rows             []LogRow
}

type LogRow struct {
	CreatedAt  string
	Actor      string
	Action     string
	BeforeJSON string
	AfterJSON  string
}
