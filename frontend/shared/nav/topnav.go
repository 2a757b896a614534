package nav

import "labdesk/models"

// Link is one top navigation entry. Code is the RBAC resource code that
// must be granted for the link to show.
type Link struct {
	Label  string
	Href   string
	Code   string
	Active bool
}

// TopNavData is shared with page renderers.
type TopNavData struct {
	Username   string
	Role       string
	Department string
	Links      []Link
}

var screens = []Link{
	{Label: "Allot", Href: "/lab/allot", Code: "ALLOT_LIST_VIEW"},
	{Label: "Assign", Href: "/lab/assign", Code: "HOD_QUEUE_VIEW"},
	{Label: "Calibration", Href: "/lab/calibration", Code: "CALIBRATION_VIEW"},
	{Label: "Documents", Href: "/lab/documents", Code: "DOCUMENTS_VIEW"},
	{Label: "Training", Href: "/lab/training", Code: "TRAINING_VIEW"},
	{Label: "Feedback", Href: "/lab/feedback", Code: "FEEDBACK_VIEW"},
	{Label: "Departments", Href: "/lab/departments", Code: "DEPARTMENTS_VIEW"},
	{Label: "Users", Href: "/lab/admin/users", Code: "ADMIN_USERS_LIST_VIEW"},
	{Label: "Columns", Href: "/lab/settings/columns", Code: "SETTINGS_COLUMNS_VIEW"},
	{Label: "Help", Href: "/lab/help", Code: "HELP_VIEW"},
}

func BuildTopNavData(session models.Session, currentPath string) TopNavData {
	data := TopNavData{Username: session.User.Username, Role: session.User.Role}
	for _, l := range screens {
		if session.ScreenPermissions[l.Code] == 0 {
			continue
		}
		l.Active = len(currentPath) >= len(l.Href) && currentPath[:len(l.Href)] == l.Href
		data.Links = append(data.Links, l)
	}
	return data
}
