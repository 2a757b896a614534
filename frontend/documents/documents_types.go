package documents

import (
	"labdesk/frontend/shared/grid"
	"labdesk/frontend/shared/rowactions"
	"labdesk/infrastructure/labapi"
	"labdesk/models"
)

const TableName = "documents"

const listPath = "/lab/documents"

type PageData struct {
	Grid      *grid.Grid
	LoadError string
}

type DetailData struct {
	Document labapi.MasterDocument
	Actions  rowactions.Set
	History  []models.AuditLog
}

type FormData struct {
	Input  labapi.DocumentInput
	Date   string // YYYY-MM-DD for the date input
	Action string
}

type DecideData struct {
	Document labapi.MasterDocument
	Decision labapi.Decision
}

var decisionLabels = map[labapi.Decision]string{
	labapi.DecisionReview:   "Review",
	labapi.DecisionApprove:  "Approve",
	labapi.DecisionReject:   "Reject",
	labapi.DecisionObsolete: "Mark Obsolete",
}
