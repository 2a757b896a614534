package labapi

import (
	"context"
	"fmt"
	"net/url"
)

// Document approval_status values as sent by the backend.
const (
	ApprovalPendingReview   = 0
	ApprovalPendingApproval = 1
	ApprovalApproved        = 2
	ApprovalRejected        = 3
)

// MasterDocument is a controlled lab document (SOP, method, form).
type MasterDocument struct {
	ID             FlexString `json:"id"`
	Title          FlexString `json:"title"`
	Number         FlexString `json:"documentno"`
	Department     FlexString `json:"department"`
	Revision       FlexString `json:"revision"`
	EffectiveDate  FlexString `json:"effectivedate"`
	CreatedBy      FlexString `json:"createdby"`
	ReviewedBy     FlexString `json:"reviewedby"`
	ApprovedBy     FlexString `json:"approvedby"`
	Remarks        FlexString `json:"remarks"`
	FileURL        FlexString `json:"fileurl"`
	Status         FlexInt    `json:"status"`
	ApprovalStatus FlexInt    `json:"approval_status"`
	ObsoleteStatus FlexInt    `json:"obsoletestatus"`
}

type DocumentFilter struct {
	Department string
	Status     string
}

func (c *Client) Documents(ctx context.Context, f DocumentFilter) ([]MasterDocument, error) {
	q := url.Values{}
	setIf(q, "department", f.Department)
	setIf(q, "status", f.Status)
	return GetList[MasterDocument](ctx, c, "/master/get-documents", q)
}

func (c *Client) Document(ctx context.Context, id string) (MasterDocument, error) {
	return GetOne[MasterDocument](ctx, c, "/master/get-document", url.Values{"id": {id}})
}

// DocumentInput carries EffectiveDate as DD/MM/YYYY.
type DocumentInput struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title"`
	Number        string `json:"documentno"`
	Department    string `json:"department"`
	Revision      string `json:"revision"`
	EffectiveDate string `json:"effectivedate"`
	ReviewedBy    string `json:"reviewedby"`
	ApprovedBy    string `json:"approvedby"`
	CreatedBy     string `json:"createdby,omitempty"`
}

func (c *Client) SaveDocument(ctx context.Context, in DocumentInput) error {
	path := "/master/add-document"
	if in.ID != "" {
		path = "/master/update-document"
	}
	_, err := c.postJSON(ctx, path, in)
	return err
}

// Decision is a workflow step the backend validates.
type Decision string

const (
	DecisionReview   Decision = "review"
	DecisionApprove  Decision = "approve"
	DecisionReject   Decision = "reject"
	DecisionObsolete Decision = "obsolete"
)

func (d Decision) Valid() bool {
	switch d {
	case DecisionReview, DecisionApprove, DecisionReject, DecisionObsolete:
		return true
	}
	return false
}

func (c *Client) DecideDocument(ctx context.Context, d Decision, id, employeeID, remarks string) error {
	if !d.Valid() {
		return fmt.Errorf("unknown document decision %q", d)
	}
	body := map[string]string{"id": id, "employee": employeeID, "remarks": remarks}
	_, err := c.postJSON(ctx, "/master/"+string(d)+"-document", body)
	return err
}
