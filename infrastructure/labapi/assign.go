package labapi

import (
	"context"
	"net/url"
)

// HODRequest is one parameter line waiting on the head of department.
type HODRequest struct {
	ID          FlexString `json:"id"`
	TRFProduct  FlexString `json:"trfproduct"`
	LRN         FlexString `json:"lrn"`
	Product     FlexString `json:"product"`
	Parameter   FlexString `json:"parameter"`
	ParameterID FlexString `json:"parameterid"`
	AllotDate   FlexString `json:"allotdate"`
	TAT         FlexString `json:"tat"`
	Chemist     FlexString `json:"chemist"`
	ChemistName FlexString `json:"chemistname"`
	HODStatus   FlexInt    `json:"hodstatus"`
	PackageType FlexInt    `json:"packagetype"`
	NABL        FlexBool   `json:"nabl"`
}

type HODFilter struct {
	Department string
	TRFProduct string
}

func (c *Client) HODRequests(ctx context.Context, f HODFilter) ([]HODRequest, error) {
	q := url.Values{}
	setIf(q, "department", f.Department)
	setIf(q, "trfproduct", f.TRFProduct)
	return GetList[HODRequest](ctx, c, "/actionitem/get-hod-request", q)
}

type Chemist struct {
	ID   FlexString `json:"id"`
	Name FlexString `json:"name"`
}

func (c *Client) Chemists(ctx context.Context, department string) ([]Chemist, error) {
	q := url.Values{}
	setIf(q, "department", department)
	return GetList[Chemist](ctx, c, "/actionitem/get-chemists", q)
}

// ChemistAssignment carries TAT as DD/MM/YYYY.
type ChemistAssignment struct {
	Request string `json:"id"`
	Chemist string `json:"chemist"`
	TAT     string `json:"tat"`
}

type AssignRequest struct {
	TRFProduct  string              `json:"trfproduct"`
	Assignments []ChemistAssignment `json:"assignments"`
}

func (c *Client) AssignChemists(ctx context.Context, req AssignRequest) error {
	_, err := c.postJSON(ctx, "/actionitem/add-assign-chemists", req)
	return err
}

// BackendDepartment is a lab section as the backend knows it.
type BackendDepartment struct {
	ID   FlexString `json:"id"`
	Name FlexString `json:"name"`
	Code FlexString `json:"code"`
}

func (c *Client) Departments(ctx context.Context) ([]BackendDepartment, error) {
	return GetList[BackendDepartment](ctx, c, "/master/get-departments", nil)
}
