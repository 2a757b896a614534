package calibration

import (
	"net/url"

	"labdesk/frontend/shared/grid"
	"labdesk/infrastructure/labapi"
)

// Grid names, also used as live-update table ids.
const (
	InstrumentsTable = "instruments"
	PricesTable      = "prices"
	MatricesTable    = "matrices"
	PointsTable      = "points"
)

// Scope is the parent chain threaded through calibration URLs.
type Scope struct {
	Instrument string
	Price      string
	Matrix     string
}

const rootPath = "/lab/calibration"

func (s Scope) PricesPath() string {
	return rootPath + "/instruments/" + url.PathEscape(s.Instrument) + "/prices"
}

func (s Scope) MatricesPath() string {
	return s.PricesPath() + "/" + url.PathEscape(s.Price) + "/matrices"
}

func (s Scope) PointsPath() string {
	return s.MatricesPath() + "/" + url.PathEscape(s.Matrix) + "/points"
}

type ListPageData struct {
	Scope     Scope
	Heading   string
	Grid      *grid.Grid
	LoadError string
	NewHref   string
	NewLabel  string
	BackHref  string
}

type PriceFormData struct {
	Scope  Scope
	Input  labapi.PriceInput
	Amount string
	Action string
}

type MatrixFormData struct {
	Scope Scope
	Input labapi.MatrixInput
}

type PointFormData struct {
	Scope  Scope
	Input  labapi.PointInput
	Action string
}
