package labapi

import (
	"context"
	"net/url"

	"github.com/shopspring/decimal"
)

type Instrument struct {
	ID   FlexString `json:"id"`
	Name FlexString `json:"name"`
	Code FlexString `json:"code"`
}

func (c *Client) Instruments(ctx context.Context) ([]Instrument, error) {
	return GetList[Instrument](ctx, c, "/calibrationoperations/get-instruments", nil)
}

// Price is a calibration charge for one instrument.
type Price struct {
	ID          FlexString  `json:"id"`
	Instrument  FlexString  `json:"instrument"`
	Parameter   FlexString  `json:"parameter"`
	Description FlexString  `json:"description"`
	Amount      FlexDecimal `json:"amount"`
}

func (c *Client) Prices(ctx context.Context, instrumentID string) ([]Price, error) {
	return GetList[Price](ctx, c, "/calibrationoperations/get-prices", url.Values{"instrument": {instrumentID}})
}

func (c *Client) Price(ctx context.Context, id string) (Price, error) {
	return GetOne[Price](ctx, c, "/calibrationoperations/get-price", url.Values{"id": {id}})
}

type PriceInput struct {
	ID          string          `json:"id,omitempty"`
	Instrument  string          `json:"instrument"`
	Parameter   string          `json:"parameter"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

func (c *Client) SavePrice(ctx context.Context, in PriceInput) error {
	path := "/calibrationoperations/add-price"
	if in.ID != "" {
		path = "/calibrationoperations/update-price"
	}
	_, err := c.postJSON(ctx, path, in)
	return err
}

// Matrix is a measuring range under a price.
type Matrix struct {
	ID        FlexString `json:"id"`
	Price     FlexString `json:"price"`
	Name      FlexString `json:"name"`
	RangeFrom FlexString `json:"rangefrom"`
	RangeTo   FlexString `json:"rangeto"`
	Unit      FlexString `json:"unit"`
}

func (c *Client) Matrices(ctx context.Context, priceID string) ([]Matrix, error) {
	return GetList[Matrix](ctx, c, "/calibrationoperations/get-matrices", url.Values{"price": {priceID}})
}

type MatrixInput struct {
	ID        string `json:"id,omitempty"`
	Price     string `json:"price"`
	Name      string `json:"name"`
	RangeFrom string `json:"rangefrom"`
	RangeTo   string `json:"rangeto"`
	Unit      string `json:"unit"`
}

func (c *Client) SaveMatrix(ctx context.Context, in MatrixInput) error {
	path := "/calibrationoperations/add-matrix"
	if in.ID != "" {
		path = "/calibrationoperations/update-matrix"
	}
	_, err := c.postJSON(ctx, path, in)
	return err
}

// Point is one calibration point inside a matrix.
type Point struct {
	ID          FlexString `json:"id"`
	Matrix      FlexString `json:"matrix"`
	Value       FlexString `json:"value"`
	Unit        FlexString `json:"unit"`
	Description FlexString `json:"description"`
}

func (c *Client) Points(ctx context.Context, matrixID string) ([]Point, error) {
	return GetList[Point](ctx, c, "/calibrationoperations/get-points", url.Values{"matrix": {matrixID}})
}

func (c *Client) Point(ctx context.Context, id string) (Point, error) {
	return GetOne[Point](ctx, c, "/calibrationoperations/get-point", url.Values{"id": {id}})
}

func (c *Client) MatrixForPoint(ctx context.Context, pointID string) (Matrix, error) {
	return GetOne[Matrix](ctx, c, "/calibrationoperations/get-matrix-by-point", url.Values{"point": {pointID}})
}

type PointInput struct {
	ID          string `json:"id,omitempty"`
	Matrix      string `json:"matrix"`
	Value       string `json:"value"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
}

func (c *Client) SavePoint(ctx context.Context, in PointInput) error {
	path := "/calibrationoperations/add-point"
	if in.ID != "" {
		path = "/calibrationoperations/update-point"
	}
	_, err := c.postJSON(ctx, path, in)
	return err
}

func (c *Client) DeletePoints(ctx context.Context, ids []string) BulkResult {
	return c.BulkDelete(ctx, "/calibrationoperations/delete-point/%s", ids)
}
