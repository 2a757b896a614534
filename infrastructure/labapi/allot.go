package labapi

import (
	"context"
	"net/url"
	"strings"
)

// SampleRow is one TRF product awaiting or past allotment.
type SampleRow struct {
	ID              FlexString `json:"id"`
	TRFID           FlexString `json:"trfid"`
	Customer        FlexString `json:"customer"`
	Product         FlexString `json:"product"`
	Package         FlexString `json:"package"`
	LRN             FlexString `json:"lrn"`
	BRN             FlexString `json:"brn"`
	Grade           FlexString `json:"grade"`
	Size            FlexString `json:"size"`
	Brand           FlexString `json:"brand"`
	CustomerType    FlexString `json:"customertype"`
	SpecificPurpose FlexString `json:"specificpurpose"`
	TRFStatus       FlexInt    `json:"trfstatus"`
	PackageType     FlexInt    `json:"packagetype"`
	ReceivedDate    FlexString `json:"receiveddate"`
}

// AllotFilter narrows the allot-sample list. Dates are DD/MM/YYYY.
type AllotFilter struct {
	From   string
	To     string
	Status string
}

func (f AllotFilter) query() url.Values {
	q := url.Values{}
	setIf(q, "from", f.From)
	setIf(q, "to", f.To)
	setIf(q, "status", f.Status)
	return q
}

func (c *Client) AllotSamples(ctx context.Context, f AllotFilter) ([]SampleRow, error) {
	return GetList[SampleRow](ctx, c, "/actionitem/get-allot-sample", f.query())
}

// AllotParameter is one test parameter of a TRF product.
type AllotParameter struct {
	ID       FlexString `json:"id"`
	Name     FlexString `json:"name"`
	Unit     FlexString `json:"unit"`
	Quantity FlexString `json:"quantity"`
	NABL     FlexBool   `json:"nabl"`
}

// AllotItem is the allot form payload.
type AllotItem struct {
	Sample     SampleRow        `json:"product"`
	Parameters []AllotParameter `json:"parameters"`
}

func (c *Client) AllotItem(ctx context.Context, id string) (AllotItem, error) {
	return GetOne[AllotItem](ctx, c, "/actionitem/get-allot-item", url.Values{"id": {id}})
}

type AllotQuantity struct {
	Parameter string `json:"parameter"`
	Quantity  string `json:"quantity"`
	Unit      string `json:"unit"`
}

type AllotRequest struct {
	TRFProduct string          `json:"trfproduct"`
	Parameters []AllotQuantity `json:"parameters"`
}

func (c *Client) AllotQuantity(ctx context.Context, req AllotRequest) error {
	_, err := c.postJSON(ctx, "/actionitem/allot-quantity", req)
	return err
}

func (c *Client) RemoveItem(ctx context.Context, id string) error {
	_, err := c.postJSON(ctx, "/material/remove-item", map[string]string{"id": id})
	return err
}

func setIf(q url.Values, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		q.Set(key, v)
	}
}
