package labapi

import (
	"context"
	"net/url"
)

// FeedbackForm is a customer satisfaction form; ratings are 1..5.
type FeedbackForm struct {
	ID            FlexString `json:"id"`
	Customer      FlexString `json:"customer"`
	LRN           FlexString `json:"lrn"`
	FeedbackDate  FlexString `json:"feedbackdate"`
	Comments      FlexString `json:"comments"`
	Quality       FlexInt    `json:"quality"`
	Timeliness    FlexInt    `json:"timeliness"`
	Communication FlexInt    `json:"communication"`
	Pricing       FlexInt    `json:"pricing"`
	Overall       FlexInt    `json:"overall"`
}

func (f FeedbackForm) Ratings() []int {
	return []int{f.Quality.Int(), f.Timeliness.Int(), f.Communication.Int(), f.Pricing.Int(), f.Overall.Int()}
}

func (c *Client) FeedbackForms(ctx context.Context) ([]FeedbackForm, error) {
	return GetList[FeedbackForm](ctx, c, "/master/get-feedback-forms", nil)
}

func (c *Client) FeedbackForm(ctx context.Context, id string) (FeedbackForm, error) {
	return GetOne[FeedbackForm](ctx, c, "/master/get-feedback-form", url.Values{"id": {id}})
}

// FeedbackInput carries FeedbackDate as DD/MM/YYYY.
type FeedbackInput struct {
	Customer      string `json:"customer"`
	LRN           string `json:"lrn"`
	FeedbackDate  string `json:"feedbackdate"`
	Comments      string `json:"comments"`
	Quality       int    `json:"quality"`
	Timeliness    int    `json:"timeliness"`
	Communication int    `json:"communication"`
	Pricing       int    `json:"pricing"`
	Overall       int    `json:"overall"`
}

func (c *Client) AddFeedback(ctx context.Context, in FeedbackInput) error {
	_, err := c.postJSON(ctx, "/master/add-feedback", in)
	return err
}
