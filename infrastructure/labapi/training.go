package labapi

import (
	"context"
	"net/url"
)

type TrainingModule struct {
	ID          FlexString `json:"id"`
	Name        FlexString `json:"name"`
	Department  FlexString `json:"department"`
	Trainer     FlexString `json:"trainer"`
	Description FlexString `json:"description"`
	Duration    FlexString `json:"duration"`
	ValidFrom   FlexString `json:"validfrom"`
}

func (c *Client) TrainingModules(ctx context.Context) ([]TrainingModule, error) {
	return GetList[TrainingModule](ctx, c, "/master/get-training-modules", nil)
}

func (c *Client) TrainingModule(ctx context.Context, id string) (TrainingModule, error) {
	return GetOne[TrainingModule](ctx, c, "/master/get-training-module", url.Values{"id": {id}})
}

// TrainingModuleInput carries ValidFrom as DD/MM/YYYY.
type TrainingModuleInput struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Trainer     string `json:"trainer"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	ValidFrom   string `json:"validfrom"`
}

func (c *Client) SaveTrainingModule(ctx context.Context, in TrainingModuleInput) error {
	path := "/master/add-training-module"
	if in.ID != "" {
		path = "/master/update-training-module"
	}
	_, err := c.postJSON(ctx, path, in)
	return err
}

func (c *Client) DeleteTrainingModules(ctx context.Context, ids []string) BulkResult {
	return c.BulkDelete(ctx, "/master/delete-training-module/%s", ids)
}
