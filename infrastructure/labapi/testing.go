package labapi

import (
	"context"
	"io"
	"net/url"
)

// TestEvent is one parameter test run.
type TestEvent struct {
	ID              FlexString `json:"id"`
	TRFProduct      FlexString `json:"trfproduct"`
	Parameter       FlexString `json:"parameter"`
	Chemist         FlexString `json:"chemistname"`
	StartTime       FlexString `json:"starttime"`
	Result          FlexString `json:"result"`
	DocumentURL     FlexString `json:"documenturl"`
	Status          FlexInt    `json:"status"`
	WitnessLock     FlexBool   `json:"witnesslock"`
	ChemistAssigned FlexBool   `json:"chemistassigned"`
	DocumentExists  FlexBool   `json:"documentexists"`
}

func (c *Client) TestEvents(ctx context.Context, trfProduct string) ([]TestEvent, error) {
	return GetList[TestEvent](ctx, c, "/testing/get-test-events", url.Values{"trfproduct": {trfProduct}})
}

func (c *Client) StartTest(ctx context.Context, eventID string) error {
	_, err := c.postJSON(ctx, "/testing/start-test", map[string]string{"id": eventID})
	return err
}

type ResultUpload struct {
	EventID  string
	Result   string
	Remarks  string
	FileName string
	File     io.Reader
}

func (c *Client) UploadResult(ctx context.Context, up ResultUpload) error {
	fields := map[string]string{"id": up.EventID, "result": up.Result, "remarks": up.Remarks}
	_, err := c.postMultipart(ctx, "/testing/upload-result", fields, FilePart{Field: "file", FileName: up.FileName, Body: up.File})
	return err
}

func (c *Client) UploadReport(ctx context.Context, trfProduct, fileName string, file io.Reader) error {
	_, err := c.postMultipart(ctx, "/testing/upload-report", map[string]string{"trfproduct": trfProduct}, FilePart{Field: "file", FileName: fileName, Body: file})
	return err
}
