// Package labapi is the typed client for the lab REST backend. The backend
// owns workflow rules; this package only moves JSON in and out and smooths
// over its inconsistent response envelopes.
package labapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxResponseBytes = 16 << 20

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL     *url.URL
	token       string
	http        *http.Client
	bulkWorkers int
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the transport client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithBulkWorkers(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.bulkWorkers = n
		}
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("api base url must be absolute: %q", baseURL)
	}
	c := &Client{
		baseURL:     u,
		http:        &http.Client{Timeout: 15 * time.Second},
		bulkWorkers: 4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type requestIDKey struct{}

// ContextWithRequestID makes outgoing calls reuse the inbound request id so
// dashboard and backend logs line up.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do executes one request and returns the unwrapped payload.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID(ctx))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Method: method, Path: path, Message: "backend unreachable", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &APIError{Method: method, Path: path, Status: resp.StatusCode, Message: "read response", Err: err}
	}
	slog.Debug("labapi call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("took", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Method: method, Path: path, Status: resp.StatusCode, Message: backendMessage(raw, resp.Status)}
	}
	payload, err := Unwrap(raw)
	if err != nil {
		return nil, &APIError{Method: method, Path: path, Status: resp.StatusCode, Message: err.Error(), Err: err}
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, "")
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (json.RawMessage, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s body: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(buf), "application/json")
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, "")
	return err
}

// FilePart is one file field of a multipart upload.
type FilePart struct {
	Field    string
	FileName string
	Body     io.Reader
}

func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, files ...FilePart) (json.RawMessage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field %s: %w", k, err)
		}
	}
	for _, f := range files {
		if f.Body == nil {
			continue
		}
		part, err := w.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return nil, fmt.Errorf("create file field %s: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return nil, fmt.Errorf("copy file %s: %w", f.FileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, &buf, w.FormDataContentType())
}

// GetList fetches path and decodes the unwrapped payload as a list. A null
// payload yields an empty, non-nil slice; a single object yields one item.
func GetList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	payload, err := c.get(ctx, path, query)
	if err != nil {
		return make([]T, 0), err
	}
	out, err := DecodeList[T](payload)
	if err != nil {
		return make([]T, 0), &APIError{Method: http.MethodGet, Path: path, Status: http.StatusOK, Message: "unexpected response shape", Err: err}
	}
	return out, nil
}

// GetOne fetches path and decodes a single record. A list payload yields its
// first element; an empty payload is ErrNotFound.
func GetOne[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var zero T
	payload, err := c.get(ctx, path, query)
	if err != nil {
		return zero, err
	}
	items, err := DecodeList[T](payload)
	if err != nil {
		return zero, &APIError{Method: http.MethodGet, Path: path, Status: http.StatusOK, Message: "unexpected response shape", Err: err}
	}
	if len(items) == 0 {
		return zero, &APIError{Method: http.MethodGet, Path: path, Status: http.StatusNotFound, Message: "record not found"}
	}
	return items[0], nil
}
