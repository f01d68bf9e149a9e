// Package farmapi is the REST client for the farm records API. Every call
// returns a response envelope; transport and HTTP failures are folded into
// an unsuccessful envelope instead of a Go error.
package farmapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/hannan/internal/domain/models"
)

// Client talks to one farm API deployment.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient builds a client for the API rooted at baseURL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json")

	return &Client{http: restyClient, logger: logger}
}

// Resource returns the data service of one module.
func (c *Client) Resource(module string) *ResourceClient {
	return &ResourceClient{client: c, module: module}
}

// CalculateSummary asks the server for a draft monthly summary.
func (c *Client) CalculateSummary(ctx context.Context, month string) models.Envelope[models.Record] {
	return call[models.Record](ctx, c, http.MethodGet, "/api/summaries/calculate", func(r *resty.Request) {
		r.SetQueryParam("month", month)
	})
}

// Dashboard fetches the admin overview.
func (c *Client) Dashboard(ctx context.Context) models.Envelope[models.Overview] {
	return call[models.Overview](ctx, c, http.MethodGet, "/api/dashboard", nil)
}

// ResourceClient is the per-module data service.
type ResourceClient struct {
	client *Client
	module string
}

// Module names the resource.
func (r *ResourceClient) Module() string {
	return r.module
}

func (r *ResourceClient) path(parts ...string) string {
	segments := []string{"/api", "records", url.PathEscape(r.module)}
	for _, p := range parts {
		segments = append(segments, url.PathEscape(p))
	}
	return strings.Join(segments, "/")
}

// GetAllRecords lists every record of the module.
func (r *ResourceClient) GetAllRecords(ctx context.Context) models.Envelope[[]models.Record] {
	return call[[]models.Record](ctx, r.client, http.MethodGet, r.path(), nil)
}

// CreateRecord posts a new record.
func (r *ResourceClient) CreateRecord(ctx context.Context, fields models.Record) models.Envelope[models.Record] {
	return call[models.Record](ctx, r.client, http.MethodPost, r.path(), func(req *resty.Request) {
		req.SetBody(fields)
	})
}

// UpdateRecord replaces the given fields of an existing record.
func (r *ResourceClient) UpdateRecord(ctx context.Context, id string, fields models.Record) models.Envelope[models.Record] {
	return call[models.Record](ctx, r.client, http.MethodPut, r.path(id), func(req *resty.Request) {
		req.SetBody(fields)
	})
}

// DeleteRecord removes a record.
func (r *ResourceClient) DeleteRecord(ctx context.Context, id string) models.Envelope[any] {
	return call[any](ctx, r.client, http.MethodDelete, r.path(id), nil)
}

// SearchRecords filters the module by term.
func (r *ResourceClient) SearchRecords(ctx context.Context, term string) models.Envelope[[]models.Record] {
	return call[[]models.Record](ctx, r.client, http.MethodGet, "/api/search/"+url.PathEscape(r.module), func(req *resty.Request) {
		req.SetQueryParam("q", term)
	})
}

// GetStats fetches the module aggregates.
func (r *ResourceClient) GetStats(ctx context.Context) models.Envelope[models.Stats] {
	return call[models.Stats](ctx, r.client, http.MethodGet, "/api/stats/"+url.PathEscape(r.module), nil)
}

// UploadPhoto sends an image for the record as multipart field "photo".
func (r *ResourceClient) UploadPhoto(ctx context.Context, id, filename string, photo io.Reader) models.Envelope[models.Record] {
	path := fmt.Sprintf("/api/photos/%s/%s", url.PathEscape(r.module), url.PathEscape(id))
	return call[models.Record](ctx, r.client, http.MethodPost, path, func(req *resty.Request) {
		req.SetFileReader("photo", filename, photo)
	})
}

type failure struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func call[T any](ctx context.Context, c *Client, method, path string, prepare func(*resty.Request)) models.Envelope[T] {
	var ok models.Envelope[T]
	var failed failure

	req := c.http.R().SetContext(ctx).SetResult(&ok).SetError(&failed)
	if prepare != nil {
		prepare(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil && (resp == nil || resp.StatusCode() == 0) {
		c.logger.Warn("farm api request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return models.Fail[T](fmt.Sprintf("network error: %v", err))
	}

	if resp.IsError() {
		message := failed.Message
		if message == "" {
			message = failed.Error
		}
		if message == "" {
			message = fmt.Sprintf("request failed with status %d", resp.StatusCode())
		}
		c.logger.Debug("farm api returned error", zap.String("path", path), zap.Int("status", resp.StatusCode()), zap.String("message", message))
		return models.Fail[T](message)
	}

	if err != nil {
		return models.Fail[T](fmt.Sprintf("decode response: %v", err))
	}

	if !ok.Success {
		if ok.Message == "" {
			ok.Message = ok.Error
		}
		if ok.Message == "" {
			ok.Message = "request was not successful"
		}
		ok.Error = ok.Message
	}
	return ok
}
