// Package whatsapp sends reminder notices through the WhatsApp Cloud API.
package whatsapp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/hannan/internal/config"
)

// Notice is a due reminder announced to the farm manager.
type Notice struct {
	Title       string
	Date        string
	Description string
	Module      string
	RecordID    string
}

// Text renders the notice as a WhatsApp message body.
func (n Notice) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reminder due %s: %s", n.Date, n.Title)
	if n.Description != "" {
		fmt.Fprintf(&b, "\n%s", n.Description)
	}
	if n.Module != "" && n.RecordID != "" {
		fmt.Fprintf(&b, "\n(%s %s)", n.Module, n.RecordID)
	}
	return b.String()
}

// Notifier delivers reminder notices.
type Notifier interface {
	Notify(ctx context.Context, notice Notice) error
}

// APIClient is a resty-backed Notifier.
type APIClient struct {
	httpClient    *resty.Client
	phoneNumberID string
	to            string
}

// NewClient builds a WhatsApp API client using the provided configuration values.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/%s", base, cfg.APIVersion)).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AccessToken)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient:    restyClient,
		phoneNumberID: cfg.PhoneNumberID,
		to:            cfg.NotifyTo,
	}
}

type sendTextResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// apiError represents a WhatsApp Cloud API error payload.
type apiError struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

// Notify sends the notice as a plain text message to the configured recipient.
func (c *APIClient) Notify(ctx context.Context, notice Notice) error {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                c.to,
		"type":              "text",
		"text": map[string]any{
			"body":        notice.Text(),
			"preview_url": false,
		},
	}

	result := new(sendTextResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post(fmt.Sprintf("%s/messages", c.phoneNumberID))
	if err != nil {
		return fmt.Errorf("send whatsapp notice: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		code := resp.StatusCode()
		if apiErr.Error.Code != 0 {
			code = apiErr.Error.Code
		}
		return fmt.Errorf("whatsapp api error: code=%d, message=%s", code, apiErr.Error.Message)
	}

	if len(result.Messages) == 0 {
		return fmt.Errorf("whatsapp api accepted notice without message id")
	}

	return nil
}
