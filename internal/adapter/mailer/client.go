// Package mailer is the HTTP client for the templated-email collaborator.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client posts templated-email requests to the mail relay.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a mailer client. An empty baseURL yields a client that
// rejects every send, which keeps reminder state from advancing when no
// relay is configured.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// SendRequest is the wire contract of the mail relay.
type SendRequest struct {
	TemplateID string                 `json:"template_id"`
	Recipient  string                 `json:"recipient"`
	Variables  map[string]interface{} `json:"variables,omitempty"`
}

// Send delivers one templated email. Returns an error on relay failure or
// non-2xx response.
func (c *Client) Send(ctx context.Context, templateID, recipient string, variables map[string]interface{}) error {
	if c.baseURL == "" {
		return fmt.Errorf("no mail relay configured")
	}

	body, err := json.Marshal(SendRequest{
		TemplateID: templateID,
		Recipient:  recipient,
		Variables:  variables,
	})
	if err != nil {
		return fmt.Errorf("failed to encode send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach mail relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail relay returned status %d", resp.StatusCode)
	}
	return nil
}
