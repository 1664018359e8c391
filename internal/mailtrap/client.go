// Package mailtrap is a minimal client for the Mailtrap sending API,
// covering the single template-send call this service makes.
package mailtrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/innosearch/contact-sync/internal/config"
)

// Address is a sender or recipient address.
type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Mail is a templated transmission. The template renders server-side at
// Mailtrap; Variables feed its placeholders.
type Mail struct {
	From         Address                `json:"from"`
	To           []Address              `json:"to"`
	TemplateUUID string                 `json:"template_uuid"`
	Variables    map[string]interface{} `json:"template_variables,omitempty"`
}

// SendResponse is the API's send result. Success is the flag callers inspect.
type SendResponse struct {
	Success    bool     `json:"success"`
	MessageIDs []string `json:"message_ids"`
	Errors     []string `json:"errors"`
}

// Client is a Mailtrap sending API client
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new Mailtrap API client
func NewClient(cfg config.MailtrapConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// Send posts one transmission. One call per send; no retry.
func (c *Client) Send(ctx context.Context, mail *Mail) (*SendResponse, error) {
	payload, err := json.Marshal(mail)
	if err != nil {
		return nil, fmt.Errorf("encoding mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/send", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var sendResp SendResponse
	if err := json.Unmarshal(body, &sendResp); err != nil {
		return nil, fmt.Errorf("parsing response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(sendResp.Errors) > 0 {
			return &sendResp, fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.Join(sendResp.Errors, "; "))
		}
		return &sendResp, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return &sendResp, nil
}
