package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"saas-starter-backend/internal/config"
	apperrors "saas-starter-backend/internal/errors"
)

// Message is a single outbound email
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html,omitempty"`
	Text    string `json:"text,omitempty"`
}

// SendResponse is the delivery API's acknowledgement
type SendResponse struct {
	ID string `json:"id"`
}

// Client delivers email through the hosted email API. Delivery itself
// (queueing, retries, bounces) is the provider's concern.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	from       string
	appURL     string
}

// NewClient creates an email client from the app config. When EMAIL_API_KEY
// is absent the client is disabled and Send returns a configuration error.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiURL:     cfg.EmailAPIURL,
		apiKey:     cfg.EmailAPIKey,
		from:       cfg.EmailFrom,
		appURL:     cfg.AppURL,
	}
}

// Enabled reports whether email delivery is configured
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Send posts a message to the email API
func (c *Client) Send(ctx context.Context, msg *Message) (*SendResponse, error) {
	if !c.Enabled() {
		return nil, apperrors.ErrEmailNotConfigured
	}
	if msg.To == "" {
		return nil, apperrors.NewValidationError("to", "recipient is required")
	}
	if msg.From == "" {
		msg.From = c.from
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal email message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("email API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("email API returned status %d: %s", resp.StatusCode, string(raw))
	}

	var result SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode email API response: %w", err)
	}

	return &result, nil
}

// SendWelcome delivers the signup welcome email for a freshly mirrored user
func (c *Client) SendWelcome(ctx context.Context, to, name string) (*SendResponse, error) {
	if name == "" {
		name = "there"
	}

	msg := &Message{
		To:      to,
		Subject: "Welcome aboard",
		Text: fmt.Sprintf(
			"Hi %s,\n\nYour account is ready. Sign in at %s/dashboard to get started.\n",
			name, c.appURL,
		),
	}

	return c.Send(ctx, msg)
}
