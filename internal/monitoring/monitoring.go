package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"saas-starter-backend/internal/config"
	"saas-starter-backend/internal/logger"
)

// Event is one captured error or panic sent to the monitoring service
type Event struct {
	Level       string            `json:"level"`
	Message     string            `json:"message"`
	Stacktrace  string            `json:"stacktrace,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
	Environment string            `json:"environment"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Client posts captured errors to the monitoring DSN. With no DSN
// configured every capture is a no-op, so callers never need to branch.
type Client struct {
	httpClient  *http.Client
	dsn         string
	environment string
}

// NewClient creates a monitoring client from the app config
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		dsn:         cfg.MonitoringDSN,
		environment: cfg.Environment,
	}
}

// Enabled reports whether error monitoring is configured
func (c *Client) Enabled() bool {
	return c.dsn != ""
}

// CaptureError reports an error with optional tags
func (c *Client) CaptureError(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}
	c.capture(ctx, &Event{
		Level:   "error",
		Message: err.Error(),
		Tags:    tags,
	})
}

// CapturePanic reports a recovered panic with its stack trace
func (c *Client) CapturePanic(ctx context.Context, recovered interface{}, tags map[string]string) {
	c.capture(ctx, &Event{
		Level:      "fatal",
		Message:    fmt.Sprintf("panic: %v", recovered),
		Stacktrace: string(debug.Stack()),
		Tags:       tags,
	})
}

func (c *Client) capture(ctx context.Context, event *Event) {
	if !c.Enabled() {
		return
	}

	event.Environment = c.environment
	event.Timestamp = time.Now().UTC()

	body, err := json.Marshal(event)
	if err != nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.dsn, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Monitoring must never take the request down with it
		logger.New().WithError(err).Debug("failed to deliver monitoring event")
		return
	}
	resp.Body.Close()
}
