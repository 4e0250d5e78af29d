package jobs

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

// Dispatcher posts events to the durable-execution service's event API.
// The service matches events to registered tasks and invokes them back
// through the invoke endpoint with its own retry/backoff policy.
type Dispatcher struct {
	httpClient *http.Client
	eventURL   string
	eventKey   string
}

// NewDispatcher creates a dispatcher from the app config. Without
// JOBS_EVENT_KEY the dispatcher is disabled and Send returns a
// configuration error.
func NewDispatcher(cfg *config.Config) *Dispatcher {
	return &Dispatcher{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		eventURL:   cfg.JobsEventURL,
		eventKey:   cfg.JobsEventKey,
	}
}

// Enabled reports whether background jobs are configured
func (d *Dispatcher) Enabled() bool {
	return d.eventKey != ""
}

// Send posts one event to the durable-execution service
func (d *Dispatcher) Send(ctx context.Context, name string, data map[string]interface{}) error {
	if !d.Enabled() {
		return apperrors.ErrJobsNotConfigured
	}

	event := Event{
		Name:      name,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	url := d.eventURL + "/e/" + d.eventKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build event request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("event API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("event API returned status %d: %s", resp.StatusCode, string(raw))
	}

	return nil
}
