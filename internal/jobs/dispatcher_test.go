package jobs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"saas-starter-backend/internal/config"
	apperrors "saas-starter-backend/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDisabled(t *testing.T) {
	dispatcher := NewDispatcher(&config.Config{JobsEventURL: "https://inn.gs"})

	assert.False(t, dispatcher.Enabled())

	err := dispatcher.Send(context.Background(), "auth/user.created", nil)
	assert.ErrorIs(t, err, apperrors.ErrJobsNotConfigured)
}

func TestDispatcherSend(t *testing.T) {
	var gotPath string
	var gotEvent Event

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotEvent)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	dispatcher := NewDispatcher(&config.Config{
		JobsEventURL: server.URL,
		JobsEventKey: "evt_key_123",
	})
	require.True(t, dispatcher.Enabled())

	err := dispatcher.Send(context.Background(), "auth/user.created", map[string]interface{}{
		"email": "jane@acme.test",
	})
	require.NoError(t, err)

	assert.Equal(t, "/e/evt_key_123", gotPath)
	assert.Equal(t, "auth/user.created", gotEvent.Name)
	assert.Equal(t, "jane@acme.test", gotEvent.Data["email"])
	assert.False(t, gotEvent.Timestamp.IsZero())
}

func TestDispatcherSendServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "event key rejected", http.StatusForbidden)
	}))
	defer server.Close()

	dispatcher := NewDispatcher(&config.Config{
		JobsEventURL: server.URL,
		JobsEventKey: "evt_key_123",
	})

	err := dispatcher.Send(context.Background(), "auth/user.created", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "event key rejected")
}
