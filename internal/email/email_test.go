package email

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

func TestClientDisabled(t *testing.T) {
	client := NewClient(&config.Config{EmailAPIURL: "https://api.resend.com"})

	assert.False(t, client.Enabled())

	_, err := client.Send(context.Background(), &Message{To: "jane@acme.test", Subject: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrEmailNotConfigured)
}

func TestSend(t *testing.T) {
	var gotAuth string
	var gotMsg Message

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/emails", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotMsg)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer server.Close()

	client := NewClient(&config.Config{
		EmailAPIURL: server.URL,
		EmailAPIKey: "re_test_key",
		EmailFrom:   "noreply@acme.test",
		AppURL:      "http://localhost:8080",
	})
	require.True(t, client.Enabled())

	resp, err := client.Send(context.Background(), &Message{
		To:      "jane@acme.test",
		Subject: "hello",
		Text:    "hi",
	})
	require.NoError(t, err)

	assert.Equal(t, "email_123", resp.ID)
	assert.Equal(t, "Bearer re_test_key", gotAuth)
	assert.Equal(t, "jane@acme.test", gotMsg.To)
	// The configured sender fills in when the message omits one
	assert.Equal(t, "noreply@acme.test", gotMsg.From)
}

func TestSendMissingRecipient(t *testing.T) {
	client := NewClient(&config.Config{
		EmailAPIURL: "http://127.0.0.1:1",
		EmailAPIKey: "re_test_key",
	})

	_, err := client.Send(context.Background(), &Message{Subject: "hello"})
	assert.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSendAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid from address"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient(&config.Config{
		EmailAPIURL: server.URL,
		EmailAPIKey: "re_test_key",
	})

	_, err := client.Send(context.Background(), &Message{To: "jane@acme.test"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
	assert.Contains(t, err.Error(), "invalid from address")
}

func TestSendWelcome(t *testing.T) {
	var gotMsg Message

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotMsg)
		_, _ = w.Write([]byte(`{"id":"email_456"}`))
	}))
	defer server.Close()

	client := NewClient(&config.Config{
		EmailAPIURL: server.URL,
		EmailAPIKey: "re_test_key",
		EmailFrom:   "noreply@acme.test",
		AppURL:      "https://app.acme.test",
	})

	t.Run("with name", func(t *testing.T) {
		resp, err := client.SendWelcome(context.Background(), "jane@acme.test", "Jane")
		require.NoError(t, err)
		assert.Equal(t, "email_456", resp.ID)
		assert.Equal(t, "Welcome aboard", gotMsg.Subject)
		assert.Contains(t, gotMsg.Text, "Hi Jane")
		assert.Contains(t, gotMsg.Text, "https://app.acme.test/dashboard")
	})

	t.Run("without name", func(t *testing.T) {
		_, err := client.SendWelcome(context.Background(), "jane@acme.test", "")
		require.NoError(t, err)
		assert.Contains(t, gotMsg.Text, "Hi there")
	})
}
