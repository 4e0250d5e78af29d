package auth

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"saas-starter-backend/internal/mocks"
	"saas-starter-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type recordedEvent struct {
	name string
	data map[string]interface{}
}

// recordingSender captures dispatched events for assertions
type recordingSender struct {
	events []recordedEvent
}

func (r *recordingSender) Send(_ context.Context, name string, data map[string]interface{}) error {
	r.events = append(r.events, recordedEvent{name: name, data: data})
	return nil
}

func webhookSignature(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecretKey))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(router *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/auth/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(WebhookSignatureHeader, signature)
	}
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestWebhook(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setup := func(t *testing.T, events EventSender) (*gin.Engine, *mocks.MockUserServiceInterface) {
		ctrl := gomock.NewController(t)
		mockUsers := mocks.NewMockUserServiceInterface(ctrl)

		handler := NewAuthHandler(testSessionService(), mockUsers, events)
		router := gin.New()
		router.POST("/api/auth/webhook", handler.Webhook)
		return router, mockUsers
	}

	t.Run("rejects missing signature", func(t *testing.T) {
		router, _ := setup(t, nil)
		payload := []byte(`{"type":"user.created","data":{"id":"user_1","email":"a@b.test"}}`)

		recorder := postWebhook(router, payload, "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("rejects bad signature", func(t *testing.T) {
		router, _ := setup(t, nil)
		payload := []byte(`{"type":"user.created","data":{"id":"user_1","email":"a@b.test"}}`)

		recorder := postWebhook(router, payload, "deadbeef")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("user.created mirrors the user and dispatches the welcome event", func(t *testing.T) {
		sender := &recordingSender{}
		router, mockUsers := setup(t, sender)

		orgID := uuid.New()
		payload := []byte(`{"type":"user.created","data":{"id":"user_1","email":"jane@acme.test","first_name":"Jane","last_name":"Doe","organization_id":"` + orgID.String() + `"}}`)

		mirrored := &service.UserResponse{
			ID:             uuid.New(),
			OrganizationID: &orgID,
			AuthProviderID: "user_1",
			Email:          "jane@acme.test",
			FirstName:      "Jane",
			LastName:       "Doe",
		}

		mockUsers.EXPECT().
			UpsertFromProvider(gomock.Any()).
			DoAndReturn(func(req *service.MirrorUserRequest) (*service.UserResponse, error) {
				assert.Equal(t, "user_1", req.AuthProviderID)
				assert.Equal(t, "jane@acme.test", req.Email)
				require.NotNil(t, req.OrganizationID)
				assert.Equal(t, orgID, *req.OrganizationID)
				return mirrored, nil
			}).
			Times(1)

		recorder := postWebhook(router, payload, webhookSignature(payload))
		assert.Equal(t, http.StatusOK, recorder.Code)

		require.Len(t, sender.events, 1)
		assert.Equal(t, "auth/user.created", sender.events[0].name)
		assert.Equal(t, "jane@acme.test", sender.events[0].data["email"])
		assert.Equal(t, mirrored.ID.String(), sender.events[0].data["user_id"])
	})

	t.Run("user.updated mirrors without dispatching", func(t *testing.T) {
		sender := &recordingSender{}
		router, mockUsers := setup(t, sender)

		payload := []byte(`{"type":"user.updated","data":{"id":"user_1","email":"jane@acme.test"}}`)

		mockUsers.EXPECT().
			UpsertFromProvider(gomock.Any()).
			Return(&service.UserResponse{ID: uuid.New(), Email: "jane@acme.test"}, nil).
			Times(1)

		recorder := postWebhook(router, payload, webhookSignature(payload))
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Empty(t, sender.events)
	})

	t.Run("unknown event types are acknowledged", func(t *testing.T) {
		router, mockUsers := setup(t, nil)
		_ = mockUsers

		payload := []byte(`{"type":"organization.created","data":{"id":"org_1"}}`)

		recorder := postWebhook(router, payload, webhookSignature(payload))
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("malformed payload after valid signature", func(t *testing.T) {
		router, _ := setup(t, nil)
		payload := []byte(`{"type":`)

		recorder := postWebhook(router, payload, webhookSignature(payload))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestLogout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewAuthHandler(testSessionService(), nil, nil)
	router := gin.New()
	router.POST("/auth/logout", handler.Logout)

	recorder := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/auth/logout", nil)
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/login", recorder.Header().Get("Location"))

	// The session cookie is cleared
	cookies := recorder.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestCallbackMissingCode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewAuthHandler(testSessionService(), nil, nil)
	router := gin.New()
	router.GET("/auth/callback", handler.Callback)

	recorder := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/auth/callback", nil)
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
