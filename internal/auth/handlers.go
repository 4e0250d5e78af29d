package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"saas-starter-backend/internal/logger"
	"saas-starter-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WebhookSignatureHeader carries the provider's HMAC signature on webhook deliveries
const WebhookSignatureHeader = "X-Webhook-Signature"

// EventSender dispatches an event to the durable-execution service.
// Satisfied by jobs.Dispatcher; nil when jobs are disabled.
type EventSender interface {
	Send(ctx context.Context, name string, data map[string]interface{}) error
}

// AuthHandler handles HTTP requests for the auth provider integration
type AuthHandler struct {
	sessions *SessionService
	users    service.UserServiceInterface
	events   EventSender
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions *SessionService, users service.UserServiceInterface, events EventSender) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		users:    users,
		events:   events,
	}
}

// WebhookEvent is the provider's webhook envelope
type WebhookEvent struct {
	Type string          `json:"type"`
	Data WebhookUserData `json:"data"`
}

// WebhookUserData is the user payload inside provider webhook events
type WebhookUserData struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	OrganizationID string `json:"organization_id"`
}

// Webhook handles provider webhook deliveries, mirroring user lifecycle
// events into the local database.
// @Summary Auth provider webhook
// @Description Receives signed user lifecycle events from the auth provider and mirrors them into the local users table
// @Tags auth
// @Accept json
// @Produce json
// @Param X-Webhook-Signature header string true "HMAC-SHA256 signature of the request body"
// @Success 200 {object} map[string]interface{} "Event processed"
// @Failure 400 {object} map[string]interface{} "Malformed payload"
// @Failure 401 {object} map[string]interface{} "Invalid signature"
// @Router /api/auth/webhook [post]
func (h *AuthHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	signature := c.GetHeader(WebhookSignatureHeader)
	if err := h.sessions.VerifyWebhookSignature(payload, signature); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed webhook payload"})
		return
	}

	log := logger.New().WithField("event_type", event.Type)

	switch event.Type {
	case "user.created", "user.updated":
		req := &service.MirrorUserRequest{
			AuthProviderID: event.Data.ID,
			Email:          event.Data.Email,
			FirstName:      event.Data.FirstName,
			LastName:       event.Data.LastName,
		}
		if event.Data.OrganizationID != "" {
			if orgID, err := uuid.Parse(event.Data.OrganizationID); err == nil {
				req.OrganizationID = &orgID
			}
		}

		user, err := h.users.UpsertFromProvider(req)
		if err != nil {
			log.WithError(err).Error("failed to mirror provider user")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// First sight of a user kicks off the welcome-email job; delivery
		// and retries belong to the durable-execution service.
		if event.Type == "user.created" && h.events != nil {
			if err := h.events.Send(c.Request.Context(), "auth/user.created", map[string]interface{}{
				"user_id": user.ID.String(),
				"email":   user.Email,
				"name":    user.FirstName,
			}); err != nil {
				log.WithError(err).Warn("failed to dispatch user.created event")
			}
		}

		c.JSON(http.StatusOK, gin.H{"received": true, "user_id": user.ID})
	default:
		// Unknown event types are acknowledged so the provider stops retrying
		log.Debug("ignoring unhandled webhook event type")
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

// Callback completes the web login flow: exchanges the authorization code,
// sets the session cookie, and sends the browser to the dashboard.
// @Summary OAuth2 callback
// @Description Exchange the provider authorization code for a session and redirect to the dashboard
// @Tags auth
// @Param code query string true "Authorization code"
// @Param state query string false "Opaque state"
// @Success 302 "Redirect to /dashboard"
// @Failure 400 {object} map[string]interface{} "Missing code"
// @Router /auth/callback [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code parameter is required"})
		return
	}

	token, claims, err := h.sessions.HandleCallback(c.Request.Context(), code)
	if err != nil {
		logger.New().WithError(err).Warn("auth callback failed")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	// Cookie lifetime follows the token expiry when present
	maxAge := 7 * 24 * 60 * 60
	if claims.ExpiresAt != nil && claims.IssuedAt != nil {
		if remaining := int(claims.ExpiresAt.Unix() - claims.IssuedAt.Unix()); remaining > 0 {
			maxAge = remaining
		}
	}
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", false, true)

	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout clears the session cookie
// @Summary Log out
// @Description Clear the session cookie and redirect to the login page
// @Tags auth
// @Success 302 "Redirect to /login"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}
