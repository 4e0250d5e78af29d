package web

import (
	"embed"
	"html/template"
	"net/http"

	"saas-starter-backend/internal/auth"
	apperrors "saas-starter-backend/internal/errors"
	"saas-starter-backend/internal/logger"
	"saas-starter-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Templates parses the embedded page templates for the Gin HTML renderer
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFiles, "templates/*.html"))
}

// WebHandler serves the server-rendered pages
type WebHandler struct {
	sessions *auth.SessionService
	users    service.UserServiceInterface
	orgs     service.OrganizationServiceInterface
}

// NewWebHandler creates a new web handler
func NewWebHandler(sessions *auth.SessionService, users service.UserServiceInterface, orgs service.OrganizationServiceInterface) *WebHandler {
	return &WebHandler{
		sessions: sessions,
		users:    users,
		orgs:     orgs,
	}
}

// sessionClaims resolves the session cookie; nil means unauthenticated
func (h *WebHandler) sessionClaims(c *gin.Context) *auth.SessionClaims {
	cookie, err := c.Cookie(auth.SessionCookieName)
	if err != nil || cookie == "" {
		return nil
	}
	claims, err := h.sessions.VerifySessionToken(cookie)
	if err != nil {
		return nil
	}
	return claims
}

// Home redirects the root path to the dashboard, which enforces auth itself
func (h *WebHandler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/dashboard")
}

// Login renders the public login page with the provider's hosted login link
func (h *WebHandler) Login(c *gin.Context) {
	// Already signed in: straight to the dashboard
	if h.sessionClaims(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	c.HTML(http.StatusOK, "login.html", gin.H{
		"LoginURL": h.sessions.LoginURL(uuid.NewString()),
	})
}

// Dashboard renders the protected organization overview. The auth check runs
// server-side before any content is produced; unauthenticated callers are
// redirected to the login route.
func (h *WebHandler) Dashboard(c *gin.Context) {
	claims := h.sessionClaims(c)
	if claims == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	orgID, err := uuid.Parse(claims.OrganizationID)
	if err != nil {
		c.HTML(http.StatusForbidden, "login.html", gin.H{
			"LoginURL": h.sessions.LoginURL(uuid.NewString()),
		})
		return
	}

	org, err := h.orgs.GetByID(orgID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		logger.New().WithError(err).Error("failed to load organization for dashboard")
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	users, err := h.users.ListUsers(orgID, service.MaxListLimit, 0)
	if err != nil {
		logger.New().WithError(err).Error("failed to load users for dashboard")
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Email":        claims.Email,
		"Organization": org,
		"Users":        users,
	})
}
