package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthMiddleware provides session-token authentication middleware
type AuthMiddleware struct {
	service *SessionService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(service *SessionService) *AuthMiddleware {
	return &AuthMiddleware{service: service}
}

// tokenFromRequest pulls the session token from the Bearer header or, for
// browser calls, from the session cookie.
func tokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString != authHeader {
			return tokenString
		}
		return ""
	}

	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

// RequireAuth validates session tokens and sets the caller context. A call
// without a valid authenticated context is rejected, never passed through.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		claims, err := m.service.VerifySessionToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		// Set caller context
		c.Set("auth_user_id", claims.Subject)
		c.Set("email", claims.Email)
		c.Set("session_claims", claims)
		if claims.OrganizationID != "" {
			if orgID, err := uuid.Parse(claims.OrganizationID); err == nil {
				c.Set("organization_id", orgID)
			}
		}

		c.Next()
	}
}

// GetAuthUserID extracts the provider user id from context
func GetAuthUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("auth_user_id")
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	return id, ok
}

// GetUserEmail extracts the caller's email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get("email")
	if !exists {
		return "", false
	}

	emailStr, ok := email.(string)
	return emailStr, ok
}

// GetOrganizationID extracts the caller's organization id from context
func GetOrganizationID(c *gin.Context) (uuid.UUID, bool) {
	orgID, exists := c.Get("organization_id")
	if !exists {
		return uuid.Nil, false
	}

	id, ok := orgID.(uuid.UUID)
	return id, ok
}

// GetSessionClaims extracts the full session claims from context
func GetSessionClaims(c *gin.Context) (*SessionClaims, bool) {
	claims, exists := c.Get("session_claims")
	if !exists {
		return nil, false
	}

	sessionClaims, ok := claims.(*SessionClaims)
	return sessionClaims, ok
}
