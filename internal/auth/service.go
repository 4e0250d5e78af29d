package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"

	"saas-starter-backend/internal/config"
	apperrors "saas-starter-backend/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// SessionCookieName is the cookie carrying the provider session token for
// server-rendered pages.
const SessionCookieName = "__session"

// SessionClaims represents the claims of a provider-issued session token.
// Subject is the provider's user id.
type SessionClaims struct {
	Email          string `json:"email"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	OrganizationID string `json:"org_id,omitempty"`
	jwt.RegisteredClaims
}

// SessionService verifies session tokens issued by the hosted auth provider
// and drives the OAuth2 login flow against it.
type SessionService struct {
	publishableKey string
	secretKey      []byte
	providerURL    string
	appURL         string
}

// NewSessionService creates a new session service from the app config
func NewSessionService(cfg *config.Config) *SessionService {
	return &SessionService{
		publishableKey: cfg.AuthPublishableKey,
		secretKey:      []byte(cfg.AuthSecretKey),
		providerURL:    cfg.AuthProviderURL,
		appURL:         cfg.AppURL,
	}
}

// VerifySessionToken validates a provider session token: HS256 signature
// with the secret key, expiry, and a non-empty subject.
func (s *SessionService) VerifySessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrSessionExpired
		}
		return nil, apperrors.ErrInvalidSession
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidSession
	}
	if claims.Subject == "" {
		return nil, apperrors.ErrInvalidSession
	}

	return claims, nil
}

// CallbackURL is where the provider redirects after login
func (s *SessionService) CallbackURL() string {
	return s.appURL + "/auth/callback"
}

// LoginURL builds the provider's hosted login URL for the web flow
func (s *SessionService) LoginURL(state string) string {
	q := url.Values{}
	q.Set("client_id", s.publishableKey)
	q.Set("redirect_uri", s.CallbackURL())
	q.Set("response_type", "code")
	q.Set("state", state)
	return s.providerURL + "/oauth/authorize?" + q.Encode()
}

// OAuth2Config returns the oauth2 configuration for the provider
func (s *SessionService) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.publishableKey,
		ClientSecret: string(s.secretKey),
		RedirectURL:  s.CallbackURL(),
		Endpoint: oauth2.Endpoint{
			AuthURL:  s.providerURL + "/oauth/authorize",
			TokenURL: s.providerURL + "/oauth/token",
		},
	}
}

// HandleCallback exchanges the authorization code for a session token and
// verifies it. The provider returns its session JWT as the access token.
func (s *SessionService) HandleCallback(ctx context.Context, code string) (string, *SessionClaims, error) {
	token, err := s.OAuth2Config().Exchange(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}

	claims, err := s.VerifySessionToken(token.AccessToken)
	if err != nil {
		return "", nil, err
	}

	return token.AccessToken, claims, nil
}

// VerifyWebhookSignature checks the HMAC-SHA256 signature the provider puts
// on webhook deliveries.
func (s *SessionService) VerifyWebhookSignature(payload []byte, signature string) error {
	mac := hmac.New(sha256.New, s.secretKey)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return apperrors.ErrInvalidWebhookSig
	}
	return nil
}
