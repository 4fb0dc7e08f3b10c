package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"olstar_backend/internal/models"
)

const (
	SessionCookie = "olstar_session"
	CSRFCookie    = "XSRF-TOKEN"
)

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored by LoadSession, if any.
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(models.Principal)
	return p, ok
}

type sessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	CSRF  string `json:"csrf"`
	jwt.RegisteredClaims
}

// Sessions issues and reads the signed session cookie. The role is
// snapshotted at login and never re-fetched while the cookie is valid.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewSessions(secret string, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl, secure: secure}
}

// Issue replaces any existing session with one for p and returns the
// freshly minted CSRF token.
func (s *Sessions) Issue(c *gin.Context, p models.Principal) (string, error) {
	p.CSRFToken = uuid.NewString()
	token, err := s.Sign(p, time.Now())
	if err != nil {
		return "", err
	}

	maxAge := int(s.ttl / time.Second)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", s.secure, true)
	c.SetCookie(CSRFCookie, p.CSRFToken, maxAge, "/", "", s.secure, false)
	return p.CSRFToken, nil
}

// Clear expires both cookies.
func (s *Sessions) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", s.secure, true)
	c.SetCookie(CSRFCookie, "", -1, "/", "", s.secure, false)
}

// Sign encodes p as an HS256 token valid from now for the session TTL.
func (s *Sessions) Sign(p models.Principal, now time.Time) (string, error) {
	claims := sessionClaims{
		Email: p.Email,
		Role:  p.Role,
		CSRF:  p.CSRFToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Parse validates a session token and returns its principal.
func (s *Sessions) Parse(tokenString string) (models.Principal, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return models.Principal{}, err
	}
	if !token.Valid || claims.Subject == "" {
		return models.Principal{}, errors.New("invalid session claims")
	}
	return models.Principal{
		UID:       claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
		CSRFToken: claims.CSRF,
	}, nil
}

// LoadSession puts the cookie's principal, when valid, on the request
// context. It never rejects; the guards decide what absence means.
func (s *Sessions) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || raw == "" {
			c.Next()
			return
		}
		p, err := s.Parse(raw)
		if err != nil {
			logrus.WithError(err).Debug("discarding invalid session cookie")
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}
