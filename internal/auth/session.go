package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/darsihq/darsi/internal/api"
)

// Session is the authenticated state injected into the API client at
// construction. It is the one place a bearer token is read from; nothing
// else touches stored credentials.
type Session struct {
	BearerToken string
	User        api.User
	SavedAt     time.Time
}

// Token implements api.TokenSource.
func (s *Session) Token() (string, error) {
	if s == nil || s.BearerToken == "" {
		return "", api.ErrNotAuthenticated
	}
	return s.BearerToken, nil
}

// StudentID identifies the learner for the progress endpoints. Prefers
// the token's subject claim, falling back to the stored account id.
func (s *Session) StudentID() string {
	if claims, err := s.Claims(); err == nil && claims.Subject != "" {
		return claims.Subject
	}
	return strconv.Itoa(s.User.ID)
}

// Claims are the token fields the client cares about. The token is
// decoded without verification: the backend is the authority and answers
// 401 regardless; the client only wants the subject and an expiry hint.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Claims decodes the bearer token's registered claims.
func (s *Session) Claims() (*Claims, error) {
	if s == nil || s.BearerToken == "" {
		return nil, api.ErrNotAuthenticated
	}

	parser := jwt.NewParser()
	var rc jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(s.BearerToken, &rc); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	claims := &Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		claims.ExpiresAt = rc.ExpiresAt.Time
	}
	return claims, nil
}

// LikelyExpired reports whether the token's exp claim has passed. A
// best-effort hint for the login prompt; tokens without an exp claim are
// never reported expired.
func (s *Session) LikelyExpired(now time.Time) bool {
	claims, err := s.Claims()
	if err != nil || claims.ExpiresAt.IsZero() {
		return false
	}
	return now.After(claims.ExpiresAt)
}
