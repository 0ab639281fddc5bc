package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/darsihq/darsi/internal/api"
)

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: sub}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestToken_NoSession(t *testing.T) {
	var s *Session
	if _, err := s.Token(); !errors.Is(err, api.ErrNotAuthenticated) {
		t.Errorf("Token() on nil session = %v, want ErrNotAuthenticated", err)
	}

	empty := &Session{}
	if _, err := empty.Token(); !errors.Is(err, api.ErrNotAuthenticated) {
		t.Errorf("Token() on empty session = %v, want ErrNotAuthenticated", err)
	}
}

func TestStudentID_PrefersSubjectClaim(t *testing.T) {
	s := &Session{
		BearerToken: signedToken(t, "stu-42", time.Time{}),
		User:        api.User{ID: 7},
	}
	if got := s.StudentID(); got != "stu-42" {
		t.Errorf("StudentID() = %q, want subject claim", got)
	}
}

func TestStudentID_FallsBackToAccountID(t *testing.T) {
	s := &Session{BearerToken: "not-a-jwt", User: api.User{ID: 7}}
	if got := s.StudentID(); got != "7" {
		t.Errorf("StudentID() = %q, want %q", got, "7")
	}
}

func TestLikelyExpired(t *testing.T) {
	now := time.Now()

	expired := &Session{BearerToken: signedToken(t, "s", now.Add(-time.Hour))}
	if !expired.LikelyExpired(now) {
		t.Error("token with past exp should report expired")
	}

	fresh := &Session{BearerToken: signedToken(t, "s", now.Add(time.Hour))}
	if fresh.LikelyExpired(now) {
		t.Error("token with future exp should not report expired")
	}

	noExp := &Session{BearerToken: signedToken(t, "s", time.Time{})}
	if noExp.LikelyExpired(now) {
		t.Error("token without exp claim should never report expired")
	}
}
