package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mw "github.com/bonselink/inspections/internal/http/middleware"
	"github.com/bonselink/inspections/internal/platform/auth"
)

func protectedEcho(tokens *auth.TokenService) http.Handler {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(mw.Email(r)))
	})
	return mw.RequireAuth(tokens)(echo)
}

func TestRequireAuthMissingHeader(t *testing.T) {
	tokens := auth.NewTokenService("a", "r", time.Hour, time.Hour)
	rec := httptest.NewRecorder()

	protectedEcho(tokens).ServeHTTP(rec, httptest.NewRequest("GET", "/api/user", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no header: status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	tokens := auth.NewTokenService("a", "r", time.Hour, time.Hour)
	req := httptest.NewRequest("GET", "/api/user", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()

	protectedEcho(tokens).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("bad token: status = %d, want 403", rec.Code)
	}
}

func TestRequireAuthExpiredToken(t *testing.T) {
	expired := auth.NewTokenService("a", "r", -time.Minute, time.Hour)
	access, _, err := expired.Issue("insp@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tokens := auth.NewTokenService("a", "r", time.Hour, time.Hour)
	req := httptest.NewRequest("GET", "/api/user", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()

	protectedEcho(tokens).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expired token: status = %d, want 403", rec.Code)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	tokens := auth.NewTokenService("a", "r", time.Hour, time.Hour)
	access, _, err := tokens.Issue("insp@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/user", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()

	protectedEcho(tokens).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "insp@example.com" {
		t.Errorf("handler saw identity %q", got)
	}
}
