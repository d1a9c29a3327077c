package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bonselink/inspections/internal/http/handlers"
	mw "github.com/bonselink/inspections/internal/http/middleware"
)

func TestUserMe(t *testing.T) {
	users := newMockUsersRepo()
	if _, err := users.Create(context.Background(), "insp@example.com", "hash", "인스펙터"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	h := handlers.NewUserHandler(users)

	req := httptest.NewRequest("GET", "/api/user", nil)
	req = req.WithContext(mw.WithEmail(req.Context(), "insp@example.com"))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out struct {
		Email    string `json:"email"`
		Nickname string `json:"nickname"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Email != "insp@example.com" || out.Nickname != "인스펙터" {
		t.Errorf("body = %+v", out)
	}
}

func TestUserMeNotFound(t *testing.T) {
	h := handlers.NewUserHandler(newMockUsersRepo())

	req := httptest.NewRequest("GET", "/api/user", nil)
	req = req.WithContext(mw.WithEmail(req.Context(), "gone@example.com"))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
