package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexedwards/argon2id"

	"github.com/bonselink/inspections/internal/domain"
	"github.com/bonselink/inspections/internal/http/response"
	"github.com/bonselink/inspections/internal/platform/auth"
	"github.com/bonselink/inspections/internal/repo/postgres"
	"github.com/bonselink/inspections/internal/utils"
	"github.com/bonselink/inspections/pkg/events"
	"github.com/bonselink/inspections/pkg/logger"
)

type AuthHandler struct {
	Users  postgres.UsersRepo
	Tokens *auth.TokenService
	Events events.Publisher
}

func NewAuthHandler(users postgres.UsersRepo, tokens *auth.TokenService, bus events.Publisher) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens, Events: bus}
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Nickname string `json:"nickname"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	in.Email = utils.NormalizeString(in.Email)
	in.Nickname = utils.NormalizeString(in.Nickname)
	if in.Email == "" || in.Password == "" || in.Nickname == "" {
		response.BadRequest(w, "email, password and nickname are required")
		return
	}
	if !utils.IsValidEmail(in.Email) {
		response.BadRequest(w, "invalid email address")
		return
	}

	hash, err := argon2id.CreateHash(in.Password, argon2id.DefaultParams)
	if err != nil {
		logger.ErrorContext(r.Context(), "password hash failed", "error", err)
		response.InternalError(w, "signup failed")
		return
	}

	u, err := h.Users.Create(r.Context(), in.Email, hash, in.Nickname)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			response.WriteError(w, http.StatusBadRequest, "email already registered", response.CodeEmailExists)
			return
		}
		logger.ErrorContext(r.Context(), "user create failed", "error", err)
		response.InternalError(w, "signup failed")
		return
	}

	h.publish(r, events.UserRegistered, events.UserRegisteredEvent{
		Email:     u.Email,
		Nickname:  u.Nickname,
		CreatedAt: u.CreatedAt,
	})

	response.JSON(w, http.StatusOK, map[string]string{"message": "signup complete"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" || in.Password == "" {
		response.BadRequest(w, "email and password are required")
		return
	}

	u, err := h.Users.FindByEmail(r.Context(), utils.NormalizeString(in.Email))
	if err != nil {
		logger.ErrorContext(r.Context(), "user lookup failed", "error", err)
		response.InternalError(w, "login failed")
		return
	}
	if u == nil {
		response.Unauthorized(w, "invalid credentials")
		return
	}

	ok, _ := argon2id.ComparePasswordAndHash(in.Password, u.PasswordHash)
	if !ok {
		response.Unauthorized(w, "invalid credentials")
		return
	}

	access, refresh, err := h.Tokens.Issue(u.Email)
	if err != nil {
		logger.ErrorContext(r.Context(), "token issue failed", "error", err)
		response.InternalError(w, "login failed")
		return
	}

	response.JSON(w, http.StatusOK, tokenPair{AccessToken: access, RefreshToken: refresh})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.RefreshToken == "" {
		response.Unauthorized(w, "missing refresh token")
		return
	}

	access, refresh, err := h.Tokens.Rotate(in.RefreshToken)
	if err != nil {
		response.Forbidden(w, "invalid or expired refresh token")
		return
	}

	response.JSON(w, http.StatusOK, tokenPair{AccessToken: access, RefreshToken: refresh})
}

// publish is best-effort: event delivery never fails a request.
func (h *AuthHandler) publish(r *http.Request, subject string, data interface{}) {
	if h.Events == nil {
		return
	}
	if err := h.Events.Publish(r.Context(), subject, data); err != nil {
		logger.WarnContext(r.Context(), "event publish failed", "subject", subject, "error", err)
	}
}
