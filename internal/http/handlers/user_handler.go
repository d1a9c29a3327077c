package handlers

import (
	"net/http"

	mw "github.com/bonselink/inspections/internal/http/middleware"
	"github.com/bonselink/inspections/internal/http/response"
	"github.com/bonselink/inspections/internal/repo/postgres"
	"github.com/bonselink/inspections/pkg/logger"
)

type UserHandler struct {
	Users postgres.UsersRepo
}

func NewUserHandler(users postgres.UsersRepo) *UserHandler {
	return &UserHandler{Users: users}
}

// Me returns the authenticated user's public profile.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.FindByEmail(r.Context(), mw.Email(r))
	if err != nil {
		logger.ErrorContext(r.Context(), "user lookup failed", "error", err)
		response.InternalError(w, "lookup failed")
		return
	}
	if u == nil {
		response.NotFound(w, "user not found")
		return
	}

	response.JSON(w, http.StatusOK, u.ToUserInfo())
}
