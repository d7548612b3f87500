// Package handler serves user profile lookups.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"org-membership-service/internal/platform/httpx"
	"org-membership-service/internal/server/middleware"
	"org-membership-service/internal/user/domain"
)

// UserService returns profiles visible to the caller.
type UserService interface {
	GetProfile(ctx context.Context, callerID, targetID string) (*domain.Profile, error)
}

// Handler provides the /api/users endpoints. Routes expect RequireAuth upstream.
type Handler struct {
	Log   *zap.Logger
	Users UserService
}

// NewHandler creates a new users Handler.
func NewHandler(users UserService, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Users: users}
}

// Routes mounts GET /{id}.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", h.ServeProfile)
	return r
}

// ServeProfile returns the profile of {id} when the caller is that user or shares an organisation with them.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httpx.WriteError(w, h.Log, middleware.ErrTokenMissing)
		return
	}
	p, err := h.Users.GetProfile(r.Context(), caller.UserID, chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "User found successfully", p)
}
