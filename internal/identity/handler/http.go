// Package handler serves the public registration and login endpoints.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"org-membership-service/internal/identity/domain"
	"org-membership-service/internal/platform/httpx"
	userdomain "org-membership-service/internal/user/domain"
)

// AuthService is the subset of the identity service used by the handler.
type AuthService interface {
	Register(ctx context.Context, in domain.Registration) (*domain.Session, error)
	Login(ctx context.Context, in domain.Credentials) (*domain.Session, error)
}

// Handler provides the /auth endpoints.
type Handler struct {
	Log  *zap.Logger
	Auth AuthService
}

// NewHandler creates a new auth Handler.
func NewHandler(auth AuthService, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Auth: auth}
}

// Routes mounts POST /register and POST /login. No auth middleware applies.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	return r
}

type sessionData struct {
	AccessToken string             `json:"accessToken"`
	User        userdomain.Profile `json:"user"`
}

// HandleRegister creates a user with a default organisation and returns a token.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in domain.Registration
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	s, err := h.Auth.Register(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusCreated, "Registration successful", toSessionData(s))
}

// HandleLogin exchanges credentials for a token.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in domain.Credentials
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	s, err := h.Auth.Login(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "Login successful", toSessionData(s))
}

func toSessionData(s *domain.Session) sessionData {
	return sessionData{AccessToken: s.AccessToken, User: s.User.Profile()}
}
