// Package handler serves organisation listing, lookup, and creation.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"org-membership-service/internal/organization/domain"
	"org-membership-service/internal/organization/service"
	"org-membership-service/internal/platform/httpx"
	"org-membership-service/internal/server/middleware"
)

// OrgService is the subset of the organisation service used by the handler.
type OrgService interface {
	ListForUser(ctx context.Context, callerID string) ([]*domain.Org, error)
	GetOrganization(ctx context.Context, callerID, orgID string) (*domain.Org, error)
	CreateOrganization(ctx context.Context, callerID string, in service.CreateInput) (*domain.Org, error)
}

// Handler provides the /api/organisations endpoints. Routes expect RequireAuth upstream.
type Handler struct {
	Log  *zap.Logger
	Orgs OrgService
}

// NewHandler creates a new organisations Handler.
func NewHandler(orgs OrgService, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Orgs: orgs}
}

type listData struct {
	Organisations []domain.View `json:"organisations"`
}

// ServeList returns every organisation the caller belongs to.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httpx.WriteError(w, h.Log, middleware.ErrTokenMissing)
		return
	}
	orgs, err := h.Orgs.ListForUser(r.Context(), caller.UserID)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	views := make([]domain.View, len(orgs))
	for i, o := range orgs {
		views[i] = o.View()
	}
	httpx.WriteSuccess(w, http.StatusOK, "Organisations retrieved successfully", listData{Organisations: views})
}

// ServeOrganisation returns {orgId} if the caller is a member.
func (h *Handler) ServeOrganisation(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httpx.WriteError(w, h.Log, middleware.ErrTokenMissing)
		return
	}
	org, err := h.Orgs.GetOrganization(r.Context(), caller.UserID, chi.URLParam(r, "orgId"))
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "Organisation found successfully", org.View())
}

// HandleCreate creates an organisation with the caller as its first member.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httpx.WriteError(w, h.Log, middleware.ErrTokenMissing)
		return
	}
	var in service.CreateInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	org, err := h.Orgs.CreateOrganization(r.Context(), caller.UserID, in)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusCreated, "Organisation created successfully", org.View())
}
