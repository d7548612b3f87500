// Package handler serves membership management.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"org-membership-service/internal/membership/domain"
	"org-membership-service/internal/membership/service"
	"org-membership-service/internal/platform/httpx"
	"org-membership-service/internal/server/middleware"
)

// MembershipService adds users to organisations.
type MembershipService interface {
	AddMember(ctx context.Context, callerID, orgID string, in service.AddMemberInput) (*domain.Membership, error)
}

// Handler provides POST /api/organisations/{orgId}/users. It expects RequireAuth upstream.
type Handler struct {
	Log         *zap.Logger
	Memberships MembershipService
}

// NewHandler creates a new membership Handler.
func NewHandler(memberships MembershipService, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Memberships: memberships}
}

// HandleAddMember adds the user named in the body to {orgId}. The caller must already be a member.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httpx.WriteError(w, h.Log, middleware.ErrTokenMissing)
		return
	}
	var in service.AddMemberInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	orgID := chi.URLParam(r, "orgId")
	m, err := h.Memberships.AddMember(r.Context(), caller.UserID, orgID, in)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	h.Log.Info("member added",
		zap.String("org_id", m.OrgID),
		zap.String("user_id", m.UserID),
		zap.String("added_by", caller.UserID))
	httpx.WriteSuccess(w, http.StatusOK, "User added to organisation successfully", nil)
}
