// Package rbac holds the authorization predicates handlers compose after authentication.
// The only relationship checked is "is a member"; there are no roles.
package rbac

import (
	"context"
	"fmt"

	"org-membership-service/internal/platform/apperr"
)

// Sentinel errors; httpx.WriteError maps them to HTTP statuses.
var (
	ErrNotOrgMember       = apperr.New(apperr.KindAuthorization, "Not a member of this organisation")
	ErrProfileNotVisible  = apperr.New(apperr.KindBadRequest, "Client error")
	ErrMissingCallerIdent = apperr.New(apperr.KindTokenMissing, "Authentication required")
)

// MembershipChecker answers single membership questions.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID, orgID string) (bool, error)
}

// CommonOrgFinder lists organisations two users share.
type CommonOrgFinder interface {
	FindCommonOrganizations(ctx context.Context, userA, userB string) ([]string, error)
}

// RequireOrgMember returns nil when userID belongs to orgID and ErrNotOrgMember otherwise.
// Callers run it before reading any organisation data.
func RequireOrgMember(ctx context.Context, checker MembershipChecker, userID, orgID string) error {
	if userID == "" {
		return ErrMissingCallerIdent
	}
	ok, err := checker.IsMember(ctx, userID, orgID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("rbac: resolve membership: %w", err))
	}
	if !ok {
		return ErrNotOrgMember
	}
	return nil
}

// RequireProfileVisibility allows callerID to see targetID's profile when they are the same
// user or share at least one organisation. Otherwise it returns ErrProfileNotVisible.
func RequireProfileVisibility(ctx context.Context, finder CommonOrgFinder, callerID, targetID string) error {
	if callerID == "" {
		return ErrMissingCallerIdent
	}
	if callerID == targetID {
		return nil
	}
	common, err := finder.FindCommonOrganizations(ctx, callerID, targetID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("rbac: resolve common organisations: %w", err))
	}
	if len(common) == 0 {
		return ErrProfileNotVisible
	}
	return nil
}
