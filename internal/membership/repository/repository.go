package repository

import (
	"context"

	"org-membership-service/internal/membership/domain"
)

// Repository defines persistence for memberships.
type Repository interface {
	GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error)
	IsMember(ctx context.Context, userID, orgID string) (bool, error)
	ListMembershipsForUser(ctx context.Context, userID string) ([]*domain.OrgMembership, error)
	// FindCommonOrganizations returns the ids of organisations both users belong to.
	FindCommonOrganizations(ctx context.Context, userA, userB string) ([]string, error)
	// CreateMembership returns domain.ErrMembershipExists when the pair already exists.
	CreateMembership(ctx context.Context, m *domain.Membership) error
}
