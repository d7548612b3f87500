package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"org-membership-service/internal/db/txn"
	membershipdomain "org-membership-service/internal/membership/domain"
	"org-membership-service/internal/organization/domain"
	"org-membership-service/internal/platform/apperr"
	"org-membership-service/internal/platform/rbac"
)

// ErrOrgNotFound is returned when a member asks for an organisation that no longer exists.
var ErrOrgNotFound = apperr.New(apperr.KindNotFound, "Organisation not found")

// CreateInput is the create-organisation payload.
type CreateInput struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// OrgRepo is the minimal organisation repository needed by the service.
type OrgRepo interface {
	GetOrganizationByID(ctx context.Context, id string) (*domain.Org, error)
}

// MembershipRepo is the minimal membership repository needed by the service.
type MembershipRepo interface {
	rbac.MembershipChecker
	ListMembershipsForUser(ctx context.Context, userID string) ([]*membershipdomain.OrgMembership, error)
}

// Validator checks request payloads.
type Validator interface {
	Struct(s interface{}) error
}

// OrgService implements organisation reads and creation for authenticated callers.
type OrgService struct {
	orgs        OrgRepo
	memberships MembershipRepo
	tx          txn.Transactor
	validator   Validator
	now         func() time.Time
}

// NewOrgService returns an OrgService with the given dependencies.
func NewOrgService(orgs OrgRepo, memberships MembershipRepo, tx txn.Transactor, validator Validator) *OrgService {
	return &OrgService{
		orgs:        orgs,
		memberships: memberships,
		tx:          tx,
		validator:   validator,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ListForUser returns every organisation callerID belongs to.
func (s *OrgService) ListForUser(ctx context.Context, callerID string) ([]*domain.Org, error) {
	list, err := s.memberships.ListMembershipsForUser(ctx, callerID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("org: list memberships: %w", err))
	}
	out := make([]*domain.Org, len(list))
	for i, m := range list {
		org := m.Org
		out[i] = &org
	}
	return out, nil
}

// GetOrganization returns orgID when callerID is a member. Membership is checked before
// the organisation is read, so non-members learn nothing about existence.
func (s *OrgService) GetOrganization(ctx context.Context, callerID, orgID string) (*domain.Org, error) {
	if err := rbac.RequireOrgMember(ctx, s.memberships, callerID, orgID); err != nil {
		return nil, err
	}
	org, err := s.orgs.GetOrganizationByID(ctx, orgID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("org: get: %w", err))
	}
	if org == nil {
		return nil, ErrOrgNotFound
	}
	return org, nil
}

// CreateOrganization creates an organisation and makes callerID its first member, atomically.
func (s *OrgService) CreateOrganization(ctx context.Context, callerID string, in CreateInput) (*domain.Org, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	now := s.now()
	org := &domain.Org{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
	}
	if err := org.Validate(); err != nil {
		return nil, apperr.Internal(fmt.Errorf("org: validate: %w", err))
	}
	err := s.tx.WithinTx(ctx, func(repos txn.Repos) error {
		if err := repos.Orgs.CreateOrganization(ctx, org); err != nil {
			return err
		}
		return repos.Memberships.CreateMembership(ctx, &membershipdomain.Membership{
			UserID:    callerID,
			OrgID:     org.ID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("org: create: %w", err))
	}
	return org, nil
}
