package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"org-membership-service/internal/membership/domain"
	orgdomain "org-membership-service/internal/organization/domain"
	"org-membership-service/internal/platform/apperr"
	"org-membership-service/internal/platform/rbac"
	userdomain "org-membership-service/internal/user/domain"
)

// Sentinel errors; httpx.WriteError maps them to HTTP statuses.
var (
	ErrOrgNotFound   = apperr.New(apperr.KindBadRequest, "Organisation not found")
	ErrUserNotFound  = apperr.New(apperr.KindBadRequest, "User not found")
	ErrAlreadyMember = apperr.New(apperr.KindConflict, "User is already a member of this organisation")
)

// AddMemberInput is the add-user-to-organisation payload.
type AddMemberInput struct {
	UserID string `json:"userId" validate:"required,max=64"`
}

// MembershipRepo is the minimal membership repository needed by the service.
type MembershipRepo interface {
	rbac.MembershipChecker
	CreateMembership(ctx context.Context, m *domain.Membership) error
}

// OrgRepo is the minimal organisation repository needed by the service.
type OrgRepo interface {
	GetOrganizationByID(ctx context.Context, id string) (*orgdomain.Org, error)
}

// UserRepo is the minimal user repository needed by the service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

// Validator checks request payloads.
type Validator interface {
	Struct(s interface{}) error
}

// MembershipService adds users to organisations.
type MembershipService struct {
	memberships MembershipRepo
	orgs        OrgRepo
	users       UserRepo
	validator   Validator
	now         func() time.Time
}

// NewMembershipService returns a MembershipService with the given dependencies.
func NewMembershipService(memberships MembershipRepo, orgs OrgRepo, users UserRepo, validator Validator) *MembershipService {
	return &MembershipService{
		memberships: memberships,
		orgs:        orgs,
		users:       users,
		validator:   validator,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// AddMember adds in.UserID to orgID on behalf of callerID, who must already be a member.
// Adding an existing member fails with ErrAlreadyMember and writes nothing.
func (s *MembershipService) AddMember(ctx context.Context, callerID, orgID string, in AddMemberInput) (*domain.Membership, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	org, err := s.orgs.GetOrganizationByID(ctx, orgID)
	if err != nil {
		return nil, s.internal("get organisation", err)
	}
	if org == nil {
		return nil, ErrOrgNotFound
	}
	if err := rbac.RequireOrgMember(ctx, s.memberships, callerID, orgID); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, s.internal("get user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	m := &domain.Membership{UserID: user.ID, OrgID: org.ID, CreatedAt: s.now()}
	if err := s.memberships.CreateMembership(ctx, m); err != nil {
		if errors.Is(err, domain.ErrMembershipExists) {
			return nil, ErrAlreadyMember
		}
		return nil, s.internal("create membership", err)
	}
	return m, nil
}

func (s *MembershipService) internal(op string, err error) error {
	return apperr.Internal(fmt.Errorf("membership: %s: %w", op, err))
}
