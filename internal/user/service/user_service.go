package service

import (
	"context"
	"fmt"

	"org-membership-service/internal/platform/apperr"
	"org-membership-service/internal/platform/rbac"
	"org-membership-service/internal/user/domain"
)

// ErrUserNotFound is returned when a visible profile has no backing user.
var ErrUserNotFound = apperr.New(apperr.KindNotFound, "User not found")

// UserRepo is the minimal user repository needed by the service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// UserService serves user profiles.
type UserService struct {
	users  UserRepo
	finder rbac.CommonOrgFinder
}

// NewUserService returns a UserService.
func NewUserService(users UserRepo, finder rbac.CommonOrgFinder) *UserService {
	return &UserService{users: users, finder: finder}
}

// GetProfile returns targetID's sanitized profile if callerID may see it.
func (s *UserService) GetProfile(ctx context.Context, callerID, targetID string) (*domain.Profile, error) {
	if err := rbac.RequireProfileVisibility(ctx, s.finder, callerID, targetID); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("user: get: %w", err))
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	p := u.Profile()
	return &p, nil
}
