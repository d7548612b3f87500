package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-membership-service/internal/platform/apperr"
	"org-membership-service/internal/platform/rbac"
	"org-membership-service/internal/user/domain"
)

type memUsers map[string]*domain.User

func (m memUsers) GetByID(_ context.Context, id string) (*domain.User, error) { return m[id], nil }

type memCommon struct {
	shared map[[2]string]bool
	err    error
}

func (m memCommon) FindCommonOrganizations(_ context.Context, a, b string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.shared[[2]string{a, b}] || m.shared[[2]string{b, a}] {
		return []string{"org-1"}, nil
	}
	return nil, nil
}

func newService(common memCommon) *UserService {
	users := memUsers{
		"alice": {ID: "alice", FirstName: "Alice", LastName: "A", Email: "alice@x.com", PasswordHash: "secret-hash", Phone: "+1555"},
		"bob":   {ID: "bob", FirstName: "Bob", LastName: "B", Email: "bob@x.com", PasswordHash: "secret-hash"},
	}
	return NewUserService(users, common)
}

func TestGetProfile_Self(t *testing.T) {
	svc := newService(memCommon{})
	p, err := svc.GetProfile(context.Background(), "alice", "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.Profile{UserID: "alice", FirstName: "Alice", LastName: "A", Email: "alice@x.com", Phone: "+1555"}, *p)
}

func TestGetProfile_SharedOrganisation(t *testing.T) {
	svc := newService(memCommon{shared: map[[2]string]bool{{"alice", "bob"}: true}})
	p, err := svc.GetProfile(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", p.UserID)
	assert.Empty(t, p.Phone)
}

func TestGetProfile_NotVisible(t *testing.T) {
	svc := newService(memCommon{})
	_, err := svc.GetProfile(context.Background(), "alice", "bob")
	assert.Same(t, rbac.ErrProfileNotVisible, err)
}

func TestGetProfile_SelfMissing(t *testing.T) {
	svc := newService(memCommon{})
	_, err := svc.GetProfile(context.Background(), "deleted", "deleted")
	assert.Same(t, ErrUserNotFound, err)
}

func TestGetProfile_StoreError(t *testing.T) {
	svc := newService(memCommon{err: errors.New("timeout")})
	_, err := svc.GetProfile(context.Background(), "alice", "bob")
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
