package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"org-membership-service/internal/membership/domain"
	orgdomain "org-membership-service/internal/organization/domain"
	orgrepo "org-membership-service/internal/organization/repository"
	"org-membership-service/internal/testutil"
	userdomain "org-membership-service/internal/user/domain"
	userrepo "org-membership-service/internal/user/repository"
)

type fixture struct {
	db      *gorm.DB
	repo    *PostgresRepository
	orgs    *orgrepo.PostgresRepository
	users   *userrepo.PostgresRepository
	started time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.NewDB(t)
	return &fixture{
		db:      gdb,
		repo:    NewPostgresRepository(gdb),
		orgs:    orgrepo.NewPostgresRepository(gdb),
		users:   userrepo.NewPostgresRepository(gdb),
		started: time.Now().UTC().Truncate(time.Second),
	}
}

func (f *fixture) user(t *testing.T, id string) {
	t.Helper()
	u := &userdomain.User{ID: id, FirstName: id, LastName: "L", Email: id + "@x.com", PasswordHash: "h", CreatedAt: f.started, UpdatedAt: f.started}
	require.NoError(t, f.users.Create(context.Background(), u))
}

func (f *fixture) org(t *testing.T, id, name string) {
	t.Helper()
	require.NoError(t, f.orgs.CreateOrganization(context.Background(), &orgdomain.Org{ID: id, Name: name, CreatedAt: f.started}))
}

func (f *fixture) join(t *testing.T, userID, orgID string, offset time.Duration) {
	t.Helper()
	m := &domain.Membership{UserID: userID, OrgID: orgID, CreatedAt: f.started.Add(offset)}
	require.NoError(t, f.repo.CreateMembership(context.Background(), m))
}

func TestCreateMembership_Duplicate(t *testing.T) {
	f := newFixture(t)
	f.user(t, "u1")
	f.org(t, "o1", "Acme")
	f.join(t, "u1", "o1", 0)

	err := f.repo.CreateMembership(context.Background(), &domain.Membership{UserID: "u1", OrgID: "o1", CreatedAt: f.started})
	assert.True(t, errors.Is(err, domain.ErrMembershipExists), "got %v", err)
	assert.EqualValues(t, 1, testutil.CountRows(t, f.db, "memberships"))
}

func TestCreateMembership_ForeignKeys(t *testing.T) {
	f := newFixture(t)
	f.user(t, "u1")

	err := f.repo.CreateMembership(context.Background(), &domain.Membership{UserID: "u1", OrgID: "missing", CreatedAt: f.started})
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrMembershipExists))
}

func TestIsMemberAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "u1")
	f.user(t, "u2")
	f.org(t, "o1", "Acme")
	f.join(t, "u1", "o1", 0)

	ok, err := f.repo.IsMember(ctx, "u1", "o1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.repo.IsMember(ctx, "u2", "o1")
	require.NoError(t, err)
	assert.False(t, ok)

	m, err := f.repo.GetMembershipByUserAndOrg(ctx, "u1", "o1")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "o1", m.OrgID)

	m, err = f.repo.GetMembershipByUserAndOrg(ctx, "u2", "o1")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestListMembershipsForUser(t *testing.T) {
	f := newFixture(t)
	f.user(t, "u1")
	f.org(t, "o1", "First")
	f.org(t, "o2", "Second")
	f.org(t, "o3", "Other")
	f.join(t, "u1", "o2", time.Minute)
	f.join(t, "u1", "o1", 0)

	list, err := f.repo.ListMembershipsForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "First", list[0].Org.Name)
	assert.Equal(t, "Second", list[1].Org.Name)
	assert.Nil(t, list[0].Org.Description)
	assert.True(t, list[1].JoinedAt.Equal(f.started.Add(time.Minute)))

	empty, err := f.repo.ListMembershipsForUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFindCommonOrganizations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		f.user(t, id)
	}
	f.org(t, "o1", "One")
	f.org(t, "o2", "Two")
	f.join(t, "a", "o1", 0)
	f.join(t, "b", "o1", 0)
	f.join(t, "a", "o2", 0)
	f.join(t, "c", "o2", 0)

	common, err := f.repo.FindCommonOrganizations(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"o1"}, common)

	common, err = f.repo.FindCommonOrganizations(ctx, "b", "c")
	require.NoError(t, err)
	assert.Empty(t, common)
}
