// Package txn runs multi-repository writes inside a single database transaction.
package txn

import (
	"context"

	"gorm.io/gorm"

	membershipdomain "org-membership-service/internal/membership/domain"
	membershiprepo "org-membership-service/internal/membership/repository"
	orgdomain "org-membership-service/internal/organization/domain"
	orgrepo "org-membership-service/internal/organization/repository"
	userdomain "org-membership-service/internal/user/domain"
	userrepo "org-membership-service/internal/user/repository"
)

// UserWriter is the user store surface available inside a transaction.
type UserWriter interface {
	Create(ctx context.Context, u *userdomain.User) error
}

// OrgWriter is the organisation store surface available inside a transaction.
type OrgWriter interface {
	CreateOrganization(ctx context.Context, o *orgdomain.Org) error
}

// MembershipWriter is the membership store surface available inside a transaction.
type MembershipWriter interface {
	CreateMembership(ctx context.Context, m *membershipdomain.Membership) error
}

// Repos are repositories bound to one transaction.
type Repos struct {
	Users       UserWriter
	Orgs        OrgWriter
	Memberships MembershipWriter
}

// Transactor runs fn in a transaction; a non-nil return rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(Repos) error) error
}

// GormRunner is the Transactor backed by a GORM handle.
type GormRunner struct {
	db *gorm.DB
}

// NewGormRunner returns a GormRunner using db.
func NewGormRunner(db *gorm.DB) *GormRunner {
	return &GormRunner{db: db}
}

// WithinTx begins a transaction, hands fn repositories bound to it, and commits when
// fn returns nil. Any error (or panic) from fn rolls back. fn's error is returned unchanged.
func (r *GormRunner) WithinTx(ctx context.Context, fn func(Repos) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repos{
			Users:       userrepo.NewPostgresRepository(tx),
			Orgs:        orgrepo.NewPostgresRepository(tx),
			Memberships: membershiprepo.NewPostgresRepository(tx),
		})
	})
}
