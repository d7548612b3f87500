package domain

import (
	"errors"
	"time"

	orgdomain "org-membership-service/internal/organization/domain"
)

// ErrMembershipExists is returned by the store when the (user, org) pair already exists.
var ErrMembershipExists = errors.New("membership already exists")

// Membership links a user to an organisation. The (UserID, OrgID) pair is unique.
type Membership struct {
	UserID    string
	OrgID     string
	CreatedAt time.Time
}

// OrgMembership is an organisation the user belongs to, with the time they joined.
type OrgMembership struct {
	Org      orgdomain.Org
	JoinedAt time.Time
}
