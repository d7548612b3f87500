package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"org-membership-service/internal/db"
	"org-membership-service/internal/membership/domain"
	orgdomain "org-membership-service/internal/organization/domain"
)

type membershipRecord struct {
	UserID    string `gorm:"primaryKey"`
	OrgID     string `gorm:"primaryKey"`
	CreatedAt time.Time
}

func (membershipRecord) TableName() string { return "memberships" }

type orgMembershipRow struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
	JoinedAt    time.Time
}

type PostgresRepository struct {
	conn *gorm.DB
}

// NewPostgresRepository returns a membership repository backed by conn. conn may be a transaction.
func NewPostgresRepository(conn *gorm.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// GetMembershipByUserAndOrg returns the membership for the given user and org, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	var rec membershipRecord
	err := r.conn.WithContext(ctx).Where("user_id = ? AND org_id = ?", userID, orgID).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.Membership{UserID: rec.UserID, OrgID: rec.OrgID, CreatedAt: rec.CreatedAt}, nil
}

// IsMember reports whether userID belongs to orgID.
func (r *PostgresRepository) IsMember(ctx context.Context, userID, orgID string) (bool, error) {
	var n int64
	err := r.conn.WithContext(ctx).Model(&membershipRecord{}).
		Where("user_id = ? AND org_id = ?", userID, orgID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListMembershipsForUser returns every organisation userID belongs to, oldest membership first.
func (r *PostgresRepository) ListMembershipsForUser(ctx context.Context, userID string) ([]*domain.OrgMembership, error) {
	var rows []orgMembershipRow
	err := r.conn.WithContext(ctx).
		Table("memberships AS m").
		Select("o.id, o.name, o.description, o.created_at, m.created_at AS joined_at").
		Joins("JOIN organisations AS o ON o.id = m.org_id").
		Where("m.user_id = ?", userID).
		Order("m.created_at, o.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*domain.OrgMembership, len(rows))
	for i, row := range rows {
		out[i] = &domain.OrgMembership{
			Org: orgdomain.Org{
				ID:          row.ID,
				Name:        row.Name,
				Description: row.Description,
				CreatedAt:   row.CreatedAt,
			},
			JoinedAt: row.JoinedAt,
		}
	}
	return out, nil
}

// FindCommonOrganizations returns the ids of organisations both userA and userB belong to.
func (r *PostgresRepository) FindCommonOrganizations(ctx context.Context, userA, userB string) ([]string, error) {
	var ids []string
	err := r.conn.WithContext(ctx).
		Table("memberships AS a").
		Joins("JOIN memberships AS b ON b.org_id = a.org_id").
		Where("a.user_id = ? AND b.user_id = ?", userA, userB).
		Order("a.org_id").
		Pluck("a.org_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CreateMembership persists the membership. A duplicate (user, org) pair returns domain.ErrMembershipExists.
func (r *PostgresRepository) CreateMembership(ctx context.Context, m *domain.Membership) error {
	rec := membershipRecord{UserID: m.UserID, OrgID: m.OrgID, CreatedAt: m.CreatedAt}
	if err := r.conn.WithContext(ctx).Create(&rec).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return domain.ErrMembershipExists
		}
		return err
	}
	return nil
}
