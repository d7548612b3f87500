package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"org-membership-service/internal/organization/domain"
)

type orgRecord struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Description *string
	CreatedAt   time.Time
}

func (orgRecord) TableName() string { return "organisations" }

type PostgresRepository struct {
	conn *gorm.DB
}

// NewPostgresRepository returns an organisation repository backed by conn. conn may be a transaction.
func NewPostgresRepository(conn *gorm.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// GetOrganizationByID returns the organisation for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetOrganizationByID(ctx context.Context, id string) (*domain.Org, error) {
	var rec orgRecord
	err := r.conn.WithContext(ctx).Where("id = ?", id).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.Org{ID: rec.ID, Name: rec.Name, Description: rec.Description, CreatedAt: rec.CreatedAt}, nil
}

// CreateOrganization persists the organisation. The organisation must have ID set.
func (r *PostgresRepository) CreateOrganization(ctx context.Context, o *domain.Org) error {
	rec := orgRecord{ID: o.ID, Name: o.Name, Description: o.Description, CreatedAt: o.CreatedAt}
	return r.conn.WithContext(ctx).Create(&rec).Error
}
