package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"org-membership-service/internal/db"
	"org-membership-service/internal/user/domain"
)

type userRecord struct {
	ID           string `gorm:"primaryKey"`
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Phone        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

type PostgresRepository struct {
	conn *gorm.DB
}

// NewPostgresRepository returns a user repository backed by conn. conn may be a transaction.
func NewPostgresRepository(conn *gorm.DB) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail returns the user with the given (normalized) email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *PostgresRepository) first(ctx context.Context, query string, arg string) (*domain.User, error) {
	var rec userRecord
	err := r.conn.WithContext(ctx).Where(query, arg).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return recordToDomain(&rec), nil
}

// Create persists the user. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	rec := userRecord{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.Phone != "" {
		phone := u.Phone
		rec.Phone = &phone
	}
	if err := r.conn.WithContext(ctx).Create(&rec).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return err
	}
	return nil
}

func recordToDomain(rec *userRecord) *domain.User {
	u := &domain.User{
		ID:           rec.ID,
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	if rec.Phone != nil {
		u.Phone = *rec.Phone
	}
	return u
}
