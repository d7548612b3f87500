package repository

import (
	"context"

	"org-membership-service/internal/organization/domain"
)

// Repository defines persistence for organisations.
type Repository interface {
	GetOrganizationByID(ctx context.Context, id string) (*domain.Org, error)
	CreateOrganization(ctx context.Context, o *domain.Org) error
}
