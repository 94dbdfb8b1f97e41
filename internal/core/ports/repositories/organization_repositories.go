package repositories

import (
	"context"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
)

// OrganizationReader defines read operations for organizations
type OrganizationReader interface {
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)
}

// OrganizationWriter defines write operations for organizations
type OrganizationWriter interface {
	// SaveOrganizationWithOwner creates an organization and its first admin atomically.
	SaveOrganizationWithOwner(ctx context.Context, org domain.Organization, owner domain.User) error
}

// OrganizationRepositoryFacade combines all organization-related repository interfaces
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
}
