package services

import (
	"context"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	"github.com/SscSPs/pettycash_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers retrieves a paginated list of the caller organization's users.
	ListUsers(ctx context.Context, scope domain.Scope, limit, offset int) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateUser adds a user to the caller's organization. Admin only.
	CreateUser(ctx context.Context, scope domain.Scope, req dto.CreateUserRequest) (*domain.User, error)
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with email and password.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}

// OrganizationSvcFacade defines tenant-level operations
type OrganizationSvcFacade interface {
	// GetOrganization retrieves the caller's organization.
	GetOrganization(ctx context.Context, scope domain.Scope) (*domain.Organization, error)

	// RegisterOrganization creates an organization on a trial subscription and its admin.
	RegisterOrganization(ctx context.Context, req dto.RegisterRequest) (*domain.Organization, *domain.User, error)

	// EnsureBootstrapAdmin creates the configured admin account once.
	EnsureBootstrapAdmin(ctx context.Context, organizationName, email, password string) error
}
