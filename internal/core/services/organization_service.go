package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/SscSPs/pettycash_backend/internal/apperrors"
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pettycash_backend/internal/core/ports/services"
	"github.com/SscSPs/pettycash_backend/internal/dto"
	"github.com/SscSPs/pettycash_backend/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type organizationService struct {
	BaseService
	orgRepo  portsrepo.OrganizationRepositoryFacade
	userRepo portsrepo.UserRepositoryFacade
}

// NewOrganizationService creates the tenant service.
func NewOrganizationService(orgRepo portsrepo.OrganizationRepositoryFacade, userRepo portsrepo.UserRepositoryFacade) portssvc.OrganizationSvcFacade {
	return &organizationService{orgRepo: orgRepo, userRepo: userRepo}
}

var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

func (s *organizationService) GetOrganization(ctx context.Context, scope domain.Scope) (*domain.Organization, error) {
	if err := s.RequireScope(scope); err != nil {
		return nil, err
	}
	org, err := s.orgRepo.FindOrganizationByID(ctx, scope.OrganizationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get organization")
		}
		return nil, err
	}
	return org, nil
}

func (s *organizationService) RegisterOrganization(ctx context.Context, req dto.RegisterRequest) (*domain.Organization, *domain.User, error) {
	name := strings.TrimSpace(req.OrganizationName)
	if name == "" {
		return nil, nil, apperrors.NewValidationError("organizationName is required")
	}

	now := s.Now()
	org := domain.Organization{
		OrganizationID:     uuid.NewString(),
		Name:               name,
		SubscriptionStatus: domain.SubscriptionTrial,
	}
	owner, err := newUser(req.Email, req.Name, req.Password, domain.RoleAdmin, org.OrganizationID, "", now)
	if err != nil {
		return nil, nil, err
	}
	org.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     owner.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: owner.UserID,
	}

	if err := s.orgRepo.SaveOrganizationWithOwner(ctx, org, *owner); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, nil, apperrors.NewAppError(http.StatusConflict, "a user with this email already exists", apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to register organization")
		return nil, nil, err
	}

	s.LogInfo(ctx, "Organization registered",
		zap.String("organization_id", org.OrganizationID),
		zap.String("owner_id", owner.UserID))
	return &org, owner, nil
}

// EnsureBootstrapAdmin is a no-op when the email is empty or already registered.
func (s *organizationService) EnsureBootstrapAdmin(ctx context.Context, organizationName, email, password string) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	_, err := s.userRepo.FindUserByEmail(ctx, utils.NormalizeEmail(email))
	if err == nil {
		s.LogDebug(ctx, "Bootstrap admin already present")
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if strings.TrimSpace(organizationName) == "" {
		organizationName = "Default Organization"
	}

	_, _, err = s.RegisterOrganization(ctx, dto.RegisterRequest{
		OrganizationName: organizationName,
		Name:             "Administrator",
		Email:            email,
		Password:         password,
	})
	if errors.Is(err, apperrors.ErrDuplicate) {
		// Another instance won the race.
		return nil
	}
	return err
}
