package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/pettycash_backend/internal/apperrors"
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pettycash_backend/internal/core/ports/services"
	"github.com/SscSPs/pettycash_backend/internal/dto"
	"github.com/SscSPs/pettycash_backend/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxUsersPageSize = 100

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates the user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get user by ID", zap.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get user by email")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, scope domain.Scope, limit, offset int) ([]domain.User, error) {
	if err := s.RequireScope(scope); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxUsersPageSize {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.userRepo.FindUsersByOrganization(ctx, scope.OrganizationID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *userService) CreateUser(ctx context.Context, scope domain.Scope, req dto.CreateUserRequest) (*domain.User, error) {
	if err := s.RequireScope(scope); err != nil {
		return nil, err
	}
	if err := s.AuthorizeRole(ctx, scope, "create users", domain.RoleAdmin); err != nil {
		return nil, err
	}
	user, err := newUser(req.Email, req.Name, req.Password, domain.Role(req.Role), scope.OrganizationID, scope.UserID, s.Now())
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveUser(ctx, *user); err != nil {
		return nil, s.saveUserError(ctx, err)
	}
	s.LogInfo(ctx, "User created", zap.String("new_user_id", user.UserID), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *userService) saveUserError(ctx context.Context, err error) error {
	if errors.Is(err, apperrors.ErrDuplicate) {
		return apperrors.NewAppError(http.StatusConflict, "a user with this email already exists", apperrors.ErrDuplicate)
	}
	s.LogError(ctx, err, "Failed to save user")
	return err
}

func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(http.StatusUnauthorized, "invalid email or password", apperrors.ErrUnauthorized)
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, err
	}
	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.GetLogger(ctx).Info("login rejected", zap.String("user_id", user.UserID))
		return nil, apperrors.NewAppError(http.StatusUnauthorized, "invalid email or password", apperrors.ErrUnauthorized)
	}
	return user, nil
}

// newUser validates the fields of a new account and hashes its password.
// creatorID empty means the user creates itself.
func newUser(email, name, password string, role domain.Role, organizationID, creatorID string, now time.Time) (*domain.User, error) {
	email = utils.NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("a valid email is required")
	}
	if name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if len(password) < utils.MinPasswordLength {
		return nil, apperrors.NewValidationError("password must be at least 8 characters")
	}
	if len(password) > utils.MaxPasswordBytes {
		return nil, apperrors.NewValidationError(fmt.Sprintf("password must be at most %d bytes", utils.MaxPasswordBytes))
	}
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("role must be admin or accountant")
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	if creatorID == "" {
		creatorID = id
	}
	return &domain.User{
		UserID:         id,
		Email:          email,
		Name:           name,
		PasswordHash:   hash,
		Role:           role,
		OrganizationID: organizationID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}, nil
}
