package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/pettycash_backend/internal/apperrors"
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pettycash_backend/internal/core/ports/services"
	"github.com/SscSPs/pettycash_backend/internal/core/services"
	"github.com/SscSPs/pettycash_backend/internal/dto"
	"github.com/SscSPs/pettycash_backend/internal/platform/config"
	"github.com/SscSPs/pettycash_backend/internal/repositories/memory"
	"github.com/SscSPs/pettycash_backend/internal/utils"
	"github.com/stretchr/testify/suite"
)

type IdentityServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	repos portsrepo.RepositoryProvider
	users portssvc.UserSvcFacade
	orgs  portssvc.OrganizationSvcFacade
}

func (suite *IdentityServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.repos = memory.NewRepositoryProvider(memory.NewStore())
	suite.users = services.NewUserService(suite.repos.UserRepo)
	suite.orgs = services.NewOrganizationService(suite.repos.OrganizationRepo, suite.repos.UserRepo)
}

func (suite *IdentityServiceTestSuite) register(email string) (*domain.Organization, *domain.User) {
	org, owner, err := suite.orgs.RegisterOrganization(suite.ctx, dto.RegisterRequest{
		OrganizationName: "Acme Ltd",
		Name:             "Owner",
		Email:            email,
		Password:         "correct horse",
	})
	suite.Require().NoError(err)
	return org, owner
}

func (suite *IdentityServiceTestSuite) TestRegisterOrganization() {
	org, owner := suite.register("Owner@Acme.test")

	suite.Equal(domain.SubscriptionTrial, org.SubscriptionStatus)
	suite.Equal(domain.RoleAdmin, owner.Role)
	suite.Equal(org.OrganizationID, owner.OrganizationID)
	suite.Equal("owner@acme.test", owner.Email)
	suite.NotEqual("correct horse", owner.PasswordHash)

	stored, err := suite.orgs.GetOrganization(suite.ctx, domain.Scope{UserID: owner.UserID, OrganizationID: org.OrganizationID})
	suite.Require().NoError(err)
	suite.Equal("Acme Ltd", stored.Name)

	_, _, err = suite.orgs.RegisterOrganization(suite.ctx, dto.RegisterRequest{
		OrganizationName: "Copycat", Name: "X", Email: "OWNER@acme.test", Password: "password1",
	})
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *IdentityServiceTestSuite) TestRegisterOrganization_Validation() {
	_, _, err := suite.orgs.RegisterOrganization(suite.ctx, dto.RegisterRequest{
		OrganizationName: "Acme", Name: "X", Email: "x@acme.test", Password: "short",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, _, err = suite.orgs.RegisterOrganization(suite.ctx, dto.RegisterRequest{
		OrganizationName: " ", Name: "X", Email: "x@acme.test", Password: "password1",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *IdentityServiceTestSuite) TestRegisterOrganization_PasswordByteLimit() {
	tooLong := map[string]string{
		"73 ascii bytes":    strings.Repeat("a", 73),
		"40 two-byte runes": strings.Repeat("é", 40),
	}
	for name, password := range tooLong {
		_, _, err := suite.orgs.RegisterOrganization(suite.ctx, dto.RegisterRequest{
			OrganizationName: "Acme", Name: "X", Email: "long@acme.test", Password: password,
		})
		suite.ErrorIs(err, apperrors.ErrValidation, name)
	}

	_, owner, err := suite.orgs.RegisterOrganization(suite.ctx, dto.RegisterRequest{
		OrganizationName: "Acme", Name: "X", Email: "long@acme.test", Password: strings.Repeat("a", 72),
	})
	suite.Require().NoError(err)

	user, err := suite.users.AuthenticateUser(suite.ctx, "long@acme.test", strings.Repeat("a", 72))
	suite.Require().NoError(err)
	suite.Equal(owner.UserID, user.UserID)
}

func (suite *IdentityServiceTestSuite) TestAuthenticateUser() {
	_, owner := suite.register("owner@acme.test")

	user, err := suite.users.AuthenticateUser(suite.ctx, " OWNER@acme.test ", "correct horse")
	suite.Require().NoError(err)
	suite.Equal(owner.UserID, user.UserID)

	_, err = suite.users.AuthenticateUser(suite.ctx, "owner@acme.test", "wrong")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = suite.users.AuthenticateUser(suite.ctx, "nobody@acme.test", "correct horse")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *IdentityServiceTestSuite) TestCreateAndListUsers() {
	org, owner := suite.register("owner@acme.test")
	admin := domain.Scope{UserID: owner.UserID, OrganizationID: org.OrganizationID, Role: domain.RoleAdmin}

	created, err := suite.users.CreateUser(suite.ctx, admin, dto.CreateUserRequest{
		Email: "books@acme.test", Name: "Books", Password: "password1", Role: "accountant",
	})
	suite.Require().NoError(err)
	suite.Equal(domain.RoleAccountant, created.Role)
	suite.Equal(org.OrganizationID, created.OrganizationID)
	suite.Equal(owner.UserID, created.CreatedBy)

	accountant := domain.Scope{UserID: created.UserID, OrganizationID: org.OrganizationID, Role: domain.RoleAccountant}
	_, err = suite.users.CreateUser(suite.ctx, accountant, dto.CreateUserRequest{
		Email: "other@acme.test", Name: "Other", Password: "password1", Role: "admin",
	})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = suite.users.CreateUser(suite.ctx, admin, dto.CreateUserRequest{
		Email: "BOOKS@acme.test", Name: "Dup", Password: "password1", Role: "accountant",
	})
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	suite.register("owner@other.test")
	users, err := suite.users.ListUsers(suite.ctx, accountant, 20, 0)
	suite.Require().NoError(err)
	suite.Len(users, 2)
	for _, u := range users {
		suite.Equal(org.OrganizationID, u.OrganizationID)
	}

	found, err := suite.users.GetUserByID(suite.ctx, created.UserID)
	suite.Require().NoError(err)
	suite.Equal("books@acme.test", found.Email)

	_, err = suite.users.GetUserByEmail(suite.ctx, "missing@acme.test")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *IdentityServiceTestSuite) TestEnsureBootstrapAdmin_Idempotent() {
	suite.Require().NoError(suite.orgs.EnsureBootstrapAdmin(suite.ctx, "HQ", "admin@hq.test", "bootstrap-pass"))
	suite.Require().NoError(suite.orgs.EnsureBootstrapAdmin(suite.ctx, "HQ", "admin@hq.test", "bootstrap-pass"))
	suite.Require().NoError(suite.orgs.EnsureBootstrapAdmin(suite.ctx, "HQ", "", ""))

	admin, err := suite.users.AuthenticateUser(suite.ctx, "admin@hq.test", "bootstrap-pass")
	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, admin.Role)

	users, err := suite.users.ListUsers(suite.ctx, domain.Scope{UserID: admin.UserID, OrganizationID: admin.OrganizationID}, 10, 0)
	suite.Require().NoError(err)
	suite.Len(users, 1)
}

func (suite *IdentityServiceTestSuite) TestGenerateAccessToken() {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiryDuration: time.Hour, JWTIssuer: "pettycash-test"}
	tokens := services.NewTokenService(cfg)
	user := &domain.User{UserID: "u-1", Role: domain.RoleAccountant, OrganizationID: "org-a"}

	token, expiresAt, err := tokens.GenerateAccessToken(suite.ctx, user)
	suite.Require().NoError(err)
	suite.WithinDuration(time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := utils.ParseAndValidateJWT(token, "test-secret")
	suite.Require().NoError(err)
	suite.Equal("u-1", claims.Subject)
	suite.Equal("accountant", claims.Role)
	suite.Equal("org-a", claims.Organization())
}

func (suite *IdentityServiceTestSuite) TestValidateGoogleIDToken_RequiresClientID() {
	google := services.NewGoogleOAuthHandlerService(&config.Config{})
	_, err := google.ValidateGoogleIDToken(suite.ctx, "token")
	suite.Error(err)

	state, err := google.GenerateStateString(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(state, 32)
	suite.Contains(google.GetGoogleLoginURL(suite.ctx, state), "state="+state)
}

func TestIdentityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceTestSuite))
}
