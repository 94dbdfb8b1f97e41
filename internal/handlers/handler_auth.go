package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/pettycash_backend/internal/apperrors"
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portssvc "github.com/SscSPs/pettycash_backend/internal/core/ports/services"
	"github.com/SscSPs/pettycash_backend/internal/dto"
	"github.com/SscSPs/pettycash_backend/internal/middleware"
	"github.com/SscSPs/pettycash_backend/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// authRateLimit throttles credential endpoints per client IP.
const authRateLimit = "10-M"

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService         portssvc.UserSvcFacade
	organizationService portssvc.OrganizationSvcFacade
	tokenService        portssvc.TokenSvcFacade
	googleOAuthService  portssvc.GoogleOAuthHandlerSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(services *portssvc.ServiceContainer) *AuthHandler {
	return &AuthHandler{
		userService:         services.User,
		organizationService: services.Organization,
		tokenService:        services.TokenService,
		googleOAuthService:  services.GoogleOAuthHandler,
	}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(rg *gin.RouterGroup, h *AuthHandler) {
	auth := rg.Group("/auth")
	if l, err := middleware.NewRateLimiter(authRateLimit, nil); err == nil {
		auth.Use(middleware.RateLimit(l))
	}
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/google", h.GoogleLogin)
	}
}

// issueToken writes the login payload for user.
func (h *AuthHandler) issueToken(c *gin.Context, status int, user *domain.User) {
	token, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		handleServiceError(c, err, "Failed to generate access token")
		return
	}
	c.JSON(status, response.Body{OK: true, Data: dto.ToLoginResponse(token, expiresAt, user)})
}

// Register godoc
// @Summary Register an organization
// @Description Creates an organization on a trial subscription together with its first admin and returns a token.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Organization and admin details"
// @Success 201 {object} response.Body{data=dto.LoginResponse}
// @Failure 400 {object} response.Body
// @Failure 409 {object} response.Body
// @Failure 500 {object} response.Body
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	_, owner, err := h.organizationService.RegisterOrganization(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err, "Failed to register organization")
		return
	}
	h.issueToken(c, http.StatusCreated, owner)
}

// Login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT carrying their role and organization.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} response.Body{data=dto.LoginResponse}
// @Failure 400 {object} response.Body
// @Failure 401 {object} response.Body
// @Failure 429 {object} response.Body
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err, "Failed to authenticate")
		return
	}
	h.issueToken(c, http.StatusOK, user)
}

// GoogleLogin godoc
// @Summary Sign in with a Google ID token
// @Description Validates a Google ID token and logs in the existing user with that email.
// @Tags auth
// @Accept json
// @Produce json
// @Param google body dto.GoogleLoginRequest true "Google ID token"
// @Success 200 {object} response.Body{data=dto.LoginResponse}
// @Failure 400 {object} response.Body
// @Failure 401 {object} response.Body
// @Router /auth/google [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userFromGoogleIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		handleServiceError(c, err, "Failed to sign in with Google")
		return
	}
	h.issueToken(c, http.StatusOK, user)
}

// userFromGoogleIDToken validates the token and finds the account registered with its email.
func (h *AuthHandler) userFromGoogleIDToken(ctx context.Context, idToken string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idToken)
	if err != nil {
		logger.Warn("Google ID token rejected", zap.Error(err))
		return nil, apperrors.NewAppError(http.StatusUnauthorized, "invalid Google ID token", apperrors.ErrUnauthorized)
	}

	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !verified {
		return nil, apperrors.NewAppError(http.StatusUnauthorized, "Google account email is missing or unverified", apperrors.ErrUnauthorized)
	}

	user, err := h.userService.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Info("Google sign-in for unknown email", zap.String("google_subject", payload.Subject))
			return nil, apperrors.NewAppError(http.StatusUnauthorized, "no account is registered for this Google email", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	return user, nil
}
