package handlers

import (
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portssvc "github.com/SscSPs/pettycash_backend/internal/core/ports/services"
	"github.com/SscSPs/pettycash_backend/internal/dto"
	"github.com/SscSPs/pettycash_backend/internal/middleware"
	"github.com/SscSPs/pettycash_backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type userHandler struct {
	userService         portssvc.UserSvcFacade
	organizationService portssvc.OrganizationSvcFacade
}

func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, organizationService portssvc.OrganizationSvcFacade) {
	h := &userHandler{userService: userService, organizationService: organizationService}

	users := rg.Group("/users")
	{
		users.GET("/me", h.getMe)
		users.GET("", h.listUsers)
		users.POST("", middleware.RequireRole(domain.RoleAdmin), h.createUser)
	}
	rg.GET("/organization", h.getOrganization)
}

// getMe godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} response.Body{data=dto.UserResponse}
// @Failure 401 {object} response.Body
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getMe(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), scope.UserID)
	if err != nil {
		handleServiceError(c, err, "Failed to get user")
		return
	}
	response.OK(c, dto.ToUserResponse(user))
}

// listUsers godoc
// @Summary List users of the caller's organization
// @Tags users
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} response.Body{data=dto.ListUsersResponse}
// @Failure 401 {object} response.Body
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	users, err := h.userService.ListUsers(c.Request.Context(), scope, params.Limit, params.Offset)
	if err != nil {
		handleServiceError(c, err, "Failed to list users")
		return
	}
	response.OK(c, dto.ToListUserResponse(users))
}

// createUser godoc
// @Summary Add a user to the caller's organization
// @Description Admin only.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "User details"
// @Success 201 {object} response.Body{data=dto.UserResponse}
// @Failure 400 {object} response.Body
// @Failure 403 {object} response.Body
// @Failure 409 {object} response.Body
// @Security BearerAuth
// @Router /users [post]
func (h *userHandler) createUser(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, err := h.userService.CreateUser(c.Request.Context(), scope, req)
	if err != nil {
		handleServiceError(c, err, "Failed to create user")
		return
	}
	response.Created(c, dto.ToUserResponse(user))
}

// getOrganization godoc
// @Summary Current organization
// @Tags organization
// @Produce json
// @Success 200 {object} response.Body{data=dto.OrganizationResponse}
// @Failure 401 {object} response.Body
// @Failure 404 {object} response.Body
// @Security BearerAuth
// @Router /organization [get]
func (h *userHandler) getOrganization(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	org, err := h.organizationService.GetOrganization(c.Request.Context(), scope)
	if err != nil {
		handleServiceError(c, err, "Failed to get organization")
		return
	}
	response.OK(c, dto.ToOrganizationResponse(org))
}
