package middleware

import (
	"context"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is unexported so values set here cannot collide with other packages.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
	roleKey      = contextKey("role")
	orgIDKey     = contextKey("organizationID")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok && userID != ""
	}
	// check in the request context as well
	if v, ok := c.Request.Context().Value(userIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// GetScopeFromContext returns the caller scope set by AuthMiddleware.
func GetScopeFromContext(c *gin.Context) (domain.Scope, bool) {
	return ScopeFromCtx(c.Request.Context())
}

// ScopeFromCtx extracts the caller scope from a request context.
func ScopeFromCtx(ctx context.Context) (domain.Scope, bool) {
	userID, _ := ctx.Value(userIDKey).(string)
	orgID, _ := ctx.Value(orgIDKey).(string)
	role, _ := ctx.Value(roleKey).(domain.Role)
	if userID == "" || orgID == "" {
		return domain.Scope{}, false
	}
	return domain.Scope{UserID: userID, OrganizationID: orgID, Role: role}, true
}

// WithScope stores the caller scope in ctx.
func WithScope(ctx context.Context, scope domain.Scope) context.Context {
	ctx = context.WithValue(ctx, userIDKey, scope.UserID)
	ctx = context.WithValue(ctx, orgIDKey, scope.OrganizationID)
	return context.WithValue(ctx, roleKey, scope.Role)
}
