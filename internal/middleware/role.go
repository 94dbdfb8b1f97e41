package middleware

import (
	"net/http"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	"github.com/SscSPs/pettycash_backend/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireRole returns a middleware that allows only the given roles.
// It must run after AuthMiddleware.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := GetScopeFromContext(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "unauthenticated", "missing user context")
			return
		}
		if !scope.HasRole(roles...) {
			GetLoggerFromCtx(c.Request.Context()).Warn("role not permitted", zap.String("role", string(scope.Role)))
			response.Abort(c, http.StatusForbidden, "forbidden", "insufficient permissions")
			return
		}
		c.Next()
	}
}
