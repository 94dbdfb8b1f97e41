package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	"github.com/SscSPs/pettycash_backend/internal/utils"
	"github.com/SscSPs/pettycash_backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens
// and stores the caller's user, role and organization on the request.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			response.Abort(c, http.StatusUnauthorized, "unauthenticated", "Authorization header required")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			logger.Warn("Authorization header format invalid")
			response.Abort(c, http.StatusUnauthorized, "unauthenticated", "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := utils.ParseAndValidateJWT(parts[1], jwtSecret)
		if err != nil {
			logger.Warn("Invalid token", zap.Error(err))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			response.Abort(c, http.StatusUnauthorized, "unauthenticated", msg)
			return
		}

		if claims.Subject == "" {
			logger.Error("User ID (subject) missing from valid token")
			response.Abort(c, http.StatusUnauthorized, "unauthenticated", "Invalid token claims")
			return
		}

		orgID := claims.Organization()
		if orgID == "" {
			logger.Warn("Organization claim missing", zap.String("user_id", claims.Subject))
			response.Abort(c, http.StatusBadRequest, "missing_organization", "Organization information missing")
			return
		}

		scope := domain.Scope{
			UserID:         claims.Subject,
			OrganizationID: orgID,
			Role:           domain.Role(claims.Role),
		}
		enriched := logger.With(
			zap.String("user_id", scope.UserID),
			zap.String("organization_id", scope.OrganizationID),
			zap.String("role", string(scope.Role)),
		)

		ctx := WithScope(c.Request.Context(), scope)
		c.Request = c.Request.WithContext(WithLogger(ctx, enriched))
		c.Set(string(userIDKey), scope.UserID)
		c.Set(string(roleKey), scope.Role)

		c.Next()
	}
}
