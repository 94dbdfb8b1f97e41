package services

import (
	"context"
	"time"

	"github.com/SscSPs/pettycash_backend/internal/apperrors"
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	"github.com/SscSPs/pettycash_backend/internal/middleware"
	"go.uber.org/zap"
)

// BaseService provides common functionality for all services
type BaseService struct {
	// now is the service clock; nil means time.Now.
	now func() time.Time
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

// GetLogger gets the request logger from context
func (s *BaseService) GetLogger(ctx context.Context) *zap.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, fields ...zap.Field) {
	s.GetLogger(ctx).Error(msg, append([]zap.Field{zap.Error(err)}, fields...)...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, fields ...zap.Field) {
	s.GetLogger(ctx).Info(msg, fields...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, fields ...zap.Field) {
	s.GetLogger(ctx).Debug(msg, fields...)
}

// RequireScope rejects calls without an authenticated user or organization.
func (s *BaseService) RequireScope(scope domain.Scope) error {
	if scope.UserID == "" {
		return apperrors.ErrUnauthorized
	}
	if scope.OrganizationID == "" {
		return apperrors.ErrMissingOrganization
	}
	return nil
}

// AuthorizeRole returns apperrors.ErrForbidden unless scope holds one of roles.
func (s *BaseService) AuthorizeRole(ctx context.Context, scope domain.Scope, action string, roles ...domain.Role) error {
	if scope.HasRole(roles...) {
		return nil
	}
	s.GetLogger(ctx).Warn("role not permitted",
		zap.String("action", action),
		zap.String("role", string(scope.Role)))
	return apperrors.NewAppError(403, "role "+string(scope.Role)+" may not "+action, apperrors.ErrForbidden)
}

// AuthorizeOrganization returns apperrors.ErrForbidden when a resource belongs to another organization.
func (s *BaseService) AuthorizeOrganization(ctx context.Context, scope domain.Scope, ownerOrganizationID string) error {
	if ownerOrganizationID == scope.OrganizationID {
		return nil
	}
	s.GetLogger(ctx).Warn("cross-organization access denied",
		zap.String("owner_organization_id", ownerOrganizationID))
	return apperrors.ErrForbidden
}
