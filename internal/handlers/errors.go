package handlers

import (
	"errors"
	"strings"

	"github.com/SscSPs/pettycash_backend/internal/apperrors"
	"github.com/SscSPs/pettycash_backend/internal/middleware"
	"github.com/SscSPs/pettycash_backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// handleServiceError writes the error envelope for err. Internal errors are
// logged and replaced by fallback so their text never reaches the client.
func handleServiceError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	kind, status := apperrors.Kind(err)

	if kind == "internal" {
		logger.Error(fallback, zap.Error(err))
		response.Error(c, status, kind, fallback)
		return
	}

	logger.Info("request rejected", zap.String("kind", kind), zap.String("reason", err.Error()))
	response.Error(c, status, kind, clientMessage(err, kind))
}

// clientMessage prefers the message of an AppError over the sentinel text.
func clientMessage(err error, kind string) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	switch kind {
	case "not_found":
		return "resource not found"
	case "forbidden":
		return "you do not have access to this resource"
	case "missing_organization":
		return "organization information missing from token"
	}
	return err.Error()
}

// bindError writes a 400 describing why the request could not be bound.
func bindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("invalid request payload", zap.Error(err))
	response.BadRequest(c, describeBindError(err))
}

func describeBindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request payload"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "positive_amount":
			msgs = append(msgs, field+" must be greater than 0")
		case "payment_method":
			msgs = append(msgs, field+" is not a supported payment method")
		case "datetime":
			msgs = append(msgs, field+" must be a date in YYYY-MM-DD format")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "max":
			msgs = append(msgs, field+" must be at most "+fe.Param()+" characters")
		case "min":
			msgs = append(msgs, field+" must be at least "+fe.Param())
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+fe.Param())
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
