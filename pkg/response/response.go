package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the standard API response envelope.
type Body struct {
	OK      bool   `json:"ok"`
	Data    any    `json:"data,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Body{OK: true, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Body{OK: true, Data: data})
}

// Error sends an error envelope with the given status.
func Error(c *gin.Context, status int, kind, message string) {
	c.JSON(status, Body{OK: false, Kind: kind, Message: message})
}

// Abort sends an error envelope and stops the handler chain.
func Abort(c *gin.Context, status int, kind, message string) {
	c.AbortWithStatusJSON(status, Body{OK: false, Kind: kind, Message: message})
}

// BadRequest sends 400 with a validation kind.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "validation", message)
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, "unauthenticated", message)
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, "forbidden", message)
}

// NotFound sends 404.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, "not_found", message)
}

// Internal sends 500.
func Internal(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, "internal", message)
}
