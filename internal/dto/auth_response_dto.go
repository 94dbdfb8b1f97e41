package dto

import (
	"time"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
)

// LoginRequest holds email/password credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest creates an organization together with its first admin.
type RegisterRequest struct {
	OrganizationName string `json:"organizationName" binding:"required,max=150"`
	Name             string `json:"name" binding:"required,max=100"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8,max=72"`
}

// GoogleLoginRequest carries a Google ID token obtained by the frontend.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// ToLoginResponse builds the login payload.
func ToLoginResponse(token string, expiresAt time.Time, user *domain.User) LoginResponse {
	return LoginResponse{Token: token, ExpiresAt: expiresAt, User: ToUserResponse(user)}
}
