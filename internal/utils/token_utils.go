package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the application JWT claims. Subject holds the user ID.
// TenantID is accepted as an alias of OrganizationID for older tokens.
type Claims struct {
	Role           string `json:"role"`
	OrganizationID string `json:"organizationId,omitempty"`
	TenantID       string `json:"tenantId,omitempty"`
	jwt.RegisteredClaims
}

// Organization returns the organization claim, falling back to the tenant alias.
func (c *Claims) Organization() string {
	if c.OrganizationID != "" {
		return c.OrganizationID
	}
	return c.TenantID
}

// GenerateJWT generates a new JWT token with the given parameters.
func GenerateJWT(userID, role, organizationID string, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:           role,
		OrganizationID: organizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a JWT token string, validates its signature and standard claims.
// It returns the Claims if the token is valid, or an error otherwise.
func ParseAndValidateJWT(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err // expired, not yet valid, bad signature
	}

	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	return claims, nil
}
