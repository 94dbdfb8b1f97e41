package domain

// Role is the permission level of a user inside their organization.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleAccountant Role = "accountant"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleAccountant
}

// User represents a user of the application in the domain.
type User struct {
	UserID         string `json:"userID"` // Primary Key (UUID)
	Email          string `json:"email"`
	Name           string `json:"name"`
	PasswordHash   string `json:"-"`
	Role           Role   `json:"role"`
	OrganizationID string `json:"organizationID"`
	AuditFields
}

// GoogleUserInfo holds the profile fields returned by Google's userinfo endpoint.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
