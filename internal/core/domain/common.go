package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// Scope identifies the authenticated caller of a service operation.
// OrganizationID is the tenant every read and write is filtered by.
type Scope struct {
	UserID         string
	OrganizationID string
	Role           Role
}

// HasRole reports whether the caller holds one of roles.
func (s Scope) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}

// DateLayout is the wire format of record dates and report windows.
const DateLayout = "2006-01-02"
