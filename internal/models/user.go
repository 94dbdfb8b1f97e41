package models

// User represents a row of the users table.
type User struct {
	UserID         string `db:"user_id"`
	OrganizationID string `db:"organization_id"`
	Email          string `db:"email"`
	Name           string `db:"name"`
	PasswordHash   string `db:"password_hash"`
	Role           string `db:"role"`
	AuditFields
}
