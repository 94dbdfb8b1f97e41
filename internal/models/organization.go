package models

// Organization represents a row of the organizations table.
type Organization struct {
	OrganizationID     string `db:"organization_id"`
	Name               string `db:"name"`
	SubscriptionStatus string `db:"subscription_status"`
	AuditFields
}
