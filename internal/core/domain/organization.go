package domain

// SubscriptionStatus tracks the billing state of an organization.
type SubscriptionStatus string

const (
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionSuspended SubscriptionStatus = "suspended"
)

// Organization is the tenant that owns users and financial records.
type Organization struct {
	OrganizationID     string             `json:"organizationID"`
	Name               string             `json:"name"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
	AuditFields
}
