package dto

import (
	"time"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
)

// OrganizationResponse is the public view of an organization.
type OrganizationResponse struct {
	OrganizationID     string    `json:"organizationID"`
	Name               string    `json:"name"`
	SubscriptionStatus string    `json:"subscriptionStatus"`
	CreatedAt          time.Time `json:"createdAt"`
}

// ToOrganizationResponse converts a domain.Organization to OrganizationResponse DTO
func ToOrganizationResponse(org *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID:     org.OrganizationID,
		Name:               org.Name,
		SubscriptionStatus: string(org.SubscriptionStatus),
		CreatedAt:          org.CreatedAt,
	}
}
