package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record lifecycle event types.
const (
	EventRecordCreated       = "record.created"
	EventRecordStatusChanged = "record.status_changed"
)

// RecordEvent describes a change to a record for downstream consumers.
type RecordEvent struct {
	Type           string          `json:"type"`
	RecordID       string          `json:"recordID"`
	OrganizationID string          `json:"organizationID"`
	Kind           RecordKind      `json:"kind"`
	Status         RecordStatus    `json:"status"`
	Amount         decimal.Decimal `json:"amount"`
	Version        int             `json:"version"`
	ActorID        string          `json:"actorID"`
	OccurredAt     time.Time       `json:"occurredAt"`
}

// NewRecordEvent builds an event of type t for record r.
func NewRecordEvent(t string, r Record, actorID string, at time.Time) RecordEvent {
	return RecordEvent{
		Type:           t,
		RecordID:       r.RecordID,
		OrganizationID: r.OrganizationID,
		Kind:           r.Kind,
		Status:         r.Status,
		Amount:         r.Amount,
		Version:        r.Version,
		ActorID:        actorID,
		OccurredAt:     at,
	}
}
