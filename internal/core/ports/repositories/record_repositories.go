package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
)

// RecordReader defines read operations for financial records
type RecordReader interface {
	// FindRecordByID retrieves a record of the given kind regardless of its organization.
	// Callers compare OrganizationID to tell "forbidden" from "not found".
	FindRecordByID(ctx context.Context, kind domain.RecordKind, recordID string) (*domain.Record, error)

	// ListRecords retrieves records of one organization ordered by date desc, createdAt desc.
	// A positive filter.Limit enables cursor pagination and may return a next token.
	ListRecords(ctx context.Context, organizationID string, kind domain.RecordKind, filter domain.RecordFilter) ([]domain.Record, *string, error)
}

// StatusChange is a compare-and-set request for a pending record.
type StatusChange struct {
	Kind            domain.RecordKind
	RecordID        string
	OrganizationID  string
	NewStatus       domain.RecordStatus
	ExpectedVersion int
	UpdatedBy       string
	UpdatedAt       time.Time
}

// RecordWriter defines write operations for financial records
type RecordWriter interface {
	// SaveRecord persists a new record.
	SaveRecord(ctx context.Context, record domain.Record) error

	// UpdateRecordStatus applies change only if the stored record is still pending at
	// ExpectedVersion. It returns apperrors.ErrConflict when the guard does not match.
	UpdateRecordStatus(ctx context.Context, change StatusChange) (*domain.Record, error)

	// UpdateRecordAttachment stores the receipt or invoice URL of a record.
	UpdateRecordAttachment(ctx context.Context, kind domain.RecordKind, organizationID, recordID, url, updatedBy string, updatedAt time.Time) error
}

// RecordRepositoryFacade combines all record-related repository interfaces
type RecordRepositoryFacade interface {
	RecordReader
	RecordWriter
}
