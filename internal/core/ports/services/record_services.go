package services

import (
	"context"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	"github.com/SscSPs/pettycash_backend/internal/dto"
)

// RecordReaderSvc defines read operations on the record stores
type RecordReaderSvc interface {
	// GetRecord retrieves one record; records of another organization are forbidden.
	GetRecord(ctx context.Context, scope domain.Scope, kind domain.RecordKind, recordID string) (*domain.Record, error)

	// ListRecords lists the caller organization's records matching params.
	ListRecords(ctx context.Context, scope domain.Scope, kind domain.RecordKind, params dto.ListRecordsParams) (*dto.ListRecordsResponse, error)
}

// RecordWriterSvc defines write operations on the record stores
type RecordWriterSvc interface {
	// CreateRecord validates and stores a new pending record in the caller's organization.
	CreateRecord(ctx context.Context, scope domain.Scope, kind domain.RecordKind, req dto.CreateRecordRequest) (*domain.Record, error)

	// UpdateRecordStatus moves a pending record to a terminal status.
	// A non-nil expectedVersion must match the stored version.
	UpdateRecordStatus(ctx context.Context, scope domain.Scope, kind domain.RecordKind, recordID string, req dto.UpdateStatusRequest, expectedVersion *int) (*domain.Record, error)

	// AttachReceipt uploads a receipt or invoice and links it to the record.
	AttachReceipt(ctx context.Context, scope domain.Scope, kind domain.RecordKind, recordID string, upload dto.ReceiptUpload) (*domain.Record, error)
}

// RecordSvcFacade combines all record-related service interfaces
type RecordSvcFacade interface {
	RecordReaderSvc
	RecordWriterSvc
}
