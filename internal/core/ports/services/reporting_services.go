package services

import (
	"context"
	"io"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	"github.com/SscSPs/pettycash_backend/internal/dto"
)

// ReportingService defines operations for generating aggregated reports
type ReportingService interface {
	// Summary aggregates one record store of the caller's organization.
	Summary(ctx context.Context, scope domain.Scope, kind domain.RecordKind, window domain.ReportWindow) (*domain.RecordSummary, error)

	// Cashflow merges the monthly series of all three stores.
	Cashflow(ctx context.Context, scope domain.Scope, window domain.ReportWindow) (*domain.CashflowReport, error)
}

// Document is a rendered export ready to be streamed to a client.
type Document interface {
	Filename() string
	ContentType() string
	// Render writes the complete document. On a mid-render failure the
	// document is still terminated and the error is returned for logging.
	Render(w io.Writer) error
}

// ExportService defines document export operations
type ExportService interface {
	// Export builds a document of the caller's records matching params.
	// An empty result returns apperrors.ErrNotFound.
	Export(ctx context.Context, scope domain.Scope, kind domain.RecordKind, params dto.ListRecordsParams) (Document, error)
}
