package repositories

import (
	"context"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
)

// ReportingRepository defines grouped queries over one organization's records
type ReportingRepository interface {
	// GetTotals retrieves count, sum, average, min and max of records in the window.
	GetTotals(ctx context.Context, organizationID string, kind domain.RecordKind, window domain.ReportWindow) (domain.TotalSummary, error)

	// GetBreakdown groups records in the window by dimension.
	GetBreakdown(ctx context.Context, organizationID string, kind domain.RecordKind, dim domain.BreakdownDimension, window domain.ReportWindow) ([]domain.ReportAggregate, error)

	// GetMonthlyTotals groups records in the window by calendar month.
	GetMonthlyTotals(ctx context.Context, organizationID string, kind domain.RecordKind, window domain.ReportWindow) ([]domain.MonthBucket, error)
}
