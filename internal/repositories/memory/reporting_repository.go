package memory

import (
	"context"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
	"github.com/SscSPs/pettycash_backend/internal/utils/accounting"
)

// ReportingRepository aggregates a Store snapshot with the accounting helpers.
type ReportingRepository struct {
	store *Store
}

var _ portsrepo.ReportingRepository = (*ReportingRepository)(nil)

func (r *ReportingRepository) GetTotals(_ context.Context, organizationID string, kind domain.RecordKind, window domain.ReportWindow) (domain.TotalSummary, error) {
	return accounting.Totals(r.store.selectRecords(organizationID, kind, window.AsFilter())), nil
}

func (r *ReportingRepository) GetBreakdown(_ context.Context, organizationID string, kind domain.RecordKind, dim domain.BreakdownDimension, window domain.ReportWindow) ([]domain.ReportAggregate, error) {
	return accounting.GroupBy(r.store.selectRecords(organizationID, kind, window.AsFilter()), dim), nil
}

func (r *ReportingRepository) GetMonthlyTotals(_ context.Context, organizationID string, kind domain.RecordKind, window domain.ReportWindow) ([]domain.MonthBucket, error) {
	return accounting.GroupByMonth(r.store.selectRecords(organizationID, kind, window.AsFilter())), nil
}
