package pgsql

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
	"github.com/SscSPs/pettycash_backend/internal/utils/accounting"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

var dimensionColumns = map[domain.BreakdownDimension]string{
	domain.DimensionCategory:      "category",
	domain.DimensionStatus:        "status",
	domain.DimensionPaymentMethod: "COALESCE(NULLIF(payment_method, ''), '" + domain.UnspecifiedPaymentMethod + "')",
}

func windowQuery(columns []string, organizationID string, kind domain.RecordKind, window domain.ReportWindow) sq.SelectBuilder {
	q := psql.Select(columns...).
		From(kind.Table()).
		Where(sq.Eq{"organization_id": organizationID})
	return applyRecordFilter(q, window.AsFilter())
}

// GetTotals retrieves count, sum, min and max; the average is derived from sum and count.
func (r *reportingRepository) GetTotals(ctx context.Context, organizationID string, kind domain.RecordKind, window domain.ReportWindow) (domain.TotalSummary, error) {
	query, args, err := windowQuery([]string{
		"COUNT(*)",
		"COALESCE(SUM(amount), 0)",
		"COALESCE(MIN(amount), 0)",
		"COALESCE(MAX(amount), 0)",
	}, organizationID, kind, window).ToSql()
	if err != nil {
		return domain.TotalSummary{}, fmt.Errorf("error building totals query: %w", err)
	}

	summary := accounting.EmptyTotals()
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(
		&summary.Count,
		&summary.TotalAmount,
		&summary.MinAmount,
		&summary.MaxAmount,
	); err != nil {
		return domain.TotalSummary{}, fmt.Errorf("error querying totals: %w", err)
	}
	if summary.Count > 0 {
		summary.AverageAmount = summary.TotalAmount.Div(decimal.NewFromInt(int64(summary.Count)))
	}
	return summary, nil
}

// GetBreakdown groups one organization's records by dim.
func (r *reportingRepository) GetBreakdown(ctx context.Context, organizationID string, kind domain.RecordKind, dim domain.BreakdownDimension, window domain.ReportWindow) ([]domain.ReportAggregate, error) {
	column, ok := dimensionColumns[dim]
	if !ok {
		return nil, fmt.Errorf("unknown breakdown dimension %q", dim)
	}

	query, args, err := windowQuery([]string{
		column + " AS group_key",
		"COUNT(*)",
		"COALESCE(SUM(amount), 0)",
	}, organizationID, kind, window).GroupBy("group_key").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building breakdown query: %w", err)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying %s breakdown: %w", dim, err)
	}
	defer rows.Close()

	result := make([]domain.ReportAggregate, 0)
	for rows.Next() {
		var agg domain.ReportAggregate
		if err := rows.Scan(&agg.Key, &agg.Count, &agg.TotalAmount); err != nil {
			return nil, fmt.Errorf("error scanning %s breakdown row: %w", dim, err)
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s breakdown rows: %w", dim, err)
	}

	accounting.SortAggregates(result)
	return result, nil
}

// GetMonthlyTotals groups one organization's records by calendar month, oldest first.
func (r *reportingRepository) GetMonthlyTotals(ctx context.Context, organizationID string, kind domain.RecordKind, window domain.ReportWindow) ([]domain.MonthBucket, error) {
	query, args, err := windowQuery([]string{
		"EXTRACT(YEAR FROM record_date)::int AS y",
		"EXTRACT(MONTH FROM record_date)::int AS m",
		"COUNT(*)",
		"COALESCE(SUM(amount), 0)",
	}, organizationID, kind, window).GroupBy("y", "m").OrderBy("y", "m").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building monthly query: %w", err)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying monthly totals: %w", err)
	}
	defer rows.Close()

	result := make([]domain.MonthBucket, 0)
	for rows.Next() {
		var b domain.MonthBucket
		if err := rows.Scan(&b.Year, &b.Month, &b.Count, &b.TotalAmount); err != nil {
			return nil, fmt.Errorf("error scanning monthly row: %w", err)
		}
		b.Key = domain.MonthKey(b.Year, b.Month)
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly rows: %w", err)
	}
	return result, nil
}
