package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/pettycash_backend/internal/apperrors"
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pettycash_backend/internal/core/ports/services"
	"github.com/SscSPs/pettycash_backend/internal/platform/metrics"
	"github.com/SscSPs/pettycash_backend/internal/utils/accounting"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	cache         portssvc.ReportCache
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportCache sets the cache consulted before running report queries.
func WithReportCache(c portssvc.ReportCache) ReportingServiceOption {
	return func(s *reportingService) {
		s.cache = c
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func windowCacheKey(name string, w domain.ReportWindow) string {
	from, to := "-", "-"
	if w.From != nil {
		from = w.From.Format(domain.DateLayout)
	}
	if w.To != nil {
		to = w.To.Format(domain.DateLayout)
	}
	return fmt.Sprintf("%s:%s:%s", name, from, to)
}

func validateWindow(w domain.ReportWindow) error {
	if w.From != nil && w.To != nil && w.From.After(*w.To) {
		return apperrors.NewValidationError("from must not be after to")
	}
	return nil
}

// cached serves dst from the cache or fills it with load and stores it under
// the entry key seen before loading. Cache failures only cost a recomputation.
func (s *reportingService) cached(ctx context.Context, organizationID, key string, dst any, load func() error) error {
	var entryKey string
	if s.cache != nil {
		k, hit, err := s.cache.Get(ctx, organizationID, key, dst)
		if err != nil {
			s.LogError(ctx, err, "Report cache read failed", zap.String("key", key))
		}
		if hit {
			metrics.ReportCacheLookups.WithLabelValues("hit").Inc()
			return nil
		}
		metrics.ReportCacheLookups.WithLabelValues("miss").Inc()
		entryKey = k
	}

	if err := load(); err != nil {
		return err
	}

	if entryKey != "" {
		if err := s.cache.Set(ctx, entryKey, dst); err != nil {
			s.LogError(ctx, err, "Report cache write failed", zap.String("key", key))
		}
	}
	return nil
}

// Summary aggregates one record store of the caller's organization.
func (s *reportingService) Summary(ctx context.Context, scope domain.Scope, kind domain.RecordKind, window domain.ReportWindow) (*domain.RecordSummary, error) {
	if err := s.RequireScope(scope); err != nil {
		return nil, err
	}
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	if err := validateWindow(window); err != nil {
		return nil, err
	}

	var summary domain.RecordSummary
	err := s.cached(ctx, scope.OrganizationID, windowCacheKey(string(kind), window), &summary, func() error {
		loaded, err := s.buildSummary(ctx, scope.OrganizationID, kind, window)
		if err != nil {
			return err
		}
		summary = *loaded
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to build summary report", zap.String("kind", string(kind)))
		return nil, fmt.Errorf("failed to build %s summary: %w", kind, err)
	}

	s.LogInfo(ctx, "Summary report generated",
		zap.String("kind", string(kind)),
		zap.Int("record_count", summary.TotalSummary.Count))
	return &summary, nil
}

func (s *reportingService) buildSummary(ctx context.Context, organizationID string, kind domain.RecordKind, window domain.ReportWindow) (*domain.RecordSummary, error) {
	summary := &domain.RecordSummary{Kind: kind}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		totals, err := s.reportingRepo.GetTotals(gctx, organizationID, kind, window)
		summary.TotalSummary = totals
		return err
	})
	breakdowns := []struct {
		dim domain.BreakdownDimension
		dst *[]domain.ReportAggregate
	}{
		{domain.DimensionCategory, &summary.CategoryBreakdown},
		{domain.DimensionStatus, &summary.StatusBreakdown},
		{domain.DimensionPaymentMethod, &summary.PaymentMethodBreakdown},
	}
	for _, b := range breakdowns {
		g.Go(func() error {
			aggs, err := s.reportingRepo.GetBreakdown(gctx, organizationID, kind, b.dim, window)
			*b.dst = aggs
			return err
		})
	}
	g.Go(func() error {
		buckets, err := s.reportingRepo.GetMonthlyTotals(gctx, organizationID, kind, window)
		summary.MonthlyTrend = accounting.LatestMonths(buckets, domain.MaxTrendMonths)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// empty stores render as [] rather than null
	for _, b := range breakdowns {
		if *b.dst == nil {
			*b.dst = []domain.ReportAggregate{}
		}
	}
	return summary, nil
}

// Cashflow merges the monthly series of all three stores.
func (s *reportingService) Cashflow(ctx context.Context, scope domain.Scope, window domain.ReportWindow) (*domain.CashflowReport, error) {
	if err := s.RequireScope(scope); err != nil {
		return nil, err
	}
	if err := validateWindow(window); err != nil {
		return nil, err
	}

	var report domain.CashflowReport
	err := s.cached(ctx, scope.OrganizationID, windowCacheKey("cashflow", window), &report, func() error {
		var revenue, expenses, pettyCash []domain.MonthBucket
		g, gctx := errgroup.WithContext(ctx)
		fetch := func(kind domain.RecordKind, dst *[]domain.MonthBucket) {
			g.Go(func() error {
				buckets, err := s.reportingRepo.GetMonthlyTotals(gctx, scope.OrganizationID, kind, window)
				*dst = buckets
				return err
			})
		}
		fetch(domain.KindRevenue, &revenue)
		fetch(domain.KindExpense, &expenses)
		fetch(domain.KindPettyCash, &pettyCash)
		if err := g.Wait(); err != nil {
			return err
		}
		report = accounting.MergeCashflow(revenue, expenses, pettyCash)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to build cashflow report")
		return nil, fmt.Errorf("failed to build cashflow report: %w", err)
	}

	s.LogInfo(ctx, "Cashflow report generated", zap.Int("month_count", len(report.Rows)))
	return &report, nil
}
