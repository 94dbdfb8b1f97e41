package accounting

import (
	"sort"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DimensionKey returns the grouping key of a record for the given breakdown dimension.
// Records without a payment method group under domain.UnspecifiedPaymentMethod.
func DimensionKey(r domain.Record, dim domain.BreakdownDimension) string {
	switch dim {
	case domain.DimensionStatus:
		return string(r.Status)
	case domain.DimensionPaymentMethod:
		if r.PaymentMethod == "" {
			return domain.UnspecifiedPaymentMethod
		}
		return r.PaymentMethod
	default:
		return r.Category
	}
}

// GroupBy aggregates records by dimension. The result is sorted with SortAggregates.
func GroupBy(records []domain.Record, dim domain.BreakdownDimension) []domain.ReportAggregate {
	index := make(map[string]int)
	result := []domain.ReportAggregate{}
	for _, r := range records {
		key := DimensionKey(r, dim)
		i, ok := index[key]
		if !ok {
			i = len(result)
			index[key] = i
			result = append(result, domain.ReportAggregate{Key: key, TotalAmount: decimal.Zero})
		}
		result[i].Count++
		result[i].TotalAmount = result[i].TotalAmount.Add(r.Amount)
	}
	SortAggregates(result)
	return result
}

// GroupByMonth aggregates records into calendar month buckets in chronological order.
func GroupByMonth(records []domain.Record) []domain.MonthBucket {
	index := make(map[string]int)
	result := []domain.MonthBucket{}
	for _, r := range records {
		y, m := r.Date.Year(), int(r.Date.Month())
		key := domain.MonthKey(y, m)
		i, ok := index[key]
		if !ok {
			i = len(result)
			index[key] = i
			result = append(result, domain.MonthBucket{Year: y, Month: m, Key: key, TotalAmount: decimal.Zero})
		}
		result[i].Count++
		result[i].TotalAmount = result[i].TotalAmount.Add(r.Amount)
	}
	SortMonths(result)
	return result
}

// Totals computes count, sum, average, min and max over records.
// An empty set yields an all-zero summary.
func Totals(records []domain.Record) domain.TotalSummary {
	summary := EmptyTotals()
	for i, r := range records {
		summary.Count++
		summary.TotalAmount = summary.TotalAmount.Add(r.Amount)
		if i == 0 || r.Amount.LessThan(summary.MinAmount) {
			summary.MinAmount = r.Amount
		}
		if i == 0 || r.Amount.GreaterThan(summary.MaxAmount) {
			summary.MaxAmount = r.Amount
		}
	}
	if summary.Count > 0 {
		summary.AverageAmount = summary.TotalAmount.Div(decimal.NewFromInt(int64(summary.Count)))
	}
	return summary
}

// EmptyTotals is the summary of an empty record set.
func EmptyTotals() domain.TotalSummary {
	return domain.TotalSummary{
		TotalAmount:   decimal.Zero,
		AverageAmount: decimal.Zero,
		MinAmount:     decimal.Zero,
		MaxAmount:     decimal.Zero,
	}
}

// SortAggregates orders by total amount descending, then key ascending.
func SortAggregates(aggs []domain.ReportAggregate) {
	sort.SliceStable(aggs, func(i, j int) bool {
		if c := aggs[i].TotalAmount.Cmp(aggs[j].TotalAmount); c != 0 {
			return c > 0
		}
		return aggs[i].Key < aggs[j].Key
	})
}

// SortMonths orders buckets chronologically.
func SortMonths(buckets []domain.MonthBucket) {
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Before(buckets[j])
	})
}

// LatestMonths returns the n most recent buckets in chronological order.
func LatestMonths(buckets []domain.MonthBucket, n int) []domain.MonthBucket {
	sorted := make([]domain.MonthBucket, len(buckets))
	copy(sorted, buckets)
	SortMonths(sorted)
	if n > 0 && len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}

type cashflowKey struct{ year, month int }

// MergeCashflow joins the three monthly series by (year, month).
// Months missing from a series count as zero for that measure and
// netCashflow = revenue - (expenses + pettyCash).
func MergeCashflow(revenue, expenses, pettyCash []domain.MonthBucket) domain.CashflowReport {
	rows := make(map[cashflowKey]*domain.CashflowRow)
	row := func(b domain.MonthBucket) *domain.CashflowRow {
		k := cashflowKey{b.Year, b.Month}
		r, ok := rows[k]
		if !ok {
			r = &domain.CashflowRow{
				Year:      b.Year,
				Month:     b.Month,
				Key:       domain.MonthKey(b.Year, b.Month),
				Revenue:   decimal.Zero,
				Expenses:  decimal.Zero,
				PettyCash: decimal.Zero,
			}
			rows[k] = r
		}
		return r
	}

	report := domain.CashflowReport{
		Rows:           []domain.CashflowRow{},
		TotalRevenue:   decimal.Zero,
		TotalExpenses:  decimal.Zero,
		TotalPettyCash: decimal.Zero,
	}
	for _, b := range revenue {
		r := row(b)
		r.Revenue = r.Revenue.Add(b.TotalAmount)
		report.TotalRevenue = report.TotalRevenue.Add(b.TotalAmount)
	}
	for _, b := range expenses {
		r := row(b)
		r.Expenses = r.Expenses.Add(b.TotalAmount)
		report.TotalExpenses = report.TotalExpenses.Add(b.TotalAmount)
	}
	for _, b := range pettyCash {
		r := row(b)
		r.PettyCash = r.PettyCash.Add(b.TotalAmount)
		report.TotalPettyCash = report.TotalPettyCash.Add(b.TotalAmount)
	}

	for _, r := range rows {
		r.NetCashflow = r.Revenue.Sub(r.Expenses.Add(r.PettyCash))
		report.Rows = append(report.Rows, *r)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		a, b := report.Rows[i], report.Rows[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})
	report.NetCashflow = report.TotalRevenue.Sub(report.TotalExpenses.Add(report.TotalPettyCash))
	return report
}
