package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxTrendMonths caps the monthly trend to the most recent buckets.
const MaxTrendMonths = 12

// BreakdownDimension names the record attribute a breakdown groups by.
type BreakdownDimension string

const (
	DimensionCategory      BreakdownDimension = "category"
	DimensionStatus        BreakdownDimension = "status"
	DimensionPaymentMethod BreakdownDimension = "payment_method"
)

// ReportAggregate is one group of a breakdown.
type ReportAggregate struct {
	Key         string          `json:"key"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// MonthBucket aggregates records of a calendar month.
type MonthBucket struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Key         string          `json:"key"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// MonthKey formats a year/month pair as YYYY-MM.
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// Before reports whether b is chronologically before o.
func (b MonthBucket) Before(o MonthBucket) bool {
	if b.Year != o.Year {
		return b.Year < o.Year
	}
	return b.Month < o.Month
}

// TotalSummary holds overall figures of a record set.
type TotalSummary struct {
	Count         int             `json:"count"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	AverageAmount decimal.Decimal `json:"averageAmount"`
	MinAmount     decimal.Decimal `json:"minAmount"`
	MaxAmount     decimal.Decimal `json:"maxAmount"`
}

// RecordSummary is the aggregated view of one record store.
type RecordSummary struct {
	Kind                   RecordKind        `json:"kind"`
	TotalSummary           TotalSummary      `json:"totalSummary"`
	CategoryBreakdown      []ReportAggregate `json:"categoryBreakdown"`
	StatusBreakdown        []ReportAggregate `json:"statusBreakdown"`
	PaymentMethodBreakdown []ReportAggregate `json:"paymentMethodBreakdown"`
	MonthlyTrend           []MonthBucket     `json:"monthlyTrend"`
}

// CashflowRow is one month of the merged revenue/expense/petty cash series.
type CashflowRow struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Key         string          `json:"key"`
	Revenue     decimal.Decimal `json:"revenue"`
	Expenses    decimal.Decimal `json:"expenses"`
	PettyCash   decimal.Decimal `json:"pettyCash"`
	NetCashflow decimal.Decimal `json:"netCashflow"`
}

// CashflowReport merges the monthly series of all three stores.
type CashflowReport struct {
	Rows           []CashflowRow   `json:"rows"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalExpenses  decimal.Decimal `json:"totalExpenses"`
	TotalPettyCash decimal.Decimal `json:"totalPettyCash"`
	NetCashflow    decimal.Decimal `json:"netCashflow"`
}
