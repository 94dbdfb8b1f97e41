package dto

import (
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportWindowParams defines the date window query parameters of report endpoints.
// Period is a shortcut (week, month, quarter, year) ending today; from/to win when set.
type ReportWindowParams struct {
	From   string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Period string `form:"period" binding:"omitempty,oneof=week month quarter year"`
}

// SummaryResponse represents a petty cash, expense or revenue summary report.
type SummaryResponse struct {
	ReportType             string                   `json:"reportType"`
	FromDate               string                   `json:"fromDate,omitempty"`
	ToDate                 string                   `json:"toDate,omitempty"`
	TotalSummary           domain.TotalSummary      `json:"totalSummary"`
	CategoryBreakdown      []domain.ReportAggregate `json:"categoryBreakdown"`
	StatusBreakdown        []domain.ReportAggregate `json:"statusBreakdown"`
	PaymentMethodBreakdown []domain.ReportAggregate `json:"paymentMethodBreakdown"`
	MonthlyTrend           []domain.MonthBucket     `json:"monthlyTrend"`
}

// CashflowResponse represents the merged cashflow report.
type CashflowResponse struct {
	ReportType   string               `json:"reportType"`
	FromDate     string               `json:"fromDate,omitempty"`
	ToDate       string               `json:"toDate,omitempty"`
	MonthlyTrend []domain.CashflowRow `json:"monthlyTrend"`
	TotalSummary struct {
		TotalRevenue   decimal.Decimal `json:"totalRevenue"`
		TotalExpenses  decimal.Decimal `json:"totalExpenses"`
		TotalPettyCash decimal.Decimal `json:"totalPettyCash"`
		NetCashflow    decimal.Decimal `json:"netCashflow"`
	} `json:"totalSummary"`
}

func windowLabels(w domain.ReportWindow) (string, string) {
	var from, to string
	if w.From != nil {
		from = w.From.Format(domain.DateLayout)
	}
	if w.To != nil {
		to = w.To.Format(domain.DateLayout)
	}
	return from, to
}

// ToSummaryResponse converts a domain summary into the report response.
func ToSummaryResponse(reportType string, s *domain.RecordSummary, w domain.ReportWindow) SummaryResponse {
	from, to := windowLabels(w)
	return SummaryResponse{
		ReportType:             reportType,
		FromDate:               from,
		ToDate:                 to,
		TotalSummary:           s.TotalSummary,
		CategoryBreakdown:      s.CategoryBreakdown,
		StatusBreakdown:        s.StatusBreakdown,
		PaymentMethodBreakdown: s.PaymentMethodBreakdown,
		MonthlyTrend:           s.MonthlyTrend,
	}
}

// ToCashflowResponse converts a domain cashflow report into the report response.
func ToCashflowResponse(r *domain.CashflowReport, w domain.ReportWindow) CashflowResponse {
	from, to := windowLabels(w)
	resp := CashflowResponse{
		ReportType:   "cashflow-summary",
		FromDate:     from,
		ToDate:       to,
		MonthlyTrend: r.Rows,
	}
	resp.TotalSummary.TotalRevenue = r.TotalRevenue
	resp.TotalSummary.TotalExpenses = r.TotalExpenses
	resp.TotalSummary.TotalPettyCash = r.TotalPettyCash
	resp.TotalSummary.NetCashflow = r.NetCashflow
	return resp
}
