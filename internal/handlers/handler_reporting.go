package handlers

import (
	"time"

	"github.com/SscSPs/pettycash_backend/internal/apperrors"
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portssvc "github.com/SscSPs/pettycash_backend/internal/core/ports/services"
	"github.com/SscSPs/pettycash_backend/internal/dto"
	"github.com/SscSPs/pettycash_backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/now"
)

// reportingHandler handles HTTP requests related to aggregated reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	now              func() time.Time
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		now:              time.Now,
	}
}

// registerReportingRoutes registers routes related to reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/petty-cash-summary", h.summary(domain.KindPettyCash, "petty-cash-summary"))
		reportingGroup.GET("/expense-summary", h.summary(domain.KindExpense, "expense-summary"))
		reportingGroup.GET("/revenue-summary", h.summary(domain.KindRevenue, "revenue-summary"))
		reportingGroup.GET("/cashflow-summary", h.cashflow)
	}
}

// reportWindow resolves query parameters into a date window. Explicit
// from/to win over the period shortcut, which ends today.
func reportWindow(p dto.ReportWindowParams, today time.Time) (domain.ReportWindow, error) {
	var w domain.ReportWindow
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	if p.Period != "" && p.From == "" && p.To == "" {
		cal := now.With(today)
		var start time.Time
		switch p.Period {
		case "week":
			start = cal.BeginningOfWeek()
		case "month":
			start = cal.BeginningOfMonth()
		case "quarter":
			start = cal.BeginningOfQuarter()
		case "year":
			start = cal.BeginningOfYear()
		default:
			return w, apperrors.NewValidationError("period must be one of week, month, quarter, year")
		}
		w.From, w.To = &start, &today
		return w, nil
	}

	if p.From != "" {
		from, err := time.Parse(domain.DateLayout, p.From)
		if err != nil {
			return w, apperrors.NewValidationError("from must be a date in YYYY-MM-DD format")
		}
		w.From = &from
	}
	if p.To != "" {
		to, err := time.Parse(domain.DateLayout, p.To)
		if err != nil {
			return w, apperrors.NewValidationError("to must be a date in YYYY-MM-DD format")
		}
		w.To = &to
	}
	if w.From != nil && w.To != nil && w.From.After(*w.To) {
		return w, apperrors.NewValidationError("from must not be after to")
	}
	return w, nil
}

func (h *reportingHandler) window(c *gin.Context) (domain.ReportWindow, bool) {
	var params dto.ReportWindowParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return domain.ReportWindow{}, false
	}
	w, err := reportWindow(params, h.now().UTC())
	if err != nil {
		handleServiceError(c, err, "Invalid report window")
		return domain.ReportWindow{}, false
	}
	return w, true
}

// summary godoc
// @Summary Summary report of one record store
// @Description Totals, category, status and payment method breakdowns and the monthly trend (last 12 months) of petty cash, expenses or revenue.
// @Tags reports
// @Produce json
// @Param report path string true "Report" Enums(petty-cash-summary, expense-summary, revenue-summary)
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param period query string false "Shortcut ending today" Enums(week, month, quarter, year)
// @Success 200 {object} response.Body{data=dto.SummaryResponse}
// @Failure 400 {object} response.Body
// @Failure 401 {object} response.Body
// @Failure 500 {object} response.Body
// @Security BearerAuth
// @Router /reports/{report} [get]
func (h *reportingHandler) summary(kind domain.RecordKind, reportType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := requireScope(c)
		if !ok {
			return
		}
		w, ok := h.window(c)
		if !ok {
			return
		}

		summary, err := h.reportingService.Summary(c.Request.Context(), scope, kind, w)
		if err != nil {
			handleServiceError(c, err, "Failed to generate report")
			return
		}
		response.OK(c, dto.ToSummaryResponse(reportType, summary, w))
	}
}

// cashflow godoc
// @Summary Cashflow report
// @Description Monthly revenue, expenses and petty cash with net cashflow = revenue - (expenses + petty cash).
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param period query string false "Shortcut ending today" Enums(week, month, quarter, year)
// @Success 200 {object} response.Body{data=dto.CashflowResponse}
// @Failure 400 {object} response.Body
// @Failure 401 {object} response.Body
// @Failure 500 {object} response.Body
// @Security BearerAuth
// @Router /reports/cashflow-summary [get]
func (h *reportingHandler) cashflow(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	w, ok := h.window(c)
	if !ok {
		return
	}

	report, err := h.reportingService.Cashflow(c.Request.Context(), scope, w)
	if err != nil {
		handleServiceError(c, err, "Failed to generate cashflow report")
		return
	}
	response.OK(c, dto.ToCashflowResponse(report, w))
}
