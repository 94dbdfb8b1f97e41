package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portssvc "github.com/SscSPs/pettycash_backend/internal/core/ports/services"
	"github.com/SscSPs/pettycash_backend/internal/dto"
	"github.com/SscSPs/pettycash_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type exportHandler struct {
	exportService portssvc.ExportService
}

func registerExportRoutes(rg *gin.RouterGroup, exportService portssvc.ExportService) {
	h := &exportHandler{exportService: exportService}
	exportGroup := rg.Group("/export")
	for _, kind := range domain.RecordKinds() {
		exportGroup.GET(recordPaths[kind], h.export(kind))
	}
}

// export godoc
// @Summary Export records as PDF
// @Description Renders the caller's records matching the list filters as an A4 PDF report. No matching records returns 404.
// @Tags export
// @Produce application/pdf
// @Param type path string true "Record type" Enums(petty-cash, expenses, revenues)
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param search query string false "Description or reference search"
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Success 200 {file} file
// @Failure 400 {object} response.Body
// @Failure 404 {object} response.Body
// @Security BearerAuth
// @Router /export/{type} [get]
func (h *exportHandler) export(kind domain.RecordKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := requireScope(c)
		if !ok {
			return
		}

		var params dto.ListRecordsParams
		if err := c.ShouldBindQuery(&params); err != nil {
			bindError(c, err)
			return
		}

		doc, err := h.exportService.Export(c.Request.Context(), scope, kind, params)
		if err != nil {
			handleServiceError(c, err, "Failed to export records")
			return
		}

		c.Header("Content-Type", doc.ContentType())
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename()))
		c.Status(http.StatusOK)
		if err := doc.Render(c.Writer); err != nil {
			// headers are gone; the document itself carries the failure notice
			middleware.GetLoggerFromCtx(c.Request.Context()).Error("Export rendered with errors",
				zap.String("kind", string(kind)),
				zap.String("filename", doc.Filename()),
				zap.Error(err))
		}
	}
}
