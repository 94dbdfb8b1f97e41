package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portssvc "github.com/SscSPs/pettycash_backend/internal/core/ports/services"
	"github.com/SscSPs/pettycash_backend/internal/core/services"
	"github.com/SscSPs/pettycash_backend/internal/dto"
	"github.com/SscSPs/pettycash_backend/internal/middleware"
	"github.com/SscSPs/pettycash_backend/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// recordPaths maps each record kind to its collection path.
var recordPaths = map[domain.RecordKind]string{
	domain.KindPettyCash: "/petty-cash",
	domain.KindExpense:   "/expenses",
	domain.KindRevenue:   "/revenues",
}

// recordHandler serves one record store.
type recordHandler struct {
	kind          domain.RecordKind
	recordService portssvc.RecordSvcFacade
}

// registerRecordRoutes registers the petty cash, expense and revenue endpoints.
func registerRecordRoutes(rg *gin.RouterGroup, recordService portssvc.RecordSvcFacade) {
	for _, kind := range domain.RecordKinds() {
		h := &recordHandler{kind: kind, recordService: recordService}
		group := rg.Group(recordPaths[kind])
		{
			group.POST("", h.createRecord)
			group.GET("", h.listRecords)
			group.GET("/:recordID", h.getRecord)
			group.PATCH("/:recordID/status", h.updateRecordStatus)
			group.POST("/:recordID/receipt", h.attachReceipt)
		}
	}
}

func requireScope(c *gin.Context) (domain.Scope, bool) {
	scope, ok := middleware.GetScopeFromContext(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
	}
	return scope, ok
}

func etag(version int) string {
	return fmt.Sprintf(`"%d"`, version)
}

// parseIfMatch reads the expected record version from If-Match.
// A missing header or "*" means any version.
func parseIfMatch(header string) (*int, error) {
	header = strings.TrimSpace(header)
	if header == "" || header == "*" {
		return nil, nil
	}
	header = strings.Trim(strings.TrimPrefix(header, "W/"), `"`)
	v, err := strconv.Atoi(header)
	if err != nil || v < 1 {
		return nil, errors.New("If-Match must carry a record version")
	}
	return &v, nil
}

// createRecord godoc
// @Summary Create a record
// @Description Creates a pending petty cash voucher, expense or revenue entry in the caller's organization.
// @Tags records
// @Accept json
// @Produce json
// @Param type path string true "Record type" Enums(petty-cash, expenses, revenues)
// @Param record body dto.CreateRecordRequest true "Record details"
// @Success 201 {object} response.Body{data=dto.RecordResponse}
// @Failure 400 {object} response.Body
// @Failure 401 {object} response.Body
// @Failure 500 {object} response.Body
// @Security BearerAuth
// @Router /{type} [post]
func (h *recordHandler) createRecord(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	record, err := h.recordService.CreateRecord(c.Request.Context(), scope, h.kind, req)
	if err != nil {
		handleServiceError(c, err, "Failed to create record")
		return
	}

	c.Header("ETag", etag(record.Version))
	response.Created(c, dto.ToRecordResponse(record))
}

// listRecords godoc
// @Summary List records
// @Description Lists the caller organization's records, newest first, with optional filters and cursor pagination.
// @Tags records
// @Produce json
// @Param type path string true "Record type" Enums(petty-cash, expenses, revenues)
// @Param from query string false "Start date (YYYY-MM-DD), inclusive"
// @Param to query string false "End date (YYYY-MM-DD), inclusive"
// @Param search query string false "Case-insensitive match on description or reference"
// @Param status query string false "Status filter"
// @Param category query string false "Category (or revenue source) filter"
// @Param limit query int false "Page size (1-500)"
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} response.Body{data=dto.ListRecordsResponse}
// @Failure 400 {object} response.Body
// @Failure 401 {object} response.Body
// @Failure 500 {object} response.Body
// @Security BearerAuth
// @Router /{type} [get]
func (h *recordHandler) listRecords(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	var params dto.ListRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.recordService.ListRecords(c.Request.Context(), scope, h.kind, params)
	if err != nil {
		handleServiceError(c, err, "Failed to list records")
		return
	}
	response.OK(c, resp)
}

// getRecord godoc
// @Summary Get a record
// @Tags records
// @Produce json
// @Param type path string true "Record type" Enums(petty-cash, expenses, revenues)
// @Param recordID path string true "Record ID"
// @Success 200 {object} response.Body{data=dto.RecordResponse}
// @Failure 401 {object} response.Body
// @Failure 403 {object} response.Body
// @Failure 404 {object} response.Body
// @Security BearerAuth
// @Router /{type}/{recordID} [get]
func (h *recordHandler) getRecord(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	record, err := h.recordService.GetRecord(c.Request.Context(), scope, h.kind, c.Param("recordID"))
	if err != nil {
		handleServiceError(c, err, "Failed to get record")
		return
	}

	c.Header("ETag", etag(record.Version))
	response.OK(c, dto.ToRecordResponse(record))
}

// updateRecordStatus godoc
// @Summary Change the status of a pending record
// @Description Approves or rejects petty cash and expenses (admin), or marks revenue received or overdue (admin, accountant).
// @Tags records
// @Accept json
// @Produce json
// @Param type path string true "Record type" Enums(petty-cash, expenses, revenues)
// @Param recordID path string true "Record ID"
// @Param If-Match header string false "Expected record version (ETag)"
// @Param status body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} response.Body{data=dto.RecordResponse}
// @Failure 400 {object} response.Body
// @Failure 403 {object} response.Body
// @Failure 404 {object} response.Body
// @Failure 409 {object} response.Body
// @Security BearerAuth
// @Router /{type}/{recordID}/status [patch]
func (h *recordHandler) updateRecordStatus(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	expected, err := parseIfMatch(c.GetHeader("If-Match"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	record, err := h.recordService.UpdateRecordStatus(c.Request.Context(), scope, h.kind, c.Param("recordID"), req, expected)
	if err != nil {
		handleServiceError(c, err, "Failed to update record status")
		return
	}

	c.Header("ETag", etag(record.Version))
	response.OK(c, dto.ToRecordResponse(record))
}

// attachReceipt godoc
// @Summary Attach a receipt or invoice
// @Description Uploads a JPEG, PNG, WebP or PDF file (up to 10MB) and links it to the record.
// @Tags records
// @Accept multipart/form-data
// @Produce json
// @Param type path string true "Record type" Enums(petty-cash, expenses, revenues)
// @Param recordID path string true "Record ID"
// @Param file formData file true "Receipt file"
// @Success 200 {object} response.Body{data=dto.RecordResponse}
// @Failure 400 {object} response.Body
// @Failure 404 {object} response.Body
// @Failure 503 {object} response.Body
// @Security BearerAuth
// @Router /{type}/{recordID}/receipt [post]
func (h *recordHandler) attachReceipt(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// room for the multipart envelope around the file
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxReceiptSize+1<<20)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Info("receipt upload without a usable file", zap.Error(err))
		response.BadRequest(c, "a receipt file is required in the 'file' field (max 10MB)")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		handleServiceError(c, err, "Failed to read uploaded receipt")
		return
	}
	defer file.Close()

	record, err := h.recordService.AttachReceipt(c.Request.Context(), scope, h.kind, c.Param("recordID"), dto.ReceiptUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		handleServiceError(c, err, "Failed to attach receipt")
		return
	}

	c.Header("ETag", etag(record.Version))
	response.OK(c, dto.ToRecordResponse(record))
}
