package dto

import (
	"io"
	"time"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRecordRequest is the body of POST /petty-cash, /expenses and /revenues.
// Revenue clients may send the category as "source".
type CreateRecordRequest struct {
	Date          string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Amount        decimal.Decimal `json:"amount" binding:"positive_amount"`
	Description   string          `json:"description" binding:"required,max=500"`
	Category      string          `json:"category" binding:"max=50"`
	Source        string          `json:"source,omitempty" binding:"max=50"`
	PaymentMethod string          `json:"paymentMethod" binding:"omitempty,payment_method"`
	Reference     string          `json:"reference" binding:"max=100"`
}

// CategoryValue returns the category, falling back to the revenue source alias.
func (r CreateRecordRequest) CategoryValue() string {
	if r.Category != "" {
		return r.Category
	}
	return r.Source
}

// UpdateStatusRequest is the body of PATCH /{type}/:recordID/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListRecordsParams defines query parameters for listing and exporting records.
type ListRecordsParams struct {
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Search    string `form:"search"`
	Status    string `form:"status"`
	Category  string `form:"category"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken string `form:"nextToken"`
}

// ReceiptUpload carries an uploaded receipt or invoice file.
type ReceiptUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// RecordResponse is the JSON shape of a record.
type RecordResponse struct {
	RecordID      string          `json:"recordID"`
	Kind          string          `json:"kind"`
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Source        string          `json:"source,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	Status        string          `json:"status"`
	AttachmentURL string          `json:"attachmentURL,omitempty"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ListRecordsResponse wraps a page of records.
type ListRecordsResponse struct {
	Records   []RecordResponse `json:"records"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ToRecordResponse converts a domain.Record to its JSON shape.
func ToRecordResponse(r *domain.Record) RecordResponse {
	resp := RecordResponse{
		RecordID:      r.RecordID,
		Kind:          string(r.Kind),
		Date:          r.Date.Format(domain.DateLayout),
		Amount:        r.Amount,
		Description:   r.Description,
		Category:      r.Category,
		PaymentMethod: r.PaymentMethod,
		Reference:     r.Reference,
		Status:        string(r.Status),
		AttachmentURL: r.AttachmentURL,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		CreatedBy:     r.CreatedBy,
		LastUpdatedAt: r.LastUpdatedAt,
		LastUpdatedBy: r.LastUpdatedBy,
	}
	if r.Kind == domain.KindRevenue {
		resp.Source = r.Category
	}
	return resp
}

// ToListRecordsResponse converts a page of domain records.
func ToListRecordsResponse(records []domain.Record, nextToken *string) *ListRecordsResponse {
	out := make([]RecordResponse, len(records))
	for i := range records {
		out[i] = ToRecordResponse(&records[i])
	}
	return &ListRecordsResponse{Records: out, NextToken: nextToken}
}
