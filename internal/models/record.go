package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is the row shape shared by the petty_cash, expenses and revenues tables.
// Revenue rows keep their source in the category column.
type Record struct {
	RecordID       string          `db:"record_id"`
	OrganizationID string          `db:"organization_id"`
	RecordDate     time.Time       `db:"record_date"`
	Amount         decimal.Decimal `db:"amount"`
	Description    string          `db:"description"`
	Category       string          `db:"category"`
	PaymentMethod  string          `db:"payment_method"`
	Reference      string          `db:"reference"`
	Status         string          `db:"status"`
	AttachmentURL  string          `db:"attachment_url"`
	Version        int             `db:"version"`
	AuditFields
}
