package domain

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// RecordKind identifies one of the three financial record stores.
type RecordKind string

const (
	KindPettyCash RecordKind = "petty_cash"
	KindExpense   RecordKind = "expense"
	KindRevenue   RecordKind = "revenue"
)

// RecordStatus is the lifecycle state of a record.
type RecordStatus string

const (
	StatusPending  RecordStatus = "pending"
	StatusApproved RecordStatus = "approved"
	StatusRejected RecordStatus = "rejected"
	StatusReceived RecordStatus = "received"
	StatusOverdue  RecordStatus = "overdue"
)

// PaymentMethods lists the accepted payment method values.
var PaymentMethods = []string{
	"cash",
	"bank_transfer",
	"credit_card",
	"debit_card",
	"cheque",
	"mobile_money",
	"other",
}

// UnspecifiedPaymentMethod is the report key for records without a payment method.
const UnspecifiedPaymentMethod = "unspecified"

type kindSpec struct {
	title      string
	table      string
	categories []string
	statuses   []RecordStatus
	approvers  []Role
}

var kindSpecs = map[RecordKind]kindSpec{
	KindPettyCash: {
		title: "Petty Cash",
		table: "petty_cash",
		categories: []string{
			"office_supplies", "travel", "meals", "transport",
			"utilities", "maintenance", "miscellaneous",
		},
		statuses:  []RecordStatus{StatusPending, StatusApproved, StatusRejected},
		approvers: []Role{RoleAdmin},
	},
	KindExpense: {
		title: "Expenses",
		table: "expenses",
		categories: []string{
			"travel", "rent", "utilities", "salaries", "office_supplies", "marketing",
			"equipment", "maintenance", "insurance", "taxes", "miscellaneous",
		},
		statuses:  []RecordStatus{StatusPending, StatusApproved, StatusRejected},
		approvers: []Role{RoleAdmin},
	},
	KindRevenue: {
		title: "Revenue",
		table: "revenues",
		categories: []string{
			"sales", "services", "consulting", "subscriptions",
			"investments", "grants", "other",
		},
		statuses:  []RecordStatus{StatusPending, StatusReceived, StatusOverdue},
		approvers: []Role{RoleAdmin, RoleAccountant},
	},
}

// RecordKinds returns every kind in a stable order.
func RecordKinds() []RecordKind {
	return []RecordKind{KindPettyCash, KindExpense, KindRevenue}
}

// IsValid reports whether k is a known kind.
func (k RecordKind) IsValid() bool {
	_, ok := kindSpecs[k]
	return ok
}

// Title is the human readable name used in documents.
func (k RecordKind) Title() string { return kindSpecs[k].title }

// Table is the storage table holding records of this kind.
func (k RecordKind) Table() string { return kindSpecs[k].table }

// Categories lists the category (or revenue source) values accepted for k.
func (k RecordKind) Categories() []string { return kindSpecs[k].categories }

// Statuses lists the status alphabet of k, pending first.
func (k RecordKind) Statuses() []RecordStatus { return kindSpecs[k].statuses }

// Approvers lists the roles allowed to change the status of a record of kind k.
func (k RecordKind) Approvers() []Role { return kindSpecs[k].approvers }

// AllowsCategory reports whether c is a category of k.
func (k RecordKind) AllowsCategory(c string) bool {
	return slices.Contains(kindSpecs[k].categories, c)
}

// AllowsStatus reports whether s belongs to the status alphabet of k.
func (k RecordKind) AllowsStatus(s RecordStatus) bool {
	return slices.Contains(kindSpecs[k].statuses, s)
}

// IsPaymentMethod reports whether p is an accepted payment method.
func IsPaymentMethod(p string) bool {
	return slices.Contains(PaymentMethods, p)
}

// AmountScale is the number of decimal places an amount may carry.
const AmountScale = 2

// maxAmount is the exclusive upper bound of a stored amount (NUMERIC(18,2)).
var maxAmount = decimal.New(1, 16)

// ValidateAmount checks that a is positive, has at most AmountScale decimal
// places and fits the storage column.
func ValidateAmount(a decimal.Decimal) error {
	if !a.GreaterThan(decimal.Zero) {
		return errors.New("amount must be greater than 0")
	}
	if !a.Equal(a.Truncate(AmountScale)) {
		return fmt.Errorf("amount must have at most %d decimal places", AmountScale)
	}
	if a.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount must be less than %s", maxAmount.String())
	}
	return nil
}

// Record is a petty cash voucher, expense or revenue entry owned by one organization.
// Category holds the revenue source for revenue records.
type Record struct {
	RecordID       string          `json:"recordID"`
	OrganizationID string          `json:"organizationID"`
	Kind           RecordKind      `json:"kind"`
	Date           time.Time       `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	PaymentMethod  string          `json:"paymentMethod,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	Status         RecordStatus    `json:"status"`
	AttachmentURL  string          `json:"attachmentURL,omitempty"`
	Version        int             `json:"version"`
	AuditFields
}

// IsPending reports whether the record may still transition.
func (r Record) IsPending() bool {
	return r.Status == StatusPending
}

// RecordFilter narrows a record listing. Zero values mean "no filter".
// Limit of zero returns every matching record.
type RecordFilter struct {
	From      *time.Time
	To        *time.Time
	Search    string
	Status    RecordStatus
	Category  string
	Limit     int
	NextToken *string
}

// ReportWindow bounds report aggregation by record date (inclusive).
type ReportWindow struct {
	From *time.Time
	To   *time.Time
}

// AsFilter converts the window into an unpaginated record filter.
func (w ReportWindow) AsFilter() RecordFilter {
	return RecordFilter{From: w.From, To: w.To}
}
