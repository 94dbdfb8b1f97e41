package domain_test

import (
	"testing"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecordKind_AllowsStatus(t *testing.T) {
	tests := []struct {
		name   string
		kind   domain.RecordKind
		status domain.RecordStatus
		want   bool
	}{
		{"petty cash approved", domain.KindPettyCash, domain.StatusApproved, true},
		{"petty cash received", domain.KindPettyCash, domain.StatusReceived, false},
		{"expense rejected", domain.KindExpense, domain.StatusRejected, true},
		{"expense overdue", domain.KindExpense, domain.StatusOverdue, false},
		{"revenue received", domain.KindRevenue, domain.StatusReceived, true},
		{"revenue overdue", domain.KindRevenue, domain.StatusOverdue, true},
		{"revenue approved", domain.KindRevenue, domain.StatusApproved, false},
		{"unknown status", domain.KindExpense, domain.RecordStatus("paid"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.AllowsStatus(tt.status))
		})
	}
}

func TestRecordKind_AllowsCategory(t *testing.T) {
	assert.True(t, domain.KindPettyCash.AllowsCategory("meals"))
	assert.False(t, domain.KindPettyCash.AllowsCategory("rent"))
	assert.True(t, domain.KindExpense.AllowsCategory("rent"))
	assert.True(t, domain.KindRevenue.AllowsCategory("consulting"))
	assert.False(t, domain.KindRevenue.AllowsCategory("travel"))
}

func TestRecordKind_Approvers(t *testing.T) {
	assert.Equal(t, []domain.Role{domain.RoleAdmin}, domain.KindPettyCash.Approvers())
	assert.Equal(t, []domain.Role{domain.RoleAdmin}, domain.KindExpense.Approvers())
	assert.ElementsMatch(t, []domain.Role{domain.RoleAdmin, domain.RoleAccountant}, domain.KindRevenue.Approvers())
}

func TestRecordKind_StatusesStartWithPending(t *testing.T) {
	for _, k := range domain.RecordKinds() {
		assert.Equal(t, domain.StatusPending, k.Statuses()[0], string(k))
		assert.True(t, k.IsValid())
		assert.NotEmpty(t, k.Table())
	}
	assert.False(t, domain.RecordKind("invoice").IsValid())
}

func TestMonthKeyAndOrdering(t *testing.T) {
	assert.Equal(t, "2024-03", domain.MonthKey(2024, 3))
	assert.Equal(t, "2024-11", domain.MonthKey(2024, 11))

	dec := domain.MonthBucket{Year: 2023, Month: 12}
	jan := domain.MonthBucket{Year: 2024, Month: 1}
	feb := domain.MonthBucket{Year: 2024, Month: 2}
	assert.True(t, dec.Before(jan))
	assert.True(t, jan.Before(feb))
	assert.False(t, feb.Before(jan))
	assert.False(t, jan.Before(jan))
}

func TestScope_HasRole(t *testing.T) {
	s := domain.Scope{UserID: "u1", OrganizationID: "o1", Role: domain.RoleAccountant}
	assert.True(t, s.HasRole(domain.RoleAdmin, domain.RoleAccountant))
	assert.False(t, s.HasRole(domain.RoleAdmin))
	assert.True(t, domain.IsPaymentMethod("cheque"))
	assert.False(t, domain.IsPaymentMethod("bitcoin"))
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		amount string
		valid  bool
	}{
		{"0.01", true},
		{"150", true},
		{"12.30", true},
		{"12.300", true},
		{"9999999999999999.99", true},
		{"0", false},
		{"-1", false},
		{"0.001", false},
		{"12.345", false},
		{"10000000000000000", false},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			err := domain.ValidateAmount(decimal.RequireFromString(tt.amount))
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
