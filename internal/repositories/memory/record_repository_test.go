package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/pettycash_backend/internal/apperrors"
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(id, org string, day int, amount int64, desc string) domain.Record {
	created := time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC)
	return domain.Record{
		RecordID:       id,
		OrganizationID: org,
		Kind:           domain.KindExpense,
		Date:           time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		Amount:         decimal.NewFromInt(amount),
		Description:    desc,
		Category:       "travel",
		Status:         domain.StatusPending,
		Version:        1,
		AuditFields:    domain.AuditFields{CreatedAt: created, LastUpdatedAt: created},
	}
}

func TestListRecordsPaginatesInDateOrder(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositoryProvider(NewStore())
	for day := 1; day <= 5; day++ {
		require.NoError(t, repos.RecordRepo.SaveRecord(ctx, newRecord(fmt.Sprintf("r%d", day), "org-a", day, 10, "taxi")))
	}
	require.NoError(t, repos.RecordRepo.SaveRecord(ctx, newRecord("other", "org-b", 3, 10, "taxi")))

	page1, next, err := repos.RecordRepo.ListRecords(ctx, "org-a", domain.KindExpense, domain.RecordFilter{Limit: 2})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []string{"r5", "r4"}, ids(page1))

	page2, next, err := repos.RecordRepo.ListRecords(ctx, "org-a", domain.KindExpense, domain.RecordFilter{Limit: 2, NextToken: next})
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r2"}, ids(page2))

	page3, next, err := repos.RecordRepo.ListRecords(ctx, "org-a", domain.KindExpense, domain.RecordFilter{Limit: 2, NextToken: next})
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, []string{"r1"}, ids(page3))
}

func TestListRecordsPaginatesAcrossIdenticalTimestamps(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositoryProvider(NewStore())
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		// same date and createdAt for every record
		require.NoError(t, repos.RecordRepo.SaveRecord(ctx, newRecord(id, "org-a", 7, 10, "taxi")))
	}

	var seen []string
	var next *string
	for pages := 0; pages < 10; pages++ {
		page, token, err := repos.RecordRepo.ListRecords(ctx, "org-a", domain.KindExpense, domain.RecordFilter{Limit: 2, NextToken: next})
		require.NoError(t, err)
		seen = append(seen, ids(page)...)
		if token == nil {
			break
		}
		next = token
	}

	assert.Equal(t, []string{"e", "d", "c", "b", "a"}, seen)
}

func TestSaveRecordRejectsAmountsTheSchemaRejects(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositoryProvider(NewStore())

	for i, v := range []string{"0.001", "12.345", "10000000000000000"} {
		rec := newRecord(fmt.Sprintf("bad%d", i), "org-a", 1, 1, "taxi")
		rec.Amount = decimal.RequireFromString(v)
		assert.ErrorIs(t, repos.RecordRepo.SaveRecord(ctx, rec), apperrors.ErrValidation, v)
	}

	list, _, err := repos.RecordRepo.ListRecords(ctx, "org-a", domain.KindExpense, domain.RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListRecordsFilters(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositoryProvider(NewStore())
	require.NoError(t, repos.RecordRepo.SaveRecord(ctx, newRecord("a", "org-a", 1, 10, "Taxi to airport")))
	require.NoError(t, repos.RecordRepo.SaveRecord(ctx, newRecord("b", "org-a", 10, 10, "Hotel")))
	require.NoError(t, repos.RecordRepo.SaveRecord(ctx, newRecord("c", "org-a", 20, 10, "Train")))

	from := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	got, _, err := repos.RecordRepo.ListRecords(ctx, "org-a", domain.KindExpense, domain.RecordFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids(got), "window is inclusive on both ends")

	got, _, err = repos.RecordRepo.ListRecords(ctx, "org-a", domain.KindExpense, domain.RecordFilter{Search: "TAXI"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(got))

	_, _, err = repos.RecordRepo.ListRecords(ctx, "org-a", domain.KindExpense, domain.RecordFilter{NextToken: ptr("%%%")})
	assert.Error(t, err)
}

func TestUpdateRecordStatusCompareAndSet(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositoryProvider(NewStore())
	require.NoError(t, repos.RecordRepo.SaveRecord(ctx, newRecord("r1", "org-a", 1, 10, "taxi")))

	change := portsrepo.StatusChange{
		Kind:            domain.KindExpense,
		RecordID:        "r1",
		OrganizationID:  "org-a",
		NewStatus:       domain.StatusApproved,
		ExpectedVersion: 1,
		UpdatedBy:       "admin",
		UpdatedAt:       time.Now(),
	}
	updated, err := repos.RecordRepo.UpdateRecordStatus(ctx, change)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)
	assert.Equal(t, 2, updated.Version)

	// a second writer holding the old version loses
	change.NewStatus = domain.StatusRejected
	_, err = repos.RecordRepo.UpdateRecordStatus(ctx, change)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUserEmailIsUniqueIgnoringCase(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositoryProvider(NewStore())
	org := domain.Organization{OrganizationID: "org-a", Name: "Acme"}
	require.NoError(t, repos.OrganizationRepo.SaveOrganizationWithOwner(ctx, org, domain.User{UserID: "u1", Email: "Boss@acme.test", OrganizationID: "org-a", Role: domain.RoleAdmin}))

	err := repos.UserRepo.SaveUser(ctx, domain.User{UserID: "u2", Email: "boss@ACME.test", OrganizationID: "org-a"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	u, err := repos.UserRepo.FindUserByEmail(ctx, "BOSS@acme.test")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)
}

func ids(records []domain.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.RecordID
	}
	return out
}

func ptr(s string) *string { return &s }
