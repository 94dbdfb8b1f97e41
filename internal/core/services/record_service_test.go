package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/pettycash_backend/internal/apperrors"
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pettycash_backend/internal/core/ports/services"
	"github.com/SscSPs/pettycash_backend/internal/core/services"
	"github.com/SscSPs/pettycash_backend/internal/dto"
	"github.com/SscSPs/pettycash_backend/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var (
	adminA      = domain.Scope{UserID: "admin-a", OrganizationID: "org-a", Role: domain.RoleAdmin}
	accountantA = domain.Scope{UserID: "acct-a", OrganizationID: "org-a", Role: domain.RoleAccountant}
	adminB      = domain.Scope{UserID: "admin-b", OrganizationID: "org-b", Role: domain.RoleAdmin}
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 20, 9, 30, 0, 0, time.UTC)
}

func expenseReq(date string, amount int64, category string) dto.CreateRecordRequest {
	return dto.CreateRecordRequest{
		Date:          date,
		Amount:        decimal.NewFromInt(amount),
		Description:   "Expense " + category,
		Category:      category,
		PaymentMethod: "cash",
	}
}

type RecordServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	repos     portsrepo.RepositoryProvider
	publisher *MockEventPublisher
	cache     *MockReportCache
	storage   *MockReceiptStorage
	service   portssvc.RecordSvcFacade
}

func (suite *RecordServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.repos = memory.NewRepositoryProvider(memory.NewStore())
	suite.publisher = new(MockEventPublisher)
	suite.cache = new(MockReportCache)
	suite.storage = new(MockReceiptStorage)
	suite.publisher.On("Publish", mock.Anything, mock.AnythingOfType("domain.RecordEvent")).Return(nil).Maybe()
	suite.cache.On("Invalidate", mock.Anything, mock.AnythingOfType("string")).Return(nil).Maybe()
	suite.service = services.NewRecordService(suite.repos.RecordRepo,
		services.WithEventPublisher(suite.publisher),
		services.WithRecordReportCache(suite.cache),
		services.WithReceiptStorage(suite.storage),
		services.WithRecordClock(fixedClock),
	)
}

func (suite *RecordServiceTestSuite) create(scope domain.Scope, kind domain.RecordKind, req dto.CreateRecordRequest) *domain.Record {
	rec, err := suite.service.CreateRecord(suite.ctx, scope, kind, req)
	suite.Require().NoError(err)
	return rec
}

func (suite *RecordServiceTestSuite) TestCreateRecord_Success() {
	rec := suite.create(accountantA, domain.KindExpense, expenseReq("2024-03-05", 100, "travel"))

	suite.NotEmpty(rec.RecordID)
	suite.Equal("org-a", rec.OrganizationID)
	suite.Equal(domain.StatusPending, rec.Status)
	suite.Equal(1, rec.Version)
	suite.Equal("2024-03-05", rec.Date.Format(domain.DateLayout))
	suite.Equal("acct-a", rec.CreatedBy)
	suite.Equal(fixedClock(), rec.CreatedAt)

	suite.cache.AssertCalled(suite.T(), "Invalidate", mock.Anything, "org-a")
	suite.publisher.AssertCalled(suite.T(), "Publish", mock.Anything, mock.MatchedBy(func(e domain.RecordEvent) bool {
		return e.Type == domain.EventRecordCreated && e.RecordID == rec.RecordID && e.ActorID == "acct-a"
	}))
}

func (suite *RecordServiceTestSuite) TestCreateRecord_DefaultsDateToToday() {
	req := expenseReq("", 10, "rent")
	rec := suite.create(adminA, domain.KindExpense, req)
	suite.Equal("2024-03-20", rec.Date.Format(domain.DateLayout))
}

func (suite *RecordServiceTestSuite) TestCreateRecord_RevenueSourceAlias() {
	rec := suite.create(adminA, domain.KindRevenue, dto.CreateRecordRequest{
		Amount:      decimal.NewFromInt(500),
		Description: "Consulting invoice",
		Source:      "consulting",
	})
	suite.Equal("consulting", rec.Category)
}

func (suite *RecordServiceTestSuite) TestCreateRecord_Validation() {
	cases := map[string]dto.CreateRecordRequest{
		"zero amount":      expenseReq("2024-03-01", 0, "travel"),
		"negative amount":  expenseReq("2024-03-01", -5, "travel"),
		"unknown category": expenseReq("2024-03-01", 5, "sales"),
		"bad date":         expenseReq("03/01/2024", 5, "travel"),
		"blank description": {
			Amount: decimal.NewFromInt(5), Description: "   ", Category: "travel",
		},
		"long description": {
			Amount: decimal.NewFromInt(5), Description: strings.Repeat("x", 501), Category: "travel",
		},
		"bad payment method": {
			Amount: decimal.NewFromInt(5), Description: "x", Category: "travel", PaymentMethod: "barter",
		},
	}
	for name, req := range cases {
		_, err := suite.service.CreateRecord(suite.ctx, adminA, domain.KindExpense, req)
		suite.ErrorIs(err, apperrors.ErrValidation, name)
	}
	suite.publisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *RecordServiceTestSuite) TestCreateRecord_AmountPrecisionAndRange() {
	withAmount := func(v string) dto.CreateRecordRequest {
		req := expenseReq("2024-03-01", 0, "travel")
		req.Amount = decimal.RequireFromString(v)
		return req
	}

	for _, v := range []string{"12.345", "0.001", "10000000000000000", "1e20"} {
		_, err := suite.service.CreateRecord(suite.ctx, adminA, domain.KindExpense, withAmount(v))
		suite.ErrorIs(err, apperrors.ErrValidation, v)
	}

	for _, v := range []string{"0.01", "12.30", "9999999999999999.99"} {
		rec := suite.create(adminA, domain.KindExpense, withAmount(v))
		stored, err := suite.service.GetRecord(suite.ctx, adminA, domain.KindExpense, rec.RecordID)
		suite.Require().NoError(err)
		suite.True(decimal.RequireFromString(v).Equal(stored.Amount), v)
	}
}

func (suite *RecordServiceTestSuite) TestCreateRecord_RequiresScope() {
	_, err := suite.service.CreateRecord(suite.ctx, domain.Scope{}, domain.KindExpense, expenseReq("", 5, "travel"))
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = suite.service.CreateRecord(suite.ctx, domain.Scope{UserID: "u"}, domain.KindExpense, expenseReq("", 5, "travel"))
	suite.ErrorIs(err, apperrors.ErrMissingOrganization)
}

func (suite *RecordServiceTestSuite) TestCreateRecord_SideEffectFailuresAreIgnored() {
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	cache := new(MockReportCache)
	cache.On("Invalidate", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	svc := services.NewRecordService(suite.repos.RecordRepo,
		services.WithEventPublisher(publisher), services.WithRecordReportCache(cache))

	rec, err := svc.CreateRecord(suite.ctx, adminA, domain.KindPettyCash, dto.CreateRecordRequest{
		Amount: decimal.NewFromInt(5), Description: "Stamps", Category: "office_supplies",
	})
	suite.Require().NoError(err)
	suite.NotNil(rec)
	publisher.AssertExpectations(suite.T())
	cache.AssertExpectations(suite.T())
}

func (suite *RecordServiceTestSuite) TestGetRecord_TenantIsolation() {
	rec := suite.create(adminA, domain.KindExpense, expenseReq("2024-03-05", 100, "travel"))

	got, err := suite.service.GetRecord(suite.ctx, accountantA, domain.KindExpense, rec.RecordID)
	suite.Require().NoError(err)
	suite.Equal(rec.RecordID, got.RecordID)

	_, err = suite.service.GetRecord(suite.ctx, adminB, domain.KindExpense, rec.RecordID)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = suite.service.GetRecord(suite.ctx, adminA, domain.KindExpense, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	// same id, other store
	_, err = suite.service.GetRecord(suite.ctx, adminA, domain.KindRevenue, rec.RecordID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RecordServiceTestSuite) TestListRecords_ScopedAndFiltered() {
	suite.create(adminA, domain.KindExpense, expenseReq("2024-03-01", 100, "travel"))
	suite.create(adminA, domain.KindExpense, expenseReq("2024-03-15", 200, "rent"))
	suite.create(adminB, domain.KindExpense, expenseReq("2024-03-10", 900, "travel"))

	resp, err := suite.service.ListRecords(suite.ctx, adminA, domain.KindExpense, dto.ListRecordsParams{})
	suite.Require().NoError(err)
	suite.Len(resp.Records, 2)
	suite.Equal("2024-03-15", resp.Records[0].Date)
	suite.Nil(resp.NextToken)

	resp, err = suite.service.ListRecords(suite.ctx, adminA, domain.KindExpense, dto.ListRecordsParams{Category: "travel"})
	suite.Require().NoError(err)
	suite.Len(resp.Records, 1)

	_, err = suite.service.ListRecords(suite.ctx, adminA, domain.KindExpense, dto.ListRecordsParams{From: "2024-03-20", To: "2024-03-01"})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.ListRecords(suite.ctx, adminA, domain.KindExpense, dto.ListRecordsParams{Status: "received"})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RecordServiceTestSuite) TestUpdateRecordStatus_Approve() {
	rec := suite.create(accountantA, domain.KindExpense, expenseReq("2024-03-05", 100, "travel"))

	updated, err := suite.service.UpdateRecordStatus(suite.ctx, adminA, domain.KindExpense, rec.RecordID,
		dto.UpdateStatusRequest{Status: "approved"}, nil)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, updated.Status)
	suite.Equal(2, updated.Version)
	suite.Equal("admin-a", updated.LastUpdatedBy)

	_, err = suite.service.UpdateRecordStatus(suite.ctx, adminA, domain.KindExpense, rec.RecordID,
		dto.UpdateStatusRequest{Status: "rejected"}, nil)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *RecordServiceTestSuite) TestUpdateRecordStatus_RoleGating() {
	expense := suite.create(accountantA, domain.KindExpense, expenseReq("2024-03-05", 100, "travel"))
	_, err := suite.service.UpdateRecordStatus(suite.ctx, accountantA, domain.KindExpense, expense.RecordID,
		dto.UpdateStatusRequest{Status: "approved"}, nil)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	revenue := suite.create(accountantA, domain.KindRevenue, dto.CreateRecordRequest{
		Amount: decimal.NewFromInt(50), Description: "Sale", Category: "sales",
	})
	updated, err := suite.service.UpdateRecordStatus(suite.ctx, accountantA, domain.KindRevenue, revenue.RecordID,
		dto.UpdateStatusRequest{Status: "received"}, nil)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusReceived, updated.Status)
}

func (suite *RecordServiceTestSuite) TestUpdateRecordStatus_Validation() {
	rec := suite.create(adminA, domain.KindPettyCash, dto.CreateRecordRequest{
		Amount: decimal.NewFromInt(5), Description: "Tea", Category: "meals",
	})
	for _, status := range []string{"pending", "received", "bogus", ""} {
		_, err := suite.service.UpdateRecordStatus(suite.ctx, adminA, domain.KindPettyCash, rec.RecordID,
			dto.UpdateStatusRequest{Status: status}, nil)
		suite.ErrorIs(err, apperrors.ErrValidation, status)
	}
}

func (suite *RecordServiceTestSuite) TestUpdateRecordStatus_OtherOrganization() {
	rec := suite.create(adminA, domain.KindExpense, expenseReq("2024-03-05", 100, "travel"))
	_, err := suite.service.UpdateRecordStatus(suite.ctx, adminB, domain.KindExpense, rec.RecordID,
		dto.UpdateStatusRequest{Status: "approved"}, nil)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	got, err := suite.service.GetRecord(suite.ctx, adminA, domain.KindExpense, rec.RecordID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, got.Status)
}

func (suite *RecordServiceTestSuite) TestUpdateRecordStatus_IfMatch() {
	rec := suite.create(adminA, domain.KindExpense, expenseReq("2024-03-05", 100, "travel"))

	stale := 7
	_, err := suite.service.UpdateRecordStatus(suite.ctx, adminA, domain.KindExpense, rec.RecordID,
		dto.UpdateStatusRequest{Status: "approved"}, &stale)
	suite.ErrorIs(err, apperrors.ErrConflict)

	current := 1
	updated, err := suite.service.UpdateRecordStatus(suite.ctx, adminA, domain.KindExpense, rec.RecordID,
		dto.UpdateStatusRequest{Status: "approved"}, &current)
	suite.Require().NoError(err)
	suite.Equal(2, updated.Version)
}

func (suite *RecordServiceTestSuite) TestUpdateRecordStatus_ConcurrentApprovalsHaveOneWinner() {
	rec := suite.create(adminA, domain.KindExpense, expenseReq("2024-03-05", 100, "travel"))

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := "approved"
			if i%2 == 1 {
				status = "rejected"
			}
			_, errs[i] = suite.service.UpdateRecordStatus(suite.ctx, adminA, domain.KindExpense, rec.RecordID,
				dto.UpdateStatusRequest{Status: status}, nil)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		kind, code := apperrors.Kind(err)
		suite.Equal(409, code, kind)
	}
	suite.Equal(1, wins)

	got, err := suite.service.GetRecord(suite.ctx, adminA, domain.KindExpense, rec.RecordID)
	suite.Require().NoError(err)
	suite.Equal(2, got.Version)
}

func (suite *RecordServiceTestSuite) TestAttachReceipt_Success() {
	rec := suite.create(adminA, domain.KindExpense, expenseReq("2024-03-05", 100, "travel"))
	key := "receipts/org-a/expense/" + rec.RecordID + "/taxi_receipt.pdf"
	suite.storage.On("UploadReceipt", mock.Anything, key, "application/pdf", mock.Anything, int64(4)).
		Return("https://bucket.example/"+key, nil).Once()

	updated, err := suite.service.AttachReceipt(suite.ctx, accountantA, domain.KindExpense, rec.RecordID, dto.ReceiptUpload{
		Filename:    "../taxi receipt.pdf",
		ContentType: "application/pdf",
		Size:        4,
		Body:        strings.NewReader("%PDF"),
	})
	suite.Require().NoError(err)
	suite.Equal("https://bucket.example/"+key, updated.AttachmentURL)
	suite.storage.AssertExpectations(suite.T())

	got, err := suite.service.GetRecord(suite.ctx, adminA, domain.KindExpense, rec.RecordID)
	suite.Require().NoError(err)
	suite.Equal(updated.AttachmentURL, got.AttachmentURL)
}

func (suite *RecordServiceTestSuite) TestAttachReceipt_Rejections() {
	rec := suite.create(adminA, domain.KindExpense, expenseReq("2024-03-05", 100, "travel"))

	_, err := suite.service.AttachReceipt(suite.ctx, adminA, domain.KindExpense, rec.RecordID, dto.ReceiptUpload{
		Filename: "notes.txt", ContentType: "text/plain", Size: 3, Body: strings.NewReader("abc"),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.AttachReceipt(suite.ctx, adminA, domain.KindExpense, rec.RecordID, dto.ReceiptUpload{
		Filename: "big.png", ContentType: "image/png", Size: services.MaxReceiptSize + 1, Body: strings.NewReader(""),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.AttachReceipt(suite.ctx, adminB, domain.KindExpense, rec.RecordID, dto.ReceiptUpload{
		Filename: "r.png", ContentType: "image/png", Size: 3, Body: strings.NewReader("abc"),
	})
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.storage.AssertNotCalled(suite.T(), "UploadReceipt", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	noStorage := services.NewRecordService(suite.repos.RecordRepo)
	_, err = noStorage.AttachReceipt(suite.ctx, adminA, domain.KindExpense, rec.RecordID, dto.ReceiptUpload{
		Filename: "r.png", ContentType: "image/png", Size: 3, Body: strings.NewReader("abc"),
	})
	suite.ErrorIs(err, apperrors.ErrUnavailable)
}

func TestRecordServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecordServiceTestSuite))
}
