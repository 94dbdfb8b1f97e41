package handlers_test

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portssvc "github.com/SscSPs/pettycash_backend/internal/core/ports/services"
	"github.com/SscSPs/pettycash_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// --- Mock RecordService ---
type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) GetRecord(ctx context.Context, scope domain.Scope, kind domain.RecordKind, recordID string) (*domain.Record, error) {
	args := m.Called(ctx, scope, kind, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockRecordService) ListRecords(ctx context.Context, scope domain.Scope, kind domain.RecordKind, params dto.ListRecordsParams) (*dto.ListRecordsResponse, error) {
	args := m.Called(ctx, scope, kind, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListRecordsResponse), args.Error(1)
}

func (m *MockRecordService) CreateRecord(ctx context.Context, scope domain.Scope, kind domain.RecordKind, req dto.CreateRecordRequest) (*domain.Record, error) {
	args := m.Called(ctx, scope, kind, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockRecordService) UpdateRecordStatus(ctx context.Context, scope domain.Scope, kind domain.RecordKind, recordID string, req dto.UpdateStatusRequest, expectedVersion *int) (*domain.Record, error) {
	args := m.Called(ctx, scope, kind, recordID, req, expectedVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockRecordService) AttachReceipt(ctx context.Context, scope domain.Scope, kind domain.RecordKind, recordID string, upload dto.ReceiptUpload) (*domain.Record, error) {
	args := m.Called(ctx, scope, kind, recordID, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

var _ portssvc.RecordSvcFacade = (*MockRecordService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) Summary(ctx context.Context, scope domain.Scope, kind domain.RecordKind, window domain.ReportWindow) (*domain.RecordSummary, error) {
	args := m.Called(ctx, scope, kind, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecordSummary), args.Error(1)
}

func (m *MockReportingService) Cashflow(ctx context.Context, scope domain.Scope, window domain.ReportWindow) (*domain.CashflowReport, error) {
	args := m.Called(ctx, scope, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashflowReport), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock ExportService ---
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, scope domain.Scope, kind domain.RecordKind, params dto.ListRecordsParams) (portssvc.Document, error) {
	args := m.Called(ctx, scope, kind, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(portssvc.Document), args.Error(1)
}

type fakeDocument struct {
	body      string
	renderErr error
}

func (d fakeDocument) Filename() string    { return "expenses-report-20240401-080000.pdf" }
func (d fakeDocument) ContentType() string { return "application/pdf" }
func (d fakeDocument) Render(w io.Writer) error {
	_, _ = io.WriteString(w, d.body)
	return d.renderErr
}

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, scope domain.Scope, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, scope, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, scope domain.Scope, req dto.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, scope, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock OrganizationService ---
type MockOrganizationService struct {
	mock.Mock
}

func (m *MockOrganizationService) GetOrganization(ctx context.Context, scope domain.Scope) (*domain.Organization, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) RegisterOrganization(ctx context.Context, req dto.RegisterRequest) (*domain.Organization, *domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Organization), args.Get(1).(*domain.User), args.Error(2)
}

func (m *MockOrganizationService) EnsureBootstrapAdmin(ctx context.Context, organizationName, email, password string) error {
	args := m.Called(ctx, organizationName, email, password)
	return args.Error(0)
}

var _ portssvc.OrganizationSvcFacade = (*MockOrganizationService)(nil)

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// --- Mock GoogleOAuthHandlerService ---
type MockGoogleOAuthService struct {
	mock.Mock
}

func (m *MockGoogleOAuthService) GenerateStateString(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGoogleOAuthService) GetGoogleLoginURL(ctx context.Context, state string) string {
	args := m.Called(ctx, state)
	return args.String(0)
}

func (m *MockGoogleOAuthService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockGoogleOAuthService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	args := m.Called(ctx, idTokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idtoken.Payload), args.Error(1)
}
