package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/SscSPs/pettycash_backend/internal/apperrors"
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pettycash_backend/internal/core/ports/services"
	"github.com/SscSPs/pettycash_backend/internal/dto"
	"github.com/SscSPs/pettycash_backend/internal/platform/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MaxReceiptSize is the largest receipt upload accepted (10MB).
	MaxReceiptSize = 10 * 1024 * 1024

	maxDescriptionLength = 500
	maxReferenceLength   = 100
)

var allowedReceiptTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// recordService implements portssvc.RecordSvcFacade
type recordService struct {
	BaseService
	recordRepo portsrepo.RecordRepositoryFacade
	publisher  portssvc.EventPublisher
	cache      portssvc.ReportCache
	storage    portssvc.ReceiptStorage
}

// RecordServiceOption is a functional option for configuring the record service
type RecordServiceOption func(*recordService)

// WithEventPublisher sets the publisher of record lifecycle events.
func WithEventPublisher(p portssvc.EventPublisher) RecordServiceOption {
	return func(s *recordService) {
		s.publisher = p
	}
}

// WithRecordReportCache sets the cache invalidated after every write.
func WithRecordReportCache(c portssvc.ReportCache) RecordServiceOption {
	return func(s *recordService) {
		s.cache = c
	}
}

// WithReceiptStorage enables receipt uploads.
func WithReceiptStorage(st portssvc.ReceiptStorage) RecordServiceOption {
	return func(s *recordService) {
		s.storage = st
	}
}

// WithRecordClock overrides the clock used for dates and audit fields.
func WithRecordClock(now func() time.Time) RecordServiceOption {
	return func(s *recordService) {
		s.now = now
	}
}

// NewRecordService creates a new record service with the provided options
func NewRecordService(repo portsrepo.RecordRepositoryFacade, options ...RecordServiceOption) portssvc.RecordSvcFacade {
	svc := &recordService{recordRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure recordService implements the RecordSvcFacade interface
var _ portssvc.RecordSvcFacade = (*recordService)(nil)

func validateKind(kind domain.RecordKind) error {
	if !kind.IsValid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown record type %q", kind))
	}
	return nil
}

// parseDate parses a YYYY-MM-DD value as a UTC calendar date.
func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field))
	}
	return &t, nil
}

// ToRecordFilter validates list query parameters for kind.
func ToRecordFilter(kind domain.RecordKind, params dto.ListRecordsParams) (domain.RecordFilter, error) {
	from, err := parseDate("from", params.From)
	if err != nil {
		return domain.RecordFilter{}, err
	}
	to, err := parseDate("to", params.To)
	if err != nil {
		return domain.RecordFilter{}, err
	}
	if from != nil && to != nil && from.After(*to) {
		return domain.RecordFilter{}, apperrors.NewValidationError("from must not be after to")
	}

	filter := domain.RecordFilter{
		From:     from,
		To:       to,
		Search:   strings.TrimSpace(params.Search),
		Category: strings.TrimSpace(params.Category),
		Limit:    params.Limit,
	}
	if params.Status != "" {
		status := domain.RecordStatus(strings.ToLower(params.Status))
		if !kind.AllowsStatus(status) {
			return domain.RecordFilter{}, apperrors.NewValidationError(fmt.Sprintf("invalid status %q for %s", params.Status, kind))
		}
		filter.Status = status
	}
	if params.Limit < 0 {
		return domain.RecordFilter{}, apperrors.NewValidationError("limit must be positive")
	}
	if params.NextToken != "" {
		token := params.NextToken
		filter.NextToken = &token
	}
	return filter, nil
}

func (s *recordService) validateCreate(kind domain.RecordKind, req dto.CreateRecordRequest) (domain.Record, error) {
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return domain.Record{}, apperrors.NewValidationError(err.Error())
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return domain.Record{}, apperrors.NewValidationError("description is required")
	}
	if len(description) > maxDescriptionLength {
		return domain.Record{}, apperrors.NewValidationError(fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}
	category := strings.TrimSpace(req.CategoryValue())
	if category == "" {
		return domain.Record{}, apperrors.NewValidationError("category is required")
	}
	if !kind.AllowsCategory(category) {
		return domain.Record{}, apperrors.NewValidationError(fmt.Sprintf("invalid category %q for %s", category, kind))
	}
	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod != "" && !domain.IsPaymentMethod(paymentMethod) {
		return domain.Record{}, apperrors.NewValidationError(fmt.Sprintf("invalid payment method %q", paymentMethod))
	}
	reference := strings.TrimSpace(req.Reference)
	if len(reference) > maxReferenceLength {
		return domain.Record{}, apperrors.NewValidationError(fmt.Sprintf("reference must be at most %d characters", maxReferenceLength))
	}

	now := s.Now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if req.Date != "" {
		parsed, err := parseDate("date", req.Date)
		if err != nil {
			return domain.Record{}, err
		}
		date = *parsed
	}

	return domain.Record{
		Kind:          kind,
		Date:          date,
		Amount:        req.Amount,
		Description:   description,
		Category:      category,
		PaymentMethod: paymentMethod,
		Reference:     reference,
		Status:        domain.StatusPending,
		Version:       1,
	}, nil
}

func (s *recordService) CreateRecord(ctx context.Context, scope domain.Scope, kind domain.RecordKind, req dto.CreateRecordRequest) (*domain.Record, error) {
	if err := s.RequireScope(scope); err != nil {
		return nil, err
	}
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	record, err := s.validateCreate(kind, req)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	record.RecordID = uuid.NewString()
	record.OrganizationID = scope.OrganizationID
	record.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     scope.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: scope.UserID,
	}

	if err := s.recordRepo.SaveRecord(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to save record", zap.String("kind", string(kind)))
		return nil, err
	}

	s.afterWrite(ctx, domain.NewRecordEvent(domain.EventRecordCreated, record, scope.UserID, now))
	s.LogInfo(ctx, "Record created",
		zap.String("kind", string(kind)),
		zap.String("record_id", record.RecordID),
		zap.String("amount", record.Amount.String()))
	return &record, nil
}

// afterWrite drops cached reports and announces the change. Both are
// best effort: the write already succeeded.
func (s *recordService) afterWrite(ctx context.Context, event domain.RecordEvent) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, event.OrganizationID); err != nil {
			s.LogError(ctx, err, "Failed to invalidate report cache")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.LogError(ctx, err, "Failed to publish record event",
				zap.String("type", event.Type),
				zap.String("record_id", event.RecordID))
		}
	}
}

// loadOwned fetches a record and checks it belongs to the caller's organization.
func (s *recordService) loadOwned(ctx context.Context, scope domain.Scope, kind domain.RecordKind, recordID string) (*domain.Record, error) {
	record, err := s.recordRepo.FindRecordByID(ctx, kind, recordID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find record", zap.String("record_id", recordID))
		}
		return nil, err
	}
	if err := s.AuthorizeOrganization(ctx, scope, record.OrganizationID); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *recordService) GetRecord(ctx context.Context, scope domain.Scope, kind domain.RecordKind, recordID string) (*domain.Record, error) {
	if err := s.RequireScope(scope); err != nil {
		return nil, err
	}
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	return s.loadOwned(ctx, scope, kind, recordID)
}

func (s *recordService) ListRecords(ctx context.Context, scope domain.Scope, kind domain.RecordKind, params dto.ListRecordsParams) (*dto.ListRecordsResponse, error) {
	if err := s.RequireScope(scope); err != nil {
		return nil, err
	}
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	filter, err := ToRecordFilter(kind, params)
	if err != nil {
		return nil, err
	}

	records, nextToken, err := s.recordRepo.ListRecords(ctx, scope.OrganizationID, kind, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list records", zap.String("kind", string(kind)))
		return nil, err
	}
	s.LogDebug(ctx, "Records listed", zap.String("kind", string(kind)), zap.Int("count", len(records)))
	return dto.ToListRecordsResponse(records, nextToken), nil
}

func (s *recordService) UpdateRecordStatus(ctx context.Context, scope domain.Scope, kind domain.RecordKind, recordID string, req dto.UpdateStatusRequest, expectedVersion *int) (*domain.Record, error) {
	if err := s.RequireScope(scope); err != nil {
		return nil, err
	}
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	newStatus := domain.RecordStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if newStatus == domain.StatusPending || !kind.AllowsStatus(newStatus) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid status %q for %s", req.Status, kind))
	}
	if err := s.AuthorizeRole(ctx, scope, "change "+string(kind)+" status", kind.Approvers()...); err != nil {
		return nil, err
	}

	current, err := s.loadOwned(ctx, scope, kind, recordID)
	if err != nil {
		return nil, err
	}
	if !current.IsPending() {
		return nil, apperrors.NewAppError(409,
			fmt.Sprintf("record is %s; only pending records can change status", current.Status),
			apperrors.ErrInvalidTransition)
	}
	if expectedVersion != nil && *expectedVersion != current.Version {
		return nil, apperrors.NewAppError(409, "record was modified by another request", apperrors.ErrConflict)
	}

	now := s.Now()
	updated, err := s.recordRepo.UpdateRecordStatus(ctx, portsrepo.StatusChange{
		Kind:            kind,
		RecordID:        recordID,
		OrganizationID:  scope.OrganizationID,
		NewStatus:       newStatus,
		ExpectedVersion: current.Version,
		UpdatedBy:       scope.UserID,
		UpdatedAt:       now,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			s.GetLogger(ctx).Warn("status update lost compare-and-set", zap.String("record_id", recordID))
		} else {
			s.LogError(ctx, err, "Failed to update record status", zap.String("record_id", recordID))
		}
		return nil, err
	}

	metrics.StatusTransitions.WithLabelValues(string(kind), string(newStatus)).Inc()
	s.afterWrite(ctx, domain.NewRecordEvent(domain.EventRecordStatusChanged, *updated, scope.UserID, now))
	s.LogInfo(ctx, "Record status changed",
		zap.String("kind", string(kind)),
		zap.String("record_id", recordID),
		zap.String("status", string(newStatus)),
		zap.Int("version", updated.Version))
	return updated, nil
}

// receiptKey builds receipts/{org}/{kind}/{id}/{filename}.
func receiptKey(organizationID string, kind domain.RecordKind, recordID, filename string) string {
	name := strings.ReplaceAll(path.Base(strings.ReplaceAll(filename, `\`, "/")), " ", "_")
	if name == "" || name == "." || name == "/" {
		name = "receipt"
	}
	return path.Join("receipts", organizationID, string(kind), recordID, name)
}

func (s *recordService) AttachReceipt(ctx context.Context, scope domain.Scope, kind domain.RecordKind, recordID string, upload dto.ReceiptUpload) (*domain.Record, error) {
	if err := s.RequireScope(scope); err != nil {
		return nil, err
	}
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, apperrors.NewAppError(503, "receipt storage is not configured", apperrors.ErrUnavailable)
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(upload.ContentType, ";")[0]))
	if !allowedReceiptTypes[contentType] {
		return nil, apperrors.NewValidationError("receipt must be a JPEG, PNG, WebP or PDF file")
	}
	if upload.Size <= 0 || upload.Size > MaxReceiptSize {
		return nil, apperrors.NewValidationError("receipt must be between 1 byte and 10MB")
	}

	record, err := s.loadOwned(ctx, scope, kind, recordID)
	if err != nil {
		return nil, err
	}

	key := receiptKey(scope.OrganizationID, kind, recordID, upload.Filename)
	url, err := s.storage.UploadReceipt(ctx, key, contentType, upload.Body, upload.Size)
	if err != nil {
		s.LogError(ctx, err, "Failed to upload receipt", zap.String("key", key))
		return nil, err
	}

	now := s.Now()
	if err := s.recordRepo.UpdateRecordAttachment(ctx, kind, scope.OrganizationID, recordID, url, scope.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to store receipt URL", zap.String("record_id", recordID))
		return nil, err
	}

	record.AttachmentURL = url
	record.LastUpdatedAt = now
	record.LastUpdatedBy = scope.UserID
	s.LogInfo(ctx, "Receipt attached", zap.String("record_id", recordID), zap.String("key", key))
	return record, nil
}
