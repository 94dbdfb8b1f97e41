package services

import (
	"context"
	"net/http"
	"time"

	"github.com/SscSPs/pettycash_backend/internal/apperrors"
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pettycash_backend/internal/core/ports/services"
	"github.com/SscSPs/pettycash_backend/internal/dto"
	"github.com/SscSPs/pettycash_backend/internal/export/pdf"
	"github.com/SscSPs/pettycash_backend/internal/platform/metrics"
	"go.uber.org/zap"
)

type exportService struct {
	BaseService
	recordRepo portsrepo.RecordRepositoryFacade
	orgRepo    portsrepo.OrganizationRepositoryFacade
}

// ExportServiceOption is a functional option for configuring the export service
type ExportServiceOption func(*exportService)

// WithExportClock overrides the clock stamped on generated documents.
func WithExportClock(now func() time.Time) ExportServiceOption {
	return func(s *exportService) {
		s.now = now
	}
}

// NewExportService creates the PDF export service.
func NewExportService(recordRepo portsrepo.RecordRepositoryFacade, orgRepo portsrepo.OrganizationRepositoryFacade, options ...ExportServiceOption) portssvc.ExportService {
	svc := &exportService{recordRepo: recordRepo, orgRepo: orgRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExportService = (*exportService)(nil)

func (s *exportService) Export(ctx context.Context, scope domain.Scope, kind domain.RecordKind, params dto.ListRecordsParams) (portssvc.Document, error) {
	if err := s.RequireScope(scope); err != nil {
		return nil, err
	}
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	// Exports always contain every matching record.
	params.Limit = 0
	params.NextToken = ""
	filter, err := ToRecordFilter(kind, params)
	if err != nil {
		return nil, err
	}

	records, _, err := s.recordRepo.ListRecords(ctx, scope.OrganizationID, kind, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to load records for export", zap.String("kind", string(kind)))
		metrics.DocumentsExported.WithLabelValues(string(kind), "error").Inc()
		return nil, err
	}
	if len(records) == 0 {
		metrics.DocumentsExported.WithLabelValues(string(kind), "empty").Inc()
		return nil, apperrors.NewAppError(http.StatusNotFound, "no records found", apperrors.ErrNotFound)
	}

	orgName := scope.OrganizationID
	if s.orgRepo != nil {
		org, err := s.orgRepo.FindOrganizationByID(ctx, scope.OrganizationID)
		if err != nil {
			s.GetLogger(ctx).Warn("organization lookup failed, using ID in report heading", zap.Error(err))
		} else if org.Name != "" {
			orgName = org.Name
		}
	}

	metrics.DocumentsExported.WithLabelValues(string(kind), "ok").Inc()
	s.LogInfo(ctx, "Export prepared", zap.String("kind", string(kind)), zap.Int("records", len(records)))
	return pdf.NewRecordDocument(pdf.Meta{
		Kind:         kind,
		Organization: orgName,
		From:         filter.From,
		To:           filter.To,
		GeneratedAt:  s.Now(),
	}, records), nil
}
