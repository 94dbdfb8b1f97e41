package services

import (
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pettycash_backend/internal/core/ports/services"
	"github.com/SscSPs/pettycash_backend/internal/platform/config"
)

// Infrastructure holds the optional adapters shared by services.
// Nil fields disable the matching feature.
type Infrastructure struct {
	Publisher portssvc.EventPublisher
	Cache     portssvc.ReportCache
	Receipts  portssvc.ReceiptStorage
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, infra Infrastructure) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	var recordOpts []RecordServiceOption
	var reportingOpts []ReportingServiceOption
	if infra.Publisher != nil {
		recordOpts = append(recordOpts, WithEventPublisher(infra.Publisher))
	}
	if infra.Cache != nil {
		recordOpts = append(recordOpts, WithRecordReportCache(infra.Cache))
		reportingOpts = append(reportingOpts, WithReportCache(infra.Cache))
	}
	if infra.Receipts != nil {
		recordOpts = append(recordOpts, WithReceiptStorage(infra.Receipts))
	}

	container.Record = NewRecordService(repos.RecordRepo, recordOpts...)
	container.Reporting = NewReportingService(repos.ReportingRepo, reportingOpts...)
	container.Export = NewExportService(repos.RecordRepo, repos.OrganizationRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Organization = NewOrganizationService(repos.OrganizationRepo, repos.UserRepo)
	container.TokenService = NewTokenService(cfg)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
