package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Both the PostgreSQL and the in-memory backends build one.
type RepositoryProvider struct {
	RecordRepo       RecordRepositoryFacade
	ReportingRepo    ReportingRepository
	UserRepo         UserRepositoryFacade
	OrganizationRepo OrganizationRepositoryFacade
}
