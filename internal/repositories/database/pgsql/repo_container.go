package pgsql

import (
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every PostgreSQL repository onto one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RecordRepo:       newPgxRecordRepository(dbPool),
		ReportingRepo:    newReportingRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
		OrganizationRepo: newPgxOrganizationRepository(dbPool),
	}
}
