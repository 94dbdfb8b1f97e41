// Package memory implements the repository ports on process memory.
// It backs local runs without PostgreSQL and the service tests.
package memory

import (
	"sync"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
)

type recordKey struct {
	kind domain.RecordKind
	id   string
}

// Store holds every table behind one mutex.
type Store struct {
	mu            sync.RWMutex
	records       map[recordKey]domain.Record
	users         map[string]domain.User
	organizations map[string]domain.Organization
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		records:       make(map[recordKey]domain.Record),
		users:         make(map[string]domain.User),
		organizations: make(map[string]domain.Organization),
	}
}

// NewRepositoryProvider exposes one store through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RecordRepo:       &RecordRepository{store: s},
		ReportingRepo:    &ReportingRepository{store: s},
		UserRepo:         &UserRepository{store: s},
		OrganizationRepo: &OrganizationRepository{store: s},
	}
}
