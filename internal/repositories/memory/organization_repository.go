package memory

import (
	"context"

	"github.com/SscSPs/pettycash_backend/internal/apperrors"
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
)

type OrganizationRepository struct {
	store *Store
}

var _ portsrepo.OrganizationRepositoryFacade = (*OrganizationRepository)(nil)

func (r *OrganizationRepository) FindOrganizationByID(_ context.Context, organizationID string) (*domain.Organization, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	org, ok := r.store.organizations[organizationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &org, nil
}

func (r *OrganizationRepository) SaveOrganizationWithOwner(_ context.Context, org domain.Organization, owner domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.organizations[org.OrganizationID]; exists {
		return apperrors.ErrDuplicate
	}
	if err := r.store.insertUser(owner); err != nil {
		return err
	}
	r.store.organizations[org.OrganizationID] = org
	return nil
}
