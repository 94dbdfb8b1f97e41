package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/SscSPs/pettycash_backend/internal/apperrors"
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
)

type UserRepository struct {
	store *Store
}

var _ portsrepo.UserRepositoryFacade = (*UserRepository)(nil)

// insertUser requires the caller to hold the write lock.
func (s *Store) insertUser(user domain.User) error {
	if _, exists := s.users[user.UserID]; exists {
		return apperrors.ErrDuplicate
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return apperrors.ErrDuplicate
		}
	}
	s.users[user.UserID] = user
	return nil
}

func (r *UserRepository) SaveUser(_ context.Context, user domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.insertUser(user)
}

func (r *UserRepository) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *UserRepository) FindUsersByOrganization(_ context.Context, organizationID string, limit int, offset int) ([]domain.User, error) {
	r.store.mu.RLock()
	users := make([]domain.User, 0)
	for _, u := range r.store.users {
		if u.OrganizationID == organizationID {
			users = append(users, u)
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].UserID < users[j].UserID
	})
	if offset >= len(users) {
		return []domain.User{}, nil
	}
	users = users[offset:]
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}
