package pgsql

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/SscSPs/pettycash_backend/internal/apperrors"
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
	"github.com/SscSPs/pettycash_backend/internal/models"
	"github.com/SscSPs/pettycash_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOrganizationRepository struct {
	BaseRepository
}

func newPgxOrganizationRepository(db *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query, args, err := psql.Select(
		"organization_id", "name", "subscription_status",
		"created_at", "created_by", "last_updated_at", "last_updated_by",
	).From("organizations").Where(sq.Eq{"organization_id": organizationID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building find organization query: %w", err)
	}

	var m models.Organization
	err = r.Pool.QueryRow(ctx, query, args...).Scan(
		&m.OrganizationID,
		&m.Name,
		&m.SubscriptionStatus,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding organization %s: %w", organizationID, err)
	}
	d := mapping.ToDomainOrganization(m)
	return &d, nil
}

// SaveOrganizationWithOwner inserts the organization and its first admin in one transaction.
func (r *PgxOrganizationRepository) SaveOrganizationWithOwner(ctx context.Context, org domain.Organization, owner domain.User) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op after commit

	m := mapping.ToModelOrganization(org)
	orgQuery, orgArgs, err := psql.Insert("organizations").
		Columns("organization_id", "name", "subscription_status",
			"created_at", "created_by", "last_updated_at", "last_updated_by").
		Values(m.OrganizationID, m.Name, m.SubscriptionStatus,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building insert organization query: %w", err)
	}
	if _, err := tx.Exec(ctx, orgQuery, orgArgs...); err != nil {
		return fmt.Errorf("error inserting organization %s: %w", org.OrganizationID, err)
	}

	userQuery, userArgs, err := insertUserQuery(owner)
	if err != nil {
		return fmt.Errorf("error building insert owner query: %w", err)
	}
	if _, err := tx.Exec(ctx, userQuery, userArgs...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("error inserting owner %s: %w", owner.UserID, err)
	}

	return r.Commit(ctx, tx)
}
