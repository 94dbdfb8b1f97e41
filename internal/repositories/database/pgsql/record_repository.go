package pgsql

import (
	"context"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/SscSPs/pettycash_backend/internal/apperrors"
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
	"github.com/SscSPs/pettycash_backend/internal/models"
	"github.com/SscSPs/pettycash_backend/internal/utils/mapping"
	"github.com/SscSPs/pettycash_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pkgerrors "github.com/pkg/errors"
)

var recordColumns = []string{
	"record_id", "organization_id", "record_date", "amount", "description", "category",
	"payment_method", "reference", "status", "attachment_url", "version",
	"created_at", "created_by", "last_updated_at", "last_updated_by",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type PgxRecordRepository struct {
	BaseRepository
}

func newPgxRecordRepository(pool *pgxpool.Pool) portsrepo.RecordRepositoryFacade {
	return &PgxRecordRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxRecordRepository implements portsrepo.RecordRepositoryFacade
var _ portsrepo.RecordRepositoryFacade = (*PgxRecordRepository)(nil)

func scanRecord(row pgx.Row) (models.Record, error) {
	var m models.Record
	err := row.Scan(
		&m.RecordID,
		&m.OrganizationID,
		&m.RecordDate,
		&m.Amount,
		&m.Description,
		&m.Category,
		&m.PaymentMethod,
		&m.Reference,
		&m.Status,
		&m.AttachmentURL,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveRecord inserts a new record into the table of its kind.
func (r *PgxRecordRepository) SaveRecord(ctx context.Context, record domain.Record) error {
	m := mapping.ToModelRecord(record)
	query, args, err := psql.Insert(record.Kind.Table()).
		Columns(recordColumns...).
		Values(
			m.RecordID, m.OrganizationID, m.RecordDate, m.Amount, m.Description, m.Category,
			m.PaymentMethod, m.Reference, m.Status, m.AttachmentURL, m.Version,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		).ToSql()
	if err != nil {
		return pkgerrors.Wrap(err, "build insert record")
	}

	if _, err := r.Pool.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		if isRejectedValue(err) {
			return apperrors.NewAppError(400, "amount is out of range", apperrors.ErrValidation)
		}
		return apperrors.NewAppError(500, "failed to insert record "+m.RecordID, err)
	}
	return nil
}

// FindRecordByID retrieves a record by ID without an organization filter.
func (r *PgxRecordRepository) FindRecordByID(ctx context.Context, kind domain.RecordKind, recordID string) (*domain.Record, error) {
	query, args, err := psql.Select(recordColumns...).
		From(kind.Table()).
		Where(sq.Eq{"record_id": recordID}).
		ToSql()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "build select record")
	}

	m, err := scanRecord(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find record "+recordID, err)
	}
	d := mapping.ToDomainRecord(m, kind)
	return &d, nil
}

// applyRecordFilter adds the non-pagination predicates of filter to q.
func applyRecordFilter(q sq.SelectBuilder, filter domain.RecordFilter) sq.SelectBuilder {
	if filter.From != nil {
		q = q.Where(sq.GtOrEq{"record_date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(sq.LtOrEq{"record_date": *filter.To})
	}
	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": string(filter.Status)})
	}
	if filter.Category != "" {
		q = q.Where(sq.Eq{"category": filter.Category})
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + likeEscaper.Replace(s) + "%"
		q = q.Where(sq.Or{
			sq.ILike{"description": pattern},
			sq.ILike{"reference": pattern},
		})
	}
	return q
}

// ListRecords retrieves one organization's records using token-based pagination.
// Items are ordered by record_date DESC, created_at DESC, record_id DESC.
func (r *PgxRecordRepository) ListRecords(ctx context.Context, organizationID string, kind domain.RecordKind, filter domain.RecordFilter) ([]domain.Record, *string, error) {
	q := psql.Select(recordColumns...).
		From(kind.Table()).
		Where(sq.Eq{"organization_id": organizationID})
	q = applyRecordFilter(q, filter)

	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		q = q.Where(sq.Expr("(record_date, created_at, record_id) < (?, ?, ?)", lastDate, lastCreatedAt, lastID))
	}

	q = q.OrderBy("record_date DESC", "created_at DESC", "record_id DESC")
	// fetch one extra row to know whether another page exists
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit + 1))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, "build list records")
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list records", err)
	}
	defer rows.Close()

	results := make([]models.Record, 0)
	for rows.Next() {
		m, err := scanRecord(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan record", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating records", err)
	}

	var nextTokenVal *string
	if filter.Limit > 0 && len(results) > filter.Limit {
		results = results[:filter.Limit]
		last := results[len(results)-1]
		token := pagination.EncodeToken(last.RecordDate, last.CreatedAt, last.RecordID)
		nextTokenVal = &token
	}

	return mapping.ToDomainRecordSlice(results, kind), nextTokenVal, nil
}

// UpdateRecordStatus performs a compare-and-set on status and version.
func (r *PgxRecordRepository) UpdateRecordStatus(ctx context.Context, change portsrepo.StatusChange) (*domain.Record, error) {
	query, args, err := psql.Update(change.Kind.Table()).
		Set("status", string(change.NewStatus)).
		Set("version", sq.Expr("version + 1")).
		Set("last_updated_at", change.UpdatedAt).
		Set("last_updated_by", change.UpdatedBy).
		Where(sq.Eq{
			"record_id":       change.RecordID,
			"organization_id": change.OrganizationID,
			"status":          string(domain.StatusPending),
			"version":         change.ExpectedVersion,
		}).
		Suffix("RETURNING " + strings.Join(recordColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "build update status")
	}

	m, err := scanRecord(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrConflict
		}
		return nil, apperrors.NewAppError(500, "failed to update status of record "+change.RecordID, err)
	}
	d := mapping.ToDomainRecord(m, change.Kind)
	return &d, nil
}

// UpdateRecordAttachment stores the receipt URL of a record.
func (r *PgxRecordRepository) UpdateRecordAttachment(ctx context.Context, kind domain.RecordKind, organizationID, recordID, url, updatedBy string, updatedAt time.Time) error {
	query, args, err := psql.Update(kind.Table()).
		Set("attachment_url", url).
		Set("last_updated_at", updatedAt).
		Set("last_updated_by", updatedBy).
		Where(sq.Eq{"record_id": recordID, "organization_id": organizationID}).
		ToSql()
	if err != nil {
		return pkgerrors.Wrap(err, "build update attachment")
	}

	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update attachment of record "+recordID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
