package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/pettycash_backend/internal/apperrors"
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
	"github.com/SscSPs/pettycash_backend/internal/utils/pagination"
)

// RecordRepository serves the three record stores from a Store.
type RecordRepository struct {
	store *Store
}

var _ portsrepo.RecordRepositoryFacade = (*RecordRepository)(nil)

// SaveRecord applies the same amount constraints as the SQL schema.
func (r *RecordRepository) SaveRecord(_ context.Context, record domain.Record) error {
	if err := domain.ValidateAmount(record.Amount); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := recordKey{record.Kind, record.RecordID}
	if _, exists := r.store.records[key]; exists {
		return apperrors.ErrDuplicate
	}
	r.store.records[key] = record
	return nil
}

func (r *RecordRepository) FindRecordByID(_ context.Context, kind domain.RecordKind, recordID string) (*domain.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	record, ok := r.store.records[recordKey{kind, recordID}]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &record, nil
}

// matches applies the non-pagination predicates of filter.
func matches(rec domain.Record, filter domain.RecordFilter) bool {
	if filter.From != nil && rec.Date.Before(*filter.From) {
		return false
	}
	if filter.To != nil && rec.Date.After(*filter.To) {
		return false
	}
	if filter.Status != "" && rec.Status != filter.Status {
		return false
	}
	if filter.Category != "" && rec.Category != filter.Category {
		return false
	}
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		if !strings.Contains(strings.ToLower(rec.Description), s) &&
			!strings.Contains(strings.ToLower(rec.Reference), s) {
			return false
		}
	}
	return true
}

// selectRecords returns a snapshot of one organization's matching records.
func (s *Store) selectRecords(organizationID string, kind domain.RecordKind, filter domain.RecordFilter) []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Record, 0)
	for key, rec := range s.records {
		if key.kind != kind || rec.OrganizationID != organizationID {
			continue
		}
		if matches(rec, filter) {
			out = append(out, rec)
		}
	}
	return out
}

func (r *RecordRepository) ListRecords(_ context.Context, organizationID string, kind domain.RecordKind, filter domain.RecordFilter) ([]domain.Record, *string, error) {
	records := r.store.selectRecords(organizationID, kind, filter)
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.RecordID > b.RecordID
	})

	if filter.NextToken != nil && *filter.NextToken != "" {
		lastDate, lastCreatedAt, lastID, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		start := len(records)
		for i, rec := range records {
			if pagination.After(rec.Date, rec.CreatedAt, rec.RecordID, lastDate, lastCreatedAt, lastID) {
				start = i
				break
			}
		}
		records = records[start:]
	}

	var nextToken *string
	if filter.Limit > 0 && len(records) > filter.Limit {
		records = records[:filter.Limit]
		last := records[len(records)-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt, last.RecordID)
		nextToken = &token
	}
	return records, nextToken, nil
}

func (r *RecordRepository) UpdateRecordStatus(_ context.Context, change portsrepo.StatusChange) (*domain.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := recordKey{change.Kind, change.RecordID}
	rec, ok := r.store.records[key]
	if !ok || rec.OrganizationID != change.OrganizationID ||
		rec.Status != domain.StatusPending || rec.Version != change.ExpectedVersion {
		return nil, apperrors.ErrConflict
	}

	rec.Status = change.NewStatus
	rec.Version++
	rec.LastUpdatedAt = change.UpdatedAt
	rec.LastUpdatedBy = change.UpdatedBy
	r.store.records[key] = rec
	return &rec, nil
}

func (r *RecordRepository) UpdateRecordAttachment(_ context.Context, kind domain.RecordKind, organizationID, recordID, url, updatedBy string, updatedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := recordKey{kind, recordID}
	rec, ok := r.store.records[key]
	if !ok || rec.OrganizationID != organizationID {
		return apperrors.ErrNotFound
	}
	rec.AttachmentURL = url
	rec.LastUpdatedAt = updatedAt
	rec.LastUpdatedBy = updatedBy
	r.store.records[key] = rec
	return nil
}
