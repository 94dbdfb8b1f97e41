package mapping

import (
	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	"github.com/SscSPs/pettycash_backend/internal/models"
)

// ToModelRecord converts a domain Record to a model Record
func ToModelRecord(d domain.Record) models.Record {
	return models.Record{
		RecordID:       d.RecordID,
		OrganizationID: d.OrganizationID,
		RecordDate:     d.Date,
		Amount:         d.Amount,
		Description:    d.Description,
		Category:       d.Category,
		PaymentMethod:  d.PaymentMethod,
		Reference:      d.Reference,
		Status:         string(d.Status),
		AttachmentURL:  d.AttachmentURL,
		Version:        d.Version,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRecord converts a model Record of the given kind to a domain Record.
// The kind is not stored in the row; it follows from the table read.
func ToDomainRecord(m models.Record, kind domain.RecordKind) domain.Record {
	return domain.Record{
		RecordID:       m.RecordID,
		OrganizationID: m.OrganizationID,
		Kind:           kind,
		Date:           m.RecordDate,
		Amount:         m.Amount,
		Description:    m.Description,
		Category:       m.Category,
		PaymentMethod:  m.PaymentMethod,
		Reference:      m.Reference,
		Status:         domain.RecordStatus(m.Status),
		AttachmentURL:  m.AttachmentURL,
		Version:        m.Version,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainRecordSlice converts a slice of model Records to a slice of domain Records
func ToDomainRecordSlice(ms []models.Record, kind domain.RecordKind) []domain.Record {
	ds := make([]domain.Record, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRecord(m, kind)
	}
	return ds
}
