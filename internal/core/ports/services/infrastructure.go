package services

import (
	"context"
	"io"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
)

// EventPublisher announces record lifecycle events to other systems.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.RecordEvent) error
}

// ReportCache stores serialized reports per organization. Invalidating an
// organization drops every report cached for it.
type ReportCache interface {
	// Get decodes the cached report into dst. The returned entry key is pinned
	// to the cache state Get observed; a report computed after a miss must be
	// stored with Set under that key, so an invalidation in between wins.
	// An empty entry key means the report must not be stored.
	Get(ctx context.Context, organizationID, key string, dst any) (entryKey string, hit bool, err error)
	Set(ctx context.Context, entryKey string, value any) error
	Invalidate(ctx context.Context, organizationID string) error
}

// ReceiptStorage persists receipt and invoice files and returns their URL.
type ReceiptStorage interface {
	UploadReceipt(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}
