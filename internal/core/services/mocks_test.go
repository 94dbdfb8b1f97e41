package services_test

import (
	"context"
	"io"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.RecordEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockReportCache struct {
	mock.Mock
}

func (m *MockReportCache) Get(ctx context.Context, organizationID, key string, dst any) (string, bool, error) {
	args := m.Called(ctx, organizationID, key, dst)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockReportCache) Set(ctx context.Context, entryKey string, value any) error {
	args := m.Called(ctx, entryKey, value)
	return args.Error(0)
}

func (m *MockReportCache) Invalidate(ctx context.Context, organizationID string) error {
	args := m.Called(ctx, organizationID)
	return args.Error(0)
}

type MockReceiptStorage struct {
	mock.Mock
}

func (m *MockReceiptStorage) UploadReceipt(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	args := m.Called(ctx, key, contentType, body, size)
	return args.String(0), args.Error(1)
}
