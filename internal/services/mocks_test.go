package services

import (
	"context"
	"time"

	"invoicedash/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) InsertInvoice(ctx context.Context, customerID string, amountInCents int64, status models.InvoiceStatus, date time.Time) error {
	args := m.Called(ctx, customerID, amountInCents, status, date)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoice(ctx context.Context, id, customerID string, amountInCents int64, status models.InvoiceStatus) error {
	args := m.Called(ctx, id, customerID, amountInCents, status)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteInvoice(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) RevalidatePath(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockCacheService) GetRoute(ctx context.Context, pathWithQuery string) ([]byte, error) {
	args := m.Called(ctx, pathWithQuery)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheService) Generation(ctx context.Context, path string) (int64, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheService) SetRoute(ctx context.Context, pathWithQuery string, body []byte, ttl time.Duration, generation int64) (bool, error) {
	args := m.Called(ctx, pathWithQuery, body, ttl, generation)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
