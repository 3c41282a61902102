package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"invoicedash/internal/caching"
	"invoicedash/internal/common"
	"invoicedash/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type InvoiceListingTestSuite struct {
	suite.Suite
	mockRepo  *MockInvoiceRepository
	mockCache *MockCacheService
	service   InvoiceListingService
	ctx       context.Context
}

func (suite *InvoiceListingTestSuite) SetupTest() {
	suite.mockRepo = &MockInvoiceRepository{}
	suite.mockCache = &MockCacheService{}
	suite.ctx = context.Background()
	suite.service = NewInvoiceListingService(suite.mockRepo, suite.mockCache, common.NewDiscardLogger(), 5*time.Minute)
}

func (suite *InvoiceListingTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestInvoiceListingTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceListingTestSuite))
}

func (suite *InvoiceListingTestSuite) TestRenderListing_CacheHit() {
	suite.mockCache.On("GetRoute", suite.ctx, "/dashboard/invoices?limit=50&offset=0").Return([]byte(`{"cached":true}`), nil).Once()

	body, cached, err := suite.service.RenderListing(suite.ctx, 50, 0)

	require.NoError(suite.T(), err)
	assert.True(suite.T(), cached)
	assert.JSONEq(suite.T(), `{"cached":true}`, string(body))
	suite.mockRepo.AssertNotCalled(suite.T(), "ListInvoices", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceListingTestSuite) TestRenderListing_MissRendersAndStores() {
	invoices := []*models.Invoice{
		{ID: "inv-2", CustomerID: "c1", AmountInCents: 4250, Status: models.InvoiceStatusPaid, Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
	}
	suite.mockCache.On("GetRoute", suite.ctx, "/dashboard/invoices?limit=10&offset=0").Return(nil, nil).Once()
	suite.mockCache.On("Generation", suite.ctx, InvoicesPath).Return(int64(3), nil).Once()
	suite.mockRepo.On("ListInvoices", suite.ctx, 10, 0).Return(invoices, nil).Once()
	suite.mockCache.On("SetRoute", suite.ctx, "/dashboard/invoices?limit=10&offset=0", mock.AnythingOfType("[]uint8"), 5*time.Minute, int64(3)).
		Return(true, nil).Once()

	body, cached, err := suite.service.RenderListing(suite.ctx, 10, 0)

	require.NoError(suite.T(), err)
	assert.False(suite.T(), cached)

	var page ListingPage
	require.NoError(suite.T(), json.Unmarshal(body, &page))
	require.Len(suite.T(), page.Invoices, 1)
	assert.Equal(suite.T(), InvoiceView{
		ID:            "inv-2",
		CustomerID:    "c1",
		AmountInCents: 4250,
		Amount:        "42.50",
		Status:        "paid",
		Date:          "2024-03-10",
	}, page.Invoices[0])
	assert.Equal(suite.T(), 10, page.Limit)
}

func (suite *InvoiceListingTestSuite) TestRenderListing_CacheErrorsFallBackToDatabase() {
	suite.mockCache.On("GetRoute", suite.ctx, ListingKey(50, 0)).Return(nil, errors.New("redis down")).Once()
	suite.mockCache.On("Generation", suite.ctx, InvoicesPath).Return(int64(0), nil).Once()
	suite.mockRepo.On("ListInvoices", suite.ctx, 50, 0).Return([]*models.Invoice{}, nil).Once()
	suite.mockCache.On("SetRoute", suite.ctx, ListingKey(50, 0), mock.Anything, 5*time.Minute, int64(0)).Return(false, errors.New("redis down")).Once()

	body, cached, err := suite.service.RenderListing(suite.ctx, 50, 0)

	require.NoError(suite.T(), err)
	assert.False(suite.T(), cached)
	assert.JSONEq(suite.T(), `{"invoices":[],"limit":50,"offset":0}`, string(body))
}

func (suite *InvoiceListingTestSuite) TestRenderListing_UnknownGenerationSkipsStore() {
	suite.mockCache.On("GetRoute", suite.ctx, ListingKey(50, 0)).Return(nil, nil).Once()
	suite.mockCache.On("Generation", suite.ctx, InvoicesPath).Return(int64(0), errors.New("redis down")).Once()
	suite.mockRepo.On("ListInvoices", suite.ctx, 50, 0).Return([]*models.Invoice{}, nil).Once()

	_, cached, err := suite.service.RenderListing(suite.ctx, 50, 0)

	require.NoError(suite.T(), err)
	assert.False(suite.T(), cached)
	suite.mockCache.AssertNotCalled(suite.T(), "SetRoute", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceListingTestSuite) TestRenderListing_DatabaseError() {
	suite.mockCache.On("GetRoute", suite.ctx, ListingKey(50, 0)).Return(nil, nil).Once()
	suite.mockCache.On("Generation", suite.ctx, InvoicesPath).Return(int64(0), nil).Once()
	suite.mockRepo.On("ListInvoices", suite.ctx, 50, 0).Return(nil, errors.New("connection refused")).Once()

	body, _, err := suite.service.RenderListing(suite.ctx, 50, 0)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), body)
	suite.mockCache.AssertNotCalled(suite.T(), "SetRoute", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListingKey(t *testing.T) {
	assert.Equal(t, "/dashboard/invoices?limit=10&offset=20", ListingKey(10, 20))
}

func TestRenderListing_DeleteDuringRenderIsNotCachedAgain(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cacheSvc := caching.NewRedisCacheServiceFromClient(client)

	ctx := context.Background()
	repo := &MockInvoiceRepository{}
	repo.Test(t)
	logger := common.NewDiscardLogger()
	actions := NewInvoiceActions(repo, cacheSvc, logger)
	listing := NewInvoiceListingService(repo, cacheSvc, logger, 5*time.Minute)

	before := []*models.Invoice{
		{ID: "inv-1", CustomerID: "c1", AmountInCents: 100, Status: models.InvoiceStatusPending, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	repo.On("DeleteInvoice", ctx, "inv-1").Return(nil).Once()
	repo.On("ListInvoices", ctx, 50, 0).
		Run(func(mock.Arguments) {
			_, deleted := actions.DeleteInvoice(ctx, "inv-1")
			assert.True(t, deleted)
		}).
		Return(before, nil).Once()

	body, cached, err := listing.RenderListing(ctx, 50, 0)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Contains(t, string(body), "inv-1")

	stored, err := cacheSvc.GetRoute(ctx, ListingKey(50, 0))
	require.NoError(t, err)
	assert.Nil(t, stored)

	repo.On("ListInvoices", ctx, 50, 0).Return([]*models.Invoice{}, nil).Once()
	_, cached, err = listing.RenderListing(ctx, 50, 0)
	require.NoError(t, err)
	assert.False(t, cached)

	stored, err = cacheSvc.GetRoute(ctx, ListingKey(50, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"invoices":[],"limit":50,"offset":0}`, string(stored))
	repo.AssertExpectations(t)
}
