package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"invoicedash/internal/caching"
	"invoicedash/internal/common"
	"invoicedash/internal/models"
	"invoicedash/internal/repositories"
)

// InvoiceView is the listing representation of an invoice
type InvoiceView struct {
	ID            string `json:"id"`
	CustomerID    string `json:"customerId"`
	AmountInCents int64  `json:"amountInCents"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
	Date          string `json:"date"`
}

// ListingPage is the rendered body of the invoices listing route
type ListingPage struct {
	Invoices []InvoiceView `json:"invoices"`
	Limit    int           `json:"limit"`
	Offset   int           `json:"offset"`
}

// InvoiceListingService renders the invoices listing through the route cache
type InvoiceListingService interface {
	// RenderListing returns the JSON body of one listing page and whether it came from cache
	RenderListing(ctx context.Context, limit, offset int) ([]byte, bool, error)
}

type invoiceListingService struct {
	invoiceRepo repositories.InvoiceRepository
	cacheSvc    caching.CacheService
	logger      common.Logger
	ttl         time.Duration
}

// NewInvoiceListingService creates a listing service caching rendered pages for ttl
func NewInvoiceListingService(invoiceRepo repositories.InvoiceRepository, cacheSvc caching.CacheService, logger common.Logger, ttl time.Duration) InvoiceListingService {
	return &invoiceListingService{
		invoiceRepo: invoiceRepo,
		cacheSvc:    cacheSvc,
		logger:      logger,
		ttl:         ttl,
	}
}

// ListingKey is the route cache entry of one listing page
func ListingKey(limit, offset int) string {
	return fmt.Sprintf("%s?limit=%d&offset=%d", InvoicesPath, limit, offset)
}

func (s *invoiceListingService) RenderListing(ctx context.Context, limit, offset int) ([]byte, bool, error) {
	key := ListingKey(limit, offset)

	cached, err := s.cacheSvc.GetRoute(ctx, key)
	if err != nil {
		s.logger.Warnf("read route cache %s: %v", key, err)
	} else if cached != nil {
		return cached, true, nil
	}

	// The generation is read before the rows so a revalidation during the
	// query keeps this page out of the cache.
	generation, genErr := s.cacheSvc.Generation(ctx, InvoicesPath)
	if genErr != nil {
		s.logger.Warnf("read route generation %s: %v", InvoicesPath, genErr)
	}

	invoices, err := s.invoiceRepo.ListInvoices(ctx, limit, offset)
	if err != nil {
		return nil, false, err
	}

	page := ListingPage{Invoices: make([]InvoiceView, 0, len(invoices)), Limit: limit, Offset: offset}
	for _, inv := range invoices {
		page.Invoices = append(page.Invoices, toInvoiceView(inv))
	}

	body, err := json.Marshal(page)
	if err != nil {
		return nil, false, fmt.Errorf("render invoice listing: %w", err)
	}

	if genErr != nil {
		return body, false, nil
	}
	stored, err := s.cacheSvc.SetRoute(ctx, key, body, s.ttl, generation)
	if err != nil {
		s.logger.Warnf("write route cache %s: %v", key, err)
	} else if !stored {
		s.logger.Infof("listing %s changed while rendering, not cached", key)
	}
	return body, false, nil
}

func toInvoiceView(inv *models.Invoice) InvoiceView {
	return InvoiceView{
		ID:            inv.ID,
		CustomerID:    inv.CustomerID,
		AmountInCents: inv.AmountInCents,
		Amount:        formatCents(inv.AmountInCents),
		Status:        string(inv.Status),
		Date:          inv.Date.Format(models.DateLayout),
	}
}
