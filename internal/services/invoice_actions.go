package services

import (
	"context"
	"net/url"
	"time"

	"invoicedash/internal/caching"
	"invoicedash/internal/common"
	"invoicedash/internal/models"
	"invoicedash/internal/repositories"
)

// InvoicesPath is the listing route every successful mutation invalidates
const InvoicesPath = "/dashboard/invoices"

// Messages returned to the submitting form
const (
	// MsgMissingFields is also what update reports; the "Create" wording there is
	// kept as shipped until product confirms the intended text.
	MsgMissingFields = "Missing Fields. Failed to Create Invoice."
	MsgCreateFailed  = "Database error : Failed to create an invoice"
	MsgUpdateFailed  = "Database error : Failed to update invoice"
	MsgDeleteFailed  = "Database error : Failed to delete the invoice"
	MsgDeleted       = "Deleted invoice!"
)

// Redirect is a navigation the caller must carry out. It is returned next to
// the state, never inside it.
type Redirect struct {
	Path string
}

// InvoiceActions are the form actions behind the invoice create, edit and delete forms.
// The previous state is accepted so a form can round-trip it; it is not consulted.
type InvoiceActions interface {
	CreateInvoice(ctx context.Context, prev models.State, form url.Values) (models.State, *Redirect)
	UpdateInvoice(ctx context.Context, id string, prev models.State, form url.Values) (models.State, *Redirect)
	// DeleteInvoice reports deleted=false when the statement failed
	DeleteInvoice(ctx context.Context, id string) (state models.State, deleted bool)
}

type invoiceActions struct {
	invoiceRepo repositories.InvoiceRepository
	cacheSvc    caching.CacheService
	logger      common.Logger
	now         func() time.Time
}

// InvoiceActionsOption customizes NewInvoiceActions
type InvoiceActionsOption func(*invoiceActions)

// WithClock replaces time.Now as the source of the creation date
func WithClock(now func() time.Time) InvoiceActionsOption {
	return func(a *invoiceActions) {
		a.now = now
	}
}

// NewInvoiceActions creates the invoice form actions
func NewInvoiceActions(invoiceRepo repositories.InvoiceRepository, cacheSvc caching.CacheService, logger common.Logger, opts ...InvoiceActionsOption) InvoiceActions {
	a := &invoiceActions{
		invoiceRepo: invoiceRepo,
		cacheSvc:    cacheSvc,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CreateInvoice stores a new invoice dated today (UTC) and redirects to the listing
func (a *invoiceActions) CreateInvoice(ctx context.Context, _ models.State, form url.Values) (models.State, *Redirect) {
	validated, errs := ValidateInvoiceForm(form)
	if !errs.Empty() {
		return models.NewState(MsgMissingFields, errs), nil
	}

	date := today(a.now())
	if err := a.invoiceRepo.InsertInvoice(ctx, validated.CustomerID, validated.AmountInCents(), validated.Status, date); err != nil {
		a.logger.Errorf("create invoice for customer %s: %v", validated.CustomerID, err)
		return models.NewState(MsgCreateFailed, nil), nil
	}

	a.revalidate(ctx)
	return models.State{}, &Redirect{Path: InvoicesPath}
}

// UpdateInvoice rewrites customer, amount and status of invoice id; its date is kept
func (a *invoiceActions) UpdateInvoice(ctx context.Context, id string, _ models.State, form url.Values) (models.State, *Redirect) {
	validated, errs := ValidateInvoiceForm(form)
	if !errs.Empty() {
		a.logger.Infof("update invoice %s: invalid fields %v", id, errs)
		return models.NewState(MsgMissingFields, errs), nil
	}

	if err := a.invoiceRepo.UpdateInvoice(ctx, id, validated.CustomerID, validated.AmountInCents(), validated.Status); err != nil {
		a.logger.Errorf("update invoice %s: %v", id, err)
		return models.NewState(MsgUpdateFailed, nil), nil
	}

	a.revalidate(ctx)
	return models.State{}, &Redirect{Path: InvoicesPath}
}

// DeleteInvoice removes invoice id. The caller stays on its page, so there is no redirect.
func (a *invoiceActions) DeleteInvoice(ctx context.Context, id string) (models.State, bool) {
	if err := a.invoiceRepo.DeleteInvoice(ctx, id); err != nil {
		a.logger.Errorf("delete invoice %s: %v", id, err)
		return models.NewState(MsgDeleteFailed, nil), false
	}

	a.revalidate(ctx)
	return models.NewState(MsgDeleted, nil), true
}

// revalidate marks the listing stale. Failures are logged, never reported to the form.
func (a *invoiceActions) revalidate(ctx context.Context) {
	if err := a.cacheSvc.RevalidatePath(ctx, InvoicesPath); err != nil {
		a.logger.Warnf("revalidate %s: %v", InvoicesPath, err)
	}
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
