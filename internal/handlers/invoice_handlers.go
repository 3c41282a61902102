package handlers

import (
	"net/http"

	"invoicedash/internal/common"
	"invoicedash/internal/models"
	"invoicedash/internal/services"

	"github.com/labstack/echo/v4"
)

// InvoiceHandlers adapts invoice form submissions to the invoice actions
type InvoiceHandlers struct {
	actions services.InvoiceActions
	listing services.InvoiceListingService
}

// NewInvoiceHandlers creates a new invoice handlers instance
func NewInvoiceHandlers(actions services.InvoiceActions, listing services.InvoiceListingService) *InvoiceHandlers {
	return &InvoiceHandlers{
		actions: actions,
		listing: listing,
	}
}

// Register mounts the invoice routes under /dashboard/invoices
func (h *InvoiceHandlers) Register(e *echo.Echo) {
	g := e.Group(services.InvoicesPath)
	g.GET("", h.ListInvoices)
	g.POST("", h.CreateInvoice)
	g.POST("/:id/edit", h.UpdateInvoice)
	g.POST("/:id/delete", h.DeleteInvoice)
}

// ListInvoices handles GET /dashboard/invoices
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	limit, offset, err := common.ParsePagination(c.QueryParam("limit"), c.QueryParam("offset"))
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	body, cached, err := h.listing.RenderListing(c.Request().Context(), limit, offset)
	if err != nil {
		c.Logger().Errorf("render invoice listing: %v", err)
		return common.SendServerError(c, "Failed to list invoices")
	}

	if cached {
		c.Response().Header().Set("X-Cache", "HIT")
	} else {
		c.Response().Header().Set("X-Cache", "MISS")
	}
	return c.JSONBlob(http.StatusOK, body)
}

// CreateInvoice handles POST /dashboard/invoices
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return common.SendClientError(c, "Invalid form submission")
	}

	state, redirect := h.actions.CreateInvoice(c.Request().Context(), models.State{}, form)
	return respondWithOutcome(c, state, redirect)
}

// UpdateInvoice handles POST /dashboard/invoices/:id/edit
func (h *InvoiceHandlers) UpdateInvoice(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	form, err := c.FormParams()
	if err != nil {
		return common.SendClientError(c, "Invalid form submission")
	}

	state, redirect := h.actions.UpdateInvoice(c.Request().Context(), id.String(), models.State{}, form)
	return respondWithOutcome(c, state, redirect)
}

// DeleteInvoice handles POST /dashboard/invoices/:id/delete
func (h *InvoiceHandlers) DeleteInvoice(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	state, deleted := h.actions.DeleteInvoice(c.Request().Context(), id.String())
	if !deleted {
		return c.JSON(http.StatusInternalServerError, state)
	}
	return c.JSON(http.StatusOK, state)
}

// respondWithOutcome performs the redirect when there is one, otherwise it hands
// the state back: 422 for field errors, 500 for a persistence failure.
func respondWithOutcome(c echo.Context, state models.State, redirect *services.Redirect) error {
	if redirect != nil {
		return c.Redirect(http.StatusSeeOther, redirect.Path)
	}
	if !state.Errors.Empty() {
		return c.JSON(http.StatusUnprocessableEntity, state)
	}
	return c.JSON(http.StatusInternalServerError, state)
}
