package services

import (
	"math"
	"net/url"
	"strings"

	"invoicedash/internal/models"

	"github.com/shopspring/decimal"
)

const (
	msgSelectCustomer = "Please select a customer"
	msgAmountPositive = "Please enter a amount greater than $0"
	msgAmountTooLarge = "Amount is too large"
	msgSelectStatus   = "Please select a status"
)

const (
	maxAmountLength = 64

	// magnitude is the position of the leading digit: 10^(magnitude-1) <= amount < 10^magnitude.
	// MaxInt64 cents is below $10^17, anything below $0.001 rounds to zero cents.
	maxAmountMagnitude = 19
	minAmountMagnitude = -2
)

var maxAmountInCents = decimal.NewFromInt(math.MaxInt64)

// ValidateInvoiceForm coerces the customerId, amount and status fields of form.
// Every failing field is reported; the returned form is nil whenever errors is non-empty.
func ValidateInvoiceForm(form url.Values) (*models.InvoiceForm, models.FieldErrors) {
	errs := models.FieldErrors{}
	validated := &models.InvoiceForm{}

	customerID := strings.TrimSpace(form.Get(models.FieldCustomerID))
	if customerID == "" {
		errs.Add(models.FieldCustomerID, msgSelectCustomer)
	}
	validated.CustomerID = customerID

	amount, msg := coerceAmount(form.Get(models.FieldAmount))
	if msg != "" {
		errs.Add(models.FieldAmount, msg)
	}
	validated.Amount = amount

	status := models.InvoiceStatus(strings.TrimSpace(form.Get(models.FieldStatus)))
	if !status.Valid() {
		errs.Add(models.FieldStatus, msgSelectStatus)
	}
	validated.Status = status

	if !errs.Empty() {
		return nil, errs
	}
	return validated, nil
}

// coerceAmount treats a blank value as zero, like numeric coercion of an empty field
func coerceAmount(raw string) (decimal.Decimal, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, msgAmountPositive
	}

	if len(raw) > maxAmountLength {
		return decimal.Zero, msgAmountPositive
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, msgAmountPositive
	}
	if !amount.IsPositive() {
		return amount, msgAmountPositive
	}

	// Rounding rescales to exponent 0, which costs 10^|exponent|. Bound the
	// magnitude first so "1e50000000" never reaches Round.
	magnitude := amount.NumDigits() + int(amount.Exponent())
	if magnitude > maxAmountMagnitude {
		return amount, msgAmountTooLarge
	}
	if magnitude < minAmountMagnitude {
		return amount, msgAmountPositive
	}

	// sub-cent amounts round to zero cents and are not greater than $0 once stored
	cents := amount.Shift(2).Round(0)
	if !cents.IsPositive() {
		return amount, msgAmountPositive
	}
	if cents.GreaterThan(maxAmountInCents) {
		return amount, msgAmountTooLarge
	}
	return amount, ""
}
