package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// DateLayout is the calendar date format stored in invoices.date
const DateLayout = "2006-01-02"

// Valid reports whether s is one of the defined invoice statuses
func (s InvoiceStatus) Valid() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid
}

// Invoice mirrors a row of the invoices table. Amount is stored in cents.
type Invoice struct {
	ID            string        `json:"id" db:"id"`
	CustomerID    string        `json:"customer_id" db:"customer_id"`
	AmountInCents int64         `json:"amount" db:"amount"`
	Status        InvoiceStatus `json:"status" db:"status"`
	Date          time.Time     `json:"date" db:"date"`
}

// InvoiceForm holds the validated, coerced fields of an invoice form submission
type InvoiceForm struct {
	CustomerID string
	Amount     decimal.Decimal
	Status     InvoiceStatus
}

// AmountInCents converts the whole-unit amount to minor units, rounding half away from zero
func (f InvoiceForm) AmountInCents() int64 {
	return f.Amount.Shift(2).Round(0).IntPart()
}
