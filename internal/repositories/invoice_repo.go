package repositories

import (
	"context"
	"fmt"
	"time"

	"invoicedash/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the part of *pgxpool.Pool the repositories use.
// pgxmock.PgxPoolIface satisfies it as well.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// InvoiceRepository persists invoices. Each method runs exactly one statement.
type InvoiceRepository interface {
	InsertInvoice(ctx context.Context, customerID string, amountInCents int64, status models.InvoiceStatus, date time.Time) error
	UpdateInvoice(ctx context.Context, id, customerID string, amountInCents int64, status models.InvoiceStatus) error
	DeleteInvoice(ctx context.Context, id string) error
	ListInvoices(ctx context.Context, limit, offset int) ([]*models.Invoice, error)
}

const (
	insertInvoiceQuery = `
		INSERT INTO invoices (customer_id, amount, status, date)
		VALUES ($1, $2, $3, $4)
	`
	updateInvoiceQuery = `
		UPDATE invoices
		SET customer_id = $1, amount = $2, status = $3
		WHERE id = $4
	`
	deleteInvoiceQuery = `DELETE FROM invoices WHERE id = $1`
	listInvoicesQuery  = `
		SELECT id, customer_id, amount, status, date
		FROM invoices
		ORDER BY date DESC, id
		LIMIT $1 OFFSET $2
	`
)

type invoiceRepo struct {
	db DBTX
}

func NewInvoiceRepo(db DBTX) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) InsertInvoice(ctx context.Context, customerID string, amountInCents int64, status models.InvoiceStatus, date time.Time) error {
	_, err := r.db.Exec(ctx, insertInvoiceQuery, customerID, amountInCents, string(status), date)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// UpdateInvoice overwrites customer, amount and status. The date column is left alone
// and a missing id is not an error.
func (r *invoiceRepo) UpdateInvoice(ctx context.Context, id, customerID string, amountInCents int64, status models.InvoiceStatus) error {
	_, err := r.db.Exec(ctx, updateInvoiceQuery, customerID, amountInCents, string(status), id)
	if err != nil {
		return fmt.Errorf("update invoice %s: %w", id, err)
	}
	return nil
}

func (r *invoiceRepo) DeleteInvoice(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, deleteInvoiceQuery, id)
	if err != nil {
		return fmt.Errorf("delete invoice %s: %w", id, err)
	}
	return nil
}

// ListInvoices returns a page of invoices, newest first
func (r *invoiceRepo) ListInvoices(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	rows, err := r.db.Query(ctx, listInvoicesQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	invoices := []*models.Invoice{}
	for rows.Next() {
		invoice := &models.Invoice{}
		var status string
		if err := rows.Scan(&invoice.ID, &invoice.CustomerID, &invoice.AmountInCents, &status, &invoice.Date); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoice.Status = models.InvoiceStatus(status)
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}
