// Package store persists invoices and their payments.
//
// Every implementation runs the standing entity checks (Validate) before a
// write, so records that bypassed the models factories still cannot be saved.
package store

import (
	"context"
	"errors"

	"github.com/diewo77/paytrack/internal/models"
)

// ErrNotFound is returned when the requested invoice does not exist.
var ErrNotFound = errors.New("not_found")

// Store is the storage collaborator of the invoice service.
type Store interface {
	SaveInvoice(ctx context.Context, inv *models.Invoice) error
	SavePayment(ctx context.Context, p *models.Payment) error
	// LoadInvoiceWithPayments returns the invoice with payments in insertion order.
	LoadInvoiceWithPayments(ctx context.Context, id uint) (*models.Invoice, error)
	// DeleteInvoiceCascade removes the invoice and every payment it owns.
	DeleteInvoiceCascade(ctx context.Context, id uint) error
	// LockInvoice takes a write lock on the invoice for the rest of the
	// current transaction. It is a no-op outside a transaction.
	LockInvoice(ctx context.Context, id uint) error
	// Transaction runs fn against a Store bound to one transaction; fn's error
	// rolls everything back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
