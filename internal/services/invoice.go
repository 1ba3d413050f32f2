package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/diewo77/paytrack/internal/logger"
	"github.com/diewo77/paytrack/internal/models"
	"github.com/diewo77/paytrack/internal/money"
	"github.com/diewo77/paytrack/internal/store"
)

// ErrExceedsBalance is returned in strict mode for a payment larger than the
// remaining balance.
var ErrExceedsBalance = errors.New("exceeds_balance")

// InvoiceService creates invoices, records payments and reports balances.
//
// By default a payment that pushes the owed balance below zero is accepted
// and only logged, and two concurrent RecordPayment calls on the same invoice
// may both pass. WithStrictBalance rejects such payments under an invoice lock.
type InvoiceService struct {
	store  store.Store
	strict bool
	log    zerolog.Logger
}

type Option func(*InvoiceService)

// WithStrictBalance rejects payments exceeding the owed balance.
func WithStrictBalance() Option {
	return func(s *InvoiceService) { s.strict = true }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *InvoiceService) { s.log = l }
}

func NewInvoiceService(st store.Store, opts ...Option) *InvoiceService {
	s := &InvoiceService{store: st, log: logger.WithComponent("invoice_service")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// logFor tags the service logger with the request id carried by ctx.
func (s *InvoiceService) logFor(ctx context.Context) zerolog.Logger {
	return logger.FromContext(ctx, s.log)
}

// CreateInvoice converts total to cents, validates and persists a new invoice.
func (s *InvoiceService) CreateInvoice(ctx context.Context, total decimal.Decimal) (*models.Invoice, error) {
	log := s.logFor(ctx)
	inv, err := models.NewInvoice(total)
	if err != nil {
		log.Debug().Err(err).Msg("invoice rejected")
		return nil, err
	}
	if err := s.store.SaveInvoice(ctx, inv); err != nil {
		return nil, err
	}
	log.Info().Uint("invoice_id", inv.ID).Int64("total_cents", inv.TotalCents).Msg("invoice created")
	return inv, nil
}

// RecordPayment converts amount, resolves method, validates the payment and
// saves it. On any error nothing is persisted.
func (s *InvoiceService) RecordPayment(ctx context.Context, invoiceID uint, amount decimal.Decimal, method string) (*models.Payment, error) {
	log := s.logFor(ctx)
	p, err := models.NewPayment(invoiceID, amount, method)
	if err != nil {
		log.Debug().Err(err).Uint("invoice_id", invoiceID).Msg("payment rejected")
		return nil, err
	}

	var inv *models.Invoice
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		if s.strict {
			if err := tx.LockInvoice(ctx, invoiceID); err != nil {
				return err
			}
		}
		var err error
		inv, err = tx.LoadInvoiceWithPayments(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := inv.CheckPaymentFits(p.AmountCents); err != nil {
			return err
		}
		if owed := inv.AmountOwedCents(); s.strict && p.AmountCents > owed {
			return fmt.Errorf("%w: payment %s, owed %s", ErrExceedsBalance, money.FormatCents(p.AmountCents), money.FormatCents(owed))
		}
		if err := tx.SavePayment(ctx, p); err != nil {
			return err
		}
		inv.Payments = append(inv.Payments, *p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	ev := log.Info()
	if inv.IsOverpaid() {
		ev = log.Warn().Int64("overpaid_cents", -inv.AmountOwedCents())
	}
	ev.Uint("invoice_id", invoiceID).
		Uint("payment_id", p.ID).
		Int64("amount_cents", p.AmountCents).
		Str("method", p.Method()).
		Msg("payment recorded")
	return p, nil
}

// GetInvoice loads an invoice with its payments.
func (s *InvoiceService) GetInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	return s.store.LoadInvoiceWithPayments(ctx, id)
}

// AmountOwed returns the owed balance in dollars; negative when overpaid.
func (s *InvoiceService) AmountOwed(ctx context.Context, id uint) (decimal.Decimal, error) {
	inv, err := s.store.LoadInvoiceWithPayments(ctx, id)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return inv.AmountOwed(), nil
}

// IsFullyPaid is true only for an owed balance of exactly zero.
func (s *InvoiceService) IsFullyPaid(ctx context.Context, id uint) (bool, error) {
	inv, err := s.store.LoadInvoiceWithPayments(ctx, id)
	if err != nil {
		return false, err
	}
	return inv.IsFullyPaid(), nil
}

// DeleteInvoice removes the invoice and all of its payments.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uint) error {
	if err := s.store.DeleteInvoiceCascade(ctx, id); err != nil {
		return err
	}
	log := s.logFor(ctx)
	log.Info().Uint("invoice_id", id).Msg("invoice deleted")
	return nil
}
