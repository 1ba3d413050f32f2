package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/diewo77/paytrack/internal/money"
	"github.com/diewo77/paytrack/internal/validation"
)

// Payment is one amount recorded against an invoice. It is immutable once saved.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// InvoiceID is the owning invoice; payments are deleted with it.
	InvoiceID uint `gorm:"index;not null" json:"invoice_id"`

	AmountCents int64         `gorm:"not null;check:chk_payments_amount_cents,amount_cents > 0" json:"amount_cents"`
	MethodCode  PaymentMethod `gorm:"not null;check:chk_payments_method_code,method_code IN (1,2,3)" json:"method_code"`
}

// NewPayment converts amount to cents, resolves the method name and checks the
// result. Nothing is persisted.
func NewPayment(invoiceID uint, amount decimal.Decimal, method string) (*Payment, error) {
	cents, err := money.DollarsToCents(amount)
	if err != nil {
		return nil, err
	}
	code, err := CodeFor(method)
	if err != nil {
		return nil, err
	}
	p := &Payment{InvoiceID: invoiceID, AmountCents: cents, MethodCode: code}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the standing invariants of a payment about to be stored.
// It also catches payments built directly rather than through NewPayment.
func (p *Payment) Validate() error {
	v := make(validation.Violations)
	validation.NonZeroID("invoice_id", p.InvoiceID, v)
	validation.PositiveInt("amount_cents", p.AmountCents, v)
	v.Merge(validation.RequireEnumMember("method_code", p.MethodCode, PaymentMethods()))
	return v.Err("payment")
}

// Method returns the symbolic method name, or "" for an unknown code.
func (p *Payment) Method() string {
	if !p.MethodCode.Valid() {
		return ""
	}
	return p.MethodCode.String()
}

// Amount returns the payment in dollars.
func (p *Payment) Amount() decimal.Decimal {
	return money.CentsToDollars(p.AmountCents)
}
