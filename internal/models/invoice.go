package models

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diewo77/paytrack/internal/money"
	"github.com/diewo77/paytrack/internal/validation"
)

// Invoice owns its payments. TotalCents never changes after creation.
type Invoice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TotalCents int64 `gorm:"not null;check:chk_invoices_total_cents,total_cents > 0" json:"total_cents"`

	Payments []Payment `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

// NewInvoice converts a dollar total to cents and checks the entity.
func NewInvoice(total decimal.Decimal) (*Invoice, error) {
	cents, err := money.DollarsToCents(total)
	if err != nil {
		return nil, err
	}
	inv := &Invoice{TotalCents: cents}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

// Validate checks the standing invariant TotalCents > 0.
func (i *Invoice) Validate() error {
	v := make(validation.Violations)
	validation.PositiveInt("total_cents", i.TotalCents, v)
	return v.Err("invoice")
}

// PaidCents sums the amounts of the loaded payments, saturating at
// math.MaxInt64.
func (i *Invoice) PaidCents() int64 {
	var paid int64
	for _, p := range i.Payments {
		if p.AmountCents > 0 && paid > math.MaxInt64-p.AmountCents {
			return math.MaxInt64
		}
		paid += p.AmountCents
	}
	return paid
}

// CheckPaymentFits fails with validation.ErrInvalidAmount when recording
// cents on top of the loaded payments would overflow the paid total.
func (i *Invoice) CheckPaymentFits(cents int64) error {
	if i.PaidCents() > math.MaxInt64-cents {
		return fmt.Errorf("%w: payments on invoice %d would exceed the largest representable total", validation.ErrInvalidAmount, i.ID)
	}
	return nil
}

// AmountOwedCents is TotalCents minus all payments. It goes negative on
// overpayment; nothing here prevents that.
func (i *Invoice) AmountOwedCents() int64 {
	return i.TotalCents - i.PaidCents()
}

// AmountOwed returns the owed balance in dollars.
func (i *Invoice) AmountOwed() decimal.Decimal {
	return money.CentsToDollars(i.AmountOwedCents())
}

// IsFullyPaid is true only when the owed balance is exactly zero.
func (i *Invoice) IsFullyPaid() bool {
	return i.AmountOwedCents() == 0
}

// IsOverpaid reports a negative owed balance.
func (i *Invoice) IsOverpaid() bool {
	return i.AmountOwedCents() < 0
}

// Total returns the invoice total in dollars.
func (i *Invoice) Total() decimal.Decimal {
	return money.CentsToDollars(i.TotalCents)
}
