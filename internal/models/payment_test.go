package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/paytrack/internal/validation"
)

func TestCodeFor(t *testing.T) {
	tests := []struct {
		name string
		want PaymentMethod
	}{
		{"cash", PaymentMethodCash},
		{"check", PaymentMethodCheck},
		{"charge", PaymentMethodCharge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CodeFor(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			name, err := NameFor(got)
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestCodeForRejectsUnknown(t *testing.T) {
	for _, name := range []string{"", "bitcoin", "CASH", " cash", "wire"} {
		_, err := CodeFor(name)
		assert.ErrorIs(t, err, validation.ErrInvalidPaymentMethod, "name %q", name)
	}
}

func TestNameForRejectsUnknown(t *testing.T) {
	for _, code := range []PaymentMethod{0, 4, -1} {
		_, err := NameFor(code)
		assert.ErrorIs(t, err, validation.ErrInvalidPaymentMethod)
		assert.False(t, code.Valid())
	}
	assert.Equal(t, "PaymentMethod(7)", PaymentMethod(7).String())
	assert.Equal(t, "charge", PaymentMethodCharge.String())
}

func TestNewPayment(t *testing.T) {
	p, err := NewPayment(1, decimal.RequireFromString("40.00"), "cash")
	require.NoError(t, err)
	assert.Equal(t, int64(4000), p.AmountCents)
	assert.Equal(t, PaymentMethodCash, p.MethodCode)
	assert.Equal(t, "cash", p.Method())
	assert.True(t, p.Amount().Equal(decimal.NewFromInt(40)))
	assert.Zero(t, p.ID)
}

func TestNewPaymentErrors(t *testing.T) {
	_, err := NewPayment(1, decimal.RequireFromString("-5.00"), "cash")
	assert.ErrorIs(t, err, validation.ErrInvalidAmount)

	_, err = NewPayment(1, decimal.RequireFromString("50.00"), "bitcoin")
	assert.ErrorIs(t, err, validation.ErrInvalidPaymentMethod)

	// positive but truncates to zero cents
	_, err = NewPayment(1, decimal.RequireFromString("0.004"), "check")
	require.ErrorIs(t, err, validation.ErrValidation)
	var ve *validation.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"amount_cents"}, ve.Fields())
}

func TestPaymentValidateDirectConstruction(t *testing.T) {
	p := &Payment{InvoiceID: 3, AmountCents: 100, MethodCode: 9}
	err := p.Validate()
	require.ErrorIs(t, err, validation.ErrValidation)
	var ve *validation.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, validation.NotInSet, ve.Violations["method_code"])
	assert.Equal(t, "", p.Method())

	p = &Payment{MethodCode: PaymentMethodCheck}
	err = p.Validate()
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"amount_cents", "invoice_id"}, ve.Fields())
}
