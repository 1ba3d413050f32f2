package models

import (
	"fmt"

	"github.com/diewo77/paytrack/internal/validation"
)

// PaymentMethod is the stored numeric code of a payment channel.
type PaymentMethod int

const (
	PaymentMethodCash   PaymentMethod = 1
	PaymentMethodCheck  PaymentMethod = 2
	PaymentMethodCharge PaymentMethod = 3
)

// The set is closed; nothing registers methods at runtime.
var (
	methodCodes = map[string]PaymentMethod{
		"cash":   PaymentMethodCash,
		"check":  PaymentMethodCheck,
		"charge": PaymentMethodCharge,
	}
	methodNames = map[PaymentMethod]string{
		PaymentMethodCash:   "cash",
		PaymentMethodCheck:  "check",
		PaymentMethodCharge: "charge",
	}
)

// PaymentMethods lists every valid code in ascending order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentMethodCash, PaymentMethodCheck, PaymentMethodCharge}
}

// CodeFor resolves a symbolic method name ("cash", "check", "charge").
func CodeFor(name string) (PaymentMethod, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: method is required", validation.ErrInvalidPaymentMethod)
	}
	code, ok := methodCodes[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", validation.ErrInvalidPaymentMethod, name)
	}
	return code, nil
}

// NameFor is the inverse of CodeFor.
func NameFor(code PaymentMethod) (string, error) {
	name, ok := methodNames[code]
	if !ok {
		return "", fmt.Errorf("%w: unknown code %d", validation.ErrInvalidPaymentMethod, int(code))
	}
	return name, nil
}

// Valid reports whether m is one of the fixed codes.
func (m PaymentMethod) Valid() bool {
	_, ok := methodNames[m]
	return ok
}

func (m PaymentMethod) String() string {
	if name, err := NameFor(m); err == nil {
		return name
	}
	return fmt.Sprintf("PaymentMethod(%d)", int(m))
}
