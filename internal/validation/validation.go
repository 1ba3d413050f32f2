// Package validation holds the shared checks applied to monetary inputs and
// stored entities, and the error kinds they produce.
package validation

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned for a missing, zero or negative monetary input.
	ErrInvalidAmount = errors.New("invalid_amount")
	// ErrInvalidPaymentMethod is returned for an unrecognized payment method name.
	ErrInvalidPaymentMethod = errors.New("invalid_payment_method")
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation_failed")
)

// Violation codes recorded against a field.
const (
	MustBePositive = "must_be_positive"
	NotInSet       = "not_in_set"
	Required       = "required"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Merge copies the violations of err into v when err is a *ValidationError.
// Any other non-nil error is recorded against "_".
func (v Violations) Merge(err error) {
	if err == nil {
		return
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		for f, code := range ve.Violations {
			v[f] = code
		}
		return
	}
	v["_"] = err.Error()
}

// Err returns nil when v is empty, otherwise a *ValidationError for entity.
func (v Violations) Err(entity string) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Entity: entity, Violations: v}
}

// ValidationError reports which fields of an entity broke a standing invariant.
type ValidationError struct {
	Entity     string
	Violations Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+"="+e.Violations[f])
	}
	return fmt.Sprintf("%s %s: %s", e.Entity, ErrValidation.Error(), strings.Join(parts, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Fields returns the names of the failing fields in sorted order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// RequirePositive fails with ErrInvalidAmount unless value > 0.
func RequirePositive(value decimal.Decimal) error {
	if !value.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidAmount)
	}
	return nil
}

// RequireEnumMember fails with a *ValidationError unless value is one of allowed.
func RequireEnumMember[T comparable](field string, value T, allowed []T) error {
	v := make(Violations)
	EnumMember(field, value, allowed, v)
	return v.Err(field)
}

// Basic validators recording into v
func PositiveInt(field string, val int64, v Violations) {
	if val <= 0 {
		v[field] = MustBePositive
	}
}

func EnumMember[T comparable](field string, val T, allowed []T, v Violations) {
	if !slices.Contains(allowed, val) {
		v[field] = NotInSet
	}
}

func NonZeroID(field string, id uint, v Violations) {
	if id == 0 {
		v[field] = Required
	}
}
