package currency

import (
	"fmt"
	"math"

	"github.com/juju/errors"
)

// Amount is integer counting lowest currency unit, e.g. $1.20 = 120
type Amount uint32

// DefaultUnit names the lowest currency unit in user messages.
const DefaultUnit = "cents"

var ErrOverflow = errors.New("Amount overflow")

func (self Amount) Format100I() string { return fmt.Sprint(float32(self) / 100) }

// FormatUnit renders amount for humans, e.g. "120 cents".
func (self Amount) FormatUnit(unit string) string {
	if unit == "" {
		unit = DefaultUnit
	}
	return fmt.Sprintf("%d %s", uint32(self), unit)
}

func (self Amount) String() string { return self.FormatUnit(DefaultUnit) }

// Mul returns self*n or ErrOverflow.
func (self Amount) Mul(n uint32) (Amount, error) {
	result := uint64(self) * uint64(n)
	if result > math.MaxUint32 {
		return 0, errors.Annotatef(ErrOverflow, "%d*%d", self, n)
	}
	return Amount(result), nil
}

// Sub is saturating subtraction, never below zero.
func (self Amount) Sub(other Amount) Amount {
	if other >= self {
		return 0
	}
	return self - other
}

// FromInt converts configured or user entered integer.
// Negative values are invalid.
func FromInt(i int) (Amount, error) {
	if i < 0 {
		return 0, errors.NotValidf("amount=%d negative", i)
	}
	if uint64(i) > math.MaxUint32 {
		return 0, errors.Annotatef(ErrOverflow, "amount=%d", i)
	}
	return Amount(i), nil
}

// Add returns self+other or ErrOverflow.
func (self Amount) Add(other Amount) (Amount, error) {
	result := uint64(self) + uint64(other)
	if result > math.MaxUint32 {
		return 0, errors.Annotatef(ErrOverflow, "%d+%d", self, other)
	}
	return Amount(result), nil
}
