// Package wei handles on-ledger amounts: unsigned integers in the smallest
// currency unit, carried as decimal.Decimal because they overflow uint64.
package wei

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNotInteger = errors.New("amount must be a whole number of wei")
	ErrNegative   = errors.New("amount must not be negative")
)

// Parse reads a base-10 wei amount such as "10200000000000000000".
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	return d, checkWhole(d)
}

// MulDivFloor returns floor(a*b/c) for non-negative a, b and positive c.
func MulDivFloor(a, b, c decimal.Decimal) decimal.Decimal {
	q, _ := a.Mul(b).QuoRem(c, 0)
	return q
}

func checkWhole(d decimal.Decimal) error {
	if d.Sign() < 0 {
		return ErrNegative
	}
	if !d.IsInteger() {
		return ErrNotInteger
	}
	return nil
}
