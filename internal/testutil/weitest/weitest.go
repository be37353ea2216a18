// Package weitest builds wei amounts from ether strings for test fixtures.
package weitest

import (
	"github.com/shopspring/decimal"
)

const etherDecimals = 18

// Ether returns s ether in wei and panics on anything that is not a whole
// number of wei.
func Ether(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	d = d.Shift(etherDecimals)
	if d.Sign() < 0 || !d.IsInteger() {
		panic("weitest: " + s + " is not a whole number of wei")
	}
	return d
}
