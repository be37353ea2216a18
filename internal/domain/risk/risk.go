// Package risk maps posted collateral to a risk category and derives the
// interest premium and required repayment from it. Everything here is pure:
// the same inputs always produce the same outputs.
package risk

import (
	"github.com/shopspring/decimal"

	"microlend-backend/pkg/wei"
)

// Category is a risk tier, 1 (best) through 4 (worst).
type Category uint8

const (
	CategoryExcellent Category = 1
	CategoryGood      Category = 2
	CategoryFair      Category = 3
	CategoryAtRisk    Category = 4
)

// Collateral ratio thresholds, in percent of principal.
const (
	excellentRatio = 50
	goodRatio      = 35
	fairRatio      = 20

	// MinCollateralPercent is the collateral floor for any loan request.
	MinCollateralPercent = 10
)

var hundred = decimal.NewFromInt(100)

// Valid reports whether c is one of the four defined tiers.
func (c Category) Valid() bool { return c >= CategoryExcellent && c <= CategoryAtRisk }

// Better reports whether c is a strictly better (numerically lower) tier than o.
func (c Category) Better(o Category) bool { return c < o }

// Ratio is floor(collateral * 100 / principal). principal must be positive.
func Ratio(collateral, principal decimal.Decimal) decimal.Decimal {
	return wei.MulDivFloor(collateral, hundred, principal)
}

// CategoryFor classifies a collateral/principal pair.
func CategoryFor(collateral, principal decimal.Decimal) Category {
	r := Ratio(collateral, principal)
	switch {
	case r.GreaterThanOrEqual(decimal.NewFromInt(excellentRatio)):
		return CategoryExcellent
	case r.GreaterThanOrEqual(decimal.NewFromInt(goodRatio)):
		return CategoryGood
	case r.GreaterThanOrEqual(decimal.NewFromInt(fairRatio)):
		return CategoryFair
	default:
		return CategoryAtRisk
	}
}

// InterestRatePercent is the total repayment as a percent of principal (102-108).
func InterestRatePercent(c Category) int64 { return 100 + 2*int64(c) }

// RequiredRepayment is floor(principal * rate / 100).
func RequiredRepayment(principal decimal.Decimal, c Category) decimal.Decimal {
	return wei.MulDivFloor(principal, decimal.NewFromInt(InterestRatePercent(c)), hundred)
}

// MeetsCollateralFloor reports collateral >= 10% of principal, compared
// without division so no rounding is involved.
func MeetsCollateralFloor(collateral, principal decimal.Decimal) bool {
	return collateral.Mul(hundred).GreaterThanOrEqual(principal.Mul(decimal.NewFromInt(MinCollateralPercent)))
}

// MinCollateral is the smallest collateral that satisfies the floor.
func MinCollateral(principal decimal.Decimal) decimal.Decimal {
	q, r := principal.Mul(decimal.NewFromInt(MinCollateralPercent)).QuoRem(hundred, 0)
	if !r.IsZero() {
		q = q.Add(decimal.NewFromInt(1))
	}
	return q
}
