package liquidation

import (
	"github.com/shopspring/decimal"
)

type LiquidateInput struct {
	LoanID uint64
	Caller string
}

type ShareDTO struct {
	Lender string          `json:"lender"`
	Amount decimal.Decimal `json:"amount"`
}

type LiquidationDTO struct {
	LoanID     uint64          `json:"loan_id"`
	Caller     string          `json:"caller"`
	Collateral decimal.Decimal `json:"collateral"`
	Shares     []ShareDTO      `json:"shares"`
	Remainder  decimal.Decimal `json:"remainder"`
	State      string          `json:"state"`
}
