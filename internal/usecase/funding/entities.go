package funding

import (
	"github.com/shopspring/decimal"
)

type FundInput struct {
	LoanID uint64
	Lender string
	Amount decimal.Decimal
}

type FundDTO struct {
	LoanID           uint64          `json:"loan_id"`
	Lender           string          `json:"lender"`
	Amount           decimal.Decimal `json:"amount"`
	Contribution     decimal.Decimal `json:"contribution"`
	TotalFunded      decimal.Decimal `json:"total_funded"`
	RemainingFunding decimal.Decimal `json:"remaining_funding"`
	FullyFunded      bool            `json:"fully_funded"`
	State            string          `json:"state"`
}

type ContributionDTO struct {
	Lender string          `json:"lender"`
	Amount decimal.Decimal `json:"amount"`
}

type TotalDTO struct {
	LoanID      uint64          `json:"loan_id"`
	Principal   decimal.Decimal `json:"principal"`
	TotalFunded decimal.Decimal `json:"total_funded"`
	FullyFunded bool            `json:"fully_funded"`
}
