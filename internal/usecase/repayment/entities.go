package repayment

import (
	"github.com/shopspring/decimal"

	"microlend-backend/internal/domain/risk"
)

type RepayInput struct {
	LoanID uint64
	Payer  string
	Amount decimal.Decimal
}

type ShareDTO struct {
	Lender string          `json:"lender"`
	Amount decimal.Decimal `json:"amount"`
}

type BadgeDTO struct {
	TokenID uint64        `json:"token_id"`
	Owner   string        `json:"owner"`
	Tier    risk.Category `json:"tier"`
}

type RepaymentDTO struct {
	LoanID            uint64          `json:"loan_id"`
	Payer             string          `json:"payer"`
	Amount            decimal.Decimal `json:"amount"`
	RepaidAmount      decimal.Decimal `json:"repaid_amount"`
	RequiredRepayment decimal.Decimal `json:"required_repayment"`
	Remaining         decimal.Decimal `json:"remaining"`
	Repaid            bool            `json:"repaid"`
	State             string          `json:"state"`
	Shares            []ShareDTO      `json:"shares"`
	Badge             *BadgeDTO       `json:"badge,omitempty"`
}

type StatusDTO struct {
	LoanID              uint64          `json:"loan_id"`
	RiskCategory        risk.Category   `json:"risk_category"`
	InterestRatePercent int64           `json:"interest_rate_percent"`
	RequiredRepayment   decimal.Decimal `json:"required_repayment"`
	RepaidAmount        decimal.Decimal `json:"repaid_amount"`
	Remaining           decimal.Decimal `json:"remaining"`
	Repaid              bool            `json:"repaid"`
}
