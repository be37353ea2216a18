package loan

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domain "microlend-backend/internal/domain/loan"
	"microlend-backend/internal/domain/risk"
)

type DurationUnit string

const (
	UnitSeconds DurationUnit = "seconds"
	UnitDays    DurationUnit = "days"
	UnitWeeks   DurationUnit = "weeks"
	UnitMonths  DurationUnit = "months"
	UnitYears   DurationUnit = "years"
)

// Months are 30 days and years 365 days.
var unitSeconds = map[DurationUnit]int64{
	UnitSeconds: 1,
	UnitDays:    86_400,
	UnitWeeks:   604_800,
	UnitMonths:  2_592_000,
	UnitYears:   31_536_000,
}

// MaxDurationSeconds caps loan terms at 100 years.
const MaxDurationSeconds = 100 * 31_536_000

// DurationSeconds converts n units to seconds. Unknown units and overflow
// fail with ErrInvalidDuration.
func DurationSeconds(n int64, unit DurationUnit) (int64, error) {
	mul, ok := unitSeconds[DurationUnit(strings.ToLower(string(unit)))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", domain.ErrInvalidDuration, unit)
	}
	if n <= 0 {
		return 0, domain.ErrInvalidDuration
	}
	if n > MaxDurationSeconds/mul {
		return 0, fmt.Errorf("%w: longer than %d seconds", domain.ErrInvalidDuration, int64(MaxDurationSeconds))
	}
	return n * mul, nil
}

type RequestLoanInput struct {
	Borrower        string
	Principal       decimal.Decimal
	Collateral      decimal.Decimal
	DurationSeconds int64
}

type LoanDTO struct {
	LoanID              uint64          `json:"loan_id"`
	Borrower            string          `json:"borrower"`
	Principal           decimal.Decimal `json:"principal"`
	Collateral          decimal.Decimal `json:"collateral"`
	DueDate             time.Time       `json:"due_date"`
	RiskCategory        risk.Category   `json:"risk_category"`
	InterestRatePercent int64           `json:"interest_rate_percent"`
	RequiredRepayment   decimal.Decimal `json:"required_repayment"`
	RepaidAmount        decimal.Decimal `json:"repaid_amount"`
	TotalFunded         decimal.Decimal `json:"total_funded"`
	Repaid              bool            `json:"repaid"`
	Active              bool            `json:"active"`
	Overdue             bool            `json:"overdue"`
	State               string          `json:"state"`
	CreatedAt           time.Time       `json:"created_at"`
}

type QuoteDTO struct {
	Principal            decimal.Decimal `json:"principal"`
	Collateral           decimal.Decimal `json:"collateral"`
	RatioPercent         decimal.Decimal `json:"ratio_percent"`
	RiskCategory         risk.Category   `json:"risk_category"`
	InterestRatePercent  int64           `json:"interest_rate_percent"`
	RequiredRepayment    decimal.Decimal `json:"required_repayment"`
	MinCollateral        decimal.Decimal `json:"min_collateral"`
	MeetsCollateralFloor bool            `json:"meets_collateral_floor"`
}

type ListDTO struct {
	Total uint64    `json:"total"`
	Loans []LoanDTO `json:"loans"`
}

func toDTO(l *domain.Loan, now time.Time) LoanDTO {
	return LoanDTO{
		LoanID:              l.LoanID,
		Borrower:            l.Borrower,
		Principal:           l.Principal,
		Collateral:          l.Collateral,
		DueDate:             l.DueDate.UTC(),
		RiskCategory:        l.RiskCategory,
		InterestRatePercent: risk.InterestRatePercent(l.RiskCategory),
		RequiredRepayment:   l.RequiredRepayment(),
		RepaidAmount:        l.RepaidAmount,
		TotalFunded:         l.TotalFunded,
		Repaid:              l.Repaid,
		Active:              l.Active,
		Overdue:             l.Active && l.Overdue(now),
		State:               string(l.State),
		CreatedAt:           l.CreatedAt,
	}
}
