package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"microlend-backend/internal/domain/risk"
)

type State string

const (
	StateRequested  State = "requested"
	StateFunded     State = "funded"
	StateRepaid     State = "repaid"
	StateLiquidated State = "liquidated"
)

// Loan is append-only history: closed loans stay in the table.
// LoanID is the dense public id (0, 1, 2, ...); ID is the storage key.
type Loan struct {
	ID             uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID         uint64          `gorm:"column:loan_id;not null;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	Borrower       string          `gorm:"column:borrower;size:42;not null;index:idx_loans_borrower" json:"borrower"`
	Principal      decimal.Decimal `gorm:"column:principal;type:decimal(65,0);not null" json:"principal"`
	Collateral     decimal.Decimal `gorm:"column:collateral;type:decimal(65,0);not null" json:"collateral"`
	DueDate        time.Time       `gorm:"column:due_date;not null" json:"due_date"`
	RiskCategory   risk.Category   `gorm:"column:risk_category;not null" json:"risk_category"`
	RepaidAmount   decimal.Decimal `gorm:"column:repaid_amount;type:decimal(65,0);not null" json:"repaid_amount"`
	TotalFunded    decimal.Decimal `gorm:"column:total_funded;type:decimal(65,0);not null" json:"total_funded"`
	Repaid         bool            `gorm:"column:repaid;not null" json:"repaid"`
	Active         bool            `gorm:"column:active;not null" json:"active"`
	State          State           `gorm:"column:state;size:16;not null" json:"state"`
	StateUpdatedAt time.Time       `gorm:"column:state_updated_at" json:"state_updated_at"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Counter hands out dense loan ids. The row is locked for the duration of a
// loan creation so a rolled back request never burns an id.
type Counter struct {
	Name  string `gorm:"primaryKey;column:name;size:32"`
	Value uint64 `gorm:"column:value;not null"`
}

func (Counter) TableName() string { return "loan_counters" }

const LoanCounterName = "loans"

// RequiredRepayment uses the category frozen at creation.
func (l *Loan) RequiredRepayment() decimal.Decimal {
	return risk.RequiredRepayment(l.Principal, l.RiskCategory)
}

func (l *Loan) RemainingRepayment() decimal.Decimal {
	return l.RequiredRepayment().Sub(l.RepaidAmount)
}

func (l *Loan) FullyFunded() bool { return l.TotalFunded.Equal(l.Principal) }

func (l *Loan) RemainingFunding() decimal.Decimal { return l.Principal.Sub(l.TotalFunded) }

// Overdue is strict: a loan is overdue only after its due date has passed.
func (l *Loan) Overdue(now time.Time) bool { return now.After(l.DueDate) }

func (l *Loan) setState(s State, now time.Time) {
	l.State = s
	l.StateUpdatedAt = now.UTC()
}

// MarkFunded is a no-op until the running total reaches principal.
func (l *Loan) MarkFunded(now time.Time) {
	if l.FullyFunded() && l.State == StateRequested {
		l.setState(StateFunded, now)
	}
}

func (l *Loan) MarkRepaid(now time.Time) {
	l.Repaid = true
	l.Active = false
	l.setState(StateRepaid, now)
}

func (l *Loan) MarkLiquidated(now time.Time) {
	l.Active = false
	l.setState(StateLiquidated, now)
}
