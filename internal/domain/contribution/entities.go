package contribution

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contribution is one lender's cumulative stake in one loan. ID order within
// a loan is first-contribution order.
type Contribution struct {
	ID        uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanID    uint64          `gorm:"column:loan_id;not null;uniqueIndex:ux_contributions_loan_lender,priority:1" json:"loan_id"`
	Lender    string          `gorm:"column:lender;size:42;not null;uniqueIndex:ux_contributions_loan_lender,priority:2;index" json:"lender"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(65,0);not null" json:"amount"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Contribution) TableName() string { return "contributions" }

// Shares splits amount across contributions in proportion to each stake,
// flooring every share. The undistributed remainder is returned separately so
// the caller decides who absorbs it. total must be the sum of the stakes.
func Shares(amount, total decimal.Decimal, cs []Contribution) ([]decimal.Decimal, decimal.Decimal) {
	shares := make([]decimal.Decimal, len(cs))
	paid := decimal.Zero
	for i, c := range cs {
		q, _ := amount.Mul(c.Amount).QuoRem(total, 0)
		shares[i] = q
		paid = paid.Add(q)
	}
	return shares, amount.Sub(paid)
}
