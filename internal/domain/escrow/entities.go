package escrow

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNothingToWithdraw = errors.New("no withdrawable balance")

type EntryKind string

const (
	KindRepaymentShare       EntryKind = "repayment_share"
	KindLiquidationShare     EntryKind = "liquidation_share"
	KindLiquidationRemainder EntryKind = "liquidation_remainder"
	KindWithdrawal           EntryKind = "withdrawal"
)

// Balance is what an address can pull. Repayments and liquidations credit it;
// only the owner's withdrawal debits it.
type Balance struct {
	Address   string          `gorm:"column:address;primaryKey;size:42" json:"address"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(65,0);not null" json:"amount"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Balance) TableName() string { return "escrow_balances" }

// Entry is an append-only movement on a balance. LoanID is nil for withdrawals.
type Entry struct {
	ID           uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	EntryID      string          `gorm:"column:entry_id;type:char(32);not null;uniqueIndex:ux_escrow_entries_entry_id" json:"entry_id"`
	Address      string          `gorm:"column:address;size:42;not null;index:idx_escrow_entries_address" json:"address"`
	LoanID       *uint64         `gorm:"column:loan_id;index" json:"loan_id,omitempty"`
	Kind         EntryKind       `gorm:"column:kind;size:32;not null" json:"kind"`
	Amount       decimal.Decimal `gorm:"column:amount;type:decimal(65,0);not null" json:"amount"`
	BalanceAfter decimal.Decimal `gorm:"column:balance_after;type:decimal(65,0);not null" json:"balance_after"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "escrow_entries" }

// Credit is one pending increase of an address's balance.
type Credit struct {
	Address string
	Kind    EntryKind
	Amount  decimal.Decimal
}
