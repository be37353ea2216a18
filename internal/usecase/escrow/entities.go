package escrow

import (
	"time"

	"github.com/shopspring/decimal"
)

type BalanceDTO struct {
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
}

type WithdrawalDTO struct {
	EntryID string          `json:"entry_id"`
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
	At      time.Time       `json:"at"`
}
