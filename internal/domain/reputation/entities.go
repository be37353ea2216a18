package reputation

import (
	"errors"
	"time"

	"microlend-backend/internal/domain/risk"
)

var (
	ErrBadgeNotFound             = errors.New("badge not found")
	ErrBadgeTransferForbidden    = errors.New("reputation badges are non-transferable")
	ErrNotController             = errors.New("caller does not control the reputation registry")
	ErrControlAlreadyTransferred = errors.New("registry control has already been handed off")
	ErrInvalidTier               = errors.New("tier must be between 1 and 4")
)

// Badge is the one-per-owner reputation credential. Tier holds the best risk
// category the owner has fully repaid. Token ids start at 1.
type Badge struct {
	TokenID   uint64        `gorm:"column:token_id;primaryKey;autoIncrement" json:"token_id"`
	Owner     string        `gorm:"column:owner;size:42;not null;uniqueIndex:ux_badges_owner" json:"owner"`
	Tier      risk.Category `gorm:"column:tier;not null" json:"tier"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Badge) TableName() string { return "badges" }

// Transferable is always false.
func (Badge) Transferable() bool { return false }

// Improve lowers the tier when t is better and reports whether it did.
func (b *Badge) Improve(t risk.Category) bool {
	if !t.Better(b.Tier) {
		return false
	}
	b.Tier = t
	return true
}
