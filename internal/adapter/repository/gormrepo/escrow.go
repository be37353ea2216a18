package gormrepo

import (
	"context"

	escrowDomain "microlend-backend/internal/domain/escrow"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EscrowRepository struct{ db *gorm.DB }

func NewEscrowRepository(db *gorm.DB) *EscrowRepository { return &EscrowRepository{db: db} }

func (r *EscrowRepository) GetBalance(ctx context.Context, address string) (*escrowDomain.Balance, error) {
	var out escrowDomain.Balance
	res := r.db.WithContext(ctx).Where("address = ?", address).First(&out)
	return &out, res.Error
}

func (r *EscrowRepository) GetBalanceForUpdate(ctx context.Context, address string) (*escrowDomain.Balance, error) {
	db := r.db.WithContext(ctx)
	seed := &escrowDomain.Balance{Address: address, Amount: decimal.Zero}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
		return nil, err
	}
	var out escrowDomain.Balance
	res := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", address).
		First(&out)
	return &out, res.Error
}

func (r *EscrowRepository) SaveBalance(ctx context.Context, b *escrowDomain.Balance) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *EscrowRepository) CreateEntry(ctx context.Context, e *escrowDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EscrowRepository) ListEntries(ctx context.Context, address string, limit int) ([]escrowDomain.Entry, error) {
	var out []escrowDomain.Entry
	res := r.db.WithContext(ctx).
		Where("address = ?", address).
		Order("id DESC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}
