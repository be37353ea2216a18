package gormrepo

import (
	"context"

	reputationDomain "microlend-backend/internal/domain/reputation"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository struct{ db *gorm.DB }

func NewBadgeRepository(db *gorm.DB) *BadgeRepository { return &BadgeRepository{db: db} }

func (r *BadgeRepository) Create(ctx context.Context, b *reputationDomain.Badge) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BadgeRepository) Save(ctx context.Context, b *reputationDomain.Badge) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// GetByOwner is served by ux_badges_owner, no scan over token ids.
func (r *BadgeRepository) GetByOwner(ctx context.Context, owner string) (*reputationDomain.Badge, error) {
	var out reputationDomain.Badge
	res := r.db.WithContext(ctx).Where("owner = ?", owner).First(&out)
	return &out, res.Error
}

func (r *BadgeRepository) GetByOwnerForUpdate(ctx context.Context, owner string) (*reputationDomain.Badge, error) {
	var out reputationDomain.Badge
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("owner = ?", owner).
		First(&out)
	return &out, res.Error
}

func (r *BadgeRepository) GetByTokenID(ctx context.Context, tokenID uint64) (*reputationDomain.Badge, error) {
	var out reputationDomain.Badge
	res := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&out)
	return &out, res.Error
}
