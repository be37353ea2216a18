package reputation

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	domain "microlend-backend/internal/domain/reputation"
	"microlend-backend/internal/domain/risk"
)

// Usecase owns the badge registry. Only the controller may mint; control
// starts with the deploying admin and can be handed off exactly once.
type Usecase struct {
	repo domain.Repository
	log  *slog.Logger

	mu         sync.RWMutex
	controller string
	handedOff  bool
}

func NewUsecase(r domain.Repository, admin string) *Usecase {
	return &Usecase{repo: r, controller: admin, log: slog.Default()}
}

func (u *Usecase) WithLogger(l *slog.Logger) *Usecase {
	if l != nil {
		u.log = l
	}
	return u
}

func (u *Usecase) Controller() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.controller
}

func (u *Usecase) TransferControl(caller, to string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.handedOff {
		return domain.ErrControlAlreadyTransferred
	}
	if caller != u.controller {
		return domain.ErrNotController
	}
	if to == "" {
		return errors.New("reputation: empty controller address")
	}
	u.controller = to
	u.handedOff = true
	u.log.Info("registry control transferred", "from", caller, "to", to)
	return nil
}

// MintOrUpgrade creates owner's badge at tier or improves an existing one. A
// worse tier leaves the badge untouched. repo lets the caller run this inside
// its own transaction; nil uses the usecase repository.
func (u *Usecase) MintOrUpgrade(ctx context.Context, repo domain.Repository, caller, owner string, tier risk.Category) (*domain.Badge, error) {
	if caller != u.Controller() {
		return nil, domain.ErrNotController
	}
	if !tier.Valid() {
		return nil, domain.ErrInvalidTier
	}
	if repo == nil {
		repo = u.repo
	}

	b, err := repo.GetByOwnerForUpdate(ctx, owner)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		b = &domain.Badge{Owner: owner, Tier: tier}
		if err := repo.Create(ctx, b); err != nil {
			return nil, err
		}
		u.log.Info("badge minted", "owner", owner, "token_id", b.TokenID, "tier", uint8(tier))
		return b, nil
	case err != nil:
		return nil, err
	}

	prev := b.Tier
	if !b.Improve(tier) {
		return b, nil
	}
	if err := repo.Save(ctx, b); err != nil {
		return nil, err
	}
	u.log.Info("badge upgraded", "owner", owner, "token_id", b.TokenID, "from", uint8(prev), "to", uint8(tier))
	return b, nil
}

func (u *Usecase) Badge(ctx context.Context, tokenID uint64) (*BadgeDTO, error) {
	b, err := u.repo.GetByTokenID(ctx, tokenID)
	if err != nil {
		return nil, notFound(err)
	}
	return toDTO(b), nil
}

func (u *Usecase) ByOwner(ctx context.Context, owner string) (*OwnerDTO, error) {
	b, err := u.repo.GetByOwner(ctx, owner)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &OwnerDTO{Address: owner}, nil
	}
	if err != nil {
		return nil, err
	}
	return &OwnerDTO{Address: owner, HasMinted: true, TokenID: b.TokenID, Badge: toDTO(b)}, nil
}

// Transfer always fails: badges are bound to the address that earned them.
func (u *Usecase) Transfer(ctx context.Context, caller, to string, tokenID uint64) error {
	u.log.Warn("badge transfer rejected", "caller", caller, "to", to, "token_id", tokenID)
	return domain.ErrBadgeTransferForbidden
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrBadgeNotFound
	}
	return err
}

func toDTO(b *domain.Badge) *BadgeDTO {
	dto := &BadgeDTO{TokenID: b.TokenID, Owner: b.Owner, Tier: b.Tier}
	if m, ok := domain.MetadataFor(b.Tier); ok {
		dto.Level = m.Level
		dto.Description = m.Description
		dto.TokenURI = m.URI()
		dto.GatewayURL = domain.GatewayURL(dto.TokenURI)
	}
	return dto
}
