package reputation

import "context"

type Repository interface {
	Create(ctx context.Context, b *Badge) error
	Save(ctx context.Context, b *Badge) error
	GetByOwner(ctx context.Context, owner string) (*Badge, error)
	GetByOwnerForUpdate(ctx context.Context, owner string) (*Badge, error)
	GetByTokenID(ctx context.Context, tokenID uint64) (*Badge, error)
}
