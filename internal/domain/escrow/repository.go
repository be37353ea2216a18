package escrow

import "context"

type Repository interface {
	// GetBalance returns gorm.ErrRecordNotFound for an address never credited.
	GetBalance(ctx context.Context, address string) (*Balance, error)
	// GetBalanceForUpdate creates a zero balance if needed, then locks it.
	GetBalanceForUpdate(ctx context.Context, address string) (*Balance, error)
	SaveBalance(ctx context.Context, b *Balance) error
	CreateEntry(ctx context.Context, e *Entry) error
	// ListEntries returns newest first.
	ListEntries(ctx context.Context, address string, limit int) ([]Entry, error)
}
