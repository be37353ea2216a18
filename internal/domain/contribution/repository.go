package contribution

import "context"

type Repository interface {
	Create(ctx context.Context, c *Contribution) error
	Save(ctx context.Context, c *Contribution) error

	// Get returns gorm.ErrRecordNotFound when the lender never funded the loan.
	Get(ctx context.Context, loanID uint64, lender string) (*Contribution, error)

	// ListByLoanID is ordered by first contribution.
	ListByLoanID(ctx context.Context, loanID uint64) ([]Contribution, error)
}
