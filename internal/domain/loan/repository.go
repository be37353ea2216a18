package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID uint64) (*Loan, error)
	// GetByLoanIDForUpdate locks the row until the surrounding tx ends.
	GetByLoanIDForUpdate(ctx context.Context, loanID uint64) (*Loan, error)
	// NextLoanID locks the counter, returns its value and increments it.
	// Only meaningful inside a transaction.
	NextLoanID(ctx context.Context) (uint64, error)
	Count(ctx context.Context) (uint64, error)
	List(ctx context.Context, offset, limit int) ([]Loan, error)
	ListByBorrower(ctx context.Context, borrower string) ([]Loan, error)
}
