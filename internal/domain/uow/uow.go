package uow

import (
	"context"

	"microlend-backend/internal/domain/contribution"
	"microlend-backend/internal/domain/escrow"
	"microlend-backend/internal/domain/loan"
	"microlend-backend/internal/domain/reputation"
)

// Repos are bound to one transaction.
type Repos struct {
	Loans         loan.Repository
	Contributions contribution.Repository
	Badges        reputation.Repository
	Escrow        escrow.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan row first, then pass it in; loan.ErrLoanNotFound if it does not exist
	WithinLoanTx(ctx context.Context, loanID uint64, fn func(r Repos, l *loan.Loan) error) error
}
