package contributionmock

import (
	"context"
	"errors"

	domain "microlend-backend/internal/domain/contribution"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("contributionmock: method not implemented")

// Repo is a function-backed mock that satisfies contribution.Repository.
type Repo struct {
	CreateFn       func(ctx context.Context, c *domain.Contribution) error
	SaveFn         func(ctx context.Context, c *domain.Contribution) error
	GetFn          func(ctx context.Context, loanID uint64, lender string) (*domain.Contribution, error)
	ListByLoanIDFn func(ctx context.Context, loanID uint64) ([]domain.Contribution, error)
}

func (m *Repo) Create(ctx context.Context, c *domain.Contribution) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, c *domain.Contribution) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}

func (m *Repo) Get(ctx context.Context, loanID uint64, lender string) (*domain.Contribution, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, loanID, lender)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID uint64) ([]domain.Contribution, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, errUnimplemented
}
