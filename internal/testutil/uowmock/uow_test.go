package uowmock

import (
	"context"
	"errors"
	"testing"

	"microlend-backend/internal/domain/loan"
	"microlend-backend/internal/domain/uow"
	"microlend-backend/internal/testutil/contributionmock"
	"microlend-backend/internal/testutil/loanmock"
)

func TestUoW_Default_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := &UoW{}
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
	if err := m.WithinLoanTx(ctx, 1, func(uow.Repos, *loan.Loan) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinLoanTx default: want errUnimplemented, got %v", err)
	}
}

func TestPassthrough_ForwardsReposAndLoan(t *testing.T) {
	ctx := context.Background()
	locked := &loan.Loan{ID: 7, LoanID: 7}
	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(_ context.Context, loanID uint64) (*loan.Loan, error) {
			if loanID != 7 {
				t.Fatalf("loanID = %d", loanID)
			}
			return locked, nil
		},
	}
	contribs := &contributionmock.Repo{}
	m := Passthrough(uow.Repos{Loans: loans, Contributions: contribs})

	called := false
	err := m.WithinLoanTx(ctx, 7, func(r uow.Repos, l *loan.Loan) error {
		called = true
		if r.Loans != loans || r.Contributions != contribs {
			t.Fatalf("repos not forwarded")
		}
		if l != locked {
			t.Fatalf("loan not forwarded: %+v", l)
		}
		return nil
	})
	if err != nil || !called {
		t.Fatalf("WithinLoanTx: err=%v called=%v", err, called)
	}

	if err := m.WithinTx(ctx, func(r uow.Repos) error {
		if r.Loans != loans {
			t.Fatalf("WithinTx repos not forwarded")
		}
		return nil
	}); err != nil {
		t.Fatalf("WithinTx: %v", err)
	}
}

func TestPassthrough_MissingLoan(t *testing.T) {
	m := Passthrough(uow.Repos{Loans: &loanmock.Repo{}})
	err := m.WithinLoanTx(context.Background(), 1, func(uow.Repos, *loan.Loan) error {
		t.Fatal("fn must not run")
		return nil
	})
	if !errors.Is(err, loan.ErrLoanNotFound) {
		t.Fatalf("want ErrLoanNotFound, got %v", err)
	}
}

func TestUoW_FluentSetters_And_Reset(t *testing.T) {
	sentinel := errors.New("stop")
	m := New().
		WithWithinTx(func(context.Context, func(uow.Repos) error) error { return sentinel }).
		WithWithinLoanTx(func(context.Context, uint64, func(uow.Repos, *loan.Loan) error) error { return sentinel })

	if err := m.WithinTx(context.Background(), nil); !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx: %v", err)
	}
	if err := m.WithinLoanTx(context.Background(), 0, nil); !errors.Is(err, sentinel) {
		t.Fatalf("WithinLoanTx: %v", err)
	}

	m.Reset()
	if m.WithinTxFn != nil || m.WithinLoanTxFn != nil {
		t.Fatalf("Reset should clear function fields")
	}
}
