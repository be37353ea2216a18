package gormrepo

import (
	"context"
	"errors"
	"testing"

	domain "microlend-backend/internal/domain/contribution"
	"microlend-backend/internal/domain/uow"
	"microlend-backend/internal/testutil/testdb"
	"microlend-backend/internal/testutil/weitest"

	"gorm.io/gorm"
)

const (
	lender1 = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	lender2 = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func TestContributionRepository_CreateGetSave(t *testing.T) {
	db := testdb.Open(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	if _, err := repo.Get(ctx, 0, lender1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound, got %v", err)
	}

	c := &domain.Contribution{LoanID: 0, Lender: lender1, Amount: weitest.Ether("6")}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := NewGormUoW(db).WithinTx(ctx, func(r uow.Repos) error {
		got, err := r.Contributions.Get(ctx, 0, lender1)
		if err != nil {
			return err
		}
		got.Amount = got.Amount.Add(weitest.Ether("1"))
		return r.Contributions.Save(ctx, got)
	})
	if err != nil {
		t.Fatalf("Tx: %v", err)
	}

	got, err := repo.Get(ctx, 0, lender1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Amount.Equal(weitest.Ether("7")) {
		t.Fatalf("amount = %s", got.Amount)
	}

	dup := &domain.Contribution{LoanID: 0, Lender: lender1, Amount: weitest.Ether("1")}
	if err := repo.Create(ctx, dup); err == nil {
		t.Fatal("expected unique violation on (loan_id, lender)")
	}
}

func TestContributionRepository_ListByLoanID_FirstContributionOrder(t *testing.T) {
	repo := NewContributionRepository(testdb.Open(t))
	ctx := context.Background()

	for _, c := range []domain.Contribution{
		{LoanID: 1, Lender: lender2, Amount: weitest.Ether("2")},
		{LoanID: 1, Lender: lender1, Amount: weitest.Ether("3")},
		{LoanID: 2, Lender: lender1, Amount: weitest.Ether("4")},
	} {
		c := c
		if err := repo.Create(ctx, &c); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.ListByLoanID(ctx, 1)
	if err != nil {
		t.Fatalf("ListByLoanID: %v", err)
	}
	if len(got) != 2 || got[0].Lender != lender2 || got[1].Lender != lender1 {
		t.Fatalf("order = %+v", got)
	}
}
