package funding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"microlend-backend/internal/adapter/repository/gormrepo"
	"microlend-backend/internal/domain/loan"
	"microlend-backend/internal/testutil/testdb"
	"microlend-backend/internal/testutil/weitest"
	loanuc "microlend-backend/internal/usecase/loan"
)

const (
	borrower = "0x1111111111111111111111111111111111111111"
	lender1  = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	lender2  = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	lender3  = "0xcccccccccccccccccccccccccccccccccccccccc"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

type fixture struct {
	db    *gorm.DB
	clk   *clock
	loans *loanuc.Usecase
	uc    *Usecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureOn(testdb.Open(t))
}

func newFixtureOn(db *gorm.DB) *fixture {
	clk := &clock{t: time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)}
	loanRepo := gormrepo.NewLoanRepository(db)
	tx := gormrepo.NewGormUoW(db)
	return &fixture{
		db:    db,
		clk:   clk,
		loans: loanuc.NewUsecase(loanRepo, tx).WithClock(clk.now),
		uc:    NewUsecase(loanRepo, gormrepo.NewContributionRepository(db), tx).WithClock(clk.now),
	}
}

// request10 opens a 10 ether loan with 5 ether collateral due in one day.
func (f *fixture) request10(t *testing.T) uint64 {
	t.Helper()
	dto, err := f.loans.Request(context.Background(), loanuc.RequestLoanInput{
		Borrower: borrower, Principal: weitest.Ether("10"), Collateral: weitest.Ether("5"), DurationSeconds: 86_400,
	})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	return dto.LoanID
}

func (f *fixture) fund(t *testing.T, loanID uint64, lender, ether string) (*FundDTO, error) {
	t.Helper()
	return f.uc.Fund(context.Background(), FundInput{LoanID: loanID, Lender: lender, Amount: weitest.Ether(ether)})
}

func TestFund_ScenarioC_CapEnforced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.request10(t)

	if _, err := f.fund(t, id, lender1, "6"); err != nil {
		t.Fatalf("fund 6: %v", err)
	}
	dto, err := f.fund(t, id, lender2, "4")
	if err != nil {
		t.Fatalf("fund 4: %v", err)
	}
	if !dto.FullyFunded || dto.State != string(loan.StateFunded) || !dto.RemainingFunding.IsZero() {
		t.Fatalf("after full funding: %+v", dto)
	}

	if _, err := f.fund(t, id, lender3, "1"); !errors.Is(err, loan.ErrOverFunding) {
		t.Fatalf("want ErrOverFunding, got %v", err)
	}

	total, err := f.uc.Total(ctx, id)
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if !total.TotalFunded.Equal(weitest.Ether("10")) {
		t.Fatalf("total = %s", total.TotalFunded)
	}
	if c, _ := f.uc.Contribution(ctx, id, lender3); !c.IsZero() {
		t.Fatalf("rejected lender has contribution %s", c)
	}
}

func TestFund_OverFundingIsNotPartiallyApplied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.request10(t)

	if _, err := f.fund(t, id, lender1, "6"); err != nil {
		t.Fatalf("fund: %v", err)
	}
	if _, err := f.fund(t, id, lender1, "5"); !errors.Is(err, loan.ErrOverFunding) {
		t.Fatalf("want ErrOverFunding, got %v", err)
	}

	c, err := f.uc.Contribution(ctx, id, lender1)
	if err != nil || !c.Equal(weitest.Ether("6")) {
		t.Fatalf("contribution = %s, %v", c, err)
	}
	total, _ := f.uc.Total(ctx, id)
	if !total.TotalFunded.Equal(weitest.Ether("6")) || total.FullyFunded {
		t.Fatalf("total = %+v", total)
	}

	// the exact remainder is still accepted
	if _, err := f.fund(t, id, lender2, "4"); err != nil {
		t.Fatalf("fund remainder: %v", err)
	}
}

func TestFund_ConcurrentLendersCannotOverfund(t *testing.T) {
	f := newFixtureOn(testdb.OpenFile(t, 8))
	ctx := context.Background()
	id := f.request10(t)

	const n = 6
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Fund(ctx, FundInput{
				LoanID: id,
				Lender: fmt.Sprintf("0x%040x", i+1),
				Amount: weitest.Ether("5"),
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for i, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, loan.ErrOverFunding), errors.Is(err, loan.ErrLoanInactive):
		default:
			t.Fatalf("lender %d: unexpected error %v", i, err)
		}
	}
	if ok != 2 {
		t.Fatalf("%d fundings succeeded, want 2", ok)
	}
	total, err := f.uc.Total(ctx, id)
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if !total.TotalFunded.Equal(weitest.Ether("10")) || !total.FullyFunded {
		t.Fatalf("total = %+v", total)
	}
	ls, _ := f.uc.Lenders(ctx, id)
	if len(ls) != 2 {
		t.Fatalf("lenders = %+v", ls)
	}
}

func TestFund_PrincipalAboveInt64IsExact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	principal := decimal.RequireFromString("100000000000000000001")
	dto, err := f.loans.Request(ctx, loanuc.RequestLoanInput{
		Borrower: borrower, Principal: principal, Collateral: weitest.Ether("50"), DurationSeconds: 86_400,
	})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	got, err := f.uc.Fund(ctx, FundInput{LoanID: dto.LoanID, Lender: lender1, Amount: principal})
	if err != nil {
		t.Fatalf("fund exact principal: %v", err)
	}
	if !got.FullyFunded || got.TotalFunded.String() != "100000000000000000001" {
		t.Fatalf("after funding: %+v", got)
	}
	c, _ := f.uc.Contribution(ctx, dto.LoanID, lender1)
	if c.String() != "100000000000000000001" {
		t.Fatalf("contribution = %s", c)
	}
}

func TestFund_AccumulatesAndKeepsFirstContributionOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.request10(t)

	for _, step := range []struct{ lender, ether string }{
		{lender2, "1"}, {lender1, "2"}, {lender2, "3"},
	} {
		if _, err := f.fund(t, id, step.lender, step.ether); err != nil {
			t.Fatalf("fund %s: %v", step.lender, err)
		}
	}

	ls, err := f.uc.Lenders(ctx, id)
	if err != nil {
		t.Fatalf("Lenders: %v", err)
	}
	if len(ls) != 2 || ls[0].Lender != lender2 || ls[1].Lender != lender1 {
		t.Fatalf("lenders = %+v", ls)
	}
	if !ls[0].Amount.Equal(weitest.Ether("4")) {
		t.Fatalf("lender2 cumulative = %s", ls[0].Amount)
	}
}

func TestFund_Guards(t *testing.T) {
	t.Run("loan not found", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.fund(t, 99, lender1, "1"); !errors.Is(err, loan.ErrLoanNotFound) {
			t.Fatalf("want ErrLoanNotFound, got %v", err)
		}
	})

	t.Run("zero amount", func(t *testing.T) {
		f := newFixture(t)
		id := f.request10(t)
		if _, err := f.fund(t, id, lender1, "0"); !errors.Is(err, loan.ErrInvalidAmount) {
			t.Fatalf("want ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("at the due date", func(t *testing.T) {
		f := newFixture(t)
		id := f.request10(t)
		f.clk.t = f.clk.t.Add(24 * time.Hour)
		if _, err := f.fund(t, id, lender1, "1"); !errors.Is(err, loan.ErrAlreadyOverdue) {
			t.Fatalf("want ErrAlreadyOverdue, got %v", err)
		}
	})

	t.Run("one second before due", func(t *testing.T) {
		f := newFixture(t)
		id := f.request10(t)
		f.clk.t = f.clk.t.Add(24*time.Hour - time.Second)
		if _, err := f.fund(t, id, lender1, "1"); err != nil {
			t.Fatalf("fund: %v", err)
		}
	})

	t.Run("closed loan", func(t *testing.T) {
		f := newFixture(t)
		id := f.request10(t)
		repo := gormrepo.NewLoanRepository(f.db)
		l, _ := repo.GetByLoanID(context.Background(), id)
		l.MarkLiquidated(f.clk.t)
		if err := repo.Save(context.Background(), l); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if _, err := f.fund(t, id, lender1, "1"); !errors.Is(err, loan.ErrLoanInactive) {
			t.Fatalf("want ErrLoanInactive, got %v", err)
		}
	})
}

func TestReads_LoanNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.uc.Contribution(ctx, 3, lender1); !errors.Is(err, loan.ErrLoanNotFound) {
		t.Fatalf("Contribution: %v", err)
	}
	if _, err := f.uc.Total(ctx, 3); !errors.Is(err, loan.ErrLoanNotFound) {
		t.Fatalf("Total: %v", err)
	}
	if _, err := f.uc.Lenders(ctx, 3); !errors.Is(err, loan.ErrLoanNotFound) {
		t.Fatalf("Lenders: %v", err)
	}
}
