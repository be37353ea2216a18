package funding

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"microlend-backend/internal/domain/contribution"
	"microlend-backend/internal/domain/loan"
	"microlend-backend/internal/domain/uow"
)

type Usecase struct {
	loans         loan.Repository
	contributions contribution.Repository
	uow           uow.UnitOfWork
	now           func() time.Time
	log           *slog.Logger
}

func NewUsecase(loans loan.Repository, contributions contribution.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{loans: loans, contributions: contributions, uow: tx, now: time.Now, log: slog.Default()}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) WithLogger(l *slog.Logger) *Usecase {
	if l != nil {
		u.log = l
	}
	return u
}

// Fund adds amount to the lender's stake. A call that would push the total
// past principal is rejected whole; nothing is clamped.
func (u *Usecase) Fund(ctx context.Context, in FundInput) (*FundDTO, error) {
	var dto *FundDTO
	var becameFunded bool

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if in.Amount.Sign() <= 0 {
			return loan.ErrInvalidAmount
		}
		if !l.Active {
			return loan.ErrLoanInactive
		}
		now := u.now()
		// funding closes at the due date itself
		if !now.Before(l.DueDate) {
			return loan.ErrAlreadyOverdue
		}
		if l.TotalFunded.Add(in.Amount).GreaterThan(l.Principal) {
			return loan.ErrOverFunding
		}

		c, err := r.Contributions.Get(ctx, l.LoanID, in.Lender)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c = &contribution.Contribution{LoanID: l.LoanID, Lender: in.Lender, Amount: in.Amount}
			err = r.Contributions.Create(ctx, c)
		case err == nil:
			c.Amount = c.Amount.Add(in.Amount)
			err = r.Contributions.Save(ctx, c)
		}
		if err != nil {
			return err
		}

		l.TotalFunded = l.TotalFunded.Add(in.Amount)
		prev := l.State
		l.MarkFunded(now)
		becameFunded = prev != l.State
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		dto = &FundDTO{
			LoanID:           l.LoanID,
			Lender:           in.Lender,
			Amount:           in.Amount,
			Contribution:     c.Amount,
			TotalFunded:      l.TotalFunded,
			RemainingFunding: l.RemainingFunding(),
			FullyFunded:      l.FullyFunded(),
			State:            string(l.State),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("loan funded",
		"loan_id", dto.LoanID,
		"lender", dto.Lender,
		"amount", dto.Amount.String(),
		"total_funded", dto.TotalFunded.String(),
	)
	if becameFunded {
		u.log.Info("loan fully funded", "loan_id", dto.LoanID)
	}
	return dto, nil
}

func (u *Usecase) getLoan(ctx context.Context, loanID uint64) (*loan.Loan, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loan.ErrLoanNotFound
	}
	return l, err
}

// Contribution is zero for a lender that never funded the loan.
func (u *Usecase) Contribution(ctx context.Context, loanID uint64, lender string) (decimal.Decimal, error) {
	if _, err := u.getLoan(ctx, loanID); err != nil {
		return decimal.Zero, err
	}
	c, err := u.contributions.Get(ctx, loanID, lender)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return c.Amount, nil
}

func (u *Usecase) Total(ctx context.Context, loanID uint64) (*TotalDTO, error) {
	l, err := u.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return &TotalDTO{
		LoanID:      l.LoanID,
		Principal:   l.Principal,
		TotalFunded: l.TotalFunded,
		FullyFunded: l.FullyFunded(),
	}, nil
}

// Lenders is in first-contribution order.
func (u *Usecase) Lenders(ctx context.Context, loanID uint64) ([]ContributionDTO, error) {
	if _, err := u.getLoan(ctx, loanID); err != nil {
		return nil, err
	}
	cs, err := u.contributions.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	out := make([]ContributionDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, ContributionDTO{Lender: c.Lender, Amount: c.Amount})
	}
	return out, nil
}
