package liquidation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"microlend-backend/internal/domain/contribution"
	"microlend-backend/internal/domain/escrow"
	"microlend-backend/internal/domain/loan"
	"microlend-backend/internal/domain/uow"
)

type Crediter interface {
	CreditTx(ctx context.Context, repo escrow.Repository, loanID uint64, credits []escrow.Credit) ([]escrow.Entry, error)
}

type Usecase struct {
	uow    uow.UnitOfWork
	escrow Crediter
	now    func() time.Time
	log    *slog.Logger
}

func NewUsecase(tx uow.UnitOfWork, crediter Crediter) *Usecase {
	return &Usecase{uow: tx, escrow: crediter, now: time.Now, log: slog.Default()}
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

// Liquidate closes an overdue unpaid loan and credits its collateral to the
// lenders by stake. Shares are floored; the remainder goes to the caller so
// the credits always sum to the collateral. repaidAmount is left as is.
func (u *Usecase) Liquidate(ctx context.Context, in LiquidateInput) (*LiquidationDTO, error) {
	var dto *LiquidationDTO

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		now := u.now()
		if !l.Overdue(now) {
			return loan.ErrNotOverdue
		}
		if !l.Active || l.Repaid {
			return loan.ErrAlreadyClosed
		}
		mine, err := r.Contributions.Get(ctx, l.LoanID, in.Caller)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return loan.ErrLiquidationNotAuthorized
		}
		if err != nil {
			return err
		}
		if mine.Amount.Sign() <= 0 {
			return loan.ErrLiquidationNotAuthorized
		}

		cs, err := r.Contributions.ListByLoanID(ctx, l.LoanID)
		if err != nil {
			return err
		}
		shares, rem := contribution.Shares(l.Collateral, l.TotalFunded, cs)

		credits := make([]escrow.Credit, 0, len(cs)+1)
		dto = &LiquidationDTO{
			LoanID:     l.LoanID,
			Caller:     in.Caller,
			Collateral: l.Collateral,
			Shares:     make([]ShareDTO, 0, len(cs)),
			Remainder:  rem,
		}
		for i, c := range cs {
			dto.Shares = append(dto.Shares, ShareDTO{Lender: c.Lender, Amount: shares[i]})
			credits = append(credits, escrow.Credit{Address: c.Lender, Kind: escrow.KindLiquidationShare, Amount: shares[i]})
		}
		if rem.Sign() > 0 {
			credits = append(credits, escrow.Credit{Address: in.Caller, Kind: escrow.KindLiquidationRemainder, Amount: rem})
		}
		if _, err := u.escrow.CreditTx(ctx, r.Escrow, l.LoanID, credits); err != nil {
			return err
		}

		l.MarkLiquidated(now)
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto.State = string(l.State)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("loan liquidated",
		"loan_id", dto.LoanID,
		"caller", dto.Caller,
		"collateral", dto.Collateral.String(),
		"lenders", len(dto.Shares),
		"remainder", dto.Remainder.String(),
	)
	return dto, nil
}
