package repayment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"microlend-backend/internal/domain/contribution"
	"microlend-backend/internal/domain/escrow"
	"microlend-backend/internal/domain/loan"
	"microlend-backend/internal/domain/reputation"
	"microlend-backend/internal/domain/risk"
	"microlend-backend/internal/domain/uow"
)

// BadgeIssuer mints or upgrades a borrower's badge inside the caller's tx.
type BadgeIssuer interface {
	MintOrUpgrade(ctx context.Context, repo reputation.Repository, caller, owner string, tier risk.Category) (*reputation.Badge, error)
}

// Crediter credits lender balances inside the caller's tx.
type Crediter interface {
	CreditTx(ctx context.Context, repo escrow.Repository, loanID uint64, credits []escrow.Credit) ([]escrow.Entry, error)
}

type Usecase struct {
	loans  loan.Repository
	uow    uow.UnitOfWork
	badges BadgeIssuer
	escrow Crediter
	engine string
	now    func() time.Time
	log    *slog.Logger
}

// NewUsecase wires the processor. engine is the address the badge registry
// recognises as its controller.
func NewUsecase(loans loan.Repository, tx uow.UnitOfWork, badges BadgeIssuer, crediter Crediter, engine string) *Usecase {
	return &Usecase{
		loans:  loans,
		uow:    tx,
		badges: badges,
		escrow: crediter,
		engine: engine,
		now:    time.Now,
		log:    slog.Default(),
	}
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

// Repay accepts a partial or final payment from any payer. The payment is
// split across lenders by stake; the last payment closes the loan and
// records the borrower's badge in the same transaction.
func (u *Usecase) Repay(ctx context.Context, in RepayInput) (*RepaymentDTO, error) {
	var dto *RepaymentDTO

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if in.Amount.Sign() <= 0 {
			return loan.ErrInvalidAmount
		}
		if !l.FullyFunded() {
			return loan.ErrNotFullyFunded
		}
		if l.Repaid {
			return loan.ErrAlreadyRepaid
		}
		if !l.Active {
			return loan.ErrLoanInactive
		}
		required := l.RequiredRepayment()
		if l.RepaidAmount.Add(in.Amount).GreaterThan(required) {
			return loan.ErrOverRepayment
		}

		cs, err := r.Contributions.ListByLoanID(ctx, l.LoanID)
		if err != nil {
			return err
		}
		credits := splitRepayment(in, l, cs)
		if _, err := u.escrow.CreditTx(ctx, r.Escrow, l.LoanID, credits); err != nil {
			return err
		}

		l.RepaidAmount = l.RepaidAmount.Add(in.Amount)
		dto = &RepaymentDTO{
			LoanID:            l.LoanID,
			Payer:             in.Payer,
			Amount:            in.Amount,
			RequiredRepayment: required,
			Shares:            make([]ShareDTO, 0, len(credits)),
		}
		for _, c := range credits {
			dto.Shares = append(dto.Shares, ShareDTO{Lender: c.Address, Amount: c.Amount})
		}

		if l.RepaidAmount.Equal(required) {
			l.MarkRepaid(u.now())
			b, err := u.badges.MintOrUpgrade(ctx, r.Badges, u.engine, l.Borrower, l.RiskCategory)
			if err != nil {
				return err
			}
			dto.Badge = &BadgeDTO{TokenID: b.TokenID, Owner: b.Owner, Tier: b.Tier}
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		dto.RepaidAmount = l.RepaidAmount
		dto.Remaining = l.RemainingRepayment()
		dto.Repaid = l.Repaid
		dto.State = string(l.State)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("loan repayment",
		"loan_id", dto.LoanID,
		"payer", dto.Payer,
		"amount", dto.Amount.String(),
		"repaid_amount", dto.RepaidAmount.String(),
		"remaining", dto.Remaining.String(),
	)
	if dto.Repaid {
		u.log.Info("loan repaid", "loan_id", dto.LoanID, "badge_token_id", dto.Badge.TokenID, "tier", uint8(dto.Badge.Tier))
	}
	return dto, nil
}

// splitRepayment floors each lender's share; the remainder goes to the
// earliest lender.
func splitRepayment(in RepayInput, l *loan.Loan, cs []contribution.Contribution) []escrow.Credit {
	shares, rem := contribution.Shares(in.Amount, l.TotalFunded, cs)
	credits := make([]escrow.Credit, 0, len(cs))
	for i, c := range cs {
		amt := shares[i]
		if i == 0 {
			amt = amt.Add(rem)
		}
		if amt.IsZero() {
			continue
		}
		credits = append(credits, escrow.Credit{Address: c.Lender, Kind: escrow.KindRepaymentShare, Amount: amt})
	}
	return credits
}

func (u *Usecase) Status(ctx context.Context, loanID uint64) (*StatusDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loan.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &StatusDTO{
		LoanID:              l.LoanID,
		RiskCategory:        l.RiskCategory,
		InterestRatePercent: risk.InterestRatePercent(l.RiskCategory),
		RequiredRepayment:   l.RequiredRepayment(),
		RepaidAmount:        l.RepaidAmount,
		Remaining:           l.RemainingRepayment(),
		Repaid:              l.Repaid,
	}, nil
}
