package loan

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"microlend-backend/internal/domain/loan"
	"microlend-backend/internal/domain/risk"
	"microlend-backend/internal/domain/uow"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Usecase struct {
	repo loan.Repository
	uow  uow.UnitOfWork
	now  func() time.Time
	log  *slog.Logger
}

func NewUsecase(r loan.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: r, uow: tx, now: time.Now, log: slog.Default()}
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

// Quote previews the terms Request would freeze. Advisory only: Request
// recomputes everything from the submitted amounts.
func (u *Usecase) Quote(principal, collateral decimal.Decimal) (*QuoteDTO, error) {
	if principal.Sign() <= 0 || collateral.Sign() < 0 {
		return nil, loan.ErrInvalidAmount
	}
	c := risk.CategoryFor(collateral, principal)
	return &QuoteDTO{
		Principal:            principal,
		Collateral:           collateral,
		RatioPercent:         risk.Ratio(collateral, principal),
		RiskCategory:         c,
		InterestRatePercent:  risk.InterestRatePercent(c),
		RequiredRepayment:    risk.RequiredRepayment(principal, c),
		MinCollateral:        risk.MinCollateral(principal),
		MeetsCollateralFloor: risk.MeetsCollateralFloor(collateral, principal),
	}, nil
}

func (u *Usecase) Request(ctx context.Context, in RequestLoanInput) (*LoanDTO, error) {
	if in.Principal.Sign() <= 0 || in.Collateral.Sign() < 0 {
		return nil, loan.ErrInvalidAmount
	}
	if in.DurationSeconds <= 0 || in.DurationSeconds > MaxDurationSeconds {
		return nil, loan.ErrInvalidDuration
	}
	if !risk.MeetsCollateralFloor(in.Collateral, in.Principal) {
		return nil, loan.ErrInsufficientCollateral
	}

	now := u.now().UTC()
	category := risk.CategoryFor(in.Collateral, in.Principal)
	var l *loan.Loan

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		loanID, err := r.Loans.NextLoanID(ctx)
		if err != nil {
			return err
		}
		l = &loan.Loan{
			LoanID:         loanID,
			Borrower:       in.Borrower,
			Principal:      in.Principal,
			Collateral:     in.Collateral,
			DueDate:        now.Add(time.Duration(in.DurationSeconds) * time.Second),
			RiskCategory:   category,
			RepaidAmount:   decimal.Zero,
			TotalFunded:    decimal.Zero,
			Active:         true,
			State:          loan.StateRequested,
			StateUpdatedAt: now,
		}
		return r.Loans.Create(ctx, l)
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("loan requested",
		"loan_id", l.LoanID,
		"borrower", l.Borrower,
		"principal", l.Principal.String(),
		"collateral", l.Collateral.String(),
		"risk_category", uint8(category),
		"due_date", l.DueDate,
	)
	dto := toDTO(l, now)
	return &dto, nil
}

func (u *Usecase) Get(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loan.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}
	dto := toDTO(l, u.now())
	return &dto, nil
}

// Count is the number of loans ever created; ids are [0, Count).
func (u *Usecase) Count(ctx context.Context) (uint64, error) {
	return u.repo.Count(ctx)
}

func (u *Usecase) List(ctx context.Context, offset, limit int) (*ListDTO, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	total, err := u.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	ls, err := u.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return &ListDTO{Total: total, Loans: u.toDTOs(ls)}, nil
}

func (u *Usecase) ListByBorrower(ctx context.Context, borrower string) ([]LoanDTO, error) {
	ls, err := u.repo.ListByBorrower(ctx, borrower)
	if err != nil {
		return nil, err
	}
	return u.toDTOs(ls), nil
}

func (u *Usecase) toDTOs(ls []loan.Loan) []LoanDTO {
	now := u.now()
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, toDTO(&ls[i], now))
	}
	return out
}
