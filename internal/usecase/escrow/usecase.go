package escrow

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "microlend-backend/internal/domain/escrow"
	"microlend-backend/internal/domain/uow"
	"microlend-backend/pkg/id"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type Usecase struct {
	repo domain.Repository
	uow  uow.UnitOfWork
	log  *slog.Logger
}

func NewUsecase(r domain.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: r, uow: tx, log: slog.Default()}
}

func (u *Usecase) WithLogger(l *slog.Logger) *Usecase {
	if l != nil {
		u.log = l
	}
	return u
}

// CreditTx applies credits inside the caller's transaction. Balance rows are
// locked in address order so concurrent loans never deadlock on a shared
// lender. Zero credits are skipped.
func (u *Usecase) CreditTx(ctx context.Context, repo domain.Repository, loanID uint64, credits []domain.Credit) ([]domain.Entry, error) {
	addrs := make([]string, 0, len(credits))
	seen := make(map[string]bool, len(credits))
	for _, c := range credits {
		if c.Amount.Sign() < 0 {
			return nil, errors.New("escrow: negative credit")
		}
		if c.Amount.IsZero() || seen[c.Address] {
			continue
		}
		seen[c.Address] = true
		addrs = append(addrs, c.Address)
	}
	sort.Strings(addrs)

	balances := make(map[string]*domain.Balance, len(addrs))
	for _, a := range addrs {
		b, err := repo.GetBalanceForUpdate(ctx, a)
		if err != nil {
			return nil, err
		}
		balances[a] = b
	}

	entries := make([]domain.Entry, 0, len(credits))
	for _, c := range credits {
		if c.Amount.IsZero() {
			continue
		}
		b := balances[c.Address]
		b.Amount = b.Amount.Add(c.Amount)
		lid := loanID
		e := domain.Entry{
			EntryID:      id.NewID32(),
			Address:      c.Address,
			LoanID:       &lid,
			Kind:         c.Kind,
			Amount:       c.Amount,
			BalanceAfter: b.Amount,
		}
		if err := repo.CreateEntry(ctx, &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	for _, a := range addrs {
		if err := repo.SaveBalance(ctx, balances[a]); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// Balance is zero for an address that was never credited.
func (u *Usecase) Balance(ctx context.Context, address string) (*BalanceDTO, error) {
	b, err := u.repo.GetBalance(ctx, address)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &BalanceDTO{Address: address, Amount: decimal.Zero}, nil
	}
	if err != nil {
		return nil, err
	}
	return &BalanceDTO{Address: b.Address, Amount: b.Amount}, nil
}

// Withdraw zeroes the caller's balance and returns the amount owed. The
// payout itself happens outside the core.
func (u *Usecase) Withdraw(ctx context.Context, address string) (*WithdrawalDTO, error) {
	var dto *WithdrawalDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		b, err := r.Escrow.GetBalanceForUpdate(ctx, address)
		if err != nil {
			return err
		}
		if b.Amount.Sign() <= 0 {
			return domain.ErrNothingToWithdraw
		}
		amount := b.Amount
		b.Amount = decimal.Zero
		if err := r.Escrow.SaveBalance(ctx, b); err != nil {
			return err
		}
		e := &domain.Entry{
			EntryID:      id.NewID32(),
			Address:      address,
			Kind:         domain.KindWithdrawal,
			Amount:       amount,
			BalanceAfter: decimal.Zero,
		}
		if err := r.Escrow.CreateEntry(ctx, e); err != nil {
			return err
		}
		dto = &WithdrawalDTO{EntryID: e.EntryID, Address: address, Amount: amount, At: e.CreatedAt}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("escrow withdrawal", "address", address, "amount", dto.Amount.String(), "entry_id", dto.EntryID)
	return dto, nil
}

func (u *Usecase) History(ctx context.Context, address string, limit int) ([]domain.Entry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return u.repo.ListEntries(ctx, address, limit)
}
