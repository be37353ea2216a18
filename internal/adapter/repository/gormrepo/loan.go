package gormrepo

import (
	"context"
	"errors"

	loanDomain "microlend-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) NextLoanID(ctx context.Context) (uint64, error) {
	db := r.db.WithContext(ctx)
	seed := &loanDomain.Counter{Name: loanDomain.LoanCounterName}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
		return 0, err
	}
	var c loanDomain.Counter
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", loanDomain.LoanCounterName).
		First(&c).Error; err != nil {
		return 0, err
	}
	next := c.Value
	if err := db.Model(&loanDomain.Counter{}).
		Where("name = ?", loanDomain.LoanCounterName).
		Update("value", next+1).Error; err != nil {
		return 0, err
	}
	return next, nil
}

func (r *LoanRepository) Count(ctx context.Context) (uint64, error) {
	var c loanDomain.Counter
	err := r.db.WithContext(ctx).Where("name = ?", loanDomain.LoanCounterName).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return c.Value, err
}

func (r *LoanRepository) List(ctx context.Context, offset, limit int) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Order("loan_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListByBorrower(ctx context.Context, borrower string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("borrower = ?", borrower).
		Order("loan_id ASC").
		Find(&out)
	return out, res.Error
}
