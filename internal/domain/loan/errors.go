package loan

import "errors"

var (
	ErrInvalidAmount            = errors.New("amount must be greater than zero")
	ErrInvalidDuration          = errors.New("duration must be greater than zero")
	ErrInsufficientCollateral   = errors.New("collateral must be at least 10% of principal")
	ErrLoanNotFound             = errors.New("loan not found")
	ErrLoanInactive             = errors.New("loan is no longer active")
	ErrAlreadyOverdue           = errors.New("loan is past its due date")
	ErrOverFunding              = errors.New("funding would exceed loan principal")
	ErrNotFullyFunded           = errors.New("loan is not fully funded")
	ErrAlreadyRepaid            = errors.New("loan already repaid")
	ErrOverRepayment            = errors.New("payment exceeds remaining repayment")
	ErrNotOverdue               = errors.New("loan is not overdue")
	ErrLiquidationNotAuthorized = errors.New("only a contributing lender may liquidate")
	ErrAlreadyClosed            = errors.New("loan already closed")
)
