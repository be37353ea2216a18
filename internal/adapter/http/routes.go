package http

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Health      *Handler
	Loans       *LoanHandler
	Funding     *FundingHandler
	Repayment   *RepaymentHandler
	Liquidation *LiquidationHandler
	Badges      *BadgeHandler
	Balances    *BalanceHandler
}

// Register mounts the public routes directly and everything else behind
// auth. idem wraps the mutating routes and may be nil.
func Register(e *echo.Echo, h Handlers, auth echo.MiddlewareFunc, idem echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)
	e.GET("/risk/quote", h.Loans.Quote)
	e.GET("/badges/:token_id", h.Badges.Badge)

	mw := []echo.MiddlewareFunc{auth}
	if idem != nil {
		mw = append(mw, idem)
	}
	g := e.Group("", mw...)

	g.POST("/loans", h.Loans.CreateLoan)
	g.GET("/loans", h.Loans.ListLoans)
	g.GET("/loans/count", h.Loans.CountLoans)
	g.GET("/loans/:loan_id", h.Loans.GetLoan)

	g.POST("/loans/:loan_id/fund", h.Funding.Fund)
	g.GET("/loans/:loan_id/contributions", h.Funding.Total)
	g.GET("/loans/:loan_id/contributions/:lender", h.Funding.Contribution)
	g.GET("/loans/:loan_id/lenders", h.Funding.Lenders)

	g.GET("/loans/:loan_id/repayment", h.Repayment.Status)
	g.POST("/loans/:loan_id/repay", h.Repayment.Repay)

	g.POST("/loans/:loan_id/liquidate", h.Liquidation.Liquidate)

	g.GET("/badges/owners/:address", h.Badges.ByOwner)
	g.POST("/badges/:token_id/transfer", h.Badges.Transfer)

	g.GET("/balances/:address", h.Balances.Balance)
	g.GET("/balances/:address/entries", h.Balances.History)
	g.POST("/balances/withdraw", h.Balances.Withdraw)
}
