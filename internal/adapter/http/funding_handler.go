package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"microlend-backend/internal/adapter/middleware"
	"microlend-backend/internal/usecase/funding"
	"microlend-backend/pkg/wei"
)

type FundingHandler struct{ uc *funding.Usecase }

func NewFundingHandler(uc *funding.Usecase) *FundingHandler { return &FundingHandler{uc: uc} }

type amountReq struct {
	LoanID uint64 `param:"loan_id"`
	Amount string `json:"amount" validate:"required,wei"`
}

type lenderPathReq struct {
	LoanID uint64 `param:"loan_id"`
	Lender string `param:"lender" validate:"required,eth_addr"`
}

func (h *FundingHandler) Fund(c echo.Context) error {
	var req amountReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}
	amount, _ := wei.Parse(req.Amount)
	dto, err := h.uc.Fund(c.Request().Context(), funding.FundInput{
		LoanID: req.LoanID,
		Lender: middleware.CallerAddress(c),
		Amount: amount,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *FundingHandler) Total(c echo.Context) error {
	var req loanPathReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	dto, err := h.uc.Total(c.Request().Context(), req.LoanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Contribution is zero for an address that never funded the loan.
func (h *FundingHandler) Contribution(c echo.Context) error {
	var req lenderPathReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}
	lender := lower(req.Lender)
	amount, err := h.uc.Contribution(c.Request().Context(), req.LoanID, lender)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, funding.ContributionDTO{Lender: lender, Amount: amount})
}

func (h *FundingHandler) Lenders(c echo.Context) error {
	var req loanPathReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	ls, err := h.uc.Lenders(c.Request().Context(), req.LoanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loan_id": req.LoanID, "lenders": ls})
}
