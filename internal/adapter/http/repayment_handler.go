package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"microlend-backend/internal/adapter/middleware"
	"microlend-backend/internal/usecase/repayment"
	"microlend-backend/pkg/wei"
)

type RepaymentHandler struct{ uc *repayment.Usecase }

func NewRepaymentHandler(uc *repayment.Usecase) *RepaymentHandler {
	return &RepaymentHandler{uc: uc}
}

func (h *RepaymentHandler) Repay(c echo.Context) error {
	var req amountReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}
	amount, _ := wei.Parse(req.Amount)
	dto, err := h.uc.Repay(c.Request().Context(), repayment.RepayInput{
		LoanID: req.LoanID,
		Payer:  middleware.CallerAddress(c),
		Amount: amount,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *RepaymentHandler) Status(c echo.Context) error {
	var req loanPathReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	dto, err := h.uc.Status(c.Request().Context(), req.LoanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
