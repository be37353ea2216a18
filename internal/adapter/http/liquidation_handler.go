package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"microlend-backend/internal/adapter/middleware"
	"microlend-backend/internal/usecase/liquidation"
)

type LiquidationHandler struct{ uc *liquidation.Usecase }

func NewLiquidationHandler(uc *liquidation.Usecase) *LiquidationHandler {
	return &LiquidationHandler{uc: uc}
}

func (h *LiquidationHandler) Liquidate(c echo.Context) error {
	var req loanPathReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	dto, err := h.uc.Liquidate(c.Request().Context(), liquidation.LiquidateInput{
		LoanID: req.LoanID,
		Caller: middleware.CallerAddress(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
