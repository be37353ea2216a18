package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"microlend-backend/internal/adapter/middleware"
	"microlend-backend/internal/usecase/escrow"
)

type BalanceHandler struct{ uc *escrow.Usecase }

func NewBalanceHandler(uc *escrow.Usecase) *BalanceHandler { return &BalanceHandler{uc: uc} }

type historyReq struct {
	Address string `param:"address" validate:"required,eth_addr"`
	Limit   int    `query:"limit"   validate:"gte=0,lte=500"`
}

func (h *BalanceHandler) Balance(c echo.Context) error {
	var req ownerPathReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}
	dto, err := h.uc.Balance(c.Request().Context(), lower(req.Address))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BalanceHandler) History(c echo.Context) error {
	var req historyReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}
	es, err := h.uc.History(c.Request().Context(), lower(req.Address), req.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"address": lower(req.Address), "entries": es})
}

// Withdraw always drains the caller's own balance.
func (h *BalanceHandler) Withdraw(c echo.Context) error {
	dto, err := h.uc.Withdraw(c.Request().Context(), middleware.CallerAddress(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
