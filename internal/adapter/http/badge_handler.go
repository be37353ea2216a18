package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"microlend-backend/internal/adapter/middleware"
	"microlend-backend/internal/usecase/reputation"
)

type BadgeHandler struct{ uc *reputation.Usecase }

func NewBadgeHandler(uc *reputation.Usecase) *BadgeHandler { return &BadgeHandler{uc: uc} }

type ownerPathReq struct {
	Address string `param:"address" validate:"required,eth_addr"`
}

type tokenPathReq struct {
	TokenID uint64 `param:"token_id"`
}

type transferReq struct {
	TokenID uint64 `param:"token_id"`
	To      string `json:"to" validate:"required,eth_addr"`
}

func (h *BadgeHandler) ByOwner(c echo.Context) error {
	var req ownerPathReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}
	dto, err := h.uc.ByOwner(c.Request().Context(), lower(req.Address))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BadgeHandler) Badge(c echo.Context) error {
	var req tokenPathReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	dto, err := h.uc.Badge(c.Request().Context(), req.TokenID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BadgeHandler) Transfer(c echo.Context) error {
	var req transferReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}
	if err := h.uc.Transfer(c.Request().Context(), middleware.CallerAddress(c), lower(req.To), req.TokenID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
