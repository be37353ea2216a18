package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"microlend-backend/internal/domain/escrow"
	"microlend-backend/internal/domain/loan"
	"microlend-backend/internal/domain/reputation"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorTable = []errorMapping{
	{loan.ErrLoanNotFound, http.StatusNotFound, "LoanNotFound"},
	{reputation.ErrBadgeNotFound, http.StatusNotFound, "BadgeNotFound"},

	{loan.ErrInvalidAmount, http.StatusUnprocessableEntity, "InvalidAmount"},
	{loan.ErrInvalidDuration, http.StatusUnprocessableEntity, "InvalidDuration"},
	{loan.ErrInsufficientCollateral, http.StatusUnprocessableEntity, "InsufficientCollateral"},
	{loan.ErrLoanInactive, http.StatusUnprocessableEntity, "LoanInactive"},
	{loan.ErrAlreadyOverdue, http.StatusUnprocessableEntity, "AlreadyOverdue"},
	{loan.ErrOverFunding, http.StatusUnprocessableEntity, "OverFunding"},
	{loan.ErrNotFullyFunded, http.StatusUnprocessableEntity, "NotFullyFunded"},
	{loan.ErrAlreadyRepaid, http.StatusUnprocessableEntity, "AlreadyRepaid"},
	{loan.ErrOverRepayment, http.StatusUnprocessableEntity, "OverRepayment"},
	{loan.ErrNotOverdue, http.StatusUnprocessableEntity, "NotOverdue"},
	{loan.ErrAlreadyClosed, http.StatusUnprocessableEntity, "AlreadyClosed"},
	{escrow.ErrNothingToWithdraw, http.StatusUnprocessableEntity, "NothingToWithdraw"},
	{reputation.ErrInvalidTier, http.StatusUnprocessableEntity, "InvalidTier"},

	{loan.ErrLiquidationNotAuthorized, http.StatusForbidden, "LiquidationNotAuthorized"},
	{reputation.ErrBadgeTransferForbidden, http.StatusForbidden, "BadgeTransferForbidden"},
	{reputation.ErrNotController, http.StatusForbidden, "NotController"},
	{reputation.ErrControlAlreadyTransferred, http.StatusConflict, "ControlAlreadyTransferred"},
}

// statusFor returns the HTTP status and stable code for err. Unknown errors
// are internal.
func statusFor(err error) (int, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "Internal"
}

// respondError writes the JSON error body for a usecase error. Internal
// errors are logged and not echoed to the client.
func respondError(c echo.Context, err error) error {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request().Method, "path", c.Path(), "err", err)
		return c.JSON(status, ErrorResponse{Error: "internal error", Code: code})
	}
	return c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: "BadRequest"})
}

func invalid(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Code:    "ValidationFailed",
		Details: ToFieldErrors(err),
	})
}
