package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"microlend-backend/internal/adapter/middleware"
	"microlend-backend/internal/usecase/loan"
	"microlend-backend/pkg/wei"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

// Either duration_seconds or duration with duration_unit.
type createLoanReq struct {
	Principal       string `json:"principal"        validate:"required,wei"`
	Collateral      string `json:"collateral"       validate:"required,wei"`
	DurationSeconds int64  `json:"duration_seconds" validate:"required_without=Duration,gte=0"`
	Duration        int64  `json:"duration"         validate:"gte=0"`
	DurationUnit    string `json:"duration_unit"    validate:"required_with=Duration,omitempty,durunit"`
}

type loanPathReq struct {
	LoanID uint64 `param:"loan_id"`
}

type listLoansReq struct {
	Borrower string `query:"borrower" validate:"omitempty,eth_addr"`
	Offset   int    `query:"offset"   validate:"gte=0"`
	Limit    int    `query:"limit"    validate:"gte=0,lte=100"`
}

type quoteReq struct {
	Principal  string `query:"principal"  validate:"required,wei"`
	Collateral string `query:"collateral" validate:"required,wei"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}
	principal, _ := wei.Parse(req.Principal)
	collateral, _ := wei.Parse(req.Collateral)

	secs := req.DurationSeconds
	if secs == 0 {
		var err error
		if secs, err = loan.DurationSeconds(req.Duration, loan.DurationUnit(req.DurationUnit)); err != nil {
			return respondError(c, err)
		}
	}

	dto, err := h.uc.Request(c.Request().Context(), loan.RequestLoanInput{
		Borrower:        middleware.CallerAddress(c),
		Principal:       principal,
		Collateral:      collateral,
		DurationSeconds: secs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) CountLoans(c echo.Context) error {
	n, err := h.uc.Count(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]uint64{"count": n})
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	var req loanPathReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	dto, err := h.uc.Get(c.Request().Context(), req.LoanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ListLoans pages through all loans, or returns every loan of ?borrower=.
func (h *LoanHandler) ListLoans(c echo.Context) error {
	var req listLoansReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}
	ctx := c.Request().Context()
	if req.Borrower != "" {
		ls, err := h.uc.ListByBorrower(ctx, lower(req.Borrower))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, loan.ListDTO{Total: uint64(len(ls)), Loans: ls})
	}
	dto, err := h.uc.List(ctx, req.Offset, req.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Quote(c echo.Context) error {
	var req quoteReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return invalid(c, err)
	}
	principal, _ := wei.Parse(req.Principal)
	collateral, _ := wei.Parse(req.Collateral)
	dto, err := h.uc.Quote(principal, collateral)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
