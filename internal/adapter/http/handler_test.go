package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"microlend-backend/internal/domain/escrow"
	"microlend-backend/internal/domain/loan"
	"microlend-backend/internal/domain/reputation"
)

func TestHealth_ReturnsOKWithRFC3339NanoUTC(t *testing.T) {
	e := echo.New()
	fixed := time.Date(2025, 9, 6, 10, 0, 0, 123, time.FixedZone("WIB", 7*3600))
	h := &Handler{now: func() time.Time { return fixed }}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	ct := rec.Header().Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}

	var body struct {
		Status string `json:"status"`
		Time   string `json:"time"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v; raw=%s", err, rec.Body.String())
	}
	if body.Status != "ok" {
		t.Fatalf(`expected status "ok", got %q`, body.Status)
	}
	if body.Time != "2025-09-06T03:00:00.000000123Z" {
		t.Fatalf("time = %q, want UTC RFC3339Nano", body.Time)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{loan.ErrLoanNotFound, http.StatusNotFound, "LoanNotFound"},
		{reputation.ErrBadgeNotFound, http.StatusNotFound, "BadgeNotFound"},
		{loan.ErrOverFunding, http.StatusUnprocessableEntity, "OverFunding"},
		{fmt.Errorf("fund loan 7: %w", loan.ErrAlreadyOverdue), http.StatusUnprocessableEntity, "AlreadyOverdue"},
		{loan.ErrNotFullyFunded, http.StatusUnprocessableEntity, "NotFullyFunded"},
		{escrow.ErrNothingToWithdraw, http.StatusUnprocessableEntity, "NothingToWithdraw"},
		{loan.ErrLiquidationNotAuthorized, http.StatusForbidden, "LiquidationNotAuthorized"},
		{reputation.ErrBadgeTransferForbidden, http.StatusForbidden, "BadgeTransferForbidden"},
		{reputation.ErrControlAlreadyTransferred, http.StatusConflict, "ControlAlreadyTransferred"},
		{errors.New("connection reset"), http.StatusInternalServerError, "Internal"},
	}
	for _, tc := range cases {
		status, code := statusFor(tc.err)
		if status != tc.status || code != tc.code {
			t.Fatalf("statusFor(%v) = %d %s, want %d %s", tc.err, status, code, tc.status, tc.code)
		}
	}
}

func TestRespondError_HidesInternalErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := respondError(c, errors.New("dial tcp 10.0.0.3:3306: refused")); err != nil {
		t.Fatalf("respondError: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.3") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
}
