package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const callerKey = "caller_address"

var reAddress = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrBadAddress   = errors.New("token address is not a 0x-prefixed 20-byte hex address")
)

// Claims identifies the caller by on-ledger address.
type Claims struct {
	Address string `json:"address"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 caller tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (ti *TokenIssuer) Sign(address string) (string, error) {
	if !reAddress.MatchString(address) {
		return "", ErrBadAddress
	}
	now := ti.now()
	claims := &Claims{
		Address: strings.ToLower(address),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strings.ToLower(address),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return s, nil
}

func (ti *TokenIssuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ti.secret, nil
	}, jwt.WithTimeFunc(ti.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !reAddress.MatchString(claims.Address) {
		return nil, ErrBadAddress
	}
	claims.Address = strings.ToLower(claims.Address)
	return claims, nil
}

// CallerAuth requires "Authorization: Bearer <token>" and stores the
// lower-cased caller address on the context.
func CallerAuth(ti *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": ErrMissingToken.Error(), "code": "Unauthorized"})
			}
			claims, err := ti.Parse(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token", "code": "Unauthorized"})
			}
			c.Set(callerKey, claims.Address)
			return next(c)
		}
	}
}

// CallerAddress is empty on routes without CallerAuth.
func CallerAddress(c echo.Context) string {
	s, _ := c.Get(callerKey).(string)
	return s
}

func bearer(h string) (string, bool) {
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}
