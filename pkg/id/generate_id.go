package id

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID32 returns a random (v4) UUID rendered as exactly 32 lowercase hex
// characters, no separators.
func NewID32() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
