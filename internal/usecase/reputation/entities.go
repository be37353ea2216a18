package reputation

import (
	"microlend-backend/internal/domain/risk"
)

type BadgeDTO struct {
	TokenID     uint64        `json:"token_id"`
	Owner       string        `json:"owner"`
	Tier        risk.Category `json:"tier"`
	Level       string        `json:"level"`
	Description string        `json:"description"`
	TokenURI    string        `json:"token_uri"`
	GatewayURL  string        `json:"gateway_url"`
}

// OwnerDTO answers hasMinted and tokenIdByOwner in one read. TokenID is 0
// when nothing was minted.
type OwnerDTO struct {
	Address   string    `json:"address"`
	HasMinted bool      `json:"has_minted"`
	TokenID   uint64    `json:"token_id"`
	Badge     *BadgeDTO `json:"badge,omitempty"`
}
