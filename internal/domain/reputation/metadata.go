package reputation

import (
	"strings"

	"microlend-backend/internal/domain/risk"
)

// Metadata is the immutable content published for a tier.
type Metadata struct {
	Tier        risk.Category `json:"tier"`
	Level       string        `json:"level"`
	Description string        `json:"description"`
	CID         string        `json:"cid"`
}

const (
	ipfsScheme  = "ipfs://"
	ipfsGateway = "https://ipfs.io/ipfs/"
)

var tierMetadata = map[risk.Category]Metadata{
	risk.CategoryExcellent: {
		Tier:        risk.CategoryExcellent,
		Level:       "Excellent",
		Description: "Extremely strong credit worthiness and high collateral coverage.",
		CID:         "bafkreibgwf4vwoo2fd6cod7n46ulzvulb5g4yhsrndpzrfez4qjypzhasu",
	},
	risk.CategoryGood: {
		Tier:        risk.CategoryGood,
		Level:       "Good",
		Description: "Responsible borrower with solid collateral backing and good repayment history.",
		CID:         "bafkreieb7n674t3apbagyi2tjdpydwockurh5aov72efsjzmkiowpja2ni",
	},
	risk.CategoryFair: {
		Tier:        risk.CategoryFair,
		Level:       "Fair",
		Description: "Moderate risk borrower with acceptable collateral and little repayment history.",
		CID:         "bafkreigqafvd7ldbhq6uatj56rrwxnnf7f4n5oj3dmxt6bojfdfqt7st64",
	},
	risk.CategoryAtRisk: {
		Tier:        risk.CategoryAtRisk,
		Level:       "At Risk",
		Description: "Higher risk borrower based on low collateral availability.",
		CID:         "bafkreihjyhufpplgeeik53f6nsyzih7holxkz73dvukk3boctph3swaljq",
	},
}

// MetadataFor returns the fixed metadata of a tier.
func MetadataFor(t risk.Category) (Metadata, bool) {
	m, ok := tierMetadata[t]
	return m, ok
}

func (m Metadata) URI() string { return ipfsScheme + m.CID }

// GatewayURL rewrites an ipfs:// URI to the public HTTP gateway. Other URIs
// are returned unchanged.
func GatewayURL(uri string) string {
	if strings.HasPrefix(uri, ipfsScheme) {
		return ipfsGateway + strings.TrimPrefix(uri, ipfsScheme)
	}
	return uri
}
