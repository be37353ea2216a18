package reputation

import (
	"strings"
	"testing"

	"microlend-backend/internal/domain/risk"
)

func TestImprove_NeverDowngrades(t *testing.T) {
	b := &Badge{Tier: risk.CategoryFair}
	if b.Improve(risk.CategoryAtRisk) {
		t.Fatal("worse tier must not apply")
	}
	if b.Improve(risk.CategoryFair) {
		t.Fatal("equal tier is not an improvement")
	}
	if !b.Improve(risk.CategoryExcellent) || b.Tier != risk.CategoryExcellent {
		t.Fatalf("better tier must apply, got %d", b.Tier)
	}
}

func TestMetadata_FourDistinctImmutableURIs(t *testing.T) {
	seen := map[string]risk.Category{}
	for tier := risk.CategoryExcellent; tier <= risk.CategoryAtRisk; tier++ {
		m, ok := MetadataFor(tier)
		if !ok {
			t.Fatalf("no metadata for tier %d", tier)
		}
		uri := m.URI()
		if !strings.HasPrefix(uri, "ipfs://bafkrei") {
			t.Fatalf("tier %d uri = %q", tier, uri)
		}
		if prev, dup := seen[uri]; dup {
			t.Fatalf("tiers %d and %d share %q", prev, tier, uri)
		}
		seen[uri] = tier
	}
	if _, ok := MetadataFor(5); ok {
		t.Fatal("tier 5 must have no metadata")
	}
	if m, _ := MetadataFor(risk.CategoryAtRisk); m.Level != "At Risk" {
		t.Fatalf("level = %q", m.Level)
	}
}

func TestGatewayURL(t *testing.T) {
	if got := GatewayURL("ipfs://abc"); got != "https://ipfs.io/ipfs/abc" {
		t.Fatalf("got %q", got)
	}
	if got := GatewayURL("https://x/y"); got != "https://x/y" {
		t.Fatalf("got %q", got)
	}
}

func TestBadge_NotTransferable(t *testing.T) {
	if (Badge{}).Transferable() {
		t.Fatal("badges are soulbound")
	}
}
