package reputation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"microlend-backend/internal/adapter/repository/gormrepo"
	domain "microlend-backend/internal/domain/reputation"
	"microlend-backend/internal/domain/risk"
	"microlend-backend/internal/testutil/testdb"
)

const (
	admin  = "0x00000000000000000000000000000000000000ad"
	engine = "0x00000000000000000000000000000000000000e0"
	alice  = "0x1111111111111111111111111111111111111111"
	bob    = "0x2222222222222222222222222222222222222222"
)

func newUsecase(t *testing.T) *Usecase {
	t.Helper()
	return NewUsecase(gormrepo.NewBadgeRepository(testdb.Open(t)), admin)
}

func TestTransferControl_ExactlyOnce(t *testing.T) {
	uc := newUsecase(t)

	if err := uc.TransferControl(bob, engine); !errors.Is(err, domain.ErrNotController) {
		t.Fatalf("non-admin: want ErrNotController, got %v", err)
	}
	if err := uc.TransferControl(admin, engine); err != nil {
		t.Fatalf("TransferControl: %v", err)
	}
	if uc.Controller() != engine {
		t.Fatalf("controller = %s", uc.Controller())
	}
	if err := uc.TransferControl(engine, bob); !errors.Is(err, domain.ErrControlAlreadyTransferred) {
		t.Fatalf("second handoff: want ErrControlAlreadyTransferred, got %v", err)
	}
	if err := uc.TransferControl(admin, bob); !errors.Is(err, domain.ErrControlAlreadyTransferred) {
		t.Fatalf("admin after handoff: want ErrControlAlreadyTransferred, got %v", err)
	}
}

func TestTransferControl_ConcurrentCallsOneWins(t *testing.T) {
	uc := newUsecase(t)
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if uc.TransferControl(admin, engine) == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("wins = %d", wins)
	}
}

func TestMintOrUpgrade(t *testing.T) {
	uc := newUsecase(t)
	ctx := context.Background()
	if err := uc.TransferControl(admin, engine); err != nil {
		t.Fatalf("TransferControl: %v", err)
	}

	if _, err := uc.MintOrUpgrade(ctx, nil, admin, alice, risk.CategoryGood); !errors.Is(err, domain.ErrNotController) {
		t.Fatalf("old admin: want ErrNotController, got %v", err)
	}
	if _, err := uc.MintOrUpgrade(ctx, nil, engine, alice, risk.Category(9)); !errors.Is(err, domain.ErrInvalidTier) {
		t.Fatalf("bad tier: want ErrInvalidTier, got %v", err)
	}

	if own, _ := uc.ByOwner(ctx, alice); own.HasMinted {
		t.Fatal("minted before mint")
	}
	b, err := uc.MintOrUpgrade(ctx, nil, engine, alice, risk.CategoryFair)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if b.TokenID != 1 || b.Tier != risk.CategoryFair {
		t.Fatalf("badge = %+v", b)
	}

	worse, err := uc.MintOrUpgrade(ctx, nil, engine, alice, risk.CategoryAtRisk)
	if err != nil || worse.Tier != risk.CategoryFair {
		t.Fatalf("downgrade attempt = %+v, %v", worse, err)
	}
	better, err := uc.MintOrUpgrade(ctx, nil, engine, alice, risk.CategoryExcellent)
	if err != nil || better.Tier != risk.CategoryExcellent || better.TokenID != 1 {
		t.Fatalf("upgrade = %+v, %v", better, err)
	}

	if own, _ := uc.ByOwner(ctx, alice); !own.HasMinted {
		t.Fatal("not minted after mint")
	}
	second, err := uc.MintOrUpgrade(ctx, nil, engine, bob, risk.CategoryGood)
	if err != nil || second.TokenID != 2 {
		t.Fatalf("bob = %+v, %v", second, err)
	}
}

func TestReads(t *testing.T) {
	uc := newUsecase(t)
	ctx := context.Background()
	if _, err := uc.MintOrUpgrade(ctx, nil, admin, alice, risk.CategoryGood); err != nil {
		t.Fatalf("mint: %v", err)
	}

	dto, err := uc.Badge(ctx, 1)
	if err != nil {
		t.Fatalf("Badge: %v", err)
	}
	if dto.Owner != alice || dto.TokenURI != "ipfs://bafkreieb7n674t3apbagyi2tjdpydwockurh5aov72efsjzmkiowpja2ni" {
		t.Fatalf("badge dto = %+v", dto)
	}
	if dto.Level != "Good" || !strings.HasPrefix(dto.GatewayURL, "https://ipfs.io/ipfs/") {
		t.Fatalf("badge dto = %+v", dto)
	}
	if _, err := uc.Badge(ctx, 2); !errors.Is(err, domain.ErrBadgeNotFound) {
		t.Fatalf("Badge(2): %v", err)
	}

	own, err := uc.ByOwner(ctx, alice)
	if err != nil || !own.HasMinted || own.TokenID != 1 || own.Badge == nil {
		t.Fatalf("ByOwner(alice) = %+v, %v", own, err)
	}
	none, err := uc.ByOwner(ctx, bob)
	if err != nil || none.HasMinted || none.TokenID != 0 {
		t.Fatalf("ByOwner(bob) = %+v, %v", none, err)
	}
}

func TestTransfer_AlwaysForbidden(t *testing.T) {
	uc := newUsecase(t)
	ctx := context.Background()
	if _, err := uc.MintOrUpgrade(ctx, nil, admin, alice, risk.CategoryGood); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := uc.Transfer(ctx, alice, bob, 1); !errors.Is(err, domain.ErrBadgeTransferForbidden) {
		t.Fatalf("owner transfer: %v", err)
	}
	if err := uc.Transfer(ctx, admin, bob, 1); !errors.Is(err, domain.ErrBadgeTransferForbidden) {
		t.Fatalf("admin transfer: %v", err)
	}
	if b, _ := uc.Badge(ctx, 1); b.Owner != alice {
		t.Fatalf("owner changed to %s", b.Owner)
	}
}
