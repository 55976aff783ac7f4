package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/den-labs/dengrow/internal/grove/authz"
	"github.com/den-labs/dengrow/internal/grove/domain/badge"
	"github.com/den-labs/dengrow/internal/grove/domain/token"
	"github.com/den-labs/dengrow/internal/grove/storage/sqlite"
	apperrors "github.com/den-labs/dengrow/internal/platform/errors"
)

const (
	testAdmin  = authz.Principal("admin-addr")
	testOwner  = authz.Principal("owner-addr")
	testOther  = authz.Principal("other-addr")
	testWallet = 10_000_000
)

type testEnv struct {
	store    *sqlite.Store
	authz    *AuthzService
	plants   *PlantService
	growth   *GrowthService
	identity *IdentityService
	impact   *ImpactService
	treasury *TreasuryService
	badges   *BadgeService
}

// newTestEnv opens a fresh ledger, seeds the module admins and cross-module
// grants the runner would seed, and funds the common test wallets.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "grove.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	modules := []string{
		authz.ModulePlants, authz.ModuleGrowth, authz.ModuleTokens,
		authz.ModuleImpact, authz.ModuleTreasury, authz.ModuleBadges,
	}
	for _, module := range modules {
		if err := store.SetModuleAdmin(ctx, module, testAdmin); err != nil {
			t.Fatalf("seed admin for %s: %v", module, err)
		}
	}
	grants := []authz.Grant{
		{Module: authz.ModulePlants, Grantee: authz.ModulePrincipal(authz.ModuleGrowth)},
		{Module: authz.ModulePlants, Grantee: authz.ModulePrincipal(authz.ModuleTokens)},
		{Module: authz.ModuleImpact, Grantee: authz.ModulePrincipal(authz.ModuleGrowth)},
		{Module: authz.ModuleImpact, Grantee: authz.ModulePrincipal(authz.ModuleTreasury)},
	}
	for _, g := range grants {
		if err := store.AddGrant(ctx, g); err != nil {
			t.Fatalf("seed grant %s -> %s: %v", g.Grantee, g.Module, err)
		}
	}
	for _, addr := range []authz.Principal{testAdmin, testOwner, testOther} {
		if err := store.CreditWallet(ctx, string(addr), testWallet); err != nil {
			t.Fatalf("fund wallet %s: %v", addr, err)
		}
	}

	tiers, err := token.LoadTierCatalog("")
	if err != nil {
		t.Fatalf("load tiers: %v", err)
	}
	badges, err := badge.LoadCatalog("")
	if err != nil {
		t.Fatalf("load badges: %v", err)
	}

	impactSvc := NewImpactService(store, 100_000)
	return &testEnv{
		store:    store,
		authz:    NewAuthzService(store),
		plants:   NewPlantService(store),
		growth:   NewGrowthService(store, 0),
		identity: NewIdentityService(store, tiers, 0),
		impact:   impactSvc,
		treasury: NewTreasuryService(store, impactSvc),
		badges:   NewBadgeService(store, badges, 10),
	}
}

// mintFor mints a free token to the owner and returns its id.
func (env *testEnv) mintFor(t *testing.T, owner authz.Principal) uint64 {
	t.Helper()
	id, err := env.identity.MintFree(context.Background(), testAdmin, string(owner))
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return id
}

// growToTree waters a token to the terminal stage on behalf of its owner.
func (env *testEnv) growToTree(t *testing.T, owner authz.Principal, tokenID uint64) {
	t.Helper()
	for i := 0; i < 7; i++ {
		if _, err := env.growth.Water(context.Background(), owner, tokenID); err != nil {
			t.Fatalf("water %d: %v", i+1, err)
		}
	}
}

// wantCode asserts err carries the given code.
func wantCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	if got := apperrors.GetCode(err); got != code {
		t.Fatalf("expected %s, got %s (%v)", code, got, err)
	}
}
