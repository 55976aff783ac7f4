package grove

import (
	"context"
	"flag"
	"path/filepath"
	"testing"
	"time"

	"github.com/den-labs/dengrow/internal/grove/authz"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("grove", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "grove.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.CooldownBlocks != 0 || cfg.MaxSupply != 0 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.MinSponsorship != 100_000 || cfg.EarlyAdopterMax != 100 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.BlockInterval != 10*time.Second {
		t.Fatalf("expected 10s block interval, got %v", cfg.BlockInterval)
	}
}

func TestParseConfigFlagOverridesEnv(t *testing.T) {
	t.Setenv("DENGROW_DB_PATH", "/tmp/env.db")
	t.Setenv("DENGROW_COOLDOWN_BLOCKS", "12")

	fs := flag.NewFlagSet("grove", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-db", "/tmp/flag.db"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "/tmp/flag.db" {
		t.Fatalf("expected flag to win, got %q", cfg.DBPath)
	}
	if cfg.CooldownBlocks != 12 {
		t.Fatalf("expected env cooldown, got %d", cfg.CooldownBlocks)
	}
}

func TestOpenBootstrapsAuthorization(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		DBPath:        filepath.Join(t.TempDir(), "grove.db"),
		AdminAddress:  "deployer-addr",
		BlockInterval: time.Second,
	}

	runtime, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = runtime.Close() })

	admin, err := runtime.Authz.Admin(ctx, authz.ModulePlants)
	if err != nil || admin != "deployer-addr" {
		t.Fatalf("expected seeded admin, got %q %v", admin, err)
	}
	for module, grantee := range map[string]authz.Principal{
		authz.ModulePlants: authz.ModulePrincipal(authz.ModuleTokens),
		authz.ModuleImpact: authz.ModulePrincipal(authz.ModuleGrowth),
	} {
		ok, err := runtime.Authz.IsAuthorized(ctx, module, grantee)
		if err != nil || !ok {
			t.Fatalf("expected grant %s -> %s, got %v %v", grantee, module, ok, err)
		}
	}

	// The wired services work end to end through the seeded grants.
	id, err := runtime.Identity.MintFree(ctx, "deployer-addr", "owner-addr")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := runtime.Growth.Water(ctx, "owner-addr", id); err != nil {
		t.Fatalf("water: %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		DBPath:        filepath.Join(t.TempDir(), "grove.db"),
		AdminAddress:  "deployer-addr",
		BlockInterval: time.Second,
	}

	first, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := first.Identity.MintFree(ctx, "deployer-addr", "owner-addr"); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })

	last, err := second.Identity.GetLastTokenID(ctx)
	if err != nil || last != 1 {
		t.Fatalf("expected minted token to survive reopen, got %d %v", last, err)
	}
}
