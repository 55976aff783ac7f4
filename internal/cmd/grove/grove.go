// Package grove parses grove runner flags and launches the ledger runtime.
package grove

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/den-labs/dengrow/internal/grove/authz"
	"github.com/den-labs/dengrow/internal/grove/domain/badge"
	"github.com/den-labs/dengrow/internal/grove/domain/token"
	"github.com/den-labs/dengrow/internal/grove/service"
	"github.com/den-labs/dengrow/internal/grove/storage"
	"github.com/den-labs/dengrow/internal/grove/storage/sqlite"
	entrypoint "github.com/den-labs/dengrow/internal/platform/cmd"
)

// Config holds grove runner configuration.
type Config struct {
	DBPath           string        `env:"DENGROW_DB_PATH" envDefault:"grove.db"`
	AdminAddress     string        `env:"DENGROW_ADMIN_ADDR" envDefault:"admin"`
	CooldownBlocks   uint64        `env:"DENGROW_COOLDOWN_BLOCKS" envDefault:"0"`
	EarlyAdopterMax  uint64        `env:"DENGROW_EARLY_ADOPTER_MAX" envDefault:"100"`
	MinSponsorship   uint64        `env:"DENGROW_MIN_SPONSORSHIP" envDefault:"100000"`
	MaxSupply        uint64        `env:"DENGROW_MAX_SUPPLY" envDefault:"0"`
	TierCatalogPath  string        `env:"DENGROW_TIER_CATALOG"`
	BadgeCatalogPath string        `env:"DENGROW_BADGE_CATALOG"`
	BlockInterval    time.Duration `env:"DENGROW_BLOCK_INTERVAL" envDefault:"10s"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The grove ledger database path")
	fs.StringVar(&cfg.AdminAddress, "admin", cfg.AdminAddress, "The module admin address")
	fs.Uint64Var(&cfg.CooldownBlocks, "cooldown", cfg.CooldownBlocks, "Water cooldown in blocks")
	fs.DurationVar(&cfg.BlockInterval, "block-interval", cfg.BlockInterval, "Logical block interval")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Runtime bundles the opened ledger and the wired module services.
type Runtime struct {
	Store    *sqlite.Store
	Authz    *service.AuthzService
	Plants   *service.PlantService
	Growth   *service.GrowthService
	Identity *service.IdentityService
	Impact   *service.ImpactService
	Treasury *service.TreasuryService
	Badges   *service.BadgeService
}

// Open opens the ledger, wires the module services, and seeds the module
// admins and cross-module grants. Seeding is idempotent, so reopening an
// existing ledger is safe.
func Open(ctx context.Context, cfg Config) (*Runtime, error) {
	tiers, err := token.LoadTierCatalog(cfg.TierCatalogPath)
	if err != nil {
		return nil, err
	}
	badges, err := badge.LoadCatalog(cfg.BadgeCatalogPath)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := bootstrap(ctx, store, authz.Principal(cfg.AdminAddress)); err != nil {
		_ = store.Close()
		return nil, err
	}

	impactSvc := service.NewImpactService(store, cfg.MinSponsorship)
	return &Runtime{
		Store:    store,
		Authz:    service.NewAuthzService(store),
		Plants:   service.NewPlantService(store),
		Growth:   service.NewGrowthService(store, cfg.CooldownBlocks),
		Identity: service.NewIdentityService(store, tiers, cfg.MaxSupply),
		Impact:   impactSvc,
		Treasury: service.NewTreasuryService(store, impactSvc),
		Badges:   service.NewBadgeService(store, badges, cfg.EarlyAdopterMax),
	}, nil
}

// Close closes the underlying ledger.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	return r.Store.Close()
}

// bootstrap installs the module admins and the capability grants the module
// call paths depend on: the identity and growth modules write plant state,
// and the growth and treasury modules write the impact registry.
func bootstrap(ctx context.Context, store storage.Store, admin authz.Principal) error {
	modules := []string{
		authz.ModulePlants, authz.ModuleGrowth, authz.ModuleTokens,
		authz.ModuleImpact, authz.ModuleTreasury, authz.ModuleBadges,
	}
	grants := []authz.Grant{
		{Module: authz.ModulePlants, Grantee: authz.ModulePrincipal(authz.ModuleTokens)},
		{Module: authz.ModulePlants, Grantee: authz.ModulePrincipal(authz.ModuleGrowth)},
		{Module: authz.ModuleImpact, Grantee: authz.ModulePrincipal(authz.ModuleGrowth)},
		{Module: authz.ModuleImpact, Grantee: authz.ModulePrincipal(authz.ModuleTreasury)},
	}
	return store.WithinTx(ctx, func(l storage.Ledger) error {
		for _, module := range modules {
			if err := l.SetModuleAdmin(ctx, module, admin); err != nil {
				return err
			}
		}
		height, err := l.CurrentHeight(ctx)
		if err != nil {
			return err
		}
		for _, g := range grants {
			g.GrantedAtHeight = height
			if err := l.AddGrant(ctx, g); err != nil {
				return err
			}
		}
		return nil
	})
}

// Run opens the ledger runtime and ticks the logical height clock until the
// context is cancelled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGrove, func(ctx context.Context) error {
		runtime, err := Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := runtime.Close(); err != nil {
				log.Printf("close ledger: %v", err)
			}
		}()

		height, err := runtime.Store.CurrentHeight(ctx)
		if err != nil {
			return err
		}
		log.Printf("grove ledger open at %s, height %d", cfg.DBPath, height)

		ticker := time.NewTicker(cfg.BlockInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				next, err := runtime.Store.AdvanceHeight(ctx)
				if err != nil {
					return err
				}
				log.Printf("height %d", next)
			}
		}
	})
}
