// Package seed populates a grove ledger with demo data for local work.
package seed

import (
	"context"
	"flag"
	"fmt"
	"io"

	grovecmd "github.com/den-labs/dengrow/internal/cmd/grove"
	"github.com/den-labs/dengrow/internal/grove/authz"
	entrypoint "github.com/den-labs/dengrow/internal/platform/cmd"
)

// Config holds seed command configuration.
type Config struct {
	Grove       grovecmd.Config
	DemoAddress string `env:"DENGROW_SEED_ADDR" envDefault:"gardener-addr"`
	Tokens      int    `env:"DENGROW_SEED_TOKENS" envDefault:"3"`
	Fund        uint64 `env:"DENGROW_SEED_FUND" envDefault:"10000000"`
	Waters      int    `env:"DENGROW_SEED_WATERS" envDefault:"0"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Grove.DBPath, "db", cfg.Grove.DBPath, "The grove ledger database path")
	fs.StringVar(&cfg.Grove.AdminAddress, "admin", cfg.Grove.AdminAddress, "The module admin address")
	fs.StringVar(&cfg.DemoAddress, "addr", cfg.DemoAddress, "The demo owner address")
	fs.IntVar(&cfg.Tokens, "tokens", cfg.Tokens, "Number of tokens to mint")
	fs.IntVar(&cfg.Waters, "waters", cfg.Waters, "Water actions applied to each minted token")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the seed command against the configured ledger.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if cfg.Tokens < 0 || cfg.Waters < 0 {
		return fmt.Errorf("token and water counts must be non-negative")
	}

	runtime, err := grovecmd.Open(ctx, cfg.Grove)
	if err != nil {
		return err
	}
	defer func() { _ = runtime.Close() }()

	admin := authz.Principal(cfg.Grove.AdminAddress)
	if cfg.Fund > 0 {
		if err := runtime.Treasury.FundWallet(ctx, admin, cfg.DemoAddress, cfg.Fund); err != nil {
			return fmt.Errorf("fund %s: %w", cfg.DemoAddress, err)
		}
	}

	owner := authz.Principal(cfg.DemoAddress)
	for i := 0; i < cfg.Tokens; i++ {
		id, err := runtime.Identity.MintFree(ctx, admin, cfg.DemoAddress)
		if err != nil {
			return fmt.Errorf("mint token: %w", err)
		}
		for w := 0; w < cfg.Waters; w++ {
			result, err := runtime.Growth.Water(ctx, owner, id)
			if err != nil {
				return fmt.Errorf("water token %d: %w", id, err)
			}
			if result.Graduated {
				break
			}
		}
		fmt.Fprintf(out, "minted token %d to %s\n", id, cfg.DemoAddress)
	}

	last, err := runtime.Identity.GetLastTokenID(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "ledger at %s holds %d tokens\n", cfg.Grove.DBPath, last)
	return nil
}
