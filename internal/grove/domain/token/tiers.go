package token

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tiers.yaml
var defaultTiersYAML []byte

// Tier is one priced minting option.
type Tier struct {
	ID    uint32 `yaml:"id"`
	Name  string `yaml:"name"`
	Price uint64 `yaml:"price"`
}

// TierCatalog is the immutable mint tier table.
type TierCatalog struct {
	Tiers []Tier `yaml:"tiers"`
}

// LoadTierCatalog loads the tier table, from the embedded defaults when path
// is empty or from a network-specific YAML file otherwise.
func LoadTierCatalog(path string) (TierCatalog, error) {
	data := defaultTiersYAML
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return TierCatalog{}, err
		}
		data = b
	}
	var catalog TierCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return TierCatalog{}, fmt.Errorf("tiers.yaml: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return TierCatalog{}, fmt.Errorf("tiers.yaml: %w", err)
	}
	return catalog, nil
}

// Validate checks the catalog for duplicate ids, free tiers, and zero prices.
func (c TierCatalog) Validate() error {
	if len(c.Tiers) == 0 {
		return fmt.Errorf("at least one tier is required")
	}
	seen := make(map[uint32]bool, len(c.Tiers))
	for _, tier := range c.Tiers {
		if tier.ID == FreeMintTier {
			return fmt.Errorf("tier id %d is reserved for free mints", FreeMintTier)
		}
		if seen[tier.ID] {
			return fmt.Errorf("duplicate tier id %d", tier.ID)
		}
		seen[tier.ID] = true
		if tier.Price == 0 {
			return fmt.Errorf("tier %d has zero price", tier.ID)
		}
		if strings.TrimSpace(tier.Name) == "" {
			return fmt.Errorf("tier %d has no name", tier.ID)
		}
	}
	return nil
}

// Lookup returns the tier for an id.
func (c TierCatalog) Lookup(id uint32) (Tier, bool) {
	for _, tier := range c.Tiers {
		if tier.ID == id {
			return tier, true
		}
	}
	return Tier{}, false
}
