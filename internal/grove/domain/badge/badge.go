// Package badge defines the achievement catalog and claim records.
package badge

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed badges.yaml
var defaultBadgesYAML []byte

// Badge identifiers. The catalog is static; ids are stable across networks.
const (
	FirstSeed    uint32 = 1
	FirstTree    uint32 = 2
	GreenThumb   uint32 = 3
	EarlyAdopter uint32 = 4
)

// GreenThumbTreeCount is the number of distinct tree-stage tokens required
// for the green thumb badge.
const GreenThumbTreeCount = 3

// Badge is one catalog entry.
type Badge struct {
	ID          uint32 `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Catalog is the static badge table.
type Catalog struct {
	Badges []Badge `yaml:"badges"`
}

// Claim records a one-time badge award for an owner.
type Claim struct {
	Owner          string
	BadgeID        uint32
	EarnedAtHeight uint64
}

// LoadCatalog loads the badge table, from the embedded defaults when path is
// empty or from a YAML file otherwise.
func LoadCatalog(path string) (Catalog, error) {
	data := defaultBadgesYAML
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Catalog{}, err
		}
		data = b
	}
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("badges.yaml: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("badges.yaml: %w", err)
	}
	return catalog, nil
}

// Validate checks the catalog for duplicate or zero ids and blank names.
func (c Catalog) Validate() error {
	if len(c.Badges) == 0 {
		return fmt.Errorf("at least one badge is required")
	}
	seen := make(map[uint32]bool, len(c.Badges))
	for _, b := range c.Badges {
		if b.ID == 0 {
			return fmt.Errorf("badge id 0 is invalid")
		}
		if seen[b.ID] {
			return fmt.Errorf("duplicate badge id %d", b.ID)
		}
		seen[b.ID] = true
		if strings.TrimSpace(b.Name) == "" {
			return fmt.Errorf("badge %d has no name", b.ID)
		}
	}
	return nil
}

// Lookup returns the badge for an id.
func (c Catalog) Lookup(id uint32) (Badge, bool) {
	for _, b := range c.Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
