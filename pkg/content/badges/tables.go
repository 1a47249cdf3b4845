package badges

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultTables []byte

// CategoryInfo is the display name and description of a category.
type CategoryInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Tables holds the static lookup tables the generator draws from.
// Generate never modifies them.
type Tables struct {
	Categories          []string                    `yaml:"categories"`
	Tiers               []string                    `yaml:"tiers"`
	PerTier             int                         `yaml:"per_tier"`
	CategoryMultipliers map[string]float64          `yaml:"category_multipliers"`
	TierBasePoints      map[string]int              `yaml:"tier_base_points"`
	TierRarity          map[string]string           `yaml:"tier_rarity"`
	TierColors          map[string][]string         `yaml:"tier_colors"`
	Emojis              []string                    `yaml:"emojis"`
	CategoryInfo        map[string]CategoryInfo     `yaml:"category_info"`
	Kinds               map[string][]string         `yaml:"kinds"`
	Thresholds          map[string]map[string][]int `yaml:"thresholds"`
}

// DefaultTables returns the built-in tables.
func DefaultTables() (*Tables, error) {
	return ParseTables(defaultTables)
}

// LoadTables reads tables from a YAML file.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading badge tables: %w", err)
	}
	return ParseTables(data)
}

// ParseTables parses and validates YAML tables.
func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing badge tables YAML: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks that every category and tier has the entries the
// generator needs.
func (t *Tables) Validate() error {
	if len(t.Categories) == 0 {
		return fmt.Errorf("badge tables: no categories defined")
	}
	if len(t.Tiers) == 0 {
		return fmt.Errorf("badge tables: no tiers defined")
	}
	if t.PerTier < 1 {
		return fmt.Errorf("badge tables: per_tier must be positive, got %d", t.PerTier)
	}
	if len(t.Emojis) == 0 {
		return fmt.Errorf("badge tables: no emojis defined")
	}

	for _, tier := range t.Tiers {
		if _, ok := t.TierBasePoints[tier]; !ok {
			return fmt.Errorf("badge tables: tier %q has no base points", tier)
		}
		if _, ok := t.TierRarity[tier]; !ok {
			return fmt.Errorf("badge tables: tier %q has no rarity", tier)
		}
		if len(t.TierColors[tier]) == 0 {
			return fmt.Errorf("badge tables: tier %q has no colors", tier)
		}
	}

	for _, cat := range t.Categories {
		if _, ok := rules[cat]; !ok {
			return fmt.Errorf("badge tables: unknown category %q", cat)
		}
		if _, ok := t.CategoryMultipliers[cat]; !ok {
			return fmt.Errorf("badge tables: category %q has no multiplier", cat)
		}
		if len(t.Kinds[cat]) == 0 {
			return fmt.Errorf("badge tables: category %q has no kinds", cat)
		}
		if cat == CategorySpecial {
			continue
		}
		for _, tier := range t.Tiers {
			if got := len(t.Thresholds[cat][tier]); got < t.PerTier {
				return fmt.Errorf("badge tables: category %q tier %q has %d thresholds, need %d",
					cat, tier, got, t.PerTier)
			}
		}
	}

	return nil
}
