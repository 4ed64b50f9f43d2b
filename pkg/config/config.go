// Package config loads the YAML configuration surface: storage paths,
// selection policy, tier assignments, bucket breakpoints, pricing,
// and budget limits.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rehash-ai/rehash/pkg/bucket"
	"github.com/rehash-ai/rehash/pkg/models"
)

// Config holds all rehash configuration.
type Config struct {
	Store     StoreConfig                `yaml:"store"`
	Ledger    LedgerConfig               `yaml:"ledger"`
	Selection SelectionConfig            `yaml:"selection"`
	Tiers     map[models.TaskType]string `yaml:"tiers"`
	Buckets   bucket.Table               `yaml:"buckets"`
	Pricing   []models.TierPricing       `yaml:"pricing"`
	Budget    BudgetConfig               `yaml:"budget"`
}

// StoreConfig controls the durable response store. DegradeOnFailure
// decides what a storage outage means during lookup: true treats it as
// a forced cache miss, false fails the interaction. There is no
// implicit default beyond "fail": silently treating outages as misses
// causes unbounded cost overrun, so degrading is always an explicit
// choice.
type StoreConfig struct {
	DBPath           string `yaml:"db_path"`
	DegradeOnFailure bool   `yaml:"degrade_on_failure"`
}

// LedgerConfig controls the cost ledger database.
type LedgerConfig struct {
	DBPath string `yaml:"db_path"`
}

// SelectionConfig controls response selection.
type SelectionConfig struct {
	Policy string `yaml:"policy"`
}

// BudgetConfig controls optional session token budgeting.
type BudgetConfig struct {
	Enabled bool               `yaml:"enabled"`
	Limits  models.TokenBudget `yaml:"limits"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Store:  StoreConfig{DBPath: "rehash.db"},
		Ledger: LedgerConfig{DBPath: "rehash.db"},
		Selection: SelectionConfig{
			Policy: "random",
		},
		Tiers: map[models.TaskType]string{
			models.TaskCompaction:       "economy",
			models.TaskSummarization:    "economy",
			models.TaskCoreInteraction:  "standard",
			models.TaskComplexReasoning: "standard",
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
