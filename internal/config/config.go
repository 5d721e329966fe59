// Package config provides configuration loading and path defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultTimezone is the reference timezone used for all civil timestamps
// and week-boundary computation when the config does not override it.
const DefaultTimezone = "Europe/Zurich"

// Config holds the TOML configuration file contents plus defaults.
type Config struct {
	DBPath            string `toml:"db_path"`
	Timezone          string `toml:"timezone"`
	RollupCooldownMin int    `toml:"rollup_cooldown_min"`
	LeaderboardLimit  int    `toml:"leaderboard_limit"`
}

// Load reads a TOML config from the given path and fills in defaults.
// A missing file is not an error; defaults are returned.
func Load(path string) (Config, error) {
	cfg := Config{
		DBPath:            DefaultDBPath(),
		Timezone:          DefaultTimezone,
		RollupCooldownMin: 2,
		LeaderboardLimit:  15,
	}
	if path == "" {
		return cfg, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to stat config: %w", err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Location resolves the configured reference timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// RollupCooldown returns the scheduler's post-rollup buffer.
func (c Config) RollupCooldown() time.Duration {
	return time.Duration(c.RollupCooldownMin) * time.Minute
}
