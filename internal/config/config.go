// Package config loads farmcheck configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML can carry values like "30m".
type Duration time.Duration

// UnmarshalYAML parses Go duration syntax.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts back to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the full service configuration.
type Config struct {
	LeagueID    string `yaml:"league_id"`
	MappingFile string `yaml:"mapping_file"`

	// RedisURL selects the cache backend. Empty means in-memory.
	RedisURL string `yaml:"redis_url"`

	RESTPort string `yaml:"rest_port"`
	WSPort   string `yaml:"ws_port"`

	FanGraphs FanGraphsConfig `yaml:"fangraphs"`
	Fantrax   FantraxConfig   `yaml:"fantrax"`
	Cache     CacheConfig     `yaml:"cache"`
}

// FanGraphsConfig controls the career-stats client.
type FanGraphsConfig struct {
	BaseURL   string   `yaml:"base_url"`
	Season    string   `yaml:"season"`
	PageDelay Duration `yaml:"page_delay"`
}

// FantraxConfig controls the roster client.
type FantraxConfig struct {
	BaseURL string `yaml:"base_url"`
}

// CacheConfig holds per-dataset expiry windows. Career totals change at
// most daily; rosters change constantly.
type CacheConfig struct {
	StatsTTL   Duration `yaml:"stats_ttl"`
	RostersTTL Duration `yaml:"rosters_ttl"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		LeagueID:    "xe7mir7dm4hja3dz",
		MappingFile: "Player ID Key.csv",
		RESTPort:    "8080",
		WSPort:      "8081",
		FanGraphs: FanGraphsConfig{
			PageDelay: Duration(500 * time.Millisecond),
		},
		Cache: CacheConfig{
			StatsTTL:   Duration(time.Hour),
			RostersTTL: Duration(5 * time.Minute),
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty or absent), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.LeagueID = getEnv("FARMCHECK_LEAGUE_ID", cfg.LeagueID)
	cfg.MappingFile = getEnv("FARMCHECK_MAPPING_FILE", cfg.MappingFile)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.RESTPort = getEnv("REST_PORT", cfg.RESTPort)
	cfg.WSPort = getEnv("WS_PORT", cfg.WSPort)
	cfg.FanGraphs.BaseURL = getEnv("FANGRAPHS_API_BASE", cfg.FanGraphs.BaseURL)
	cfg.FanGraphs.Season = getEnv("FANGRAPHS_SEASON", cfg.FanGraphs.Season)
	cfg.Fantrax.BaseURL = getEnv("FANTRAX_API_BASE", cfg.Fantrax.BaseURL)

	return cfg, nil
}

// Validate checks that the two required settings are present.
func (c Config) Validate() error {
	if c.LeagueID == "" {
		return fmt.Errorf("league_id is required")
	}
	if c.MappingFile == "" {
		return fmt.Errorf("mapping_file is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
