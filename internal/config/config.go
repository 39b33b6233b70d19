// Package config loads mtg-worlds settings.
//
// Values come from, in increasing priority: built-in defaults, an optional
// TOML file, a .env file in the working directory, and MTGWORLDS_* environment
// variables. CLI flags are applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Scrape ScrapeConfig `toml:"scrape"`
	Data   DataConfig   `toml:"data"`
	Clean  CleanConfig  `toml:"clean"`
	Log    LogConfig    `toml:"log"`
}

// ScrapeConfig controls the search and detail requests.
type ScrapeConfig struct {
	BaseURL          string `toml:"base_url"`          // Site root; search and deck links resolve against it
	FirstYear        int    `toml:"first_year"`        // First championship year, inclusive
	LastYear         int    `toml:"last_year"`         // Last championship year, inclusive
	EventTitle       string `toml:"event_title"`       // event_titre search filter
	Format           string `toml:"format"`            // Format code, "ST" for standard
	CompetitiveLevel string `toml:"competitive_level"` // compet_check key, "P" for professional
	Timeout          string `toml:"timeout"`           // Per-request timeout (e.g., "30s")
	RequestDelay     string `toml:"request_delay"`     // Minimum spacing between requests, "0s" disables
	UserAgent        string `toml:"user_agent"`
}

// DataConfig names the checkpoint and export files.
type DataConfig struct {
	Dir           string `toml:"dir"`
	RawFile       string `toml:"raw_file"`
	CanonicalFile string `toml:"canonical_file"`
	SQLiteFile    string `toml:"sqlite_file"`
	XLSXFile      string `toml:"xlsx_file"`
}

// CleanConfig tunes the normalizer.
type CleanConfig struct {
	DualFacedAsLands bool `toml:"dual_faced_as_lands"` // Count modal double-faced lands as lands
}

// LogConfig sets the minimum log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			BaseURL:          "https://www.mtgtop8.com/",
			FirstYear:        1994,
			LastYear:         2022,
			EventTitle:       "world",
			Format:           "ST",
			CompetitiveLevel: "P",
			Timeout:          "30s",
			RequestDelay:     "250ms",
			UserAgent:        "mtg-worlds/1.0 (github.com/pfrederiksen/mtg-worlds)",
		},
		Data: DataConfig{
			Dir:           "data",
			RawFile:       "raw_magic.csv",
			CanonicalFile: "magic.csv",
			SQLiteFile:    "magic.db",
			XLSXFile:      "magic.xlsx",
		},
		Clean: CleanConfig{
			DualFacedAsLands: false,
		},
		Log: LogConfig{
			Level: "INFO",
		},
	}
}

// Load builds the configuration. An empty path or a path that does not exist
// yields the defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("MTGWORLDS_DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("MTGWORLDS_BASE_URL"); v != "" {
		c.Scrape.BaseURL = v
	}
	if v := os.Getenv("MTGWORLDS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MTGWORLDS_REQUEST_DELAY"); v != "" {
		c.Scrape.RequestDelay = v
	}
	if v := os.Getenv("MTGWORLDS_DUAL_FACED_AS_LANDS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MTGWORLDS_DUAL_FACED_AS_LANDS: %w", err)
		}
		c.Clean.DualFacedAsLands = b
	}
	return nil
}

// Validate checks ranges and durations.
func (c *Config) Validate() error {
	if c.Scrape.BaseURL == "" {
		return fmt.Errorf("scrape.base_url is required")
	}
	if c.Scrape.FirstYear > c.Scrape.LastYear {
		return fmt.Errorf("scrape.first_year %d is after scrape.last_year %d", c.Scrape.FirstYear, c.Scrape.LastYear)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := c.RequestDelayDuration(); err != nil {
		return err
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	return nil
}

// TimeoutDuration parses Scrape.Timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Scrape.Timeout)
	if err != nil {
		return 0, fmt.Errorf("scrape.timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("scrape.timeout must be positive, got %s", d)
	}
	return d, nil
}

// RequestDelayDuration parses Scrape.RequestDelay.
func (c *Config) RequestDelayDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Scrape.RequestDelay)
	if err != nil {
		return 0, fmt.Errorf("scrape.request_delay: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("scrape.request_delay must not be negative, got %s", d)
	}
	return d, nil
}

// Years returns every year from FirstYear to LastYear inclusive.
func (c *Config) Years() []int {
	years := make([]int, 0, c.Scrape.LastYear-c.Scrape.FirstYear+1)
	for y := c.Scrape.FirstYear; y <= c.Scrape.LastYear; y++ {
		years = append(years, y)
	}
	return years
}

// Save writes the configuration as TOML.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
