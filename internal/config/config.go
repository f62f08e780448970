// Package config manages tubeshelf configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Persistent user state (channels,
// favorites, the API key set through the CLI) lives in the store, not here.
type Config struct {
	// ConfigDir holds the file and sqlite stores (default: ~/.config/tubeshelf)
	ConfigDir string
	// APIURL is the YouTube Data API base URL, overridden in tests
	APIURL string
	// SiteURL serves oEmbed and watch pages for keyless lookups
	SiteURL string
	// Store selects the persistence backend: file, sqlite, redis or memory
	Store string
	// RedisURL is used when Store is redis
	RedisURL string
	// APIKey from YOUTUBE_API_KEY; a key saved with 'tubeshelf key set' wins
	APIKey string
	// CacheTTL is how long a full load is reused
	CacheTTL time.Duration
	// PageSize is the number of videos shown per page
	PageSize int
	// CheckInterval is how often 'tubeshelf monitor' polls for new videos
	CheckInterval time.Duration
	// RateLimit caps YouTube API requests per second (0 disables)
	RateLimit float64
	// Concurrency bounds how many channels load in parallel
	Concurrency int
	// PerChannel is how many recent uploads are requested per channel (1-50)
	PerChannel int
	// Region is the default trending region code ("" = worldwide)
	Region string
	// LogLevel is debug, info, warn or error
	LogLevel slog.Level
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		ConfigDir:     filepath.Join(home, ".config", "tubeshelf"),
		APIURL:        "https://www.googleapis.com",
		SiteURL:       "https://www.youtube.com",
		Store:         "file",
		CacheTTL:      30 * time.Minute,
		PageSize:      12,
		CheckInterval: 5 * time.Minute,
		RateLimit:     10,
		Concurrency:   4,
		PerChannel:    50,
		LogLevel:      slog.LevelWarn,
	}
}

// Load reads the given .env files (".env" when none are given), then the
// environment, and validates the result. Variables already set in the
// environment are never overridden by a .env file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil {
			// .env files are optional
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	cfg := DefaultConfig()
	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() error {
	if v := os.Getenv("TUBESHELF_CONFIG_DIR"); v != "" {
		c.ConfigDir = v
	}
	if v := os.Getenv("TUBESHELF_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("TUBESHELF_SITE_URL"); v != "" {
		c.SiteURL = v
	}
	if v := os.Getenv("TUBESHELF_STORE"); v != "" {
		c.Store = strings.ToLower(v)
	}
	if v := os.Getenv("TUBESHELF_REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.APIKey = strings.TrimSpace(v)
	}
	if v := os.Getenv("TUBESHELF_REGION"); v != "" {
		c.Region = strings.ToUpper(v)
	}
	if v := os.Getenv("TUBESHELF_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TUBESHELF_CACHE_TTL: %w", err)
		}
		c.CacheTTL = d
	}
	if v := os.Getenv("TUBESHELF_CHECK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TUBESHELF_CHECK_INTERVAL: %w", err)
		}
		c.CheckInterval = d
	}
	if v := os.Getenv("TUBESHELF_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TUBESHELF_PAGE_SIZE: %w", err)
		}
		c.PageSize = n
	}
	if v := os.Getenv("TUBESHELF_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TUBESHELF_CONCURRENCY: %w", err)
		}
		c.Concurrency = n
	}
	if v := os.Getenv("TUBESHELF_PER_CHANNEL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TUBESHELF_PER_CHANNEL: %w", err)
		}
		c.PerChannel = n
	}
	if v := os.Getenv("TUBESHELF_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TUBESHELF_RATE_LIMIT: %w", err)
		}
		c.RateLimit = f
	}
	if v := os.Getenv("TUBESHELF_LOG_LEVEL"); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("TUBESHELF_LOG_LEVEL: %w", err)
		}
	}
	return nil
}

// Validate checks that configuration values are valid and consistent.
func (c *Config) Validate() error {
	switch c.Store {
	case "file", "sqlite", "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("store redis needs TUBESHELF_REDIS_URL")
		}
	default:
		return fmt.Errorf("unknown store %q: must be file, sqlite, redis or memory", c.Store)
	}
	if c.ConfigDir == "" {
		return fmt.Errorf("config directory must not be empty")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive")
	}
	if c.CheckInterval < time.Second {
		return fmt.Errorf("check interval must be at least 1s")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	if c.PerChannel < 1 || c.PerChannel > 50 {
		return fmt.Errorf("videos per channel must be between 1 and 50")
	}
	return nil
}
