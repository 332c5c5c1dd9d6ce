// Package config loads the discovery configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingBaseURL           = errors.New("ticketmaster.base_url is required")
	ErrInvalidPageSize          = errors.New("ticketmaster.page_size must be between 1 and 200")
	ErrInvalidPageCap           = errors.New("ticketmaster.page_cap must be at least 1")
	ErrInvalidRateInterval      = errors.New("ticketmaster.rate_interval_ms must be non-negative")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidMaxDelay          = errors.New("retry.max_delay_ms must be at least initial_delay_ms")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrInvalidCacheTTL          = errors.New("refresh.cache_ttl_minutes must be at least 1")
	ErrInvalidRetention         = errors.New("refresh.retention_days must be at least 1")
	ErrMissingCron              = errors.New("refresh.cron is required")
)

// Config is the discovery configuration read from the -config YAML file.
// Secrets (API key, database URL, admin key hash) stay in the environment.
type Config struct {
	Ticketmaster TicketmasterConfig `yaml:"ticketmaster"`
	Retry        RetryPolicy        `yaml:"retry"`
	Refresh      RefreshConfig      `yaml:"refresh"`
}

// TicketmasterConfig holds Discovery API client knobs.
type TicketmasterConfig struct {
	BaseURL        string `yaml:"base_url"`
	PageSize       int    `yaml:"page_size"`
	PageCap        int    `yaml:"page_cap"`
	RateIntervalMs int    `yaml:"rate_interval_ms"`
}

// RateInterval returns the minimum spacing between API requests.
func (t TicketmasterConfig) RateInterval() time.Duration {
	return time.Duration(t.RateIntervalMs) * time.Millisecond
}

// RetryPolicy defines retry behavior for upstream fetches.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// Delay calculates the exponential backoff delay before the given
// attempt number. Attempt 1 always runs immediately.
func (rp RetryPolicy) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 2; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}
	return time.Duration(int(delayMs)) * time.Millisecond
}

// Timeout returns the per-request timeout.
func (rp RetryPolicy) Timeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// RefreshConfig drives the scheduled cache refresh.
type RefreshConfig struct {
	Cron            string `yaml:"cron"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
	RetentionDays   int    `yaml:"retention_days"`
}

// CacheTTL returns how long a city's cached events stay fresh.
func (r RefreshConfig) CacheTTL() time.Duration {
	return time.Duration(r.CacheTTLMinutes) * time.Minute
}

// Retention returns how long past events are kept before pruning.
func (r RefreshConfig) Retention() time.Duration {
	return time.Duration(r.RetentionDays) * 24 * time.Hour
}

// Default returns the configuration used when no -config file is given.
func Default() Config {
	return Config{
		Ticketmaster: TicketmasterConfig{
			BaseURL:        "https://app.ticketmaster.com/discovery/v2",
			PageSize:       100,
			PageCap:        5,
			RateIntervalMs: 250,
		},
		Retry: RetryPolicy{
			MaxAttempts:       4,
			InitialDelayMs:    500,
			MaxDelayMs:        8000,
			BackoffMultiplier: 2.0,
			TimeoutSec:        15,
		},
		Refresh: RefreshConfig{
			Cron:            "0 */6 * * *",
			CacheTTLMinutes: 360,
			RetentionDays:   7,
		},
	}
}

// Load reads configuration from a YAML file. Fields the file omits keep
// their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Ticketmaster.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.Ticketmaster.PageSize < 1 || c.Ticketmaster.PageSize > 200 {
		return ErrInvalidPageSize
	}
	if c.Ticketmaster.PageCap < 1 {
		return ErrInvalidPageCap
	}
	if c.Ticketmaster.RateIntervalMs < 0 {
		return ErrInvalidRateInterval
	}
	if c.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}
	if c.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}
	if c.Retry.MaxDelayMs < c.Retry.InitialDelayMs {
		return ErrInvalidMaxDelay
	}
	if c.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}
	if c.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}
	if c.Refresh.Cron == "" {
		return ErrMissingCron
	}
	if c.Refresh.CacheTTLMinutes < 1 {
		return ErrInvalidCacheTTL
	}
	if c.Refresh.RetentionDays < 1 {
		return ErrInvalidRetention
	}
	return nil
}
