package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	writeFile := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		return path
	}

	t.Run("overrides merge onto defaults", func(t *testing.T) {
		path := writeFile(t, `
ticketmaster:
  base_url: https://example.test/discovery/v2
  page_size: 50
  page_cap: 2
  rate_interval_ms: 100
refresh:
  cron: "*/30 * * * *"
  cache_ttl_minutes: 15
  retention_days: 3
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Ticketmaster.BaseURL != "https://example.test/discovery/v2" {
			t.Fatalf("base_url not applied: %s", cfg.Ticketmaster.BaseURL)
		}
		if cfg.Ticketmaster.PageSize != 50 || cfg.Ticketmaster.PageCap != 2 {
			t.Fatalf("paging knobs not applied: %+v", cfg.Ticketmaster)
		}
		if cfg.Refresh.CacheTTL() != 15*time.Minute {
			t.Fatalf("cache ttl not applied: %v", cfg.Refresh.CacheTTL())
		}
		if cfg.Refresh.Retention() != 3*24*time.Hour {
			t.Fatalf("retention not applied: %v", cfg.Refresh.Retention())
		}
		// Untouched section keeps its defaults.
		if cfg.Retry.MaxAttempts != Default().Retry.MaxAttempts {
			t.Fatalf("retry defaults lost: %+v", cfg.Retry)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatalf("expected error for missing file")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeFile(t, "ticketmaster: [")
		if _, err := Load(path); err == nil {
			t.Fatalf("expected parse error")
		}
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"missing base url", func(c *Config) { c.Ticketmaster.BaseURL = "" }, ErrMissingBaseURL},
		{"page size too big", func(c *Config) { c.Ticketmaster.PageSize = 500 }, ErrInvalidPageSize},
		{"zero page cap", func(c *Config) { c.Ticketmaster.PageCap = 0 }, ErrInvalidPageCap},
		{"negative rate interval", func(c *Config) { c.Ticketmaster.RateIntervalMs = -1 }, ErrInvalidRateInterval},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, ErrInvalidMaxAttempts},
		{"negative initial delay", func(c *Config) { c.Retry.InitialDelayMs = -1 }, ErrInvalidInitialDelay},
		{"max below initial", func(c *Config) { c.Retry.MaxDelayMs = c.Retry.InitialDelayMs - 1 }, ErrInvalidMaxDelay},
		{"multiplier below one", func(c *Config) { c.Retry.BackoffMultiplier = 0.5 }, ErrInvalidBackoffMultiplier},
		{"zero timeout", func(c *Config) { c.Retry.TimeoutSec = 0 }, ErrInvalidTimeout},
		{"empty cron", func(c *Config) { c.Refresh.Cron = "" }, ErrMissingCron},
		{"zero cache ttl", func(c *Config) { c.Refresh.CacheTTLMinutes = 0 }, ErrInvalidCacheTTL},
		{"zero retention", func(c *Config) { c.Refresh.RetentionDays = 0 }, ErrInvalidRetention},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err != tt.wantErr {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRetryPolicyDelay(t *testing.T) {
	t.Parallel()

	rp := RetryPolicy{MaxAttempts: 5, InitialDelayMs: 100, MaxDelayMs: 350, BackoffMultiplier: 2.0, TimeoutSec: 10}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 0},
		{2, 100 * time.Millisecond},
		{3, 200 * time.Millisecond},
		{4, 350 * time.Millisecond}, // capped
		{5, 350 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := rp.Delay(tt.attempt); got != tt.want {
			t.Errorf("attempt %d: expected %v, got %v", tt.attempt, tt.want, got)
		}
	}

	if rp.Timeout() != 10*time.Second {
		t.Errorf("unexpected timeout %v", rp.Timeout())
	}
}
