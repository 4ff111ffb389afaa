package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsDev() {
		t.Fatalf("expected dev env by default, got %q", cfg.App.Env)
	}
	if !cfg.App.SeedCatalog {
		t.Fatalf("expected catalog seeding on by default")
	}
	if got := cfg.HTTP.Addr(); got != ":3000" {
		t.Fatalf("unexpected addr %q", got)
	}
	if cfg.HTTP.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout %v", cfg.HTTP.ShutdownTimeout)
	}
	if cfg.HTTP.MaxBodyBytes != 1<<20 {
		t.Fatalf("unexpected body limit %d", cfg.HTTP.MaxBodyBytes)
	}
	if cfg.RateLimit.Enabled() {
		t.Fatalf("rate limit should be disabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PHONESHOP_APP_ENV", "prod")
	t.Setenv("PHONESHOP_HTTP_PORT", "8085")
	t.Setenv("PHONESHOP_SEED_CATALOG", "false")
	t.Setenv("PHONESHOP_HTTP_READ_HEADER_TIMEOUT", "2s")
	t.Setenv("PHONESHOP_METRICS_TOKEN", "scrape")
	t.Setenv("PHONESHOP_RATE_LIMIT_WRITES_PER_MIN", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.IsDev() {
		t.Fatalf("expected prod env")
	}
	if cfg.App.SeedCatalog {
		t.Fatalf("expected seeding disabled")
	}
	if cfg.HTTP.Addr() != ":8085" {
		t.Fatalf("unexpected addr %q", cfg.HTTP.Addr())
	}
	if cfg.HTTP.ReadHeaderTimeout != 2*time.Second {
		t.Fatalf("unexpected read header timeout %v", cfg.HTTP.ReadHeaderTimeout)
	}
	if cfg.Metrics.Token != "scrape" {
		t.Fatalf("unexpected metrics token %q", cfg.Metrics.Token)
	}
	if !cfg.RateLimit.Enabled() || cfg.RateLimit.WritesPerMinute != 30 {
		t.Fatalf("unexpected rate limit %+v", cfg.RateLimit)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"port not numeric":   {"PHONESHOP_HTTP_PORT", "http"},
		"port out of range":  {"PHONESHOP_HTTP_PORT", "70000"},
		"bad duration":       {"PHONESHOP_HTTP_SHUTDOWN_TIMEOUT", "soon"},
		"zero body limit":    {"PHONESHOP_HTTP_MAX_BODY_BYTES", "0"},
		"negative ratelimit": {"PHONESHOP_RATE_LIMIT_WRITES_PER_MIN", "-1"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}
