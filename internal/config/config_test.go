package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_ENV", "HTTP_ADDR",
		"HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL",
		"BOT_TOKEN", "BOT_TOKEN_TEST", "WEBHOOK_URL",
		"SIMULATION_ONLY", "ENABLE_REAL_PAYMENTS",
		"STRIPE_SECRET_KEY", "STRIPE_SECRET_KEY_TEST",
		"STRIPE_PUBLISHABLE_KEY", "STRIPE_PUBLISHABLE_KEY_TEST",
		"SIMULATION_DELAY", "WEB_STATIC_DIR",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
http:
  addr: ":9090"
payment:
  simulation_only: true
  simulation_delay: 500ms
catalog:
  - id: coin_1
    title: 一枚金幣
    price_stars: 10
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("yaml addr not applied: %q", cfg.HTTP.Addr)
	}
	if !cfg.Payment.SimulationOnly {
		t.Fatalf("yaml simulation_only not applied")
	}
	if cfg.Payment.SimulationDelay != 500*time.Millisecond {
		t.Fatalf("yaml simulation_delay not applied: %v", cfg.Payment.SimulationDelay)
	}
	if len(cfg.Catalog) != 1 || cfg.Catalog[0].ID != "coin_1" {
		t.Fatalf("yaml catalog not applied: %+v", cfg.Catalog)
	}

	// untouched sections keep their defaults
	if cfg.Env != "dev" {
		t.Fatalf("unexpected env default: %q", cfg.Env)
	}
	if cfg.HTTP.ReadTimeout != 5*time.Second {
		t.Fatalf("unexpected read timeout default: %v", cfg.HTTP.ReadTimeout)
	}
	if cfg.Web.StaticDir != "public" {
		t.Fatalf("unexpected static dir default: %q", cfg.Web.StaticDir)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":3001" {
		t.Fatalf("unexpected addr default: %q", cfg.HTTP.Addr)
	}
	if len(cfg.Catalog) != 3 {
		t.Fatalf("default catalog should carry three products, got %d", len(cfg.Catalog))
	}
	if cfg.Catalog[0].ID != "gold_100" || cfg.Catalog[0].PriceStars != 200 {
		t.Fatalf("unexpected first default product: %+v", cfg.Catalog[0])
	}
}

func TestEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("BOT_TOKEN", "primary-token")
	t.Setenv("BOT_TOKEN_TEST", "test-token")
	t.Setenv("SIMULATION_ONLY", "true")
	t.Setenv("STRIPE_SECRET_KEY_TEST", "sk_test_abc")
	t.Setenv("SIMULATION_DELAY", "3s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("env addr not applied: %q", cfg.HTTP.Addr)
	}
	if cfg.Bot.Token != "primary-token" {
		t.Fatalf("BOT_TOKEN must win over BOT_TOKEN_TEST, got %q", cfg.Bot.Token)
	}
	if !cfg.Payment.SimulationOnly {
		t.Fatalf("SIMULATION_ONLY not applied")
	}
	if cfg.Payment.ProviderSecretKey != "sk_test_abc" {
		t.Fatalf("secret key fallback not applied: %q", cfg.Payment.ProviderSecretKey)
	}
	if cfg.Payment.SimulationDelay != 3*time.Second {
		t.Fatalf("SIMULATION_DELAY not applied: %v", cfg.Payment.SimulationDelay)
	}
}

func TestEnvTokenFallback(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("BOT_TOKEN_TEST", "test-token")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Bot.Token != "test-token" {
		t.Fatalf("BOT_TOKEN_TEST fallback not applied: %q", cfg.Bot.Token)
	}
}

func TestEnvOverrideRejectsBadValues(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SIMULATION_ONLY", "definitely")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for malformed bool")
	}
}

func TestValidateRequiresToken(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for empty bot token")
	}

	cfg.Bot.Token = "token"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}
