package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// resetFlagSet создаёт новый FlagSet перед каждым вызовом NewConfig,
// чтобы избежать повторной регистрации одних и тех же флагов между тестами.
func resetFlagSet(t *testing.T) {
	t.Helper()
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	// подавляем вывод парсера флагов в тестах
	flag.CommandLine.SetOutput(os.Stderr)
}

func TestNewConfig_DefaultsWhenEnvEmpty(t *testing.T) {
	t.Setenv("DATABASE_URI", "")
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("BASE_URL", "")
	t.Setenv("ENABLE_HTTPS", "")
	t.Setenv("MAX_BODY_MB", "")
	t.Setenv("CLIENT_DIR", "")
	t.Setenv("VAULT_TOKEN_TTL", "")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.AuthSecret != "dev-secret-key" {
		t.Fatalf("AuthSecret default expected 'dev-secret-key', got %q", cfg.AuthSecret)
	}
	if !cfg.UsesDevSecret() {
		t.Fatalf("UsesDevSecret expected true for default secret")
	}
	if cfg.MaxBodyMB != 10 || cfg.MaxBodyBytes() != 10<<20 {
		t.Fatalf("MaxBodyMB default expected 10, got %d", cfg.MaxBodyMB)
	}
	if cfg.VaultTokenTTL != time.Hour {
		t.Fatalf("VaultTokenTTL default expected 1h, got %s", cfg.VaultTokenTTL)
	}
	if cfg.IdentityTokenTTL != 168*time.Hour {
		t.Fatalf("IdentityTokenTTL default expected 168h, got %s", cfg.IdentityTokenTTL)
	}
	if cfg.TOTPIssuer != "PassVault" {
		t.Fatalf("TOTPIssuer default expected 'PassVault', got %q", cfg.TOTPIssuer)
	}
	if cfg.BaseURL != "localhost:8081" {
		t.Fatalf("BaseURL default expected 'localhost:8081', got %q", cfg.BaseURL)
	}
	if cfg.ServerURL != "http://localhost:8081" {
		t.Fatalf("ServerURL default expected 'http://localhost:8081', got %q", cfg.ServerURL)
	}
	if cfg.ClientDir == "" || filepath.Base(cfg.ClientDir) != "PassVault" {
		t.Fatalf("client dir default must end with PassVault, got %q", cfg.ClientDir)
	}
}

func TestNewConfig_BaseURLAndHTTPS(t *testing.T) {
	t.Setenv("BASE_URL", "example.com:443")
	t.Setenv("ENABLE_HTTPS", "true")
	t.Setenv("AUTH_SECRET", "top")
	t.Setenv("MAX_BODY_MB", "2")
	t.Setenv("VAULT_TOKEN_TTL", "15m")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.BaseURL != "example.com:443" {
		t.Fatalf("BaseURL expected 'example.com:443', got %q", cfg.BaseURL)
	}
	if cfg.ServerURL != "https://example.com:443" {
		t.Fatalf("ServerURL expected 'https://example.com:443', got %q", cfg.ServerURL)
	}
	if cfg.AuthSecret != "top" {
		t.Fatalf("AuthSecret expected from env 'top', got %q", cfg.AuthSecret)
	}
	if cfg.UsesDevSecret() {
		t.Fatalf("UsesDevSecret expected false for explicit secret")
	}
	if cfg.MaxBodyMB != 2 {
		t.Fatalf("MaxBodyMB expected 2, got %d", cfg.MaxBodyMB)
	}
	if cfg.VaultTokenTTL != 15*time.Minute {
		t.Fatalf("VaultTokenTTL expected 15m, got %s", cfg.VaultTokenTTL)
	}
}

func TestNewConfig_InvalidBaseURLFallback(t *testing.T) {
	// Невалидный BASE_URL (со схемой) должен откатиться на localhost:8081
	t.Setenv("BASE_URL", "http://bad:8080")
	t.Setenv("ENABLE_HTTPS", "false")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.BaseURL != "localhost:8081" {
		t.Fatalf("invalid BASE_URL must fallback to 'localhost:8081', got %q", cfg.BaseURL)
	}
	if !strings.HasPrefix(cfg.ServerURL, "http://localhost:8081") {
		t.Fatalf("ServerURL must reflect fallback base, got %q", cfg.ServerURL)
	}
}

func TestValidateServer_DevSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("DEBUG", "")

	resetFlagSet(t)
	cfg := NewConfig()
	if err := cfg.ValidateServer(); !errors.Is(err, ErrDevSecretInProduction) {
		t.Fatalf("production server without AUTH_SECRET must be rejected, got %v", err)
	}

	t.Setenv("DEBUG", "true")
	resetFlagSet(t)
	cfg = NewConfig()
	if err := cfg.ValidateServer(); err != nil {
		t.Fatalf("dev secret must be allowed in debug mode, got %v", err)
	}

	t.Setenv("DEBUG", "")
	t.Setenv("AUTH_SECRET", "s3cret-from-env")
	resetFlagSet(t)
	cfg = NewConfig()
	if err := cfg.ValidateServer(); err != nil {
		t.Fatalf("explicit secret must pass, got %v", err)
	}
	if cfg.UsesDevSecret() {
		t.Fatalf("UsesDevSecret must be false for %q", cfg.AuthSecret)
	}
}

func TestValidateServer_SecretFlag(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("DEBUG", "")

	resetFlagSet(t)
	oldArgs := os.Args
	os.Args = []string{oldArgs[0], "-auth-secret", "from-flag"}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := NewConfig()
	if cfg.AuthSecret != "from-flag" {
		t.Fatalf("flag must override env, got %q", cfg.AuthSecret)
	}
	if err := cfg.ValidateServer(); err != nil {
		t.Fatalf("secret from flag must pass, got %v", err)
	}
}
