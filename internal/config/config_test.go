package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("unexpected port: %s", cfg.Port)
	}
	if cfg.GinMode != "debug" {
		t.Errorf("unexpected mode: %s", cfg.GinMode)
	}
	if cfg.SessionLifetimeHours != 12 {
		t.Errorf("unexpected session lifetime: %d", cfg.SessionLifetimeHours)
	}
}

func TestValidateReleaseRequiresSecrets(t *testing.T) {
	cfg := &Config{
		GinMode:              "release",
		SessionLifetimeHours: 12,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error in release mode")
	}

	cfg.SessionSecret = "secret"
	cfg.DatabaseDSN = "postgres://localhost/camp"
	cfg.SessionRedisURL = "redis://localhost:6379/0"
	cfg.QueueRedisURL = "redis://localhost:6379/1"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsNonPositiveLifetime(t *testing.T) {
	cfg := &Config{GinMode: "debug", SessionLifetimeHours: 0}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for zero lifetime")
	}
}

func TestGetEnvAsIntFallback(t *testing.T) {
	t.Setenv("SESSION_LIFETIME_HOURS", "not-a-number")
	if got := getEnvAsInt("SESSION_LIFETIME_HOURS", 12); got != 12 {
		t.Errorf("expected fallback 12, got %d", got)
	}

	t.Setenv("SESSION_LIFETIME_HOURS", "24")
	if got := getEnvAsInt("SESSION_LIFETIME_HOURS", 12); got != 24 {
		t.Errorf("expected 24, got %d", got)
	}
}
