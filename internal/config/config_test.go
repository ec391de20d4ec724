package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "JWT_EXPIRES_IN", "DEFAULT_ADHOC_DAILY_AMOUNT",
		"CASCADE_SCHEDULE", "CASCADE_MAX_RETRIES", "BALANCE_HISTORY_LIMIT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("JWTExpirationDur = %v, want 24h", cfg.JWTExpirationDur)
	}
	if cfg.DefaultAdhocDailyAmount.String() != "40" {
		t.Errorf("DefaultAdhocDailyAmount = %s, want 40", cfg.DefaultAdhocDailyAmount)
	}
	if cfg.CascadeSchedule != "5 0 * * *" {
		t.Errorf("CascadeSchedule = %q", cfg.CascadeSchedule)
	}
	if cfg.CascadeMaxRetries != 3 {
		t.Errorf("CascadeMaxRetries = %d, want 3", cfg.CascadeMaxRetries)
	}
	if cfg.BalanceHistoryLimit != 30 {
		t.Errorf("BalanceHistoryLimit = %d, want 30", cfg.BalanceHistoryLimit)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DEFAULT_ADHOC_DAILY_AMOUNT", "55.50")
	t.Setenv("CASCADE_MAX_RETRIES", "7")
	t.Setenv("BALANCE_HISTORY_LIMIT", "-1")
	t.Setenv("JWT_EXPIRES_IN", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultAdhocDailyAmount.StringFixed(2) != "55.50" {
		t.Errorf("DefaultAdhocDailyAmount = %s, want 55.50", cfg.DefaultAdhocDailyAmount)
	}
	if cfg.CascadeMaxRetries != 7 {
		t.Errorf("CascadeMaxRetries = %d, want 7", cfg.CascadeMaxRetries)
	}
	if cfg.BalanceHistoryLimit != 30 {
		t.Errorf("negative limit should fall back to 30, got %d", cfg.BalanceHistoryLimit)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("bad duration should fall back to 24h, got %v", cfg.JWTExpirationDur)
	}
}
