package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "MAX_UPLOAD_SIZE_BYTES", "SESSION_TTL", "LEDGER_TIMEZONE", "ADMIN_CHARGE_PATTERN", "ALLOWED_ORIGINS", "RATE_LIMIT_BURST"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	if cfg.Port != "" {
		t.Errorf("Port = %q, want the explicitly empty value", cfg.Port)
	}
	if cfg.MaxUploadSizeBytes != 10*1024*1024 {
		t.Errorf("MaxUploadSizeBytes = %d, want 10MB", cfg.MaxUploadSizeBytes)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %s, want 2h", cfg.SessionTTL)
	}
	if cfg.Location != time.Local {
		t.Errorf("Location = %s, want Local", cfg.Location)
	}
	if !cfg.AdminChargePattern.MatchString("Te Cargaron saldo") {
		t.Errorf("default admin pattern should match case-insensitively")
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("AllowedOrigins = %v, want none for an empty variable", cfg.AllowedOrigins)
	}
	if cfg.RateLimitBurst != 30 {
		t.Errorf("RateLimitBurst = %d, want 30", cfg.RateLimitBurst)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_UPLOAD_SIZE_BYTES", "not-a-number")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("LEDGER_TIMEZONE", "UTC")
	t.Setenv("ADMIN_CHARGE_PATTERN", "(?i)credited you")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("RATE_LIMIT_BURST", "x")
	t.Setenv("CURRENCY_CODE", "usd")

	cfg := FromEnv()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.MaxUploadSizeBytes != 10*1024*1024 {
		t.Errorf("invalid size should fall back to 10MB, got %d", cfg.MaxUploadSizeBytes)
	}
	if cfg.SessionTTL != 45*time.Minute {
		t.Errorf("SessionTTL = %s", cfg.SessionTTL)
	}
	if cfg.Location != time.UTC {
		t.Errorf("Location = %s, want UTC", cfg.Location)
	}
	if !cfg.AdminChargePattern.MatchString("Admin CREDITED YOU 100") {
		t.Errorf("custom admin pattern not applied")
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.RateLimitBurst != 30 {
		t.Errorf("invalid burst should fall back to 30, got %d", cfg.RateLimitBurst)
	}
	if cfg.CurrencyCode != "USD" {
		t.Errorf("CurrencyCode = %q", cfg.CurrencyCode)
	}
}

func TestInvalidAdminPatternFallsBack(t *testing.T) {
	t.Setenv("ADMIN_CHARGE_PATTERN", "([")
	cfg := FromEnv()
	if cfg.AdminChargePattern.String() != DefaultAdminChargePattern {
		t.Errorf("pattern = %q, want default", cfg.AdminChargePattern.String())
	}
}
