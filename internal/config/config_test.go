package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.EmailProvider != "sendgrid" {
		t.Errorf("EmailProvider = %q, want sendgrid", cfg.EmailProvider)
	}
	if cfg.RateLimitMax != 8 {
		t.Errorf("RateLimitMax = %d, want 8", cfg.RateLimitMax)
	}
	if cfg.RateLimitWindow != 10*time.Minute {
		t.Errorf("RateLimitWindow = %v, want 10m", cfg.RateLimitWindow)
	}
	if cfg.AllowedOrigins != nil {
		t.Errorf("AllowedOrigins = %v, want empty", cfg.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LEAD_RATE_LIMIT_MAX", "3")
	t.Setenv("LEAD_RATE_LIMIT_WINDOW", "1m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")
	t.Setenv("EMAIL_PROVIDER", "SES")
	t.Setenv("SES_FROM_EMAIL", "quotes@fence.example.com")

	cfg := Load()

	if cfg.RateLimitMax != 3 {
		t.Errorf("RateLimitMax = %d, want 3", cfg.RateLimitMax)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Errorf("RateLimitWindow = %v, want 1m", cfg.RateLimitWindow)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("AllowedOrigins = %v, want 2 entries", cfg.AllowedOrigins)
	}
	if cfg.AllowedOrigins[0] != "https://a.example.com" {
		t.Errorf("AllowedOrigins[0] = %q", cfg.AllowedOrigins[0])
	}
	if cfg.EmailProvider != "ses" {
		t.Errorf("EmailProvider = %q, want ses (lowercased)", cfg.EmailProvider)
	}
	if got := cfg.FromEmail(); got != "quotes@fence.example.com" {
		t.Errorf("FromEmail() = %q", got)
	}
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("LEAD_RATE_LIMIT_MAX", "not-a-number")
	t.Setenv("LEAD_RATE_LIMIT_WINDOW", "soon")

	cfg := Load()
	if cfg.RateLimitMax != 8 {
		t.Errorf("RateLimitMax = %d, want default 8", cfg.RateLimitMax)
	}
	if cfg.RateLimitWindow != 10*time.Minute {
		t.Errorf("RateLimitWindow = %v, want default 10m", cfg.RateLimitWindow)
	}
}
