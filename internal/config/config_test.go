package config

import (
	"testing"
)

func TestBaseURLEnvOverride(t *testing.T) {
	t.Setenv("SALECTL_BASE_URL", "https://panel.example.test/")
	cfg := Default()
	if got := BaseURL(cfg); got != "https://panel.example.test" {
		t.Fatalf("expected env override without trailing slash, got %q", got)
	}
}

func TestBaseURLFromConfig(t *testing.T) {
	t.Setenv("SALECTL_BASE_URL", "")
	cfg := &Config{PanelBaseURL: "http://localhost:5000/"}
	if got := BaseURL(cfg); got != "http://localhost:5000" {
		t.Fatalf("expected configured base, got %q", got)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.DefaultYears != 1 {
		t.Fatalf("expected default years 1, got %d", cfg.DefaultYears)
	}
	if cfg.OutputDefault != "json" {
		t.Fatalf("expected json output default, got %q", cfg.OutputDefault)
	}
}
