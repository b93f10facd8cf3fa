package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arnavshah/bloodclub-api-go/pkg/compat"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_PATH", "ADMIN_USERNAME", "TOKEN_TTL_HOURS", "MIN_DAYS_WHOLE_BLOOD", "MIN_DAYS_PLASMA"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Port)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("Expected 24h token TTL, got %s", cfg.TokenTTL)
	}
	if cfg.Policies[compat.WholeBlood].MinDays != compat.WholeBloodInterval {
		t.Errorf("Expected whole blood default of %d days, got %d", compat.WholeBloodInterval, cfg.Policies[compat.WholeBlood].MinDays)
	}
}

func TestLoad_IntervalOverride(t *testing.T) {
	t.Setenv("MIN_DAYS_PLASMA", "14")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Policies[compat.Plasma].MinDays != 14 {
		t.Errorf("Expected plasma override of 14, got %d", cfg.Policies[compat.Plasma].MinDays)
	}
	if cfg.Policies[compat.Plasma].Type != compat.Plasma {
		t.Errorf("Expected policy type to be kept, got %q", cfg.Policies[compat.Plasma].Type)
	}
}

func TestLoad_RejectsBadInterval(t *testing.T) {
	for _, bad := range []string{"soon", "-3"} {
		t.Setenv("MIN_DAYS_WHOLE_BLOOD", bad)
		if _, err := Load(); err == nil {
			t.Errorf("Expected error for MIN_DAYS_WHOLE_BLOOD=%q", bad)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("BLOODCLUB_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("BLOODCLUB_TEST_VALUE") })

	LoadDotEnv(filepath.Join(dir, "missing.env"), path)

	if got := os.Getenv("BLOODCLUB_TEST_VALUE"); got != "from-file" {
		t.Errorf("Expected value from .env, got %q", got)
	}
}
