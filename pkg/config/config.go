package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/arnavshah/bloodclub-api-go/pkg/compat"
	"github.com/joho/godotenv"
)

// Config holds runtime settings read from the environment
type Config struct {
	Port            string
	DatabaseURL     string
	DataPath        string
	JWTSecret       string
	APIMasterSecret string
	AdminUsername   string
	AdminPassword   string
	TokenTTL        time.Duration
	Policies        compat.Policies
}

var minDaysEnv = map[compat.DonationType]string{
	compat.WholeBlood: "MIN_DAYS_WHOLE_BLOOD",
	compat.Plasma:     "MIN_DAYS_PLASMA",
	compat.Platelets:  "MIN_DAYS_PLATELETS",
	compat.DoubleRed:  "MIN_DAYS_DOUBLE_RED",
}

// LoadDotEnv loads the first .env found in the given paths
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env", "../.env", "../../.env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load builds a Config from environment variables, applying defaults
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8000"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DataPath:        getEnv("DATA_PATH", "bloodclub.db"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		APIMasterSecret: os.Getenv("API_MASTER_SECRET"),
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "admin123"),
		Policies:        compat.DefaultPolicies(),
	}

	ttl, err := getInt("TOKEN_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cfg.TokenTTL = time.Duration(ttl) * time.Hour

	for t, key := range minDaysEnv {
		days, err := getInt(key, cfg.Policies[t].MinDays)
		if err != nil {
			return nil, err
		}
		cfg.Policies[t] = compat.Policy{Type: t, MinDays: days}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, raw)
	}
	return n, nil
}
