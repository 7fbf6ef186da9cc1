package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Config holds runtime settings read from the environment
type Config struct {
	Port    string
	Env     string
	Origins string

	DatabaseURL       string
	FieldDataAPIURL   string
	FieldDataAPIToken string

	FirebaseCredentials string // base64-encoded service account JSON
	FirebaseAPIKey      string

	StalenessThresholdSeconds int
	RefreshSchedule           string
	FetchTimeoutSeconds       int
}

// Load builds a Config from environment variables, applying defaults
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("GO_ENV", "development"),
		Origins:             getEnv("CORS_ORIGINS", "*"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		FieldDataAPIURL:     getEnv("FIELD_DATA_API_URL", ""),
		FieldDataAPIToken:   getEnv("FIELD_DATA_API_TOKEN", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		FirebaseAPIKey:      getEnv("FIREBASE_API_KEY", ""),
		RefreshSchedule:     getEnv("REFRESH_SCHEDULE", "@every 5m"),
	}

	var err error
	if cfg.StalenessThresholdSeconds, err = getEnvInt("STALENESS_THRESHOLD_SECONDS", 86400); err != nil {
		return nil, err
	}
	if cfg.StalenessThresholdSeconds <= 0 {
		return nil, errors.Errorf("config: STALENESS_THRESHOLD_SECONDS must be positive, got %d", cfg.StalenessThresholdSeconds)
	}
	if cfg.FetchTimeoutSeconds, err = getEnvInt("FETCH_TIMEOUT_SECONDS", 10); err != nil {
		return nil, err
	}
	if cfg.FetchTimeoutSeconds <= 0 {
		return nil, errors.Errorf("config: FETCH_TIMEOUT_SECONDS must be positive, got %d", cfg.FetchTimeoutSeconds)
	}

	return cfg, nil
}

// StalenessThreshold returns the configured threshold as a duration
func (c *Config) StalenessThreshold() time.Duration {
	return time.Duration(c.StalenessThresholdSeconds) * time.Second
}

// FetchTimeout returns the record source timeout as a duration
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(err, "config: invalid %s", key)
	}
	return n, nil
}
