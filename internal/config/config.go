package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	TablePrefix string
	CORSOrigins string

	// StorageDir is the root directory for immutable version blobs
	StorageDir string

	// BaseURL is used when generating public links and the check-update
	// URL embedded in processed PDFs
	BaseURL string

	// RetentionDays is the age threshold past which non-current versions
	// become eligible for pruning
	RetentionDays int

	// SweepInterval is the period of the retention sweeper; the startup
	// run happens SweepStartupDelay after boot
	SweepInterval     time.Duration
	SweepStartupDelay time.Duration

	JWTSecret     string
	JWTExpiration time.Duration
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		TablePrefix: getTablePrefix(env),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		StorageDir: getEnv("STORAGE_DIR", "./data/blobs"),
		BaseURL:    getEnv("BASE_URL", "http://localhost:8080"),

		RetentionDays:     getEnvInt("RETENTION_DAYS", 30),
		SweepInterval:     getEnvDuration("SWEEP_INTERVAL", 6*time.Hour),
		SweepStartupDelay: getEnvDuration("SWEEP_STARTUP_DELAY", 30*time.Second),

		JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
		JWTExpiration: getEnvDuration("JWT_EXPIRATION", 24*time.Hour),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
