package config

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL        string
	Port               string
	GoEnv              string
	Auth0Domain        string
	Auth0Audience      string
	ReconcileScope     string
	AWSRegion          string
	AWSS3Bucket        string
	AWSS3Endpoint      string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	LogLevel           string
	LogFormat          string
	RedisAddr          string
	RedisDB            int
	KafkaBrokers       []string
	KafkaTopic         string
	NormalizeSize      int
	ScoringWorkers     int
	SubmitRateLimit    int
	SubmitRateWindow   time.Duration
	DesignCacheTTL     time.Duration
	CORSOrigins        []string
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	// Determine which environment file to load
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// If environment-specific file doesn't exist, try .env
		if err := godotenv.Load(); err != nil {
			// In production, environment variables are set directly
			// so it's okay if .env files don't exist
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	config := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		Port:               getEnv("PORT", "8080"),
		GoEnv:              getEnv("GO_ENV", "development"),
		Auth0Domain:        getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:      getEnv("AUTH0_AUDIENCE", ""),
		ReconcileScope:     getEnv("RECONCILE_SCOPE", "orders:reconcile"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSS3Endpoint:      getEnv("AWS_S3_ENDPOINT", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		KafkaBrokers:       splitCSV(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "order-reconciliation"),
		CORSOrigins:        splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}

	ints := []struct {
		key      string
		fallback int
		dst      *int
	}{
		{"REDIS_DB", 0, &config.RedisDB},
		{"NORMALIZE_SIZE", 100, &config.NormalizeSize},
		{"SCORING_WORKERS", runtime.NumCPU(), &config.ScoringWorkers},
		{"SUBMIT_RATE_LIMIT", 30, &config.SubmitRateLimit},
	}
	for _, it := range ints {
		v, err := getEnvInt(it.key, it.fallback)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", it.key, err)
		}
		*it.dst = v
	}

	windowSec, err := getEnvInt("SUBMIT_RATE_WINDOW_SEC", 60)
	if err != nil {
		return nil, fmt.Errorf("invalid SUBMIT_RATE_WINDOW_SEC: %w", err)
	}
	config.SubmitRateWindow = time.Duration(windowSec) * time.Second

	cacheMin, err := getEnvInt("DESIGN_CACHE_TTL_MIN", 60)
	if err != nil {
		return nil, fmt.Errorf("invalid DESIGN_CACHE_TTL_MIN: %w", err)
	}
	config.DesignCacheTTL = time.Duration(cacheMin) * time.Minute

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.NormalizeSize <= 0 {
		return fmt.Errorf("NORMALIZE_SIZE must be > 0")
	}
	if c.ScoringWorkers <= 0 {
		return fmt.Errorf("SCORING_WORKERS must be > 0")
	}
	if c.SubmitRateLimit <= 0 {
		return fmt.Errorf("SUBMIT_RATE_LIMIT must be > 0")
	}
	if c.SubmitRateWindow <= 0 {
		return fmt.Errorf("SUBMIT_RATE_WINDOW_SEC must be > 0")
	}
	if c.DesignCacheTTL <= 0 {
		return fmt.Errorf("DESIGN_CACHE_TTL_MIN must be > 0")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		return fmt.Errorf("KAFKA_TOPIC must not be empty when KAFKA_BROKERS is set")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// AuthEnabled reports whether reconcile routes are protected by JWT validation
func (c *Config) AuthEnabled() bool {
	return c.Auth0Domain != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}

// splitCSV splits a comma separated list, dropping empty entries
func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
