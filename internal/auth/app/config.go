package app

import (
	"os"
	"strconv"
	"time"

	"github.com/Vikey-14/pokemon-api/pkg/jwtx"
)

// Store driver names accepted by AUTH_STORE_DRIVER.
const (
	StoreDriverMemory = "memory"
	StoreDriverSQLite = "sqlite"
)

// Registry driver names accepted by AUTH_REGISTRY_DRIVER. "store" reuses
// the credential store's refresh-token table; "redis" points the registry
// at a shared Redis instead.
const (
	RegistryDriverStore = "store"
	RegistryDriverRedis = "redis"
)

// DevSecret signs tokens when AUTH_SECRET is unset. Fine for a laptop,
// never for a deployment; New logs a warning whenever it is in use.
const DevSecret = "pikachu-secret"

type Config struct {
	Secret string // Required in prod: HMAC secret for access tokens
	Issuer string // Issuer claim for tokens (default: pokemon-auth)

	AccessTTL  time.Duration // Access token lifetime (default: 1h)
	RefreshTTL time.Duration // Refresh token lifetime (default: 168h)

	StoreDriver    string // memory or sqlite (default: memory)
	RegistryDriver string // store or redis (default: store)
	DatabaseFile   string // SQLite database file (default: ./auth.db)
	RedisURL       string // Redis URL for the redis registry driver

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Registry purge interval (default: 1h)

	// DisableRateLimits turns off per-route rate limiting. Not read from the
	// environment: tests that need it construct their Config directly, so a
	// deployed binary cannot trip into test behavior via a stray env var.
	DisableRateLimits bool
}

func LoadConfig() Config {
	return Config{
		Secret:               os.Getenv("AUTH_SECRET"),
		Issuer:               getEnvOrDefault("AUTH_ISSUER", "pokemon-auth"),
		AccessTTL:            getEnvDurationOrDefault("AUTH_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:           getEnvDurationOrDefault("AUTH_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),
		StoreDriver:          getEnvOrDefault("AUTH_STORE_DRIVER", StoreDriverMemory),
		RegistryDriver:       getEnvOrDefault("AUTH_REGISTRY_DRIVER", RegistryDriverStore),
		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		RedisURL:             getEnvOrDefault("AUTH_REDIS_URL", "redis://localhost:6379/0"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer values are read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
