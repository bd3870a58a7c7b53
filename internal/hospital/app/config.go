package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jotonhealth/joton/pkg/cryptox"
	"github.com/jotonhealth/joton/pkg/jwtx"
)

type Config struct {
	Issuer string // Issuer claim for tokens (default: joton)

	AccessSecret  string        // Required: HMAC secret for access tokens
	RefreshSecret string        // Required: HMAC secret for refresh tokens, must differ from AccessSecret
	AccessTTL     time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL    time.Duration // Optional: refresh token lifetime (default: 168h)

	BcryptCost              int    // Optional: bcrypt cost for password hashing (default: 12, floor: 10)
	AdminRegistrationSecret string // Optional: enables first-run admin registration when set

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./joton.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:        getEnvOrDefault("JOTON_ISSUER", "joton"),
		AccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		RefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessTTL:     getEnvDurationOrDefault("JWT_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:    getEnvDurationOrDefault("JWT_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),

		BcryptCost:              getEnvIntOrDefault("BCRYPT_COST", cryptox.DefaultCost),
		AdminRegistrationSecret: os.Getenv("ADMIN_REGISTRATION_SECRET"),

		DatabaseFile:        getEnvOrDefault("JOTON_DATABASE_FILE", "joton.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate fails fast on a misconfigured deployment: the process must not
// come up able to sign tokens with missing or shared secrets, or to hash
// passwords below the cost floor.
func (cfg Config) Validate() error {
	if cfg.AccessSecret == "" {
		return errors.New("JWT_ACCESS_SECRET is required")
	}
	if cfg.RefreshSecret == "" {
		return errors.New("JWT_REFRESH_SECRET is required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if err := cryptox.ValidateCost(cfg.BcryptCost); err != nil {
		return fmt.Errorf("BCRYPT_COST: %w", err)
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	return nil
}

// SecureCookies reports whether auth cookies should carry the Secure flag.
// Only the dev environment runs without TLS.
func (cfg Config) SecureCookies() bool {
	return cfg.Env != "dev"
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

	return defaultValue
}
