package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Admin    AdminConfig
	Throttle ThrottleConfig
	Database DatabaseConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// AdminConfig holds the back-office credential material. Both values are
// optional at load time: the docs site can run without the admin surface,
// and their absence is reported as a misconfiguration by the login endpoint
// rather than refusing to boot.
type AdminConfig struct {
	PasswordHash  string
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool
}

type ThrottleConfig struct {
	Window          time.Duration
	MaxAttempts     int
	Lockout         time.Duration
	Store           string // "memory" or "postgres"
	CleanupInterval time.Duration
}

type DatabaseConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
		},
		Admin: AdminConfig{
			PasswordHash:  strings.TrimSpace(getEnv("ADMIN_PASSWORD_HASH", "")),
			SessionSecret: strings.TrimSpace(getEnv("ADMIN_JWT_SECRET", "")),
			SessionTTL:    getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
			CookieSecure:  env == "production",
		},
		Throttle: ThrottleConfig{
			Window:          getEnvAsDuration("LOGIN_WINDOW", 10*time.Minute),
			MaxAttempts:     getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
			Lockout:         getEnvAsDuration("LOGIN_LOCKOUT", 30*time.Minute),
			Store:           getEnv("THROTTLE_STORE", "memory"),
			CleanupInterval: getEnvAsDuration("THROTTLE_CLEANUP_INTERVAL", 15*time.Minute),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        int32(getEnvAsInt("DB_MAX_CONNS", 10)),
			MinConns:        int32(getEnvAsInt("DB_MIN_CONNS", 2)),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
		},
	}

	if cfg.Admin.SessionSecret != "" {
		if err := validateSessionSecret(cfg.Admin.SessionSecret, env); err != nil {
			return nil, err
		}
	}

	switch cfg.Throttle.Store {
	case "memory":
	case "postgres":
		if cfg.Database.URL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when THROTTLE_STORE=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown THROTTLE_STORE %q (expected memory or postgres)", cfg.Throttle.Store)
	}

	return cfg, nil
}

// validateSessionSecret enforces minimum security standards for the session
// signing secret when one is configured.
func validateSessionSecret(secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32 // 256 bits
	}

	if len(secret) < minLength {
		return fmt.Errorf("ADMIN_JWT_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("ADMIN_JWT_SECRET cannot be a common weak value")
		}
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		originsStr := getEnv("ALLOWED_ORIGINS", "")
		if originsStr == "" {
			return []string{}
		}
		origins := strings.Split(originsStr, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		return origins
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
	}
}
