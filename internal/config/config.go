package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultSessionSecret = "default-secret-key-change-me"

type Config struct {
	Port    string
	GinMode string

	// Database
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Sessions
	SessionStore        string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	SessionSecret       string
	SessionMaxAge       int
	SessionCookieSecure bool

	// CSRF
	CSRFEnabled   bool
	CSRFTimeLimit time.Duration

	// Logging
	LogDir        string
	LogLevel      string
	LogMaxSizeMB  int
	LogMaxBackups int

	BcryptCost int
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ginMode := getEnv("GIN_MODE", "debug")

	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: ginMode,

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "todo.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "todouser"),
		DBPassword: getEnv("DB_PASSWORD", "todopassword"),
		DBName:     getEnv("DB_NAME", "todo"),

		SessionStore:        getEnv("SESSION_STORE", "cookie"),
		RedisHost:           getEnv("REDIS_HOST", "localhost"),
		RedisPort:           getEnv("REDIS_PORT", "6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		SessionSecret:       getEnv("SESSION_SECRET", defaultSessionSecret),
		SessionMaxAge:       getEnvAsInt("SESSION_MAX_AGE", 86400*7),
		SessionCookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", ginMode == "release"),

		CSRFEnabled:   getEnvAsBool("CSRF_ENABLED", true),
		CSRFTimeLimit: getEnvAsDuration("CSRF_TIME_LIMIT", time.Hour),

		LogDir:        getEnv("LOG_DIR", "logs"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		LogMaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),

		BcryptCost: getEnvAsInt("BCRYPT_COST", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.SessionStore {
	case "cookie", "redis":
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}

	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET must not be empty")
	}
	if c.GinMode == "release" && c.SessionSecret == defaultSessionSecret {
		return fmt.Errorf("SESSION_SECRET is required in release mode")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
