package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"go-inventory-api/pkg/database"
)

const (
	// PortEnv is the HTTP listen port.
	PortEnv = "PORT"

	// StoreDriverEnv selects the product store: "postgres" or "memory".
	StoreDriverEnv = "STORE_DRIVER"

	DatabaseURLEnv = "DATABASE_URL"
	DBHostEnv      = "DB_HOST"
	DBUserEnv      = "DB_USER"
	DBPasswordEnv  = "DB_PASSWORD"
	DBNameEnv      = "DB_NAME"
	DBPortEnv      = "DB_PORT"

	JWTSecretEnv   = "JWT_SECRET"
	JWTTTLHoursEnv = "JWT_TTL_HOURS"

	LogLevelEnv    = "LOG_LEVEL"
	LogEncodingEnv = "LOG_ENCODING"

	CORSOriginEnv = "CORS_ORIGIN"

	RateLimitWindowMsEnv    = "RATE_LIMIT_WINDOW_MS"
	RateLimitMaxRequestsEnv = "RATE_LIMIT_MAX_REQUESTS"

	MetricsEnabledEnv = "METRICS_ENABLED"

	// AdminEmailEnv and AdminPasswordEnv seed the first admin account.
	AdminEmailEnv    = "ADMIN_EMAIL"
	AdminPasswordEnv = "ADMIN_PASSWORD"

	// EnvFilePath points at an alternative .env file.
	EnvFilePath        = "ENV_PATH"
	DefaultEnvFilePath = ".env"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

var (
	// ErrMissingConfig is returned when required configuration values are missing.
	ErrMissingConfig = errors.New("missing config data")
	ErrInvalidConfig = errors.New("invalid config value")
)

type Config struct {
	Port        string
	StoreDriver string
	Database    database.Config
	JWT         JWT
	Log         Log
	CORSOrigin  string
	RateLimit   RateLimit
	Metrics     bool
	Admin       Admin
}

type JWT struct {
	Secret string
	TTL    time.Duration
}

type Log struct {
	Level    string
	Encoding string
}

type RateLimit struct {
	Window      time.Duration
	MaxRequests int
}

type Admin struct {
	Email    string
	Password string
}

func (c *Config) validate() error {
	if c.StoreDriver != StorePostgres && c.StoreDriver != StoreMemory {
		return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, StoreDriverEnv, c.StoreDriver)
	}

	if c.StoreDriver == StorePostgres && c.Database.URL == "" {
		if err := allNonEmpty(map[string]string{
			DBHostEnv: c.Database.Host,
			DBUserEnv: c.Database.User,
			DBNameEnv: c.Database.Name,
			DBPortEnv: c.Database.Port,
		}); err != nil {
			return fmt.Errorf("database configuration incomplete: %w", err)
		}
	}

	if err := allNonEmpty(map[string]string{JWTSecretEnv: c.JWT.Secret}); err != nil {
		return err
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, PortEnv, c.Port)
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, JWTTTLHoursEnv)
	}
	if c.RateLimit.Window <= 0 || c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("%w: rate limit window and max must be positive", ErrInvalidConfig)
	}
	return nil
}

func allNonEmpty(keyValues map[string]string) error {
	for key, value := range keyValues {
		if value == "" {
			return fmt.Errorf("%w for key: %s", ErrMissingConfig, key)
		}
	}
	return nil
}

func getEnv(name, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(name)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if val, err := strconv.ParseBool(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

// ApplyEnvFile loads environment variables from the specified .env files.
// Variables already present in the environment win.
func ApplyEnvFile(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Load reads the process environment into a validated Config. Call
// ApplyEnvFile first to pick up a .env file.
func Load() (*Config, error) {
	conf := &Config{
		Port:        getEnv(PortEnv, "3000"),
		StoreDriver: strings.ToLower(getEnv(StoreDriverEnv, StorePostgres)),
		Database: database.Config{
			URL:      os.Getenv(DatabaseURLEnv),
			Host:     os.Getenv(DBHostEnv),
			User:     os.Getenv(DBUserEnv),
			Password: os.Getenv(DBPasswordEnv),
			Name:     os.Getenv(DBNameEnv),
			Port:     getEnv(DBPortEnv, "5432"),
		},
		JWT: JWT{
			Secret: os.Getenv(JWTSecretEnv),
			TTL:    time.Duration(getEnvAsInt(JWTTTLHoursEnv, 24)) * time.Hour,
		},
		Log: Log{
			Level:    getEnv(LogLevelEnv, "info"),
			Encoding: getEnv(LogEncodingEnv, "json"),
		},
		CORSOrigin: getEnv(CORSOriginEnv, "*"),
		RateLimit: RateLimit{
			Window:      time.Duration(getEnvAsInt(RateLimitWindowMsEnv, 15*60*1000)) * time.Millisecond,
			MaxRequests: getEnvAsInt(RateLimitMaxRequestsEnv, 100),
		},
		Metrics: getEnvAsBool(MetricsEnabledEnv, true),
		Admin: Admin{
			Email:    strings.ToLower(os.Getenv(AdminEmailEnv)),
			Password: os.Getenv(AdminPasswordEnv),
		},
	}
	conf.Database.LogLevel = conf.Log.Level

	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}

// EnvPath returns the .env file to load.
func EnvPath() string {
	return getEnv(EnvFilePath, DefaultEnvFilePath)
}
