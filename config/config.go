// Package config loads service configuration from the environment.
//
// A .env file in the working directory is read first when present; real
// environment variables always win over values from the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers accepted by DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds the complete service configuration.
type Config struct {
	Service   ServiceConfig
	Logging   LoggingConfig
	Tracing   TracingConfig
	Profiling ProfilingConfig
	Database  DatabaseConfig
	Security  SecurityConfig
	External  ExternalConfig
	RateLimit RateLimitConfig
	Shutdown  ShutdownConfig
}

type ServiceConfig struct {
	Name    string
	Version string
	Env     string
	Port    string
}

type LoggingConfig struct {
	Level string
}

type TracingConfig struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

type ProfilingConfig struct {
	Enabled  bool
	Endpoint string
}

// DatabaseConfig selects the storage backend. URL is only required for the
// postgres driver.
type DatabaseConfig struct {
	Driver         string
	URL            string
	MaxConns       int32
	MinConns       int32
	MigrateOnStart bool
}

// SecurityConfig configures password hashing and token issuance.
type SecurityConfig struct {
	TokenSecret       string
	TokenExpirationMs int64
	// ExpiryZone is a fixed UTC offset ("-03:00") in which the token expiry
	// wall clock is interpreted. Empty disables the shift.
	ExpiryZone string
	BcryptCost int
}

type ExternalConfig struct {
	TimeURL  string
	TimeZone string
	Timeout  string
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

type ShutdownConfig struct {
	Timeout             string
	ReadinessDrainDelay string
}

// Load reads configuration from the environment, falling back to defaults.
func Load() *Config {
	// Missing .env is the normal case in containers.
	_ = godotenv.Load()

	return &Config{
		Service: ServiceConfig{
			Name:    getEnv("SERVICE_NAME", "aposta-apoio-service"),
			Version: getEnv("VERSION", "dev"),
			Env:     getEnv("ENV", "development"),
			Port:    getEnv("PORT", "8080"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Tracing: TracingConfig{
			Enabled:    getEnvBool("TRACING_ENABLED", false),
			Endpoint:   getEnv("OTEL_COLLECTOR_ENDPOINT", "otel-collector:4318"),
			SampleRate: getEnvFloat("OTEL_SAMPLE_RATE", 0.1),
		},
		Profiling: ProfilingConfig{
			Enabled:  getEnvBool("PROFILING_ENABLED", false),
			Endpoint: getEnv("PYROSCOPE_ENDPOINT", "http://pyroscope:4040"),
		},
		Database: DatabaseConfig{
			Driver:         strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       int32(getEnvInt("DB_POOL_MAX_CONNECTIONS", 10)),
			MinConns:       int32(getEnvInt("DB_POOL_MIN_CONNECTIONS", 1)),
			MigrateOnStart: getEnvBool("DB_MIGRATE_ON_START", true),
		},
		Security: SecurityConfig{
			TokenSecret:       getEnv("JWT_SECRET", ""),
			TokenExpirationMs: getEnvInt64("JWT_EXPIRATION_MS", 3600000),
			ExpiryZone:        getEnv("JWT_EXPIRY_ZONE", "-03:00"),
			BcryptCost:        getEnvInt("BCRYPT_COST", 10),
		},
		External: ExternalConfig{
			TimeURL:  getEnv("EXTERNAL_TIME_URL", "https://worldtimeapi.org/api/timezone/America/Sao_Paulo"),
			TimeZone: getEnv("EXTERNAL_TIME_ZONE", "America/Sao_Paulo"),
			Timeout:  getEnv("EXTERNAL_TIME_TIMEOUT", "5s"),
		},
		RateLimit: RateLimitConfig{
			Enabled: getEnvBool("AUTH_RATE_LIMIT_ENABLED", true),
			RPS:     getEnvFloat("AUTH_RATE_LIMIT_RPS", 5),
			Burst:   getEnvInt("AUTH_RATE_LIMIT_BURST", 10),
		},
		Shutdown: ShutdownConfig{
			Timeout:             getEnv("SHUTDOWN_TIMEOUT", "10s"),
			ReadinessDrainDelay: getEnv("READINESS_DRAIN_DELAY", "5s"),
		},
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Service.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DB_DRIVER=postgres"))
		}
		if c.Database.MaxConns < 1 {
			errs = append(errs, errors.New("DB_POOL_MAX_CONNECTIONS must be at least 1"))
		}
		if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
			errs = append(errs, errors.New("DB_POOL_MIN_CONNECTIONS must be between 0 and DB_POOL_MAX_CONNECTIONS"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not supported (use %s or %s)", c.Database.Driver, DriverPostgres, DriverMemory))
	}

	if c.Security.TokenSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Security.TokenExpirationMs < 1000 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MS must be at least 1000"))
	}
	if _, err := c.GetExpiryLocation(); err != nil {
		errs = append(errs, err)
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		errs = append(errs, errors.New("BCRYPT_COST must be between 4 and 31"))
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, errors.New("OTEL_SAMPLE_RATE must be between 0 and 1"))
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1) {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT_RPS and AUTH_RATE_LIMIT_BURST must be positive"))
	}

	for name, raw := range map[string]string{
		"SHUTDOWN_TIMEOUT":      c.Shutdown.Timeout,
		"READINESS_DRAIN_DELAY": c.Shutdown.ReadinessDrainDelay,
		"EXTERNAL_TIME_TIMEOUT": c.External.Timeout,
	} {
		if _, err := time.ParseDuration(raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", name, raw))
		}
	}

	return errors.Join(errs...)
}

// GetTokenExpiration returns the configured token lifetime.
func (c *Config) GetTokenExpiration() time.Duration {
	return time.Duration(c.Security.TokenExpirationMs) * time.Millisecond
}

// GetExpiryLocation parses Security.ExpiryZone. A nil location means token
// expiry is computed without any zone shift.
func (c *Config) GetExpiryLocation() (*time.Location, error) {
	zone := strings.TrimSpace(c.Security.ExpiryZone)
	if zone == "" {
		return nil, nil
	}
	t, err := time.Parse("-07:00", zone)
	if err != nil {
		return nil, fmt.Errorf("JWT_EXPIRY_ZONE: invalid offset %q (expected e.g. -03:00)", zone)
	}
	_, offset := t.Zone()
	return time.FixedZone(zone, offset), nil
}

func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	return parseDurationOr(c.Shutdown.Timeout, 10*time.Second)
}

func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	return parseDurationOr(c.Shutdown.ReadinessDrainDelay, 5*time.Second)
}

func (c *Config) GetExternalTimeoutDuration() time.Duration {
	return parseDurationOr(c.External.Timeout, 5*time.Second)
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvInt64(key string, fallback int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}
