// Package config loads and validates application configuration from
// environment variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/smarttrip/tripplanner/internal/domain"
)

// Supported values for DB_DRIVER and GEMINI_TRANSPORT.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	TransportSDK  = "sdk"
	TransportREST = "rest"
)

// Fallbacks for variables that are set but empty.
const (
	defaultPort        = "8080"
	defaultLogLevel    = "info"
	defaultCORSOrigins = "http://localhost:5173"
)

// minSecretLen is the shortest JWT secret that does not trigger a warning.
const minSecretLen = 32

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `envconfig:"PORT" default:"8080"`

	// LogLevel controls the minimum log level: debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`

	// DatabaseURL is the Postgres connection string, or the SQLite file path
	// (bare or as a file: URI) when DBDriver is "sqlite". Required.
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBDriver    string `envconfig:"DB_DRIVER" default:"postgres"`

	// JWTSecretKey signs access tokens. Required.
	JWTSecretKey string        `envconfig:"JWT_SECRET_KEY"`
	JWTTTL       time.Duration `envconfig:"JWT_TTL" default:"15m"`

	// GeminiAPIKey may be empty at boot; planning calls then fail with a
	// configuration error.
	GeminiAPIKey     string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel      string        `envconfig:"GEMINI_MODEL_NAME" default:"gemini-2.0-flash-exp"`
	GeminiAPIVersion string        `envconfig:"GEMINI_API_VERSION" default:"v1beta"`
	GeminiTransport  string        `envconfig:"GEMINI_TRANSPORT" default:"sdk"`
	GeminiBaseURL    string        `envconfig:"GEMINI_BASE_URL"`
	GeminiTimeout    time.Duration `envconfig:"GEMINI_TIMEOUT" default:"60s"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `envconfig:"MAX_BODY_BYTES" default:"1048576"`

	// HistoryLimit is the default page size of GET /api/history.
	HistoryLimit int `envconfig:"HISTORY_LIMIT" default:"10"`
}

// Load reads configuration from environment variables and returns a Config.
// envFiles are loaded first without overriding variables already set; when
// none are given, ./.env is loaded if it exists. The result is validated and
// an error lists every problem at once.
func Load(envFiles ...string) (Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		err := godotenv.Load(".env")
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config.Load: read .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	return nil
}

// normalize applies fallbacks for variables that are set but empty, and
// cleans list and enum values.
func (c *Config) normalize() {
	if strings.TrimSpace(c.Port) == "" {
		c.Port = defaultPort
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = defaultLogLevel
	}
	c.CORSOrigins = cleanList(c.CORSOrigins)
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{defaultCORSOrigins}
	}
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.GeminiTransport = strings.ToLower(strings.TrimSpace(c.GeminiTransport))
	c.GeminiAPIKey = strings.TrimSpace(c.GeminiAPIKey)
}

// Validate reports missing required variables and out-of-range values.
func (c Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecretKey == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", ")))
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if c.DBDriver != DriverPostgres && c.DBDriver != DriverSQLite {
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not one of %s, %s", c.DBDriver, DriverPostgres, DriverSQLite))
	}
	if c.GeminiTransport != TransportSDK && c.GeminiTransport != TransportREST {
		errs = append(errs, fmt.Errorf("GEMINI_TRANSPORT %q is not one of %s, %s", c.GeminiTransport, TransportSDK, TransportREST))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.GeminiTimeout <= 0 {
		errs = append(errs, errors.New("GEMINI_TIMEOUT must be positive"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}
	if c.HistoryLimit < 1 || c.HistoryLimit > domain.MaxHistoryLimit {
		errs = append(errs, fmt.Errorf("HISTORY_LIMIT must be between 1 and %d", domain.MaxHistoryLimit))
	}
	return errors.Join(errs...)
}

// Warnings lists settings that are accepted but unsafe or degraded.
func (c Config) Warnings() []string {
	var w []string
	if c.GeminiAPIKey == "" {
		w = append(w, "GEMINI_API_KEY is not set; planning requests will fail with a configuration error")
	}
	if c.JWTSecretKey != "" && len(c.JWTSecretKey) < minSecretLen {
		w = append(w, fmt.Sprintf("JWT_SECRET_KEY is shorter than %d bytes", minSecretLen))
	}
	for _, o := range c.CORSOrigins {
		if o == "*" {
			w = append(w, "CORS_ORIGINS allows any origin")
			break
		}
	}
	return w
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// cleanList trims entries and drops empty ones.
func cleanList(in []string) []string {
	var out []string
	for _, part := range in {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
