// Package config manages environment variables.
//
// It reads variables from the `.env` file,
// loads them into structured Go types (struct), and
// validates that required values are present so they
// can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the POS_ prefix. Keys are lowercased, the prefix is
	removed and a double underscore marks one nesting level:

	  POS_SERVER__PORT             -> server.port             -> Config.Server.Port
	  POS_DATABASE__MAX_OPEN_CONNS -> database.max_open_conns -> Config.Database.MaxOpenConns
*/

// EnvPrefix is the prefix every configuration variable carries.
const EnvPrefix = "POS_"

// ServiceName tags logs, traces and APM dashboards.
const ServiceName = "restaurant-pos"

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Reports       ReportsConfig        `koanf:"reports"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig controls the account login flow.
type AuthConfig struct {
	// SessionTTL is how long an issued session token stays valid.
	SessionTTL time.Duration `koanf:"session_ttl" validate:"min=1m"`

	// DefaultSalt and DefaultPassword seed sample accounts that were
	// provisioned without a password hash.
	DefaultSalt     string `koanf:"default_salt" validate:"required"`
	DefaultPassword string `koanf:"default_password" validate:"required"`

	// UpgradeLegacyHashes rehashes a password with bcrypt after a successful
	// login matched one of the legacy SHA-256 schemes.
	UpgradeLegacyHashes bool `koanf:"upgrade_legacy_hashes"`

	// LoginRatePerMinute caps login attempts per client IP.
	LoginRatePerMinute int `koanf:"login_rate_per_minute" validate:"min=1"`
}

// IntegrationConfig stores credentials of third-party services.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	MailFrom     string `koanf:"mail_from"`
}

// ReportsConfig controls the scheduled revenue report.
// An empty ManagerEmail disables the report.
type ReportsConfig struct {
	ManagerEmail string `koanf:"manager_email" validate:"omitempty,email"`
	DailyCron    string `koanf:"daily_cron"`
}

// defaults are applied before env vars so any of them can be overridden.
var defaults = map[string]any{
	"primary.env":                 "development",
	"server.port":                 "8080",
	"server.read_timeout":         30,
	"server.write_timeout":        30,
	"server.idle_timeout":         60,
	"server.cors_allowed_origins": []string{"*"},
	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.name":               "pos",
	"database.ssl_mode":           "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  300,
	"database.conn_max_idle_time": 60,
	"redis.address":               "localhost:6379",
	"auth.session_ttl":            "12h",
	"auth.default_salt":           "A1B2C3D4E5",
	"auth.default_password":       "123456",
	"auth.upgrade_legacy_hashes":  false,
	"auth.login_rate_per_minute":  20,
	"integration.mail_from":       "Restaurant POS <onboarding@resend.dev>",
	"reports.daily_cron":          "0 6 * * *",
}

// EnvKey maps a raw env var name onto a koanf key path.
func EnvKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// LoadConfig loads configuration from environment variables, unmarshals it into
// Config structs, validates it, applies defaults, and returns the resulting config.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("could not set default %s: %w", key, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", EnvKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are forced so telemetry stays consistent.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// DSN builds the postgres URL for the configured database.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		c.User,
		url.QueryEscape(c.Password),
		net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		c.Name,
		c.SSLMode,
	)
}
