// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when present), loads them into structured Go types, and validates
// them so the phonebook fails fast on bad or missing configuration.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values and enum-like settings.
//   - Provide defaults for everything optional (port 3001, memory store, ...).
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process environment before any env var is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the PHONEBOOK_ prefix. After the prefix is
	removed and the key lowercased, a double underscore marks one level of
	nesting, so PHONEBOOK_SERVER__PORT -> server.port -> Config.Server.Port
	and PHONEBOOK_STORE__DUPLICATE_NAMES -> store.duplicate_names.
*/

// EnvPrefix is the prefix shared by every environment variable the app reads.
const EnvPrefix = "PHONEBOOK_"

// Store drivers understood by the repository layer.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Duplicate name policies for contact creation.
const (
	DuplicateNamesAllow  = "allow"
	DuplicateNamesReject = "reject"
)

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Store         StoreConfig          `koanf:"store" validate:"required"`
	Database      DatabaseConfig       `koanf:"database"`
	Redis         RedisConfig          `koanf:"redis"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
// Used to tag logs/traces and to switch behavior based on env.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are stored as seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// StoreConfig selects the record store backend and the uniqueness policy
// applied to contact names.
type StoreConfig struct {
	Driver         string `koanf:"driver" validate:"required,oneof=memory postgres redis"`
	DuplicateNames string `koanf:"duplicate_names" validate:"required,oneof=allow reject"`
}

// RejectsDuplicateNames reports whether creating a contact whose name is
// already stored must fail.
func (s StoreConfig) RejectsDuplicateNames() bool {
	return s.DuplicateNames == DuplicateNamesReject
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
// Only required when Store.Driver is "postgres".
type DatabaseConfig struct {
	Host            string `koanf:"host"`
	Port            int    `koanf:"port"`
	User            string `koanf:"user"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name"`
	SSLMode         string `koanf:"ssl_mode"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time"`
}

// DSN builds a postgres:// connection string. The password is URL-escaped
// and IPv6 hosts are bracketed.
func (d DatabaseConfig) DSN() string {
	hostPort := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User,
		url.QueryEscape(d.Password),
		hostPort,
		d.Name,
		d.SSLMode,
	)
}

// RedisConfig contains Redis connection details.
// Address is "host:port". KeyPrefix namespaces every key the store writes.
type RedisConfig struct {
	Address   string `koanf:"address"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db"`
	KeyPrefix string `koanf:"key_prefix"`
}

// DefaultConfig returns the configuration used for every key the
// environment does not set.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "3001",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Store: StoreConfig{
			Driver:         DriverMemory,
			DuplicateNames: DuplicateNamesAllow,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "phonebook",
			Name:            "phonebook",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 60,
		},
		Redis: RedisConfig{
			Address:   "localhost:6379",
			KeyPrefix: "phonebook",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables on top of
// DefaultConfig, validates it and returns the result.
//
// Behavior summary:
//   - Loads env vars with prefix PHONEBOOK_, splitting list values on commas
//   - Unmarshals into a Config pre-filled with defaults
//   - Honours a bare PORT variable when server.port is not set explicitly
//   - Validates struct tags, then driver specific requirements
//   - Sets default observability if missing and validates it
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := DefaultConfig()

	// Unmarshal only overwrites the keys koanf actually holds,
	// so the defaults above survive for anything not set.
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" && !k.Exists("server.port") {
		mainConfig.Server.Port = port
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are forced so telemetry stays consistent.
	mainConfig.Observability.ServiceName = "phonebook"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// listKeys are the config keys whose env value is a comma separated list.
var listKeys = map[string]bool{
	"server.cors_allowed_origins": true,
}

// envValue maps an env var to its koanf key, splitting list values so
// PHONEBOOK_SERVER__CORS_ALLOWED_ORIGINS=http://a,http://b yields two origins.
func envValue(s, v string) (string, any) {
	key := envKey(s)
	if !listKeys[key] {
		return key, v
	}

	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// envKey maps PHONEBOOK_SERVER__PORT to server.port.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Validate runs the struct tag validation and the rules that depend on
// more than one field.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch c.Store.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
			return fmt.Errorf("database host, name and user are required for the %s store", DriverPostgres)
		}
		if c.Database.Port <= 0 {
			return fmt.Errorf("database port must be positive, got %d", c.Database.Port)
		}
	case DriverRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("redis address is required for the %s store", DriverRedis)
		}
	}

	if c.Observability != nil {
		if err := c.Observability.Validate(); err != nil {
			return fmt.Errorf("invalid observability config: %w", err)
		}
	}

	return nil
}
