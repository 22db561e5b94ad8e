// Package config loads the service configuration once at startup.
//
// Values come from the process environment, optionally seeded from a `.env`
// file, and are validated before the service starts.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Server  ServerConfig  `koanf:"server" validate:"required"`
	Storage StorageConfig `koanf:"storage" validate:"required"`
	OTLP    OTLPConfig    `koanf:"otlp" validate:"required"`
}

type ServerConfig struct {
	Host               string        `koanf:"host"`
	Port               string        `koanf:"port" validate:"required,numeric"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins"`
}

type StorageConfig struct {
	Driver         string        `koanf:"driver" validate:"oneof=mongo memory"`
	URI            string        `koanf:"uri" validate:"required_if=Driver mongo"`
	Database       string        `koanf:"database" validate:"required"`
	Collection     string        `koanf:"collection" validate:"required"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"gt=0"`
}

type OTLPConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Endpoint    string `koanf:"endpoint" validate:"required_if=Enabled true"`
	ServiceName string `koanf:"service_name" validate:"required"`
	Environment string `koanf:"environment"`
}

// envKeys maps environment variables onto koanf keys.
var envKeys = map[string]string{
	"SERVER_HOST":                 "server.host",
	"BACKEND_PORT":                "server.port",
	"SERVER_SHUTDOWN_TIMEOUT":     "server.shutdown_timeout",
	"CORS_ALLOWED_ORIGINS":        "server.cors_allowed_origins",
	"STORAGE_DRIVER":              "storage.driver",
	"MONGO_URI":                   "storage.uri",
	"MONGO_DATABASE":              "storage.database",
	"MONGO_COLLECTION":            "storage.collection",
	"MONGO_CONNECT_TIMEOUT":       "storage.connect_timeout",
	"OTEL_ENABLED":                "otlp.enabled",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otlp.endpoint",
	"OTEL_SERVICE_NAME":           "otlp.service_name",
	"OTEL_ENVIRONMENT":            "otlp.environment",
}

// Default returns the configuration used when no environment overrides are set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               "3800",
			ShutdownTimeout:    10 * time.Second,
			CORSAllowedOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Driver:         DriverMongo,
			Database:       "catalog",
			Collection:     "products",
			ConnectTimeout: 10 * time.Second,
		},
		OTLP: OTLPConfig{
			Enabled:     false,
			Endpoint:    "localhost:4317",
			ServiceName: "products-api",
			Environment: "development",
		},
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		key = envKeys[key]
		if key == "server.cors_allowed_origins" {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the struct tags of the whole tree.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Address returns the host:port pair the HTTP server listens on.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}
