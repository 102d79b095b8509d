// Package config loads application configuration. Defaults are overridden
// by an optional YAML file (ECOM_CONFIG_FILE), which in turn is overridden
// by environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KeenIsHere/reactecom/pkg/database"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Database database.Config `yaml:"database"`
	Redis    RedisConfig     `yaml:"redis"`
	Auth     AuthConfig      `yaml:"auth"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`

	// Health/metrics server (separate port for probes)
	HealthPort string `yaml:"health_port"`
}

// RedisConfig holds the optional catalog cache configuration.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	ListTTL  time.Duration `yaml:"list_ttl"`
}

// AuthConfig holds credential subsystem settings.
type AuthConfig struct {
	BcryptCost        int           `yaml:"bcrypt_cost"`
	StoreTimeout      time.Duration `yaml:"store_timeout"`
	ResolverCacheSize int           `yaml:"resolver_cache_size"`
}

// LoggingConfig holds log and metrics settings.
type LoggingConfig struct {
	Level          string `yaml:"level"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
}

// LoadConfig loads configuration: defaults, then the optional YAML file,
// then environment variables.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	if path := getEnv("ECOM_CONFIG_FILE", ""); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxBodyBytes:    1 << 20, // 1MB, bodies are small JSON/forms
			AllowedOrigins:  []string{"*"},
			HealthPort:      "9090",
		},
		Database: database.DefaultConfig(),
		Redis: RedisConfig{
			Enabled: false,
			ListTTL: 5 * time.Minute,
		},
		Auth: AuthConfig{
			BcryptCost:        0, // bcrypt default
			StoreTimeout:      5 * time.Second,
			ResolverCacheSize: 1024,
		},
		Logging: LoggingConfig{
			Level:          "info",
			MetricsEnabled: true,
		},
	}
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("ECOM_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnv("ECOM_PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = getEnvDuration("ECOM_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvDuration("ECOM_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = getEnvDuration("ECOM_IDLE_TIMEOUT", cfg.Server.IdleTimeout)
	cfg.Server.ShutdownTimeout = getEnvDuration("ECOM_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.Server.MaxBodyBytes = getEnvInt64("ECOM_MAX_BODY_BYTES", cfg.Server.MaxBodyBytes)
	cfg.Server.HealthPort = getEnv("ECOM_HEALTH_PORT", cfg.Server.HealthPort)
	if origins := getEnv("ECOM_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.Server.AllowedOrigins = strings.Split(origins, ",")
	}

	cfg.Database.Driver = getEnv("ECOM_DB_DRIVER", cfg.Database.Driver)
	cfg.Database.URL = getEnv("ECOM_DB_URL", cfg.Database.URL)
	cfg.Database.MaxOpenConns = getEnvInt("ECOM_DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = getEnvInt("ECOM_DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)
	cfg.Database.ConnMaxLifetime = getEnvDuration("ECOM_DB_CONN_MAX_LIFETIME", cfg.Database.ConnMaxLifetime)
	cfg.Database.ConnMaxIdleTime = getEnvDuration("ECOM_DB_CONN_MAX_IDLE_TIME", cfg.Database.ConnMaxIdleTime)
	cfg.Database.PingTimeout = getEnvDuration("ECOM_DB_PING_TIMEOUT", cfg.Database.PingTimeout)

	cfg.Redis.Enabled = getEnvBool("ECOM_REDIS_ENABLED", cfg.Redis.Enabled)
	cfg.Redis.URL = getEnv("ECOM_REDIS_URL", cfg.Redis.URL)
	cfg.Redis.Password = getEnv("ECOM_REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("ECOM_REDIS_DB", cfg.Redis.DB)
	cfg.Redis.ListTTL = getEnvDuration("ECOM_REDIS_LIST_TTL", cfg.Redis.ListTTL)

	cfg.Auth.BcryptCost = getEnvInt("ECOM_BCRYPT_COST", cfg.Auth.BcryptCost)
	cfg.Auth.StoreTimeout = getEnvDuration("ECOM_AUTH_STORE_TIMEOUT", cfg.Auth.StoreTimeout)
	cfg.Auth.ResolverCacheSize = getEnvInt("ECOM_AUTH_RESOLVER_CACHE_SIZE", cfg.Auth.ResolverCacheSize)

	cfg.Logging.Level = getEnv("ECOM_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.MetricsEnabled = getEnvBool("ECOM_METRICS_ENABLED", cfg.Logging.MetricsEnabled)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	switch c.Database.Driver {
	case string(database.DialectPostgres), string(database.DialectSQLite):
	default:
		return fmt.Errorf("invalid database driver: %s (must be postgres or sqlite)", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database URL is required")
	}

	if c.Redis.Enabled && c.Redis.URL == "" {
		return fmt.Errorf("redis URL is required when redis is enabled")
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 returns an int64 environment variable or a default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
