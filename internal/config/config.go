package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/holaholu/url-shortener/internal/models"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	ShortID   ShortIDConfig   `mapstructure:"shortid"`
	Snowflake SnowflakeConfig `mapstructure:"snowflake"`
	Validator ValidatorConfig `mapstructure:"validator"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// Source is the config file that was read, empty when none was found
	Source string `mapstructure:"-"`
}

// ServerConfig represents the server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	BaseURL         string        `mapstructure:"base_url"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RedisConfig holds Redis connection parameters
type RedisConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PostgresConfig holds PostgreSQL connection parameters
type PostgresConfig struct {
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// StorageConfig represents the storage configuration
type StorageConfig struct {
	Type     models.StorageType `mapstructure:"type"` // "memory", "redis", "postgres"
	Redis    RedisConfig        `mapstructure:"redis"`
	Postgres PostgresConfig     `mapstructure:"postgres"`
}

// ShortIDConfig controls short ID allocation
type ShortIDConfig struct {
	Length      int `mapstructure:"length"`
	MaxAttempts int `mapstructure:"max_attempts"`
}

// SnowflakeConfig represents the configuration for request ID generation
type SnowflakeConfig struct {
	MachineID int64 `mapstructure:"machine_id"`
}

// ValidatorConfig controls the URL liveness probe
type ValidatorConfig struct {
	Timeout            time.Duration `mapstructure:"timeout"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
}

// TelemetryConfig controls OpenTelemetry export and logging environment
type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name"`
	Environment  string `mapstructure:"environment"`
}

// Load loads the configuration using Viper
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080/")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("storage.type", models.Redis.String())
	v.SetDefault("storage.redis.url", "")
	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", 6379)
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)

	v.SetDefault("storage.postgres.url", "")
	v.SetDefault("storage.postgres.host", "localhost")
	v.SetDefault("storage.postgres.port", 5432)
	v.SetDefault("storage.postgres.user", "postgres")
	v.SetDefault("storage.postgres.password", "postgres")
	v.SetDefault("storage.postgres.dbname", "shortlink")
	v.SetDefault("storage.postgres.sslmode", "disable")
	v.SetDefault("storage.postgres.max_open_conns", 25)
	v.SetDefault("storage.postgres.max_idle_conns", 5)
	v.SetDefault("storage.postgres.conn_max_lifetime", time.Minute*15)

	v.SetDefault("shortid.length", 6)
	v.SetDefault("shortid.max_attempts", 10)
	v.SetDefault("snowflake.machine_id", 1)

	v.SetDefault("validator.timeout", 5*time.Second)
	v.SetDefault("validator.insecure_skip_verify", true)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4318")
	v.SetDefault("telemetry.service_name", "shortlink")
	v.SetDefault("telemetry.environment", "development")

	// Add multiple search paths for config file
	v.SetConfigName("config") // config.yaml
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Read environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("SHORTLINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Plain REDIS_* names are honoured for existing deployments
	for key, legacy := range map[string]string{
		"storage.redis.host":     "REDIS_HOST",
		"storage.redis.port":     "REDIS_PORT",
		"storage.redis.password": "REDIS_PASSWORD",
	} {
		if err := v.BindEnv(key, "SHORTLINK_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), legacy); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		cfg.Source = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	if _, err := models.ParseStorageType(c.Storage.Type.String()); err != nil {
		return err
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.ShortID.Length < 1 || c.ShortID.Length > 64 {
		return fmt.Errorf("shortid.length must be between 1 and 64, got %d", c.ShortID.Length)
	}
	if c.ShortID.MaxAttempts < 1 {
		return fmt.Errorf("shortid.max_attempts must be positive, got %d", c.ShortID.MaxAttempts)
	}
	if c.Validator.Timeout <= 0 {
		return fmt.Errorf("validator.timeout must be positive, got %s", c.Validator.Timeout)
	}
	return nil
}
