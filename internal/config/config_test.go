package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/holaholu/url-shortener/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Type != models.Redis {
		t.Errorf("Storage.Type = %q, want %q", cfg.Storage.Type, models.Redis)
	}
	if cfg.Storage.Redis.Port != 6379 {
		t.Errorf("Storage.Redis.Port = %d, want 6379", cfg.Storage.Redis.Port)
	}
	if cfg.ShortID.Length != 6 || cfg.ShortID.MaxAttempts != 10 {
		t.Errorf("ShortID = %+v, want length 6, 10 attempts", cfg.ShortID)
	}
	if cfg.Validator.Timeout != 5*time.Second || !cfg.Validator.InsecureSkipVerify {
		t.Errorf("Validator = %+v, want 5s timeout with verification skipped", cfg.Validator)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty without config file", cfg.Source)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SHORTLINK_SERVER_PORT", "9090")
	t.Setenv("SHORTLINK_STORAGE_TYPE", "memory")
	t.Setenv("SHORTLINK_VALIDATOR_TIMEOUT", "2s")
	t.Setenv("SHORTLINK_VALIDATOR_INSECURE_SKIP_VERIFY", "false")
	t.Setenv("SHORTLINK_SHORTID_LENGTH", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Storage.Type != models.Memory {
		t.Errorf("Storage.Type = %q, want memory", cfg.Storage.Type)
	}
	if cfg.Validator.Timeout != 2*time.Second {
		t.Errorf("Validator.Timeout = %s, want 2s", cfg.Validator.Timeout)
	}
	if cfg.Validator.InsecureSkipVerify {
		t.Error("Validator.InsecureSkipVerify = true, want false")
	}
	if cfg.ShortID.Length != 8 {
		t.Errorf("ShortID.Length = %d, want 8", cfg.ShortID.Length)
	}
}

func TestLoad_LegacyRedisEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_PASSWORD", "hunter2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := RedisConfig{Host: "cache.internal", Port: 6380, Password: "hunter2"}
	if cfg.Storage.Redis != want {
		t.Errorf("Storage.Redis = %+v, want %+v", cfg.Storage.Redis, want)
	}

	t.Run("prefixed name wins", func(t *testing.T) {
		t.Setenv("SHORTLINK_STORAGE_REDIS_HOST", "primary.internal")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Storage.Redis.Host != "primary.internal" {
			t.Errorf("Storage.Redis.Host = %q, want primary.internal", cfg.Storage.Redis.Host)
		}
	})
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("storage:\n  type: postgres\n  postgres:\n    dbname: links\nserver:\n  base_url: https://sho.rt/\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	t.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Type != models.Postgres || cfg.Storage.Postgres.DBName != "links" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Storage.Postgres.User != "postgres" {
		t.Errorf("Storage.Postgres.User = %q, want default postgres", cfg.Storage.Postgres.User)
	}
	if cfg.Server.BaseURL != "https://sho.rt/" {
		t.Errorf("Server.BaseURL = %q", cfg.Server.BaseURL)
	}
	if filepath.Base(cfg.Source) != "config.yaml" {
		t.Errorf("Source = %q, want config.yaml", cfg.Source)
	}
}

func TestLoad_InvalidStorageType(t *testing.T) {
	t.Setenv("SHORTLINK_STORAGE_TYPE", "both")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for unknown storage type")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:    ServerConfig{Port: 8080},
			Storage:   StorageConfig{Type: models.Memory},
			ShortID:   ShortIDConfig{Length: 6, MaxAttempts: 10},
			Validator: ValidatorConfig{Timeout: time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage.Type = "sqlite" }, wantErr: true},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "zero length", mutate: func(c *Config) { c.ShortID.Length = 0 }, wantErr: true},
		{name: "too long", mutate: func(c *Config) { c.ShortID.Length = 65 }, wantErr: true},
		{name: "zero attempts", mutate: func(c *Config) { c.ShortID.MaxAttempts = 0 }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Validator.Timeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
