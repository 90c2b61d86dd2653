package main

import (
	"testing"

	"github.com/holaholu/url-shortener/internal/config"
	"github.com/holaholu/url-shortener/internal/models"
	"github.com/holaholu/url-shortener/internal/storage"
)

func TestStorageOptions(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{
			Type: models.Redis,
			Redis: config.RedisConfig{
				Host: "cache", Port: 6380, Password: "secret", DB: 2,
			},
			Postgres: config.PostgresConfig{
				Host: "db", Port: 5432, User: "u", Password: "p", DBName: "links", SSLMode: "disable",
			},
		},
	}

	opts := storageOptions(cfg)

	if opts.Type != models.Redis {
		t.Errorf("Type = %q, want redis", opts.Type)
	}
	wantRedis := storage.RedisConfig{Host: "cache", Port: 6380, Password: "secret", DB: 2}
	if opts.Redis != wantRedis {
		t.Errorf("Redis = %+v, want %+v", opts.Redis, wantRedis)
	}
	if got := opts.Postgres.DSN(); got != "postgres://u:p@db:5432/links?sslmode=disable" {
		t.Errorf("Postgres DSN = %q", got)
	}
}
