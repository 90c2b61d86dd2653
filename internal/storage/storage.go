package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/holaholu/url-shortener/internal/models"
)

var (
	// ErrNotFound is returned when a key does not exist
	ErrNotFound = errors.New("key not found")
)

// Store is a flat string key-value store. Every method is atomic on its own;
// nothing is atomic across calls.
type Store interface {
	// Get returns the value stored at key, or ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key, replacing any previous value
	Set(ctx context.Context, key, value string) error

	// SetNX stores value at key only if key does not exist yet.
	// It reports whether the value was written.
	SetNX(ctx context.Context, key, value string) (bool, error)

	// Exists reports whether key is present
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes all given keys in a single operation. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error

	// Close closes any connections
	Close() error
}

// Options selects and configures a storage backend
type Options struct {
	Type     models.StorageType
	Redis    RedisConfig
	Postgres PostgresConfig
}

// Open creates the Store described by opts
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Type {
	case models.Redis:
		return NewRedisStorage(ctx, opts.Redis)
	case models.Postgres:
		return NewPostgresStorage(ctx, opts.Postgres)
	case models.Memory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", opts.Type)
	}
}
