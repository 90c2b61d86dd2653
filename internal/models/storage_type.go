package models

import "fmt"

// StorageType represents the type of storage backend to use
type StorageType string

const (
	// Memory storage type keeps the key space in process memory
	Memory StorageType = "memory"

	// Redis storage type uses Redis for storage
	Redis StorageType = "redis"

	// Postgres storage type keeps the key space in a PostgreSQL table
	Postgres StorageType = "postgres"
)

// String returns the string representation of the storage type
func (s StorageType) String() string {
	return string(s)
}

// ParseStorageType validates s against the known storage types
func ParseStorageType(s string) (StorageType, error) {
	switch t := StorageType(s); t {
	case Memory, Redis, Postgres:
		return t, nil
	default:
		return "", fmt.Errorf("unknown storage type %q (must be memory, redis or postgres)", s)
	}
}
