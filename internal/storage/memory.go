package storage

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStorage implements Store in process memory. Entries never expire.
type MemoryStorage struct {
	cache *gocache.Cache
}

// NewMemoryStorage creates a new MemoryStorage instance
func NewMemoryStorage() *MemoryStorage {
	// A zero cleanup interval disables the janitor goroutine
	return &MemoryStorage{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get implements Store.Get
func (s *MemoryStorage) Get(_ context.Context, key string) (string, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return "", ErrNotFound
	}
	return v.(string), nil
}

// Set implements Store.Set
func (s *MemoryStorage) Set(_ context.Context, key, value string) error {
	s.cache.Set(key, value, gocache.NoExpiration)
	return nil
}

// SetNX implements Store.SetNX
func (s *MemoryStorage) SetNX(_ context.Context, key, value string) (bool, error) {
	// Add fails when the key is already present
	if err := s.cache.Add(key, value, gocache.NoExpiration); err != nil {
		return false, nil
	}
	return true, nil
}

// Exists implements Store.Exists
func (s *MemoryStorage) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.cache.Get(key)
	return ok, nil
}

// Delete implements Store.Delete. Keys are removed one by one, so a
// concurrent reader may observe a partial delete.
func (s *MemoryStorage) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.cache.Delete(key)
	}
	return nil
}

// Ping always succeeds for memory storage
func (s *MemoryStorage) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored keys
func (s *MemoryStorage) Len() int {
	return s.cache.ItemCount()
}

// Close is a no-op for memory storage
func (s *MemoryStorage) Close() error {
	return nil
}
