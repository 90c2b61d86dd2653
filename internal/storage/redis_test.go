package storage

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisStorage(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewRedisStorage(context.Background(), RedisConfig{URL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedisStorage() error = %v", err)
	}
	defer s.Close()

	exerciseStore(t, s)
}

func TestRedisStorage_KeysAreStoredVerbatim(t *testing.T) {
	mr := miniredis.RunT(t)
	port, _ := strconv.Atoi(mr.Port())

	s, err := NewRedisStorage(context.Background(), RedisConfig{Host: mr.Host(), Port: port})
	if err != nil {
		t.Fatalf("NewRedisStorage() error = %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Set(ctx, "id:abc123", "https://www.example.com"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := mr.Get("id:abc123")
	if err != nil {
		t.Fatalf("miniredis Get() error = %v", err)
	}
	if got != "https://www.example.com" {
		t.Errorf("raw value = %q, want %q", got, "https://www.example.com")
	}
	if ttl := mr.TTL("id:abc123"); ttl != 0 {
		t.Errorf("TTL = %v, want no expiry", ttl)
	}
}

func TestRedisStorage_Password(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("secret")
	port, _ := strconv.Atoi(mr.Port())

	if _, err := NewRedisStorage(context.Background(), RedisConfig{Host: mr.Host(), Port: port}); err == nil {
		t.Fatal("NewRedisStorage() without password expected error but got nil")
	}

	s, err := NewRedisStorage(context.Background(), RedisConfig{Host: mr.Host(), Port: port, Password: "secret"})
	if err != nil {
		t.Fatalf("NewRedisStorage() with password error = %v", err)
	}
	s.Close()
}

func TestRedisStorage_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := NewRedisStorage(context.Background(), RedisConfig{URL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedisStorage() error = %v", err)
	}
	defer s.Close()

	mr.Close()

	if _, err := s.Get(context.Background(), "id:abc123"); err == nil || err == ErrNotFound {
		t.Errorf("Get() on closed server error = %v, want connection error", err)
	}
}

func TestRedisConfig_BadURL(t *testing.T) {
	if _, err := NewRedisStorage(context.Background(), RedisConfig{URL: "mysql://nope"}); err == nil {
		t.Error("NewRedisStorage() with bad URL expected error but got nil")
	}
}
