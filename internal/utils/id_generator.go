package utils

import (
	"crypto/rand"
	"errors"
	"io"
)

const (
	// Base62Charset is the character set for base62 encoding (0-9, a-z, A-Z)
	Base62Charset = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// DefaultShortIDLength gives 62^6 (about 5.7e10) possible IDs
	DefaultShortIDLength = 6

	// maxShortIDLength bounds both generated and accepted IDs
	maxShortIDLength = 64

	// Largest multiple of 62 that fits in a byte. Bytes at or above it are
	// rejected so every character is equally likely.
	uniformByteLimit = 248
)

// ErrInvalidLength is returned for a generator length outside 1..64
var ErrInvalidLength = errors.New("short ID length must be between 1 and 64")

// IDGenerator is the interface for generating short IDs
type IDGenerator interface {
	Generate() (string, error)
}

// RandomGenerator produces fixed-length IDs drawn uniformly from Base62Charset.
// It keeps no state and does not guarantee uniqueness.
type RandomGenerator struct {
	length int
	random io.Reader
}

// NewRandomGenerator creates a generator of IDs with the given length
func NewRandomGenerator(length int) (*RandomGenerator, error) {
	if length < 1 || length > maxShortIDLength {
		return nil, ErrInvalidLength
	}
	return &RandomGenerator{
		length: length,
		random: rand.Reader,
	}, nil
}

// Length returns the length of generated IDs
func (g *RandomGenerator) Length() int {
	return g.length
}

// Generate returns a new random short ID
func (g *RandomGenerator) Generate() (string, error) {
	result := make([]byte, 0, g.length)
	buf := make([]byte, g.length+g.length/2)

	for len(result) < g.length {
		if _, err := io.ReadFull(g.random, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= uniformByteLimit {
				continue
			}
			result = append(result, Base62Charset[int(b)%len(Base62Charset)])
			if len(result) == g.length {
				break
			}
		}
	}

	return string(result), nil
}

// IsValidShortID reports whether id could have been produced by a RandomGenerator
func IsValidShortID(id string) bool {
	if id == "" || len(id) > maxShortIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if !isBase62(id[i]) {
			return false
		}
	}
	return true
}

func isBase62(c byte) bool {
	return (c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}

// Encode converts a non-negative numeric ID to a base62 string
func Encode(id int64) string {
	// Handle 0 case
	if id <= 0 {
		return string(Base62Charset[0])
	}

	// Convert to base62
	var result []byte
	base := int64(len(Base62Charset))

	for id > 0 {
		remainder := id % base
		id = id / base
		result = append([]byte{Base62Charset[remainder]}, result...)
	}

	return string(result)
}
