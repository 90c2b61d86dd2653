package models

// Key prefixes for the bidirectional short ID mapping
const (
	// ShortIDKeyPrefix prefixes keys that map a short ID to its original URL
	ShortIDKeyPrefix = "id:"

	// OriginalURLKeyPrefix prefixes keys that map an original URL back to its short ID
	OriginalURLKeyPrefix = "url:"
)

// ShortIDKey returns the forward mapping key for shortID
func ShortIDKey(shortID string) string {
	return ShortIDKeyPrefix + shortID
}

// OriginalURLKey returns the reverse mapping key for originalURL
func OriginalURLKey(originalURL string) string {
	return OriginalURLKeyPrefix + originalURL
}
