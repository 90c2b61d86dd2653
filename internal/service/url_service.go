package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/holaholu/url-shortener/internal/logger"
	"github.com/holaholu/url-shortener/internal/models"
	"github.com/holaholu/url-shortener/internal/storage"
	"github.com/holaholu/url-shortener/internal/utils"
)

var (
	// ErrURLRequired is returned when Shorten receives an empty URL
	ErrURLRequired = errors.New("URL is required")
	// ErrNotFound is returned when a short ID has no mapping
	ErrNotFound = errors.New("URL not found")
	// ErrIDSpaceExhausted is returned when no free short ID was found within MaxAttempts
	ErrIDSpaceExhausted = errors.New("failed to allocate an unused short ID")
)

// DefaultMaxAttempts caps short ID allocation retries
const DefaultMaxAttempts = 10

// URLValidator checks that a normalized URL may be shortened
type URLValidator interface {
	Validate(ctx context.Context, rawURL string) error
}

// Config configures a URLService
type Config struct {
	// BaseURL is prepended to the short ID to build the short URL
	BaseURL string
	// MaxAttempts bounds ID allocation. Zero means DefaultMaxAttempts.
	MaxAttempts int
}

// ShortenResult is the outcome of a successful Shorten
type ShortenResult struct {
	ShortURL    string
	ShortID     string
	OriginalURL string
}

// URLService shortens, resolves and deletes URLs on top of a Store.
// It holds no mutable state of its own.
type URLService struct {
	store       storage.Store
	validator   URLValidator
	generator   utils.IDGenerator
	baseURL     string
	maxAttempts int
	metrics     *metrics
}

// NewURLService creates a new URLService instance
func NewURLService(store storage.Store, v URLValidator, generator utils.IDGenerator, cfg Config) *URLService {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	return &URLService{
		store:       store,
		validator:   v,
		generator:   generator,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/") + "/",
		maxAttempts: maxAttempts,
		metrics:     newMetrics(),
	}
}

// ShortenURL validates rawURL and returns its short ID, reusing the existing
// one if the URL was shortened before. A validation failure is returned as
// a *validator.ValidationError and leaves the store untouched.
func (s *URLService) ShortenURL(ctx context.Context, rawURL string) (*ShortenResult, error) {
	log := logger.Ctx(ctx)

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		s.metrics.shortened(ctx, "missing")
		return nil, ErrURLRequired
	}

	originalURL := normalizeURL(rawURL)

	if err := s.validator.Validate(ctx, originalURL); err != nil {
		s.metrics.rejected(ctx, err)
		s.metrics.shortened(ctx, "rejected")
		log.Info("URL rejected", zap.String("originalUrl", originalURL), zap.Error(err))
		return nil, err
	}

	shortID, err := s.store.Get(ctx, models.OriginalURLKey(originalURL))
	switch {
	case err == nil:
		if err := s.ensureForward(ctx, shortID, originalURL); err != nil {
			return nil, err
		}
		s.metrics.shortened(ctx, "existing")
	case errors.Is(err, storage.ErrNotFound):
		shortID, err = s.allocate(ctx, originalURL)
		if err != nil {
			s.metrics.shortened(ctx, "failed")
			return nil, err
		}
		s.metrics.shortened(ctx, "created")
		log.Info("URL shortened", zap.String("originalUrl", originalURL), zap.String("shortId", shortID))
	default:
		return nil, fmt.Errorf("failed to look up existing short ID: %w", err)
	}

	return &ShortenResult{
		ShortURL:    s.baseURL + shortID,
		ShortID:     shortID,
		OriginalURL: originalURL,
	}, nil
}

// ensureForward rewrites the forward key of a deduplicated URL if it went
// missing, e.g. after a delete raced the dedup lookup.
func (s *URLService) ensureForward(ctx context.Context, shortID, originalURL string) error {
	exists, err := s.store.Exists(ctx, models.ShortIDKey(shortID))
	if err != nil {
		return fmt.Errorf("failed to check short ID: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.store.Set(ctx, models.ShortIDKey(shortID), originalURL); err != nil {
		return fmt.Errorf("failed to restore forward mapping: %w", err)
	}
	logger.Ctx(ctx).Warn("Restored missing forward mapping", zap.String("shortId", shortID))
	return nil
}

// allocate claims a fresh short ID for originalURL. The forward key is claimed
// with SetNX before the reverse key is written, so a collision never
// overwrites another URL.
func (s *URLService) allocate(ctx context.Context, originalURL string) (string, error) {
	log := logger.Ctx(ctx)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		shortID, err := s.generator.Generate()
		if err != nil {
			return "", fmt.Errorf("failed to generate short ID: %w", err)
		}

		claimed, err := s.store.SetNX(ctx, models.ShortIDKey(shortID), originalURL)
		if err != nil {
			return "", fmt.Errorf("failed to store forward mapping: %w", err)
		}
		if !claimed {
			log.Debug("Short ID collision", zap.String("shortId", shortID), zap.Int("attempt", attempt))
			continue
		}

		return s.linkReverse(ctx, shortID, originalURL)
	}

	log.Error("Short ID space exhausted", zap.Int("attempts", s.maxAttempts))
	return "", ErrIDSpaceExhausted
}

// linkReverse writes url:{originalURL} -> shortID. If a concurrent Shorten of
// the same URL got there first, the freshly claimed ID is released and the
// winner's ID is returned instead.
func (s *URLService) linkReverse(ctx context.Context, shortID, originalURL string) (string, error) {
	reverseKey := models.OriginalURLKey(originalURL)

	stored, err := s.store.SetNX(ctx, reverseKey, shortID)
	if err != nil {
		s.release(ctx, shortID)
		return "", fmt.Errorf("failed to store reverse mapping: %w", err)
	}
	if stored {
		return shortID, nil
	}

	winner, err := s.store.Get(ctx, reverseKey)
	switch {
	case err == nil:
		s.release(ctx, shortID)
		return winner, nil
	case errors.Is(err, storage.ErrNotFound):
		// The winner was deleted in between, keep ours
		if err := s.store.Set(ctx, reverseKey, shortID); err != nil {
			return "", fmt.Errorf("failed to store reverse mapping: %w", err)
		}
		return shortID, nil
	default:
		s.release(ctx, shortID)
		return "", fmt.Errorf("failed to read reverse mapping: %w", err)
	}
}

func (s *URLService) release(ctx context.Context, shortID string) {
	if err := s.store.Delete(ctx, models.ShortIDKey(shortID)); err != nil {
		logger.Ctx(ctx).Error("Failed to release short ID", zap.String("shortId", shortID), zap.Error(err))
	}
}

// ExpandURL returns the original URL for shortID, or ErrNotFound
func (s *URLService) ExpandURL(ctx context.Context, shortID string) (string, error) {
	originalURL, err := s.store.Get(ctx, models.ShortIDKey(shortID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to retrieve URL: %w", err)
	}
	return originalURL, nil
}

// DeleteURL removes both mappings of shortID, or returns ErrNotFound
func (s *URLService) DeleteURL(ctx context.Context, shortID string) error {
	originalURL, err := s.ExpandURL(ctx, shortID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, models.ShortIDKey(shortID), models.OriginalURLKey(originalURL)); err != nil {
		return fmt.Errorf("failed to delete URL: %w", err)
	}

	logger.Ctx(ctx).Info("URL deleted", zap.String("shortId", shortID), zap.String("originalUrl", originalURL))
	return nil
}

// Ping checks that the store is reachable
func (s *URLService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// normalizeURL prefixes http:// when rawURL has no scheme
func normalizeURL(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Scheme != "" {
		return rawURL
	}
	return "http://" + rawURL
}
