package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/holaholu/url-shortener/internal/validator"
)

const meterName = "github.com/holaholu/url-shortener/internal/service"

type metrics struct {
	shortenRequests    metric.Int64Counter
	validationFailures metric.Int64Counter
}

// newMetrics registers the service counters on the global meter provider.
// Counters that fail to register fall back to no-op instruments.
func newMetrics() *metrics {
	meter := otel.Meter(meterName)

	shortenRequests, err := meter.Int64Counter("shortlink.shorten.requests",
		metric.WithDescription("Shorten calls by result"))
	if err != nil {
		otel.Handle(err)
	}
	validationFailures, err := meter.Int64Counter("shortlink.validation.failures",
		metric.WithDescription("Rejected URLs by failure kind"))
	if err != nil {
		otel.Handle(err)
	}

	return &metrics{
		shortenRequests:    shortenRequests,
		validationFailures: validationFailures,
	}
}

func (m *metrics) shortened(ctx context.Context, result string) {
	if m.shortenRequests == nil {
		return
	}
	m.shortenRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func (m *metrics) rejected(ctx context.Context, err error) {
	if m.validationFailures == nil {
		return
	}
	kind := "unknown"
	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		kind = vErr.Kind.String()
	}
	m.validationFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
