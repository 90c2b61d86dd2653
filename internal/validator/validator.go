// Package validator checks that a URL is well formed and currently reachable.
package validator

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultTimeout bounds a single liveness probe
const DefaultTimeout = 5 * time.Second

// Config configures a Validator
type Config struct {
	// Timeout bounds the whole probe including redirects. Zero means DefaultTimeout.
	Timeout time.Duration

	// InsecureSkipVerify disables certificate verification for the probe
	InsecureSkipVerify bool

	// Transport overrides the base round tripper. Nil means a clone of
	// http.DefaultTransport.
	Transport http.RoundTripper
}

// Validator checks structure and liveness of URLs
type Validator struct {
	client  *http.Client
	timeout time.Duration
}

// New creates a Validator
func New(cfg Config) *Validator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := cfg.Transport
	if base == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify} //nolint:gosec // configurable, see DESIGN.md
		base = t
	}

	return &Validator{
		// The default redirect policy follows up to 10 hops
		client: &http.Client{
			Transport: otelhttp.NewTransport(base),
			Timeout:   timeout,
		},
		timeout: timeout,
	}
}

// Validate returns nil when rawURL parses with a scheme and host and a HEAD
// request against it answers with a status in [200, 400). Any other outcome
// is a *ValidationError.
func (v *Validator) Validate(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ValidationError{Kind: KindInvalidFormat, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return &ValidationError{Kind: KindOther, Err: err}
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusBadRequest {
		return &ValidationError{Kind: KindBadStatus, StatusCode: resp.StatusCode}
	}
	return nil
}

// classify maps an http.Client error onto a Kind
func classify(err error) *ValidationError {
	switch {
	case isTimeout(err):
		return &ValidationError{Kind: KindTimeout, Err: err}
	case isTLSError(err):
		return &ValidationError{Kind: KindTLS, Err: err}
	case isConnectionError(err):
		return &ValidationError{Kind: KindConnection, Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &ValidationError{Kind: KindRequest, Err: urlErr.Err}
	}
	return &ValidationError{Kind: KindOther, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isTLSError(err error) bool {
	var (
		verifyErr    *tls.CertificateVerificationError
		headerErr    tls.RecordHeaderError
		alertErr     tls.AlertError
		authorityErr x509.UnknownAuthorityError
		hostErr      x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	return errors.As(err, &verifyErr) ||
		errors.As(err, &headerErr) ||
		errors.As(err, &alertErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostErr) ||
		errors.As(err, &invalidErr)
}

func isConnectionError(err error) bool {
	var (
		opErr  *net.OpError
		dnsErr *net.DNSError
	)
	return errors.As(err, &opErr) ||
		errors.As(err, &dnsErr) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}
