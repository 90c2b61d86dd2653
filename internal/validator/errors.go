package validator

import "fmt"

// Kind classifies why a URL failed validation
type Kind int

const (
	// KindInvalidFormat means the URL lacks a scheme or host
	KindInvalidFormat Kind = iota + 1
	// KindTimeout means the probe did not complete in time
	KindTimeout
	// KindTLS means the TLS handshake or certificate check failed
	KindTLS
	// KindConnection means no connection could be established
	KindConnection
	// KindBadStatus means the probe returned a status outside [200, 400)
	KindBadStatus
	// KindRequest covers any other failure reported by the HTTP client
	KindRequest
	// KindOther covers failures outside the HTTP client
	KindOther
)

var kindNames = map[Kind]string{
	KindInvalidFormat: "invalid_format",
	KindTimeout:       "timeout",
	KindTLS:           "tls",
	KindConnection:    "connection",
	KindBadStatus:     "bad_status",
	KindRequest:       "request",
	KindOther:         "other",
}

// String returns a stable lowercase name for k
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ValidationError reports a rejected URL. Error returns the message shown
// to end users, which differs for every Kind.
type ValidationError struct {
	Kind       Kind
	StatusCode int   // set for KindBadStatus
	Err        error // underlying cause, if any
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindInvalidFormat:
		return "Invalid URL format"
	case KindTimeout:
		return "URL took too long to respond"
	case KindTLS:
		return "SSL certificate verification failed"
	case KindConnection:
		return "Could not connect to the website"
	case KindBadStatus:
		return fmt.Sprintf("URL returned status code %d", e.StatusCode)
	case KindRequest:
		return fmt.Sprintf("Error accessing URL: %v", e.Err)
	default:
		return fmt.Sprintf("Invalid URL: %v", e.Err)
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
