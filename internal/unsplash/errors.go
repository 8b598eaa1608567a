package unsplash

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAccessKey is returned by NewClient when no key is configured
	ErrMissingAccessKey = errors.New("unsplash access key is required")

	// ErrInvalidPage is returned for page numbers below 1
	ErrInvalidPage = errors.New("page number must be >= 1")
)

// TransportError means the request never produced an HTTP response:
// the network was unreachable, the request timed out, or the circuit
// breaker rejected it.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("unsplash: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProviderError means the provider answered, but with a non-2xx status
// or a body that could not be decoded.
type ProviderError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unsplash: status %d: %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("unsplash: status %d: %s", e.StatusCode, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Kind names the error class for logging: "transport", "provider" or "other"
func Kind(err error) string {
	var te *TransportError
	var pe *ProviderError
	switch {
	case errors.As(err, &te):
		return "transport"
	case errors.As(err, &pe):
		return "provider"
	default:
		return "other"
	}
}
