package llm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/sable-systems/caseroute/pkg/provider"
)

// ProviderError wraps vendor errors with status metadata.
type ProviderError struct {
	Provider provider.Kind
	Status   int
	Body     string
	Err      error
}

func (e *ProviderError) Error() string {
	switch {
	case e == nil:
		return "provider error"
	case e.Body != "":
		return fmt.Sprintf("%s error: %s", e.Provider.Display(), e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Provider.Display(), e.Err)
	default:
		return fmt.Sprintf("%s error (status=%d)", e.Provider.Display(), e.Status)
	}
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// MissingKeyError reports that the API key required by the resolved provider
// is not configured. This is a call-time precondition failure, never retried.
type MissingKeyError struct {
	Provider provider.Kind
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s is not set (required for %s models)", e.Provider.APIKeyEnv(), e.Provider.Display())
}

// IsTransient reports whether an error is safe to retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Status == 429 || (provErr.Status >= 500 && provErr.Status <= 599)
	}
	return false
}
