package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrRejected matches any non-success status returned by a provider.
var ErrRejected = errors.New("provider rejected the request")

// StatusError carries the HTTP status of a rejected provider call.
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s", e.Provider, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is makes every StatusError match ErrRejected.
func (e *StatusError) Is(target error) bool {
	return target == ErrRejected
}

// Temporary reports whether retrying the same request may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Provider abstracts a current-conditions data source.
type Provider interface {
	Name() string
	Current(ctx context.Context, q Query) (Reading, error)
}
