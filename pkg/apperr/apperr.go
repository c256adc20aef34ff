// Package apperr defines the error taxonomy shared by all API resources.
//
// Handlers and the versioning engine translate dependency failures into one
// of these kinds instead of leaking raw store errors. The kinds map onto
// HTTP status codes via Status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error kinds. Wrap them with fmt.Errorf("...: %w", kind) or E so
// callers can classify with errors.Is.
var (
	// ErrValidation is returned for malformed or missing input. The caller
	// can correct the request and retry.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced entity is absent.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated is returned when no credential is present on the
	// request.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidCredential is returned when a credential is present but
	// fails verification.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrUnavailable is returned when the store or blob dependency fails.
	// Retryable by the caller; never retried here.
	ErrUnavailable = errors.New("dependency unavailable")

	// ErrConfiguration indicates broken wiring such as a duplicate base
	// path. Process-fatal at startup, never surfaced per-request.
	ErrConfiguration = errors.New("configuration error")
)

// E wraps kind with a formatted message while preserving errors.Is identity.
func E(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), kind)
}

// Status returns the HTTP status code for err based on its kind. Unknown
// errors are treated as internal failures.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
