package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrPlanUnavailable indicates no cover plan could be obtained for an index
	ErrPlanUnavailable = errors.New("cover plan unavailable")

	// ErrNoEndpoint indicates a plan names a node with no host/port mapping
	ErrNoEndpoint = errors.New("no endpoint for node")

	// ErrMalformedPayload indicates a request body could not be encoded;
	// detected before any network call is made
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials indicates a wrong operator/password combination
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrExchangeInProgress indicates an exchange is already running for the
	// same index and partition
	ErrExchangeInProgress = errors.New("exchange already in progress")
)

// RequestError describes a request the search backend answered with an
// unexpected status. It carries the raw response body so callers can log it
// or decide whether the failure is permanent; nothing here retries on its own.
type RequestError struct {
	Op         string // logical operation, e.g. "search", "entropy_data"
	URL        string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("solr %s failed: %s returned %d: %s", e.Op, e.URL, e.StatusCode, e.Body)
}

// IsStatus reports whether err wraps a RequestError with the given status code.
func IsStatus(err error, code int) bool {
	var re *RequestError
	if errors.As(err, &re) {
		return re.StatusCode == code
	}
	return false
}
