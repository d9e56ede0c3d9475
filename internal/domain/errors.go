package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNoResponse signals that the index service was unreachable or returned
	// an empty or undecodable body. The two cases are not distinguished.
	ErrNoResponse = errors.New("no usable response from index service")
	// ErrServiceReported signals an error or message field reported by the index service.
	ErrServiceReported = errors.New("index service reported an error")
	// ErrUnsupported signals an operation the adapter does not implement.
	ErrUnsupported = errors.New("not supported")
	// ErrInvalidFilters signals malformed search filters.
	ErrInvalidFilters = errors.New("invalid search filters")
)

// ServiceError carries the error or message value reported by the index service.
// The raw JSON value is kept unchanged so callers can inspect it.
type ServiceError struct {
	raw json.RawMessage
}

// NewServiceError wraps a raw JSON error/message value.
func NewServiceError(raw json.RawMessage) *ServiceError {
	return &ServiceError{raw: raw}
}

// Raw returns the reported value exactly as the service sent it.
func (e *ServiceError) Raw() json.RawMessage { return e.raw }

// Message returns the reported value as text. JSON strings are unquoted,
// objects are returned as-is.
func (e *ServiceError) Message() string {
	var s string
	if json.Unmarshal(e.raw, &s) == nil {
		return s
	}
	return string(e.raw)
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", ErrServiceReported.Error(), e.Message())
}

func (e *ServiceError) Unwrap() error { return ErrServiceReported }
