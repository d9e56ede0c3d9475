package esengine

import "github.com/kailas-cloud/esengine/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNoResponse      = domain.ErrNoResponse
	ErrServiceReported = domain.ErrServiceReported
	ErrUnsupported     = domain.ErrUnsupported
	ErrInvalidFilters  = domain.ErrInvalidFilters
)

// ServiceError carries the error value reported by the index service.
// Use errors.As() to inspect it.
type ServiceError = domain.ServiceError
