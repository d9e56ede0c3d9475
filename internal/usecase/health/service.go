package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the index service is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	index IndexChecker
	host  HostChecker
}

// New creates a Service. host can be nil.
func New(index IndexChecker, host HostChecker) *Service {
	return &Service{index: index, host: host}
}

// Check runs health checks against all components. Without the index
// service nothing works, so its failure makes the report Unhealthy.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	indexOK := s.index.IsServerReady(ctx)
	if indexOK {
		checks["index"] = CheckOK
	} else {
		checks["index"] = CheckError
	}

	if s.host != nil {
		if err := s.host.HealthCheck(ctx); err != nil {
			checks["host"] = CheckError
		} else {
			checks["host"] = CheckOK
		}
	}

	status := Healthy
	switch {
	case !indexOK:
		status = Unhealthy
	case checks["host"] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
