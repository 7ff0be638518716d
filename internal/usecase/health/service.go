package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable.
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
	Status     Status
	Checks     map[string]CheckResult
	Candidates int // -1 when the corpus could not be counted
}

// Service coordinates health checks.
type Service struct {
	db     DBPinger
	corpus CorpusCounter
}

// New creates a Service. corpus can be nil.
func New(db DBPinger, corpus CorpusCounter) *Service {
	return &Service{db: db, corpus: corpus}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	report := Report{Status: Healthy, Checks: checks, Candidates: -1}

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		report.Status = Unhealthy
		return report
	}
	checks["database"] = CheckOK

	if s.corpus != nil {
		n, err := s.corpus.Count(ctx)
		if err != nil {
			checks["corpus"] = CheckError
			report.Status = Degraded
		} else {
			checks["corpus"] = CheckOK
			report.Candidates = n
		}
	}

	return report
}
