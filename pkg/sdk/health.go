package screener

import (
	"context"

	healthuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status     string            // "ok", "degraded", "error"
	Checks     map[string]string // component → "ok"/"error"
	Candidates int               // -1 when unknown
}

// Health checks the database and counts the stored corpus.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:     string(report.Status),
		Checks:     checks,
		Candidates: report.Candidates,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
