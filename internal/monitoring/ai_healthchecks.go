package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusUnknown   = "unknown"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// HealthStatus is the last observed state of a dependency. The zero value
// reports unknown.
type HealthStatus struct {
	checked atomic.Bool
	healthy atomic.Bool
}

func (s *HealthStatus) Set(healthy bool) {
	s.healthy.Store(healthy)
	s.checked.Store(true)
}

func (s *HealthStatus) String() string {
	if s == nil || !s.checked.Load() {
		return StatusUnknown
	}
	if s.healthy.Load() {
		return StatusHealthy
	}
	return StatusUnhealthy
}

// MonitorPredictionHealth checks the prediction service once and then on
// every tick until ctx is done.
func MonitorPredictionHealth(ctx context.Context, checker HealthChecker, interval time.Duration, status *HealthStatus) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()

		isHealthy := checker.HealthCheck(checkCtx)
		wasHealthy := status.String()
		status.Set(isHealthy)
		if !isHealthy {
			slog.Warn("[HealthCheck] Prediction service is unhealthy")
		} else if wasHealthy != StatusHealthy {
			slog.Info("[HealthCheck] Prediction service is healthy")
		}
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
