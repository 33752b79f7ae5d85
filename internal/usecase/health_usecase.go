package usecase

import (
	"context"
	"time"
)

// HealthCheck probes one dependency. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

type HealthUsecase interface {
	// Check returns the per-dependency status and whether every required
	// dependency is up
	Check(ctx context.Context) (map[string]string, bool)
}

type healthUsecase struct {
	required map[string]HealthCheck
	optional map[string]HealthCheck
}

// NewHealthUsecase takes the checks that fail the health endpoint (the
// database) and the ones that only degrade it (redis)
func NewHealthUsecase(required, optional map[string]HealthCheck) HealthUsecase {
	return &healthUsecase{required: required, optional: optional}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	healthy := true

	for name, check := range u.required {
		if err := check(ctx); err != nil {
			status[name] = "down"
			status["status"] = "unavailable"
			healthy = false
			continue
		}
		status[name] = "up"
	}
	for name, check := range u.optional {
		if err := check(ctx); err != nil {
			status[name] = "unavailable"
			if healthy {
				status["status"] = "degraded"
			}
			continue
		}
		status[name] = "up"
	}
	return status, healthy
}
