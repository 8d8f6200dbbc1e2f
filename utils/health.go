package utils

import (
	"context"
	"sync"
	"time"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Healthy   bool              `json:"healthy"`
	Checks    map[string]bool   `json:"checks"`
	Errors    map[string]string `json:"errors,omitempty"`
	CheckedAt time.Time         `json:"checkedAt"`
}

// HealthCheck probes one dependency. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

// CheckHealth runs every probe concurrently, each bounded by timeout, and
// returns once all of them have answered.
func CheckHealth(ctx context.Context, timeout time.Duration, checks map[string]HealthCheck) HealthStatus {
	status := HealthStatus{
		Healthy: true,
		Checks:  make(map[string]bool, len(checks)),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, check := range checks {
		wg.Add(1)
		go func(name string, check HealthCheck) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			err := check(cctx)

			mu.Lock()
			defer mu.Unlock()
			status.Checks[name] = err == nil
			if err != nil {
				status.Healthy = false
				if status.Errors == nil {
					status.Errors = make(map[string]string)
				}
				status.Errors[name] = err.Error()
			}
		}(name, check)
	}
	wg.Wait()

	status.CheckedAt = time.Now()
	return status
}
