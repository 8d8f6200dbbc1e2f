package transport

import (
	"time"

	"golang.org/x/time/rate"
)

// newLimiter paces outbound requests to perMinute with a burst of the same size.
// It returns nil, meaning unlimited, when perMinute <= 0.
func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}
