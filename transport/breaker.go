package transport

import (
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerSettings configures the circuit breaker shared by every request of a Client.
type BreakerSettings struct {
	Enabled     bool
	MaxFailures uint32
	OpenTimeout time.Duration
}

// serverFault marks a 5xx so the breaker counts it; Do unwraps it back into a Response.
type serverFault struct {
	resp *Response
}

func (e *serverFault) Error() string {
	return fmt.Sprintf("server error %d", e.resp.StatusCode)
}

func newBreaker(name string, s BreakerSettings, logger *zap.Logger) *gobreaker.CircuitBreaker {
	if !s.Enabled {
		return nil
	}
	maxFailures := s.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}
