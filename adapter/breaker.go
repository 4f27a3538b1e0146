package adapter

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig configures the circuit breaker wrapper.
type BreakerConfig struct {
	Name             string        // Breaker name for state change logs (default: "lingo-adapter")
	MaxRequests      uint32        // Requests allowed through while half-open (default: 1)
	Interval         time.Duration // Cyclic period for clearing counts while closed (default: 60s)
	Timeout          time.Duration // Open state duration before switching to half-open (default: 30s)
	FailureThreshold uint32        // Consecutive failures that trip the breaker (default: 5)
}

// BreakerAdapter wraps an Adapter with a circuit breaker so a failing
// remote service sheds load quickly instead of piling up timeouts.
type BreakerAdapter struct {
	inner Adapter
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerAdapter creates a new circuit-breaking adapter.
func NewBreakerAdapter(inner Adapter, cfg BreakerConfig) *BreakerAdapter {
	name := cfg.Name
	if name == "" {
		name = "lingo-adapter"
	}

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	interval := cfg.Interval
	if interval == 0 {
		interval = 60 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	}

	return &BreakerAdapter{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker(settings),
	}
}

// Translate implements Adapter through the circuit breaker.
func (a *BreakerAdapter) Translate(ctx context.Context, req Request) (string, error) {
	result, err := a.cb.Execute(func() (interface{}, error) {
		return a.inner.Translate(ctx, req)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// State returns the current breaker state.
func (a *BreakerAdapter) State() gobreaker.State {
	return a.cb.State()
}

// Verify BreakerAdapter implements Adapter
var _ Adapter = (*BreakerAdapter)(nil)
