package sparql

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for the executor circuit breaker
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// ReadyToTrip parameters: trip once FailureThreshold of the last
	// Interval's requests failed, but only after MinRequests were seen.
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns a default configuration for the circuit breaker
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// BreakerExecutor wraps an Executor with a circuit breaker so a failing
// remote endpoint sheds load instead of queueing timeouts.
type BreakerExecutor struct {
	inner   Executor
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerExecutor creates a circuit-breaking decorator around inner.
func NewBreakerExecutor(inner Executor, config BreakerConfig, logger *zap.Logger) *BreakerExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Only trip if we have enough requests to make a decision
			if counts.Requests < config.MinRequests {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerExecutor{
		inner:   inner,
		breaker: cb,
	}
}

func (e *BreakerExecutor) Select(ctx context.Context, query string) ([]Row, error) {
	result, err := e.breaker.Execute(func() (any, error) {
		return e.inner.Select(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	return result.([]Row), nil
}

func (e *BreakerExecutor) Update(ctx context.Context, update string) error {
	_, err := e.breaker.Execute(func() (any, error) {
		return nil, e.inner.Update(ctx, update)
	})

	return err
}
