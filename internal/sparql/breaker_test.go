package sparql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// flakyExecutor fails until the failure budget is spent.
type flakyExecutor struct {
	failures int
	selects  int
	updates  int
}

func (f *flakyExecutor) Select(ctx context.Context, query string) ([]Row, error) {
	f.selects++
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("endpoint down")
	}
	return []Row{{"x": "1"}}, nil
}

func (f *flakyExecutor) Update(ctx context.Context, update string) error {
	f.updates++
	if f.failures > 0 {
		f.failures--
		return errors.New("endpoint down")
	}
	return nil
}

func testBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "test",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      3,
	}
}

func TestBreakerExecutor_PassesThroughSuccess(t *testing.T) {
	inner := &flakyExecutor{}
	exec := NewBreakerExecutor(inner, testBreakerConfig(), zap.NewNop())

	rows, err := exec.Select(context.Background(), "SELECT ?x WHERE {}")
	require.NoError(t, err)
	assert.Equal(t, []Row{{"x": "1"}}, rows)

	require.NoError(t, exec.Update(context.Background(), "INSERT DATA {}"))
	assert.Equal(t, 1, inner.selects)
	assert.Equal(t, 1, inner.updates)
}

func TestBreakerExecutor_OpensAfterRepeatedFailures(t *testing.T) {
	ctx := context.Background()
	inner := &flakyExecutor{failures: 100}
	exec := NewBreakerExecutor(inner, testBreakerConfig(), zap.NewNop())

	// Burn through enough failures to trip the breaker.
	for i := 0; i < 5; i++ {
		_, err := exec.Select(ctx, "SELECT ?x WHERE {}")
		require.Error(t, err)
	}

	before := inner.selects
	_, err := exec.Select(ctx, "SELECT ?x WHERE {}")
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, before, inner.selects, "open breaker must not reach the endpoint")
}

func TestBreakerExecutor_FailedUpdateKeepsError(t *testing.T) {
	inner := &flakyExecutor{failures: 1}
	exec := NewBreakerExecutor(inner, testBreakerConfig(), zap.NewNop())

	err := exec.Update(context.Background(), "INSERT DATA {}")
	require.Error(t, err)
	assert.EqualError(t, err, "endpoint down")
}
