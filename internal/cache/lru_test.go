package cache

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "kgraph-backend/pkg/errors"
)

func newTestCache(t *testing.T, capacity int) *LRU[string] {
	t.Helper()
	c, err := New[string](capacity, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestNew_RejectsNonPositiveCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -1000} {
		c, err := New[string](capacity, zap.NewNop())
		require.Error(t, err, "capacity %d must be rejected", capacity)
		assert.Nil(t, c)
		assert.True(t, appErrors.IsValidation(err))
	}
}

func TestGet_MissingKeyReturnsAbsent(t *testing.T) {
	c := newTestCache(t, 10)

	value, ok := c.Get(context.Background(), "nope")
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestSet_CapacityInvariantHolds(t *testing.T) {
	ctx := context.Background()
	const capacity = 7
	c := newTestCache(t, capacity)

	for i := 0; i < 100; i++ {
		c.Set(ctx, fmt.Sprintf("k%d", i), "v")
		assert.LessOrEqual(t, c.Len(), capacity)
	}
	assert.Equal(t, capacity, c.Len())
}

func TestSet_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	const capacity = 5
	c := newTestCache(t, capacity)

	// Insert capacity+1 distinct keys with no intervening gets.
	for i := 1; i <= capacity+1; i++ {
		c.Set(ctx, fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i))
	}

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok, "k1 is the least recently touched and must be evicted")

	for i := 2; i <= capacity+1; i++ {
		value, ok := c.Get(ctx, fmt.Sprintf("k%d", i))
		require.True(t, ok, "k%d must be retained", i)
		assert.Equal(t, fmt.Sprintf("v%d", i), value)
	}
}

func TestGet_PromotesRecency(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 2)

	c.Set(ctx, "A", "a")
	c.Set(ctx, "B", "b")

	// Touching A makes B the eviction candidate.
	_, ok := c.Get(ctx, "A")
	require.True(t, ok)

	c.Set(ctx, "C", "c")

	_, ok = c.Get(ctx, "B")
	assert.False(t, ok, "B must be evicted after A was promoted")

	value, ok := c.Get(ctx, "A")
	require.True(t, ok)
	assert.Equal(t, "a", value)
}

func TestSet_OverwriteDoesNotDuplicate(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 3)

	c.Set(ctx, "k", "v1")
	c.Set(ctx, "k", "v2")

	assert.Equal(t, 1, c.Len(), "overwrite must not count as a second insertion")

	value, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v2", value)
}

func TestSet_OverwritePromotesRecency(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 2)

	c.Set(ctx, "A", "a1")
	c.Set(ctx, "B", "b")
	c.Set(ctx, "A", "a2")
	c.Set(ctx, "C", "c")

	_, ok := c.Get(ctx, "B")
	assert.False(t, ok, "B must be evicted: the overwrite of A promoted it")

	value, ok := c.Get(ctx, "A")
	require.True(t, ok)
	assert.Equal(t, "a2", value)
}

func TestClear_EmptiesUnconditionally(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 10)

	for i := 0; i < 10; i++ {
		c.Set(ctx, fmt.Sprintf("k%d", i), "v")
	}
	c.Clear(ctx)

	assert.Equal(t, 0, c.Len())
	for i := 0; i < 10; i++ {
		_, ok := c.Get(ctx, fmt.Sprintf("k%d", i))
		assert.False(t, ok)
	}

	// The cache remains usable after a wipe.
	c.Set(ctx, "k0", "v")
	_, ok := c.Get(ctx, "k0")
	assert.True(t, ok)
}

func TestStats_TracksHitsMissesEvictions(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, 2)

	c.Set(ctx, "A", "a")
	c.Set(ctx, "B", "b")
	c.Set(ctx, "C", "c") // evicts A

	c.Get(ctx, "B") // hit
	c.Get(ctx, "A") // miss

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 2, stats.Capacity)
	assert.InDelta(t, 0.5, stats.HitRate, 0.001)
}

// TestConcurrentOperations drives random interleavings of Get/Set/Clear from
// many goroutines. The cache must never exceed its capacity, never lose its
// internal consistency, and never panic for any key.
func TestConcurrentOperations(t *testing.T) {
	ctx := context.Background()
	const capacity = 16
	c := newTestCache(t, capacity)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 2000; i++ {
				key := fmt.Sprintf("k%d", rng.Intn(64))
				switch rng.Intn(10) {
				case 0:
					c.Clear(ctx)
				case 1, 2, 3:
					c.Get(ctx, key)
				default:
					c.Set(ctx, key, key)
				}
				assert.LessOrEqual(t, c.Len(), capacity)
			}
		}(int64(g))
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), capacity)

	// Every surviving entry is still readable.
	stats := c.Stats()
	assert.GreaterOrEqual(t, stats.Entries, 0)
}
