package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockObserver is a mock implementation of the Observer interface
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) CacheHit()  { m.Called() }
func (m *MockObserver) CacheMiss() { m.Called() }

func newTestCache(t *testing.T, ttl time.Duration, observer Observer) (*ResponseCache, *time.Time) {
	c := NewResponseCache(ttl, observer)
	t.Cleanup(c.Stop)

	clock := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }
	return c, &clock
}

func TestResponseCacheExpiry(t *testing.T) {
	c, clock := newTestCache(t, 0, nil)

	c.Set("seasonal", 42)
	v, ok := c.Get("seasonal")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	*clock = clock.Add(DefaultTTL)
	_, ok = c.Get("seasonal")
	assert.True(t, ok, "entry is fresh up to and including its expiration")

	*clock = clock.Add(time.Second)
	_, ok = c.Get("seasonal")
	assert.False(t, ok)

	c.removeExpired()
	assert.Equal(t, 0, c.Size())
}

func TestResponseCacheGetOrSet(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, nil)

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return "report", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrSet("user-1", compute)
		require.NoError(t, err)
		assert.Equal(t, "report", v)
	}
	assert.Equal(t, 1, calls)

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 2.0/3.0, stats.HitRate, 1e-9)
	assert.Equal(t, 60.0, stats.TTLSeconds)

	_, err := c.GetOrSet("user-2", func() (interface{}, error) { return nil, errors.New("boom") })
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 1, c.Size())
}

func TestResponseCacheDeleteByPrefix(t *testing.T) {
	c, _ := newTestCache(t, time.Minute, nil)

	c.Set("report:a", 1)
	c.Set("report:b", 2)
	c.Set("seasonal:10", 3)

	c.DeleteByPrefix("report:")
	assert.Equal(t, 1, c.Size())

	c.Delete("seasonal:10")
	assert.Equal(t, 0, c.Size())
}

func TestResponseCacheNotifiesObserver(t *testing.T) {
	observer := new(MockObserver)
	observer.On("CacheMiss").Once()
	observer.On("CacheHit").Once()

	c, _ := newTestCache(t, time.Minute, observer)
	c.Get("k")
	c.Set("k", true)
	c.Get("k")

	observer.AssertExpectations(t)

	c.ResetStats()
	assert.Equal(t, int64(0), c.Stats().Hits)
}
