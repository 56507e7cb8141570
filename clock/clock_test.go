package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestMockTimeProvider(t *testing.T) {
	mock := NewMockTimeProvider(epoch)
	assert.True(t, mock.Now().Equal(epoch))

	mock.Advance(time.Hour)
	assert.True(t, mock.Now().Equal(epoch.Add(time.Hour)))

	later := epoch.Add(48 * time.Hour)
	mock.SetTime(later)
	assert.True(t, mock.Now().Equal(later))
}

func TestElapsedTracksProvider(t *testing.T) {
	mock := NewMockTimeProvider(epoch)
	c := New(mock)

	assert.Equal(t, 0.0, c.Elapsed())
	mock.Advance(1500 * time.Millisecond)
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-9)
}

func TestDeltaBetweenCalls(t *testing.T) {
	mock := NewMockTimeProvider(epoch)
	c := New(mock)

	mock.Advance(33 * time.Millisecond)
	assert.InDelta(t, 0.033, c.Delta(), 1e-9)

	mock.Advance(16 * time.Millisecond)
	assert.InDelta(t, 0.016, c.Delta(), 1e-9)

	// No time passed
	assert.Equal(t, 0.0, c.Delta())
}

func TestDeltaClamped(t *testing.T) {
	mock := NewMockTimeProvider(epoch)
	c := New(mock)

	mock.Advance(5 * time.Second)
	assert.InDelta(t, DefaultMaxDelta.Seconds(), c.Delta(), 1e-9)

	// Elapsed is never clamped
	assert.InDelta(t, 5, c.Elapsed(), 1e-9)

	c.SetMaxDelta(0)
	mock.Advance(2 * time.Second)
	assert.InDelta(t, 2, c.Delta(), 1e-9)
}

func TestPauseFreezesElapsed(t *testing.T) {
	mock := NewMockTimeProvider(epoch)
	c := New(mock)

	mock.Advance(2 * time.Second)
	assert.True(t, c.Toggle())
	assert.True(t, c.IsPaused())

	mock.Advance(10 * time.Second)
	assert.InDelta(t, 2, c.Elapsed(), 1e-9)
	assert.Equal(t, 0.0, c.Delta())
	assert.Equal(t, 10*time.Second, c.TotalPaused())

	assert.False(t, c.Toggle())
	mock.Advance(50 * time.Millisecond)
	assert.InDelta(t, 2.05, c.Elapsed(), 1e-9)
	assert.InDelta(t, 0.05, c.Delta(), 1e-9, "delta restarts at resume")
}

func TestPauseIdempotent(t *testing.T) {
	mock := NewMockTimeProvider(epoch)
	c := New(mock)

	c.Pause()
	mock.Advance(time.Second)
	c.Pause()
	mock.Advance(time.Second)
	c.Resume()
	c.Resume()

	assert.Equal(t, 2*time.Second, c.TotalPaused())
	assert.Equal(t, 0.0, c.Elapsed())
}

func TestRealTimeProviderMonotonic(t *testing.T) {
	c := New(nil)
	first := c.Elapsed()
	time.Sleep(5 * time.Millisecond)
	assert.Greater(t, c.Elapsed(), first)
}
