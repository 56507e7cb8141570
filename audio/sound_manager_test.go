package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pull streams n samples from s and returns the peak absolute value
func pull(t *testing.T, s beep.Streamer, n int) float64 {
	t.Helper()
	buf := make([][2]float64, n)
	got, ok := s.Stream(buf)
	require.True(t, ok)
	require.Equal(t, n, got)

	var peak float64
	for _, frame := range buf {
		for _, v := range frame {
			require.False(t, math.IsNaN(v))
			peak = math.Max(peak, math.Abs(v))
		}
	}
	return peak
}

// sampleCount converts a duration at the default rate
func sampleCount(d time.Duration) int {
	return beep.SampleRate(DefaultConfig().SampleRate).N(d)
}

// TestSoundManagerGracefulDegradation verifies every operation is safe without a speaker
func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := NewSoundManager(DefaultConfig())

	assert.NotPanics(t, func() {
		sm.StartWind()
		sm.StartDrone()
		sm.StopDrone()
		sm.ToggleMute()
		sm.SetVolume(0.3)
		sm.Cleanup()
	})
	assert.False(t, sm.Initialized())
}

// TestSoundManagerInitialization tolerates machines without an audio device
func TestSoundManagerInitialization(t *testing.T) {
	sm := NewSoundManager(DefaultConfig())

	if err := sm.Initialize(); err != nil {
		t.Logf("Sound initialization failed (expected in test environment): %v", err)
		return
	}
	assert.True(t, sm.Initialized())
	assert.NoError(t, sm.Initialize(), "second initialization is a no-op")
	sm.Cleanup()
	assert.False(t, sm.Initialized())
}

func TestSoundManagerDisabledSkipsSpeaker(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	sm := NewSoundManager(cfg)

	require.NoError(t, sm.Initialize())
	assert.False(t, sm.Initialized())
}

func TestDroneLifecycle(t *testing.T) {
	sm := NewSoundManager(DefaultConfig())
	assert.False(t, sm.DronePlaying())

	sm.StartDrone()
	assert.True(t, sm.DronePlaying())
	assert.Positive(t, pull(t, sm.Output(), 2048))

	sm.StopDrone()
	assert.False(t, sm.DronePlaying())
	pull(t, sm.Output(), sampleCount(droneRamp)+1)
	assert.Zero(t, pull(t, sm.Output(), 512), "faded-out drone is silent")

	sm.StartDrone()
	assert.True(t, sm.DronePlaying(), "restart resumes the same stream")
}

func TestMuteSilencesOutput(t *testing.T) {
	sm := NewSoundManager(DefaultConfig())
	sm.StartWind()
	sm.StartDrone()
	require.Positive(t, pull(t, sm.Output(), 2048))

	assert.True(t, sm.ToggleMute())
	assert.True(t, sm.Muted())
	assert.Zero(t, pull(t, sm.Output(), 1024))

	assert.False(t, sm.ToggleMute())
	assert.Positive(t, pull(t, sm.Output(), 2048))

	sm.SetMuted(true)
	assert.True(t, sm.Muted())
}

func TestSetVolumeClamps(t *testing.T) {
	sm := NewSoundManager(DefaultConfig())

	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{2, 1},
	}
	for _, tt := range tests {
		sm.SetVolume(tt.in)
		assert.Equal(t, tt.want, sm.Volume())
	}

	sm.SetVolume(0)
	sm.StartDrone()
	assert.Zero(t, pull(t, sm.Output(), 256), "zero volume is silent")
}

func TestFaderRamps(t *testing.T) {
	rate := beep.SampleRate(1000)
	f := newFader(NewDroneGenerator(rate, 50), rate, 100*time.Millisecond)
	assert.Zero(t, pull(t, f, 10), "starts silent")

	f.SetTarget(1)
	early := pull(t, f, 20)
	pull(t, f, 100)
	late := pull(t, f, 40)
	assert.Less(t, early, late)
	assert.Equal(t, 1.0, f.gain)

	f.SetTarget(5)
	assert.Equal(t, 1.0, f.Target(), "target clamps")
}

func TestWindStaysBounded(t *testing.T) {
	w := NewWindGenerator(beep.SampleRate(44100), 1)
	peak := pull(t, w, 44100)
	assert.Positive(t, peak)
	assert.LessOrEqual(t, peak, 1.0)
}

func TestDroneGeneratorBounded(t *testing.T) {
	d := NewDroneGenerator(beep.SampleRate(44100), 55)
	peak := pull(t, d, 44100)
	assert.Positive(t, peak)
	assert.LessOrEqual(t, peak, 0.15+1e-9)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("FLOATING_ISLE_AUDIO", "false")
	t.Setenv("FLOATING_ISLE_VOLUME", "150")

	cfg := ApplyEnv(DefaultConfig())
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 1.0, cfg.Volume)

	t.Setenv("FLOATING_ISLE_AUDIO", "maybe")
	t.Setenv("FLOATING_ISLE_VOLUME", "40")
	cfg = ApplyEnv(DefaultConfig())
	assert.True(t, cfg.Enabled, "unparseable values are ignored")
	assert.InDelta(t, 0.4, cfg.Volume, 1e-9)
}
