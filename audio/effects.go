package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// fader ramps gain linearly toward a target so starts and stops do not click
type fader struct {
	streamer beep.Streamer
	gain     float64
	target   float64
	step     float64 // gain change per sample
}

// newFader wraps s at zero gain; a full 0→1 ramp takes ramp
func newFader(s beep.Streamer, rate beep.SampleRate, ramp time.Duration) *fader {
	n := rate.N(ramp)
	if n < 1 {
		n = 1
	}
	return &fader{streamer: s, step: 1 / float64(n)}
}

// SetTarget sets the gain the fader moves toward, clamped to [0, 1]
func (f *fader) SetTarget(g float64) {
	f.target = clampVolume(g)
}

// Target returns the gain being approached
func (f *fader) Target() float64 {
	return f.target
}

func (f *fader) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		switch {
		case f.gain < f.target:
			f.gain = min(f.gain+f.step, f.target)
		case f.gain > f.target:
			f.gain = max(f.gain-f.step, f.target)
		}
		samples[i][0] *= f.gain
		samples[i][1] *= f.gain
	}
	return n, ok
}

func (f *fader) Err() error { return f.streamer.Err() }
