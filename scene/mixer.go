package scene

import (
	"math"

	"github.com/lixenwraith/floating-isle/asset"
	"github.com/lixenwraith/floating-isle/vmath"
)

// Mixer plays one looping clip, advanced by frame delta
type Mixer struct {
	clip    asset.Clip
	time    float64
	playing bool
}

// NewMixer creates a mixer already playing clip
func NewMixer(clip asset.Clip) *Mixer {
	return &Mixer{clip: clip, playing: true}
}

// Update advances clip time by delta seconds
func (m *Mixer) Update(delta float64) {
	if !m.playing || m.clip.Duration <= 0 {
		return
	}
	m.time = vmath.Wrap(m.time+delta, m.clip.Duration)
}

// Phase returns playback position in [0, 1)
func (m *Mixer) Phase() float64 {
	if m.clip.Duration <= 0 {
		return 0
	}
	return m.time / m.clip.Duration
}

// Displacement returns the flap offset for the current phase
func (m *Mixer) Displacement() float64 {
	return m.clip.FlapAmplitude * math.Sin(2*math.Pi*m.Phase())
}

// Clip returns the playing clip
func (m *Mixer) Clip() asset.Clip {
	return m.clip
}

// Stop halts playback at the current position
func (m *Mixer) Stop() {
	m.playing = false
}

// Play resumes playback
func (m *Mixer) Play() {
	m.playing = true
}
