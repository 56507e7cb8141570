// Package audio plays the ambient soundscape: a wind loop and an engine drone
// while the aircraft is aloft. A missing audio device leaves the manager silent.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// droneRamp is the drone's fade-in and fade-out time
const droneRamp = 200 * time.Millisecond

// SoundManager owns the output graph: wind and drone into a mixer behind a
// master volume
type SoundManager struct {
	mu          sync.Mutex
	cfg         Config
	rate        beep.SampleRate
	mixer       *beep.Mixer
	master      *effects.Volume
	wind        *beep.Ctrl
	drone       *fader
	muted       bool
	initialized bool
}

// NewSoundManager builds the graph; nothing plays until Initialize
func NewSoundManager(cfg Config) *SoundManager {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	cfg.Volume = clampVolume(cfg.Volume)

	sm := &SoundManager{
		cfg:   cfg,
		rate:  beep.SampleRate(cfg.SampleRate),
		mixer: &beep.Mixer{},
	}
	sm.master = &effects.Volume{Streamer: sm.mixer, Base: 2}
	sm.applyVolume()
	return sm
}

// Initialize opens the speaker and starts playback of the graph
// Errors leave the manager usable but silent
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || !sm.cfg.Enabled {
		return nil
	}

	if err := speaker.Init(sm.rate, sm.rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.master)
	sm.initialized = true
	return nil
}

// Cleanup silences all streams and detaches the graph
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.locked(func() {
		sm.mixer.Clear()
	})
	sm.wind, sm.drone = nil, nil
	if sm.initialized {
		speaker.Close()
		sm.initialized = false
	}
}

// StartWind begins the endless wind loop; repeated calls are no-ops
func (sm *SoundManager) StartWind() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.wind != nil {
		return
	}
	ctrl := &beep.Ctrl{Streamer: NewWindGenerator(sm.rate, time.Now().UnixNano())}
	sm.wind = ctrl
	sm.locked(func() { sm.mixer.Add(ctrl) })
}

// StartDrone fades the engine drone in, creating it on first use
func (sm *SoundManager) StartDrone() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.drone == nil {
		f := newFader(NewDroneGenerator(sm.rate, sm.cfg.DroneHz), sm.rate, droneRamp)
		sm.drone = f
		sm.locked(func() { sm.mixer.Add(f) })
	}
	sm.locked(func() { sm.drone.SetTarget(1) })
}

// StopDrone fades the engine drone out
func (sm *SoundManager) StopDrone() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.drone != nil {
		sm.locked(func() { sm.drone.SetTarget(0) })
	}
}

// DronePlaying reports whether the drone is fading in or sustained
func (sm *SoundManager) DronePlaying() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.drone == nil {
		return false
	}
	playing := false
	sm.locked(func() { playing = sm.drone.Target() > 0 })
	return playing
}

// SetMuted silences or restores the master output
func (sm *SoundManager) SetMuted(muted bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.muted = muted
	sm.locked(sm.applyVolume)
}

// ToggleMute flips mute and returns the new state
func (sm *SoundManager) ToggleMute() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.muted = !sm.muted
	sm.locked(sm.applyVolume)
	return sm.muted
}

// Muted reports the mute state
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// SetVolume sets linear master volume, clamped to [0, 1]
func (sm *SoundManager) SetVolume(v float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.cfg.Volume = clampVolume(v)
	sm.locked(sm.applyVolume)
}

// Volume returns linear master volume
func (sm *SoundManager) Volume() float64 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.cfg.Volume
}

// Initialized reports whether the speaker is open
func (sm *SoundManager) Initialized() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// Output returns the master streamer, for offline rendering
func (sm *SoundManager) Output() beep.Streamer {
	return sm.master
}

// applyVolume maps linear volume onto the base-2 Volume effect
func (sm *SoundManager) applyVolume() {
	if sm.muted || sm.cfg.Volume <= 0 {
		sm.master.Silent = true
		return
	}
	sm.master.Silent = false
	sm.master.Volume = math.Log2(sm.cfg.Volume)
}

// locked runs fn under the speaker lock once playback is live
// Caller holds sm.mu
func (sm *SoundManager) locked(fn func()) {
	if sm.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}
