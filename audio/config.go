package audio

import (
	"os"
	"strconv"
)

// Config holds ambient sound settings
type Config struct {
	Enabled    bool    `toml:"enabled"`
	Volume     float64 `toml:"volume"`      // linear, 0..1
	DroneHz    float64 `toml:"drone_hz"`    // engine drone fundamental
	SampleRate int     `toml:"sample_rate"` // Hz
}

// DefaultConfig returns the settings used when nothing overrides them
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Volume:     0.6,
		DroneHz:    55,
		SampleRate: 44100,
	}
}

// ApplyEnv overrides cfg from FLOATING_ISLE_AUDIO and FLOATING_ISLE_VOLUME
// Unparseable values are ignored
func ApplyEnv(cfg Config) Config {
	if enabled := os.Getenv("FLOATING_ISLE_AUDIO"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// 0-100 converted to 0.0-1.0
	if volume := os.Getenv("FLOATING_ISLE_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.Volume = clampVolume(float64(val) / 100.0)
		}
	}
	return cfg
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
