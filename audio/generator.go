package audio

import (
	"math"
	"math/rand"

	"github.com/gopxl/beep"
)

// windGenerator is low-passed noise with a slow gust envelope
type windGenerator struct {
	rate  beep.SampleRate
	rng   *rand.Rand
	pos   int
	lp    float64 // one-pole filter state
	alpha float64
	gust  float64 // gust period, seconds
}

// NewWindGenerator creates an endless wind streamer
func NewWindGenerator(rate beep.SampleRate, seed int64) beep.Streamer {
	// ~400Hz cutoff
	dt := 1 / float64(rate)
	rc := 1 / (2 * math.Pi * 400)
	return &windGenerator{
		rate:  rate,
		rng:   rand.New(rand.NewSource(seed)),
		alpha: dt / (rc + dt),
		gust:  7,
	}
}

func (g *windGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.rate)
		white := g.rng.Float64()*2 - 1
		g.lp += g.alpha * (white - g.lp)

		amp := 0.25 * (0.6 + 0.4*math.Sin(2*math.Pi*t/g.gust))
		v := g.lp * amp
		// Slight stereo drift
		pan := 0.5 + 0.2*math.Sin(2*math.Pi*t/(g.gust*1.7))
		samples[i][0] = v * (1 - pan) * 2
		samples[i][1] = v * pan * 2
		g.pos++
	}
	return len(samples), true
}

func (g *windGenerator) Err() error { return nil }

// droneGenerator is a low engine hum with a slow beat
type droneGenerator struct {
	rate  beep.SampleRate
	phase [3]float64
	freq  [3]float64
	pos   int
}

// NewDroneGenerator creates an endless engine drone at base Hz
func NewDroneGenerator(rate beep.SampleRate, base float64) beep.Streamer {
	return &droneGenerator{
		rate: rate,
		freq: [3]float64{base, base * 2, base * 1.01},
	}
}

func (g *droneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		fundamental := math.Sin(2 * math.Pi * g.phase[0])
		// Saw overtone gives the prop buzz
		overtone := 2*g.phase[1] - 1
		detuned := math.Sin(2 * math.Pi * g.phase[2])

		v := 0.08*fundamental + 0.02*overtone + 0.05*detuned
		samples[i][0] = v
		samples[i][1] = v

		for k := range g.phase {
			g.phase[k] += g.freq[k] / float64(g.rate)
			g.phase[k] -= math.Floor(g.phase[k])
		}
		g.pos++
	}
	return len(samples), true
}

func (g *droneGenerator) Err() error { return nil }
