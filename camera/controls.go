package camera

import (
	"math"

	"github.com/lixenwraith/floating-isle/vmath"
)

// Control defaults
const (
	DefaultDampingFactor = 0.05
	DefaultMinDistance   = 2.0
	DefaultMaxDistance   = 200.0
	polarEpsilon         = 1e-3
	settleThreshold      = 1e-6
)

// Controls orbits a camera around its target on a sphere
// Rotation and zoom requests accumulate and are applied in Update; with
// damping enabled each Update applies a fraction and decays the remainder,
// so motion eases out over several frames
type Controls struct {
	cam *Camera

	EnableDamping bool
	DampingFactor float64
	EnableZoom    bool
	EnableRotate  bool
	MinDistance   float64
	MaxDistance   float64
	MinPolar      float64
	MaxPolar      float64

	radius, polar, azimuth float64

	dAzimuth, dPolar float64
	scale            float64

	home struct {
		position, target vmath.Vec3
	}
}

// NewControls captures the camera's current placement as the home position
func NewControls(cam *Camera) *Controls {
	c := &Controls{
		cam:           cam,
		DampingFactor: DefaultDampingFactor,
		EnableZoom:    true,
		EnableRotate:  true,
		MinDistance:   DefaultMinDistance,
		MaxDistance:   DefaultMaxDistance,
		MinPolar:      polarEpsilon,
		MaxPolar:      math.Pi - polarEpsilon,
		scale:         1,
	}
	c.home.position = cam.Position
	c.home.target = cam.Target
	c.sync()
	return c
}

// sync derives spherical state from the camera
func (c *Controls) sync() {
	c.radius, c.polar, c.azimuth = vmath.ToSpherical(c.cam.Position.Sub(c.cam.Target))
}

// Rotate queues an orbit by dAzimuth around the up axis and dPolar toward the pole
func (c *Controls) Rotate(dAzimuth, dPolar float64) {
	if !c.EnableRotate {
		return
	}
	c.dAzimuth += dAzimuth
	c.dPolar += dPolar
}

// Zoom queues a distance multiplier; <1 moves closer
func (c *Controls) Zoom(factor float64) {
	if !c.EnableZoom || factor <= 0 {
		return
	}
	c.scale *= factor
}

// Update applies pending motion to the camera, returns true if it moved
func (c *Controls) Update() bool {
	before := c.cam.Position

	step := 1.0
	if c.EnableDamping {
		step = c.DampingFactor
	}

	c.azimuth += c.dAzimuth * step
	c.polar = vmath.Clamp(c.polar+c.dPolar*step, c.MinPolar, c.MaxPolar)
	c.radius = vmath.Clamp(c.radius*c.scale, c.MinDistance, c.MaxDistance)
	c.scale = 1

	if c.EnableDamping {
		c.dAzimuth *= 1 - c.DampingFactor
		c.dPolar *= 1 - c.DampingFactor
		if math.Abs(c.dAzimuth) < settleThreshold {
			c.dAzimuth = 0
		}
		if math.Abs(c.dPolar) < settleThreshold {
			c.dPolar = 0
		}
	} else {
		c.dAzimuth, c.dPolar = 0, 0
	}

	c.cam.Position = c.cam.Target.Add(vmath.Spherical(c.radius, c.polar, c.azimuth))
	return c.cam.Position.Sub(before).LengthSq() > settleThreshold*settleThreshold
}

// Reset returns the camera to the placement captured at construction
func (c *Controls) Reset() {
	c.cam.Position = c.home.position
	c.cam.Target = c.home.target
	c.dAzimuth, c.dPolar, c.scale = 0, 0, 1
	c.sync()
}

// Distance returns the current orbit radius
func (c *Controls) Distance() float64 {
	return c.radius
}

// Angles returns polar and azimuth in radians
func (c *Controls) Angles() (polar, azimuth float64) {
	return c.polar, c.azimuth
}
