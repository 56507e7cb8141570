// Package camera provides the perspective camera and the orbit controls that
// swing it around a target point.
package camera

import (
	"github.com/lixenwraith/floating-isle/vmath"
)

// Camera is a perspective camera aimed at Target
type Camera struct {
	FOV      float64 // vertical, degrees
	Aspect   float64
	Near     float64
	Far      float64
	Position vmath.Vec3
	Target   vmath.Vec3
	Up       vmath.Vec3
}

// NewPerspective creates a camera at the origin looking toward -Z
func NewPerspective(fov, aspect, near, far float64) *Camera {
	return &Camera{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Target: vmath.V3(0, 0, -1),
		Up:     vmath.V3(0, 1, 0),
	}
}

// SetAspect updates the aspect ratio after a resize, ignoring degenerate sizes
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float64(width) / float64(height)
}

// View returns the world-to-view matrix
func (c *Camera) View() vmath.Mat4 {
	return vmath.LookAt(c.Position, c.Target, c.Up)
}

// Projection returns the view-to-clip matrix
func (c *Camera) Projection() vmath.Mat4 {
	return vmath.Perspective(vmath.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns Projection·View
func (c *Camera) ViewProjection() vmath.Mat4 {
	return c.Projection().Mul(c.View())
}
