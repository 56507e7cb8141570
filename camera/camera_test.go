package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/floating-isle/vmath"
)

func newSceneCamera() *Camera {
	cam := NewPerspective(75, 2, 0.1, 1000)
	cam.Position = vmath.V3(0, 15, 30)
	cam.Target = vmath.V3(0, 0, 0)
	return cam
}

func TestSetAspectIgnoresDegenerate(t *testing.T) {
	cam := newSceneCamera()
	cam.SetAspect(0, 10)
	assert.Equal(t, 2.0, cam.Aspect)

	cam.SetAspect(160, 80)
	assert.Equal(t, 2.0, cam.Aspect)

	cam.SetAspect(90, 60)
	assert.InDelta(t, 1.5, cam.Aspect, 1e-9)
}

func TestViewProjectionCentresTarget(t *testing.T) {
	cam := newSceneCamera()
	p := cam.ViewProjection().Apply(cam.Target)
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)
	assert.True(t, p.Z > -1 && p.Z < 1)
}

func TestControlsNoInputKeepsPosition(t *testing.T) {
	cam := newSceneCamera()
	c := NewControls(cam)
	c.EnableDamping = true

	assert.False(t, c.Update())
	assert.InDelta(t, 0, cam.Position.X, 1e-9)
	assert.InDelta(t, 15, cam.Position.Y, 1e-9)
	assert.InDelta(t, 30, cam.Position.Z, 1e-9)
}

func TestControlsRotateWithoutDamping(t *testing.T) {
	cam := newSceneCamera()
	c := NewControls(cam)
	dist := c.Distance()

	c.Rotate(math.Pi/2, 0)
	assert.True(t, c.Update())

	// Quarter turn moves the camera from +Z to +X at the same distance
	assert.InDelta(t, 30, cam.Position.X, 1e-9)
	assert.InDelta(t, 0, cam.Position.Z, 1e-9)
	assert.InDelta(t, dist, cam.Position.Length(), 1e-9)

	assert.False(t, c.Update())
}

func TestControlsDampingConverges(t *testing.T) {
	cam := newSceneCamera()
	c := NewControls(cam)
	c.EnableDamping = true
	_, az0 := c.Angles()

	c.Rotate(0.5, 0)
	c.Update()
	_, az1 := c.Angles()
	assert.InDelta(t, az0+0.5*DefaultDampingFactor, az1, 1e-9)

	for i := 0; i < 600; i++ {
		c.Update()
	}
	_, azN := c.Angles()
	assert.InDelta(t, az0+0.5, azN, 1e-4)
}

func TestControlsPolarClamped(t *testing.T) {
	cam := newSceneCamera()
	c := NewControls(cam)

	c.Rotate(0, -10)
	c.Update()
	polar, _ := c.Angles()
	assert.InDelta(t, c.MinPolar, polar, 1e-12)
	assert.True(t, cam.Position.IsFinite())

	c.Rotate(0, 20)
	c.Update()
	polar, _ = c.Angles()
	assert.InDelta(t, c.MaxPolar, polar, 1e-12)
}

func TestControlsZoom(t *testing.T) {
	cam := newSceneCamera()
	c := NewControls(cam)
	d0 := c.Distance()

	c.Zoom(0.5)
	c.Update()
	assert.InDelta(t, d0/2, c.Distance(), 1e-9)

	c.Zoom(1e-6)
	c.Update()
	assert.Equal(t, DefaultMinDistance, c.Distance())

	c.EnableZoom = false
	c.Zoom(100)
	c.Update()
	assert.Equal(t, DefaultMinDistance, c.Distance())
}

func TestControlsReset(t *testing.T) {
	cam := newSceneCamera()
	c := NewControls(cam)

	c.Rotate(1, 0.3)
	c.Zoom(2)
	c.Update()
	c.Reset()

	assert.Equal(t, vmath.V3(0, 15, 30), cam.Position)
	assert.InDelta(t, math.Sqrt(15*15+30*30), c.Distance(), 1e-9)
}
