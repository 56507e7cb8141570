package vmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func TestCirclePointStaysOnCircle(t *testing.T) {
	tests := []struct {
		name          string
		t, speed, rad float64
	}{
		{"origin time", 0, 0.5, 12},
		{"negative speed", 5, -0.6, 20},
		{"large time", 1e5, 0.8, 18},
		{"zero radius", 3.3, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, z := CirclePoint(tt.t, tt.speed, tt.rad)
			assert.InDelta(t, tt.rad*tt.rad, x*x+z*z, 1e-6)
		})
	}
}

func TestCirclePeriod(t *testing.T) {
	assert.InDelta(t, 4*math.Pi, CirclePeriod(0.5), eps)
	assert.InDelta(t, 4*math.Pi, CirclePeriod(-0.5), eps)
	assert.True(t, math.IsInf(CirclePeriod(0), 1))
}

func TestSphericalRoundTrip(t *testing.T) {
	v := V3(3, 15, 30)
	r, polar, az := ToSpherical(v)
	back := Spherical(r, polar, az)
	assert.InDelta(t, v.X, back.X, 1e-9)
	assert.InDelta(t, v.Y, back.Y, 1e-9)
	assert.InDelta(t, v.Z, back.Z, 1e-9)
}

func TestRotateYMatchesMatrix(t *testing.T) {
	v := V3(1, 2, 3)
	for _, yaw := range []float64{0, math.Pi / 3, -2, math.Pi} {
		a := RotateY(v, yaw)
		b := RotationY(yaw).Apply(v)
		assert.InDelta(t, a.X, b.X, eps)
		assert.InDelta(t, a.Y, b.Y, eps)
		assert.InDelta(t, a.Z, b.Z, eps)
	}
}

func TestLookAtPutsTargetOnAxis(t *testing.T) {
	view := LookAt(V3(0, 15, 30), V3(0, 0, 0), V3(0, 1, 0))
	p := view.Apply(V3(0, 0, 0))

	// Target lands on -Z in view space at the eye distance
	assert.InDelta(t, 0, p.X, eps)
	assert.InDelta(t, 0, p.Y, eps)
	assert.InDelta(t, -V3(0, 15, 30).Length(), p.Z, 1e-9)
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective(DegToRad(75), 1, 0.1, 1000)

	near := proj.Apply(V3(0, 0, -0.1))
	far := proj.Apply(V3(0, 0, -1000))
	assert.InDelta(t, -1, near.Z, 1e-6)
	assert.InDelta(t, 1, far.Z, 1e-6)
}

func TestFromQuatIdentity(t *testing.T) {
	assert.Equal(t, Identity(), FromQuat(0, 0, 0, 1))
}

func TestFromQuatQuarterTurn(t *testing.T) {
	// 90° about +Y
	h := math.Sqrt2 / 2
	p := FromQuat(0, h, 0, h).Apply(V3(1, 0, 0))
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, -1, p.Z, 1e-9)
}

func TestWrap(t *testing.T) {
	assert.InDelta(t, 0.5, Wrap(2.5, 1), eps)
	assert.InDelta(t, 0.75, Wrap(-0.25, 1), eps)
	assert.Equal(t, 0.0, Wrap(3, 0))
}

func TestNormalizeZero(t *testing.T) {
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
	assert.InDelta(t, 1, V3(3, 4, 0).Normalize().Length(), eps)
}
