package orbit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Target that keeps the last written pose
type recorder struct {
	x, y, z, yaw float64
	writes       int
}

func (r *recorder) SetPosition(x, y, z float64) {
	r.x, r.y, r.z = x, y, z
	r.writes++
}

func (r *recorder) SetHeading(yaw float64) {
	r.yaw = yaw
}

const tol = 1e-9

func TestTick_AirplaneAtStart(t *testing.T) {
	a := NewAnimator()
	rec := &recorder{}
	require.NoError(t, a.Register("airplane", Body{
		Radius: 12, AngularSpeed: 0.5, Height: 1, HeadingOffset: math.Pi, Target: rec,
	}))

	a.Tick(0)

	assert.InDelta(t, 0, rec.x, tol)
	assert.InDelta(t, 1, rec.y, tol)
	assert.InDelta(t, 12, rec.z, tol)
	assert.InDelta(t, math.Pi, rec.yaw, tol)
}

func TestTick_CounterClockwiseBird(t *testing.T) {
	a := NewAnimator()
	rec := &recorder{}
	require.NoError(t, a.Register("bird1", Body{
		Radius: 20, AngularSpeed: -0.6, Height: 2, HeadingOffset: math.Pi / 2, Target: rec,
	}))

	a.Tick(5)

	assert.InDelta(t, math.Sin(-3)*20, rec.x, tol)
	assert.InDelta(t, -2.82, rec.x, 0.01)
	assert.InDelta(t, -19.8, rec.z, 0.01)
	assert.InDelta(t, 2, rec.y, tol)
	assert.InDelta(t, -1.43, rec.yaw, 0.01)
}

func TestPoseAt_StaysOnCircle(t *testing.T) {
	for _, radius := range []float64{0, 0.5, 11, 25} {
		for _, speed := range []float64{-0.8, -0.1, 0.4, 2} {
			b := Body{Radius: radius, AngularSpeed: speed}
			for _, ts := range []float64{0, 0.016, 1, 37.5, 3600} {
				p := b.PoseAt(ts)
				got := p.Position.X*p.Position.X + p.Position.Z*p.Position.Z
				assert.InDelta(t, radius*radius, got, 1e-6, "r=%v w=%v t=%v", radius, speed, ts)
			}
		}
	}
}

func TestPoseAt_Periodic(t *testing.T) {
	b := Body{Radius: 18, AngularSpeed: -0.8, Height: 1.5}
	period := 2 * math.Pi / b.AngularSpeed

	for _, ts := range []float64{0, 1.25, 10, 99} {
		p1 := b.PoseAt(ts)
		p2 := b.PoseAt(ts + period)
		assert.InDelta(t, p1.Position.X, p2.Position.X, 1e-9)
		assert.InDelta(t, p1.Position.Z, p2.Position.Z, 1e-9)
	}
}

func TestPoseAt_OppositeSpeedMirrorsTime(t *testing.T) {
	cw := Body{Radius: 15, AngularSpeed: 0.6, Height: 2}
	ccw := Body{Radius: 15, AngularSpeed: -0.6, Height: 2}

	for _, ts := range []float64{0.3, 4, 27} {
		a := cw.PoseAt(ts)
		b := ccw.PoseAt(-ts)
		assert.InDelta(t, a.Position.X, b.Position.X, tol)
		assert.InDelta(t, a.Position.Z, b.Position.Z, tol)
	}
}

func TestPoseAt_ZeroRadiusPinned(t *testing.T) {
	b := Body{Radius: 0, AngularSpeed: 3, Height: 4}
	for _, ts := range []float64{0, 1, 1000} {
		p := b.PoseAt(ts)
		assert.Zero(t, p.Position.X)
		assert.Zero(t, p.Position.Z)
		assert.Equal(t, 4.0, p.Position.Y)
	}
}

func TestRegister_MidSessionGetsPoseNextTick(t *testing.T) {
	a := NewAnimator()
	first := &recorder{}
	require.NoError(t, a.Register("dove", Body{Radius: 11, AngularSpeed: 0.4, Height: 0.5, Target: first}))

	for i := 0; i < 10; i++ {
		a.Tick(float64(i) / 30)
	}

	late := &recorder{}
	require.NoError(t, a.Register("phoenix", Body{Radius: 18, AngularSpeed: -0.8, Height: 1.5, Target: late}))
	a.Tick(10.0 / 30)

	assert.Equal(t, 1, late.writes)
	for _, v := range []float64{late.x, late.y, late.z, late.yaw} {
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}
	assert.Equal(t, 11, first.writes)
}

func TestRegister_Validation(t *testing.T) {
	a := NewAnimator()

	err := a.Register("", Body{Target: &recorder{}})
	assert.ErrorIs(t, err, ErrInvalidBody)

	err = a.Register("nobody", Body{Radius: 1})
	assert.ErrorIs(t, err, ErrInvalidBody)

	var unloaded *recorder
	err = a.Register("unloaded", Body{Radius: 1, Target: unloaded})
	assert.ErrorIs(t, err, ErrInvalidBody)

	assert.Equal(t, 0, a.Len())
	assert.NotPanics(t, func() { a.Tick(1) })
}

func TestRegister_ReplaceKeepsSingleEntry(t *testing.T) {
	a := NewAnimator()
	old := &recorder{}
	repl := &recorder{}

	require.NoError(t, a.Register("bird2", Body{Radius: 18, Target: old}))
	require.NoError(t, a.Register("bird2", Body{Radius: 5, Target: repl}))
	a.Tick(0)

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, old.writes)
	assert.InDelta(t, 5, repl.z, tol)

	b, ok := a.Get("bird2")
	require.True(t, ok)
	assert.Equal(t, 5.0, b.Radius)
}

func TestUnregister(t *testing.T) {
	a := NewAnimator()
	rec := &recorder{}
	require.NoError(t, a.Register("b", Body{Radius: 1, Target: rec}))
	require.NoError(t, a.Register("a", Body{Radius: 1, Target: &recorder{}}))

	assert.Equal(t, []ID{"a", "b"}, a.IDs())
	assert.True(t, a.Unregister("b"))
	assert.False(t, a.Unregister("b"))

	a.Tick(1)
	assert.Equal(t, 0, rec.writes)
	assert.Equal(t, []ID{"a"}, a.IDs())
}

func TestTick_NonFiniteTimePropagates(t *testing.T) {
	a := NewAnimator()
	rec := &recorder{}
	require.NoError(t, a.Register("x", Body{Radius: 1, AngularSpeed: 1, Target: rec}))

	assert.NotPanics(t, func() { a.Tick(math.NaN()) })
	assert.True(t, math.IsNaN(rec.x))
}
