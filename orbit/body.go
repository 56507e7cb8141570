// Package orbit drives objects around horizontal circles centred on the
// scene's vertical axis. Position is re-derived from absolute elapsed time
// every tick, so motion does not drift with frame timing.
package orbit

import (
	"errors"

	"github.com/lixenwraith/floating-isle/vmath"
)

// ID identifies a registered body
type ID string

// Target receives the pose computed for a body each tick
// Implemented by scene nodes; the animator never reads back from it
type Target interface {
	SetPosition(x, y, z float64)
	SetHeading(yaw float64)
}

// Body is the static configuration of one orbiting object
type Body struct {
	Radius        float64 // horizontal distance from the axis, >= 0
	AngularSpeed  float64 // radians per second, sign selects direction
	Height        float64 // fixed Y while orbiting
	HeadingOffset float64 // added to the travel angle so the model faces forward
	Target        Target
}

// Pose is the world placement of a body at one instant
type Pose struct {
	Position vmath.Vec3
	Heading  float64
}

// Sentinel errors
var (
	ErrInvalidBody = errors.New("invalid orbiting body")
)

// PoseAt evaluates the body's circle at elapsed time t
// Negative radius and non-finite t are not validated and propagate as-is
func (b Body) PoseAt(t float64) Pose {
	angle := t * b.AngularSpeed
	x, z := vmath.CirclePoint(t, b.AngularSpeed, b.Radius)
	return Pose{
		Position: vmath.Vec3{X: x, Y: b.Height, Z: z},
		Heading:  angle + b.HeadingOffset,
	}
}

// apply writes the pose into the target
func (b *Body) apply(t float64) Pose {
	p := b.PoseAt(t)
	b.Target.SetPosition(p.Position.X, p.Position.Y, p.Position.Z)
	b.Target.SetHeading(p.Heading)
	return p
}
