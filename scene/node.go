package scene

import (
	"github.com/lixenwraith/floating-isle/asset"
	"github.com/lixenwraith/floating-isle/vmath"
)

// Node is a placed model instance
// Node satisfies orbit.Target so the animator can write its pose directly
type Node struct {
	Name     string
	Position vmath.Vec3
	Yaw      float64
	Scale    float64
	Model    *asset.Model
	Mixer    *Mixer // nil when the model has no clip

	CastShadow    bool
	ReceiveShadow bool
	Visible       bool
}

// NewNode places model at the origin with the given uniform scale
// A mixer is attached and started on the model's first clip, if any
func NewNode(name string, model *asset.Model, scale float64) *Node {
	n := &Node{
		Name:    name,
		Model:   model,
		Scale:   scale,
		Visible: true,
	}
	if model != nil && len(model.Clips) > 0 {
		n.Mixer = NewMixer(model.Clips[0])
	}
	return n
}

// SetPosition implements orbit.Target
func (n *Node) SetPosition(x, y, z float64) {
	n.Position = vmath.Vec3{X: x, Y: y, Z: z}
}

// SetHeading implements orbit.Target
func (n *Node) SetHeading(yaw float64) {
	n.Yaw = yaw
}

// World returns the model-to-world transform
func (n *Node) World() vmath.Mat4 {
	return vmath.TRS(n.Position, n.Yaw, n.Scale)
}

// FlapOffset returns the current clip displacement at weight 1
func (n *Node) FlapOffset() float64 {
	if n.Mixer == nil {
		return 0
	}
	return n.Mixer.Displacement()
}

// Radius returns the world-space bounding radius
func (n *Node) Radius() float64 {
	if n.Model == nil {
		return 0
	}
	return n.Model.Bounds * n.Scale
}
