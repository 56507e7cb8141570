// Package scene holds the placed objects and lights the rasterizer draws.
package scene

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/floating-isle/vmath"
)

// AmbientLight lights every surface evenly
type AmbientLight struct {
	Color     colorful.Color
	Intensity float64
}

// DirectionalLight shines from Position toward the origin
type DirectionalLight struct {
	Color      colorful.Color
	Intensity  float64
	Position   vmath.Vec3
	CastShadow bool
}

// Direction returns the unit vector from the surface toward the light
func (l DirectionalLight) Direction() vmath.Vec3 {
	return l.Position.Normalize()
}

// Scene is the set of drawable nodes plus lighting
// Not safe for concurrent use
type Scene struct {
	Background colorful.Color
	Ambient    AmbientLight
	Sun        DirectionalLight

	nodes []*Node
	index map[string]int
}

// New creates an empty scene
func New(background colorful.Color) *Scene {
	return &Scene{
		Background: background,
		index:      make(map[string]int),
	}
}

// Add inserts or replaces a node by name
func (s *Scene) Add(n *Node) {
	if i, ok := s.index[n.Name]; ok {
		s.nodes[i] = n
		return
	}
	s.index[n.Name] = len(s.nodes)
	s.nodes = append(s.nodes, n)
}

// Remove deletes a node by name
func (s *Scene) Remove(name string) bool {
	i, ok := s.index[name]
	if !ok {
		return false
	}
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
	delete(s.index, name)
	for j := i; j < len(s.nodes); j++ {
		s.index[s.nodes[j].Name] = j
	}
	return true
}

// Node returns a node by name
func (s *Scene) Node(name string) (*Node, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.nodes[i], true
}

// Nodes returns nodes in insertion order; the slice must not be modified
func (s *Scene) Nodes() []*Node {
	return s.nodes
}

// Len returns the node count
func (s *Scene) Len() int {
	return len(s.nodes)
}

// UpdateMixers advances every node's clip by delta seconds
func (s *Scene) UpdateMixers(delta float64) {
	for _, n := range s.nodes {
		if n.Mixer != nil {
			n.Mixer.Update(delta)
		}
	}
}
