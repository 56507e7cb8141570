// Package asset loads the triangle meshes bodies are drawn with. Models come
// from glTF files on disk or from procedural builtins, and each load request
// may name alternatives tried in order when the primary is unavailable.
package asset

import (
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/floating-isle/vmath"
)

// Model is an indexed triangle mesh in model space
type Model struct {
	Name      string
	Positions []vmath.Vec3
	Indices   []uint32         // three per triangle
	Colors    []colorful.Color // one per triangle
	Flap      []float64        // per-vertex clip deformation weight, nil if rigid
	Clips     []Clip
	Bounds    float64 // max vertex distance from origin
}

// Clip is a looping animation carried by a model
type Clip struct {
	Name          string
	Duration      float64 // seconds per loop
	FlapAmplitude float64 // model-space Y displacement at weight 1
}

// Sentinel errors
var (
	ErrNotFound         = errors.New("asset not found")
	ErrMalformed        = errors.New("malformed asset")
	ErrAssetUnavailable = errors.New("asset unavailable")
)

// TriangleCount returns the number of triangles
func (m *Model) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the three model-space vertices of triangle i
func (m *Model) Triangle(i int) (a, b, c vmath.Vec3) {
	return m.Positions[m.Indices[i*3]], m.Positions[m.Indices[i*3+1]], m.Positions[m.Indices[i*3+2]]
}

// FlapWeights returns the deformation weights of triangle i's vertices
func (m *Model) FlapWeights(i int) (wa, wb, wc float64) {
	if m.Flap == nil {
		return 0, 0, 0
	}
	return m.Flap[m.Indices[i*3]], m.Flap[m.Indices[i*3+1]], m.Flap[m.Indices[i*3+2]]
}

// computeBounds refreshes Bounds from Positions
func (m *Model) computeBounds() {
	var maxSq float64
	for _, p := range m.Positions {
		if d := p.LengthSq(); d > maxSq {
			maxSq = d
		}
	}
	m.Bounds = math.Sqrt(maxSq)
}

// validate checks index and colour consistency
func (m *Model) validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: index count not a multiple of 3", ErrMalformed)
	}
	if len(m.Colors) != m.TriangleCount() {
		return fmt.Errorf("%w: colour count does not match triangles", ErrMalformed)
	}
	n := uint32(len(m.Positions))
	for _, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("%w: index out of range", ErrMalformed)
		}
	}
	if m.Flap != nil && len(m.Flap) != len(m.Positions) {
		return fmt.Errorf("%w: flap weights do not match vertices", ErrMalformed)
	}
	return nil
}
