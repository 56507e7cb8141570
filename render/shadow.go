package render

import (
	"math"

	"github.com/lixenwraith/floating-isle/scene"
	"github.com/lixenwraith/floating-isle/vmath"
)

// shadowBias offsets receiver depth to avoid self-shadow acne
const shadowBias = 0.01

// ShadowMap is an orthographic depth map rendered from the sun
type ShadowMap struct {
	size  int
	depth []float64
	vp    vmath.Mat4
	built bool
}

// NewShadowMap allocates a size×size depth map
func NewShadowMap(size int) *ShadowMap {
	return &ShadowMap{
		size:  size,
		depth: make([]float64, size*size),
	}
}

// Build fits the light frustum around every node and rasterizes shadow casters
func (sm *ShadowMap) Build(s *scene.Scene) {
	for i := range sm.depth {
		sm.depth[i] = math.Inf(1)
	}

	extent := 1.0
	for _, n := range s.Nodes() {
		if n.Visible && n.Model != nil {
			extent = math.Max(extent, n.Position.Length()+n.Radius())
		}
	}

	dir := s.Sun.Direction()
	eye := dir.Scale(extent * 2)
	up := vmath.V3(0, 1, 0)
	if math.Abs(dir.Y) > 0.99 {
		up = vmath.V3(0, 0, 1)
	}
	view := vmath.LookAt(eye, vmath.Vec3{}, up)
	proj := vmath.Orthographic(-extent, extent, -extent, extent, 0.1, extent*4)
	sm.vp = proj.Mul(view)
	sm.built = true

	for _, n := range s.Nodes() {
		if !n.Visible || !n.CastShadow || n.Model == nil {
			continue
		}
		world := n.World()
		flap := n.FlapOffset()
		m := n.Model
		for i := 0; i < m.TriangleCount(); i++ {
			a, b, c := m.Triangle(i)
			if flap != 0 {
				wa, wb, wc := m.FlapWeights(i)
				a.Y += wa * flap
				b.Y += wb * flap
				c.Y += wc * flap
			}
			sm.fillDepth(sm.toMap(world.Apply(a)), sm.toMap(world.Apply(b)), sm.toMap(world.Apply(c)))
		}
	}
}

// toMap projects a world point to map pixel coordinates and depth
func (sm *ShadowMap) toMap(p vmath.Vec3) vmath.Vec3 {
	c := sm.vp.Apply(p)
	s := float64(sm.size)
	return vmath.Vec3{
		X: (c.X + 1) * 0.5 * s,
		Y: (1 - c.Y) * 0.5 * s,
		Z: c.Z,
	}
}

func (sm *ShadowMap) fillDepth(a, b, c vmath.Vec3) {
	area := edge(a.X, a.Y, b.X, b.Y, c.X, c.Y)
	if math.Abs(area) < 1e-12 {
		return
	}
	inv := 1 / area

	minX := max(0, int(math.Floor(min(a.X, b.X, c.X))))
	maxX := min(sm.size-1, int(math.Ceil(max(a.X, b.X, c.X))))
	minY := max(0, int(math.Floor(min(a.Y, b.Y, c.Y))))
	maxY := min(sm.size-1, int(math.Ceil(max(a.Y, b.Y, c.Y))))

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			w0 := edge(b.X, b.Y, c.X, c.Y, px, py) * inv
			w1 := edge(c.X, c.Y, a.X, a.Y, px, py) * inv
			w2 := edge(a.X, a.Y, b.X, b.Y, px, py) * inv
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*a.Z + w1*b.Z + w2*c.Z
			i := y*sm.size + x
			if z < sm.depth[i] {
				sm.depth[i] = z
			}
		}
	}
}

// Occluded reports whether a caster lies between p and the sun
func (sm *ShadowMap) Occluded(p vmath.Vec3) bool {
	if !sm.built {
		return false
	}
	m := sm.toMap(p)
	x, y := int(math.Floor(m.X)), int(math.Floor(m.Y))
	if x < 0 || y < 0 || x >= sm.size || y >= sm.size {
		return false
	}
	return m.Z-shadowBias > sm.depth[y*sm.size+x]
}
