package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/floating-isle/camera"
	"github.com/lixenwraith/floating-isle/scene"
	"github.com/lixenwraith/floating-isle/vmath"
)

// exposure maps summed light intensity into display range
const exposure = 0.55

// Stats counts work done in one frame
type Stats struct {
	Nodes     int
	Triangles int // submitted
	Culled    int // rejected by near plane or degenerate area
	Pixels    int // depth-test passes
}

// Rasterizer draws scenes into a framebuffer
type Rasterizer struct {
	fb     *Framebuffer
	shadow *ShadowMap
}

// NewRasterizer targets fb; shadows are disabled when shadowSize <= 0
func NewRasterizer(fb *Framebuffer, shadowSize int) *Rasterizer {
	r := &Rasterizer{fb: fb}
	if shadowSize > 0 {
		r.shadow = NewShadowMap(shadowSize)
	}
	return r
}

// Framebuffer returns the render target
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// screenVert is a projected vertex
type screenVert struct {
	x, y, z float64
	world   vmath.Vec3
}

// Render clears the target and draws every visible node
func (r *Rasterizer) Render(s *scene.Scene, cam *camera.Camera) Stats {
	var st Stats
	r.fb.Clear(FromColorful(s.Background))
	if r.fb.W == 0 || r.fb.H == 0 {
		return st
	}

	useShadow := r.shadow != nil && s.Sun.CastShadow
	if useShadow {
		r.shadow.Build(s)
	}

	vp := cam.ViewProjection()
	sunDir := s.Sun.Direction()
	ambient := s.Ambient.Color.Clamped()
	sun := s.Sun.Color.Clamped()

	for _, n := range s.Nodes() {
		if !n.Visible || n.Model == nil {
			continue
		}
		st.Nodes++

		world := n.World()
		flap := n.FlapOffset()
		m := n.Model

		for i := 0; i < m.TriangleCount(); i++ {
			st.Triangles++

			a, b, c := m.Triangle(i)
			if flap != 0 {
				wa, wb, wc := m.FlapWeights(i)
				a.Y += wa * flap
				b.Y += wb * flap
				c.Y += wc * flap
			}
			wa, wb, wc := world.Apply(a), world.Apply(b), world.Apply(c)

			sa, okA := project(vp, wa, r.fb.W, r.fb.H, cam.Near)
			sb, okB := project(vp, wb, r.fb.W, r.fb.H, cam.Near)
			sc, okC := project(vp, wc, r.fb.W, r.fb.H, cam.Near)
			if !okA || !okB || !okC {
				st.Culled++
				continue
			}

			// Double-sided: face the normal toward the viewer
			normal := wb.Sub(wa).Cross(wc.Sub(wa)).Normalize()
			if normal.Dot(cam.Position.Sub(wa)) < 0 {
				normal = normal.Scale(-1)
			}
			lambert := math.Max(0, normal.Dot(sunDir))

			base := m.Colors[i]
			lit := FromColorful(shade(base, ambient, s.Ambient.Intensity, sun, s.Sun.Intensity*lambert))

			var drawn int
			var ok bool
			if n.ReceiveShadow && useShadow && lambert > 0 {
				// Shadowed pixels keep only the ambient term
				dark := FromColorful(shade(base, ambient, s.Ambient.Intensity, sun, 0))
				drawn, ok = r.fill(sa, sb, sc, func(p vmath.Vec3) RGB {
					if r.shadow.Occluded(p) {
						return dark
					}
					return lit
				}, true)
			} else {
				drawn, ok = r.fill(sa, sb, sc, func(vmath.Vec3) RGB { return lit }, false)
			}
			if !ok {
				st.Culled++
			}
			st.Pixels += drawn
		}
	}
	return st
}

// shade applies ambient plus directional light to a base colour
func shade(base, ambient colorful.Color, ambientI float64, sun colorful.Color, sunI float64) colorful.Color {
	return colorful.Color{
		R: base.R * (ambient.R*ambientI + sun.R*sunI) * exposure,
		G: base.G * (ambient.G*ambientI + sun.G*sunI) * exposure,
		B: base.B * (ambient.B*ambientI + sun.B*sunI) * exposure,
	}
}

// project maps a world point to pixel coordinates and NDC depth
// Points at or behind the near plane are rejected
func project(vp vmath.Mat4, p vmath.Vec3, w, h int, near float64) (screenVert, bool) {
	c := vp.MulPoint(p)
	if c.W < near {
		return screenVert{}, false
	}
	inv := 1 / c.W
	return screenVert{
		x:     (c.X*inv + 1) * 0.5 * float64(w),
		y:     (1 - c.Y*inv) * 0.5 * float64(h),
		z:     c.Z * inv,
		world: p,
	}, true
}

// edge is twice the signed area of (a, b, p)
func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// fill scan-converts a triangle with a depth test
// colorAt receives the interpolated world position when needWorld is set
func (r *Rasterizer) fill(a, b, c screenVert, colorAt func(vmath.Vec3) RGB, needWorld bool) (int, bool) {
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if math.Abs(area) < 1e-9 {
		return 0, false
	}
	inv := 1 / area

	fb := r.fb
	minX := max(0, int(math.Floor(min(a.x, b.x, c.x))))
	maxX := min(fb.W-1, int(math.Ceil(max(a.x, b.x, c.x))))
	minY := max(0, int(math.Floor(min(a.y, b.y, c.y))))
	maxY := min(fb.H-1, int(math.Ceil(max(a.y, b.y, c.y))))

	drawn := 0
	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			w0 := edge(b.x, b.y, c.x, c.y, px, py) * inv
			w1 := edge(c.x, c.y, a.x, a.y, px, py) * inv
			w2 := edge(a.x, a.y, b.x, b.y, px, py) * inv
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*a.z + w1*b.z + w2*c.z
			if z < -1 || z > 1 {
				continue
			}
			i := y*fb.W + x
			if z >= fb.Depth[i] {
				continue
			}
			fb.Depth[i] = z

			var p vmath.Vec3
			if needWorld {
				p = a.world.Scale(w0).Add(b.world.Scale(w1)).Add(c.world.Scale(w2))
			}
			fb.Color[i] = colorAt(p)
			drawn++
		}
	}
	return drawn, true
}
