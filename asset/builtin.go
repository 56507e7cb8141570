package asset

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/floating-isle/vmath"
)

// BuiltinPrefix marks a model name resolved by BuiltinSource
const BuiltinPrefix = "builtin:"

// Builtin model facings: generators build nose-along-+Z, then yaw so the
// nose matches the heading offsets the scene config pairs them with
const (
	facingNegX = -math.Pi / 2 // for heading offset π with positive speed
	facingNegZ = math.Pi      // for heading offset π/2 with negative speed
)

// BuiltinSource generates procedural low-poly models
type BuiltinSource struct{}

var builtins = map[string]func() *Model{
	"island":    buildIsland,
	"airplane":  buildAirplane,
	"dove":      func() *Model { return buildBird("dove", dovePalette, 0.3, facingNegX) },
	"synthwave": func() *Model { return buildBird("synthwave", synthPalette, 0.35, facingNegZ) },
	"phoenix":   func() *Model { return buildBird("phoenix", phoenixPalette, 0.6, facingNegZ) },
}

// BuiltinNames lists the available procedural models
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Load returns a freshly generated model; name may carry the builtin: prefix
func (BuiltinSource) Load(ctx context.Context, name string) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	gen, ok := builtins[strings.TrimPrefix(name, BuiltinPrefix)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	m := gen()
	m.Name = name
	return m, nil
}

// meshBuilder accumulates flat-shaded triangles, vertices are not shared
type meshBuilder struct {
	m *Model
}

func newBuilder() *meshBuilder {
	return &meshBuilder{m: &Model{}}
}

func (b *meshBuilder) vertex(p vmath.Vec3, w float64) uint32 {
	b.m.Positions = append(b.m.Positions, p)
	b.m.Flap = append(b.m.Flap, w)
	return uint32(len(b.m.Positions) - 1)
}

func (b *meshBuilder) triW(p0, p1, p2 vmath.Vec3, w0, w1, w2 float64, col colorful.Color) {
	i0 := b.vertex(p0, w0)
	i1 := b.vertex(p1, w1)
	i2 := b.vertex(p2, w2)
	b.m.Indices = append(b.m.Indices, i0, i1, i2)
	b.m.Colors = append(b.m.Colors, col)
}

func (b *meshBuilder) tri(p0, p1, p2 vmath.Vec3, col colorful.Color) {
	b.triW(p0, p1, p2, 0, 0, 0, col)
}

// quad splits p0-p1-p2-p3 (in winding order) into two triangles
func (b *meshBuilder) quad(p0, p1, p2, p3 vmath.Vec3, col colorful.Color) {
	b.tri(p0, p1, p2, col)
	b.tri(p0, p2, p3, col)
}

// build applies the facing yaw and finalizes the model
func (b *meshBuilder) build(yaw float64, clips ...Clip) *Model {
	m := b.m
	if yaw != 0 {
		for i, p := range m.Positions {
			m.Positions[i] = vmath.RotateY(p, yaw)
		}
	}
	rigid := true
	for _, w := range m.Flap {
		if w != 0 {
			rigid = false
			break
		}
	}
	if rigid {
		m.Flap = nil
	}
	m.Clips = clips
	m.computeBounds()
	return m
}

// ring returns n points on a horizontal circle, radius jittered by wobble
func ring(n int, radius, y, wobble, phase float64) []vmath.Vec3 {
	pts := make([]vmath.Vec3, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		r := radius * (1 + wobble*math.Sin(3*a+phase))
		x, z := vmath.CirclePoint(a, 1, r)
		pts[i] = vmath.V3(x, y, z)
	}
	return pts
}

// shade varies a base HSV colour by a small deterministic offset
func shade(h, s, v float64, k int) colorful.Color {
	dv := 0.06 * math.Sin(float64(k)*1.7)
	return colorful.Hsv(h, s, vmath.Clamp(v+dv, 0, 1))
}

func buildIsland() *Model {
	const segments = 18
	b := newBuilder()

	top := ring(segments, 9, 0, 0.08, 0)
	rim := ring(segments, 8.4, -1.2, 0.08, 0)
	mid := ring(segments, 5, -5, 0.12, 1.3)
	tip := vmath.V3(0.4, -11, -0.3)
	centre := vmath.V3(0, 0.3, 0)

	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		b.tri(centre, top[i], top[j], shade(105, 0.55, 0.62, i))
		b.quad(top[i], rim[i], rim[j], top[j], shade(30, 0.55, 0.45, i))
		b.quad(rim[i], mid[i], mid[j], rim[j], shade(25, 0.35, 0.38, i))
		b.tri(mid[i], tip, mid[j], shade(20, 0.25, 0.28, i))
	}

	for k, p := range []vmath.Vec3{{X: 3, Z: 2}, {X: -4, Z: -1}, {X: 1, Z: -5}, {X: -2, Z: 4.5}, {X: 5.5, Z: -3}} {
		addTree(b, p, 0.8+0.15*float64(k%3), k)
	}

	return b.build(0)
}

func addTree(b *meshBuilder, base vmath.Vec3, size float64, k int) {
	const sides = 6
	trunk := colorful.Hsv(28, 0.6, 0.35)
	foliage := shade(130, 0.6, 0.45, k)

	tw := 0.15 * size
	th := 0.8 * size
	c := []vmath.Vec3{
		base.Add(vmath.V3(-tw, 0, -tw)), base.Add(vmath.V3(tw, 0, -tw)),
		base.Add(vmath.V3(tw, 0, tw)), base.Add(vmath.V3(-tw, 0, tw)),
	}
	for i := range c {
		j := (i + 1) % len(c)
		b.quad(c[i], c[j], c[j].Add(vmath.V3(0, th, 0)), c[i].Add(vmath.V3(0, th, 0)), trunk)
	}

	cone := ring(sides, 1.1*size, th, 0, 0)
	apex := base.Add(vmath.V3(0, th+2.4*size, 0))
	for i := 0; i < sides; i++ {
		j := (i + 1) % sides
		p0 := base.Add(vmath.V3(cone[i].X, cone[i].Y, cone[i].Z))
		p1 := base.Add(vmath.V3(cone[j].X, cone[j].Y, cone[j].Z))
		b.tri(p0, p1, apex, foliage)
		b.tri(p0, base.Add(vmath.V3(0, th, 0)), p1, foliage)
	}
}

func buildAirplane() *Model {
	b := newBuilder()
	body := colorful.Hsv(210, 0.05, 0.95)
	wing := colorful.Hsv(0, 0.75, 0.85)
	glass := colorful.Hsv(200, 0.6, 0.4)

	const hw, hh = 0.06, 0.07
	f := func(x, y, z float64) vmath.Vec3 { return vmath.V3(x, y, z) }

	// Fuselage box z ∈ [-0.5, 0.35]
	back := []vmath.Vec3{f(-hw, -hh, -0.5), f(hw, -hh, -0.5), f(hw, hh, -0.5), f(-hw, hh, -0.5)}
	front := []vmath.Vec3{f(-hw, -hh, 0.35), f(hw, -hh, 0.35), f(hw, hh, 0.35), f(-hw, hh, 0.35)}
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		b.quad(back[i], back[j], front[j], front[i], body)
	}
	b.quad(back[3], back[2], back[1], back[0], body)

	// Nose cone, top face tinted as windscreen
	nose := f(0, 0, 0.55)
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		col := body
		if i == 2 {
			col = glass
		}
		b.tri(front[i], front[j], nose, col)
	}

	// Main wing and tailplane
	b.quad(f(-0.6, 0, -0.05), f(0.6, 0, -0.05), f(0.6, 0, 0.12), f(-0.6, 0, 0.12), wing)
	b.quad(f(-0.22, 0, -0.5), f(0.22, 0, -0.5), f(0.22, 0, -0.4), f(-0.22, 0, -0.4), wing)

	// Fin
	b.tri(f(0, hh, -0.5), f(0, 0.28, -0.5), f(0, hh, -0.32), wing)

	return b.build(facingNegX)
}

type birdPalette struct {
	body, wing, tip colorful.Color
}

var (
	dovePalette    = birdPalette{colorful.Hsv(0, 0, 0.95), colorful.Hsv(210, 0.05, 0.88), colorful.Hsv(210, 0.1, 0.7)}
	synthPalette   = birdPalette{colorful.Hsv(300, 0.8, 0.9), colorful.Hsv(190, 0.9, 0.95), colorful.Hsv(280, 0.9, 0.8)}
	phoenixPalette = birdPalette{colorful.Hsv(15, 0.9, 0.95), colorful.Hsv(35, 0.95, 1.0), colorful.Hsv(5, 0.95, 0.8)}
)

// buildBird makes a body diamond, two articulated wings and a tail fan
// tailLen controls the fan length
func buildBird(name string, pal birdPalette, tailLen float64, facing float64) *Model {
	b := newBuilder()
	f := func(x, y, z float64) vmath.Vec3 { return vmath.V3(x, y, z) }

	nose, tail := f(0, 0, 0.4), f(0, 0, -0.3)
	left, right := f(-0.08, 0, 0), f(0.08, 0, 0)
	up, down := f(0, 0.08, 0), f(0, -0.06, 0)

	for _, end := range []vmath.Vec3{nose, tail} {
		b.tri(end, left, up, pal.body)
		b.tri(end, up, right, pal.body)
		b.tri(end, right, down, pal.body)
		b.tri(end, down, left, pal.body)
	}

	for _, side := range []float64{-1, 1} {
		rootF := f(side*0.06, 0, 0.12)
		rootB := f(side*0.06, 0, -0.1)
		mid := f(side*0.38, 0.02, 0.04)
		tip := f(side*0.75, 0.04, -0.12)
		b.triW(rootF, rootB, mid, 0, 0, 0.4, pal.wing)
		b.triW(mid, rootB, tip, 0.4, 0, 1, pal.tip)
	}

	b.tri(tail, f(-0.12, 0, -0.3-tailLen), f(0.12, 0, -0.3-tailLen), pal.tip)

	flap := Clip{Name: "flap", Duration: 0.6, FlapAmplitude: 0.3}
	m := b.build(facing, flap)
	m.Name = name
	return m
}
