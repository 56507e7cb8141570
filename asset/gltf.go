package asset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/lixenwraith/floating-isle/vmath"
)

// defaultBaseColor is used for primitives without a PBR material
var defaultBaseColor = colorful.Color{R: 0.8, G: 0.8, B: 0.8}

// GLTFSource reads .glb/.gltf files from a directory
// Node transforms are baked into the vertex positions; skinning and morph
// targets are ignored, animation clips contribute only their durations
type GLTFSource struct {
	Dir string
}

// Load opens and flattens the named document
// Decoder panics on inconsistent buffers are reported as ErrMalformed
func (s GLTFSource) Load(ctx context.Context, name string) (m *Model, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.Dir, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	defer func() {
		if p := recover(); p != nil {
			m, err = nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, p)
		}
	}()

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}

	m, err = flatten(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	m.Name = name
	return m, nil
}

// flatten walks the default scene and emits world-space triangles
func flatten(ctx context.Context, doc *gltf.Document) (*Model, error) {
	m := &Model{}

	var sceneNodes []int
	switch {
	case doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) && doc.Scenes[*doc.Scene] != nil:
		sceneNodes = doc.Scenes[*doc.Scene].Nodes
	case len(doc.Scenes) > 0 && doc.Scenes[0] != nil:
		sceneNodes = doc.Scenes[0].Nodes
	}

	if len(sceneNodes) == 0 {
		// No scene graph, take every mesh at the origin
		for _, mesh := range doc.Meshes {
			if err := appendMesh(doc, mesh, vmath.Identity(), m); err != nil {
				return nil, err
			}
		}
	}

	for _, idx := range sceneNodes {
		n, err := nodeAt(doc, idx)
		if err != nil {
			return nil, err
		}
		if err := walkNode(ctx, doc, n, vmath.Identity(), m, 0); err != nil {
			return nil, err
		}
	}

	if len(m.Indices) == 0 {
		return nil, fmt.Errorf("%w: no triangle primitives", ErrMalformed)
	}

	m.Clips = readClips(doc)
	m.computeBounds()
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// maxNodeDepth guards against cyclic node graphs
const maxNodeDepth = 64

func walkNode(ctx context.Context, doc *gltf.Document, n *gltf.Node, parent vmath.Mat4, m *Model, depth int) error {
	if depth > maxNodeDepth {
		return fmt.Errorf("%w: node hierarchy deeper than %d", ErrMalformed, maxNodeDepth)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	world := parent.Mul(localMatrix(n))
	if n.Mesh != nil {
		if *n.Mesh < 0 || *n.Mesh >= len(doc.Meshes) || doc.Meshes[*n.Mesh] == nil {
			return fmt.Errorf("%w: mesh index %d out of range", ErrMalformed, *n.Mesh)
		}
		if err := appendMesh(doc, doc.Meshes[*n.Mesh], world, m); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		child, err := nodeAt(doc, c)
		if err != nil {
			return err
		}
		if err := walkNode(ctx, doc, child, world, m, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func nodeAt(doc *gltf.Document, i int) (*gltf.Node, error) {
	if i < 0 || i >= len(doc.Nodes) || doc.Nodes[i] == nil {
		return nil, fmt.Errorf("%w: node index %d out of range", ErrMalformed, i)
	}
	return doc.Nodes[i], nil
}

func accessorAt(doc *gltf.Document, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) || doc.Accessors[i] == nil {
		return nil, fmt.Errorf("%w: accessor index %d out of range", ErrMalformed, i)
	}
	return doc.Accessors[i], nil
}

// localMatrix returns the node transform in row-major form
func localMatrix(n *gltf.Node) vmath.Mat4 {
	mat := n.MatrixOrDefault()
	def := gltf.DefaultMatrix
	if mat != def {
		// glTF stores column-major
		var r vmath.Mat4
		for row := 0; row < 4; row++ {
			for col := 0; col < 4; col++ {
				r[row*4+col] = float64(mat[col*4+row])
			}
		}
		return r
	}

	t := n.TranslationOrDefault()
	q := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	return vmath.Translate(vmath.V3(float64(t[0]), float64(t[1]), float64(t[2]))).
		Mul(vmath.FromQuat(float64(q[0]), float64(q[1]), float64(q[2]), float64(q[3]))).
		Mul(vmath.ScaleMat(vmath.V3(float64(s[0]), float64(s[1]), float64(s[2]))))
}

func appendMesh(doc *gltf.Document, mesh *gltf.Mesh, world vmath.Mat4, m *Model) error {
	if mesh == nil {
		return fmt.Errorf("%w: null mesh", ErrMalformed)
	}
	for _, prim := range mesh.Primitives {
		if prim == nil || prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		posAcc, err := accessorAt(doc, posIdx)
		if err != nil {
			return err
		}
		positions, err := modeler.ReadPosition(doc, posAcc, nil)
		if err != nil {
			return fmt.Errorf("%w: positions: %v", ErrMalformed, err)
		}

		var indices []uint32
		if prim.Indices != nil {
			idxAcc, err := accessorAt(doc, *prim.Indices)
			if err != nil {
				return err
			}
			indices, err = modeler.ReadIndices(doc, idxAcc, nil)
			if err != nil {
				return fmt.Errorf("%w: indices: %v", ErrMalformed, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		col := defaultBaseColor
		if prim.Material != nil {
			if *prim.Material < 0 || *prim.Material >= len(doc.Materials) || doc.Materials[*prim.Material] == nil {
				return fmt.Errorf("%w: material index %d out of range", ErrMalformed, *prim.Material)
			}
			mat := doc.Materials[*prim.Material]
			if mat.PBRMetallicRoughness != nil {
				c := mat.PBRMetallicRoughness.BaseColorFactorOrDefault()
				col = colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}
			}
		}

		for _, idx := range indices {
			if int(idx) >= len(positions) {
				return fmt.Errorf("%w: vertex index %d out of range", ErrMalformed, idx)
			}
		}

		base := uint32(len(m.Positions))
		for _, p := range positions {
			m.Positions = append(m.Positions, world.Apply(vmath.V3(float64(p[0]), float64(p[1]), float64(p[2]))))
		}
		for i := 0; i+2 < len(indices); i += 3 {
			m.Indices = append(m.Indices, base+indices[i], base+indices[i+1], base+indices[i+2])
			m.Colors = append(m.Colors, col)
		}
	}
	return nil
}

// readClips takes each animation's duration from its samplers' input range
// Samplers pointing at missing accessors are skipped
func readClips(doc *gltf.Document) []Clip {
	var clips []Clip
	for i, anim := range doc.Animations {
		if anim == nil {
			continue
		}
		var duration float64
		for _, smp := range anim.Samplers {
			if smp == nil {
				continue
			}
			acc, err := accessorAt(doc, smp.Input)
			if err != nil {
				continue
			}
			if len(acc.Max) > 0 && float64(acc.Max[0]) > duration {
				duration = float64(acc.Max[0])
			}
		}
		if duration <= 0 {
			continue
		}
		name := anim.Name
		if name == "" {
			name = fmt.Sprintf("clip%d", i)
		}
		clips = append(clips, Clip{Name: name, Duration: duration})
	}
	return clips
}
