// Package models loads and builds meshes and turns them into scene
// objects.
package models

import (
	"errors"
	"fmt"

	"github.com/fogleman/simplify"

	"github.com/taigrr/prism/pkg/geometry"
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/primitive"
	"github.com/taigrr/prism/pkg/scene"
)

// ErrEmptyMesh is returned when a mesh has nothing to draw.
var ErrEmptyMesh = errors.New("mesh is empty")

// DefaultColor is used for mesh elements without a material.
var DefaultColor = primitive.RGB(200, 200, 200)

// Face is a triangle referencing three mesh vertices.
type Face struct {
	V     [3]int
	Color primitive.Color
}

// Edge is a line referencing two mesh vertices.
type Edge struct {
	V     [2]int
	Color primitive.Color
}

// Marker is a single drawn vertex.
type Marker struct {
	V     int
	Color primitive.Color
}

// Mesh is an indexed collection of faces, edges and markers sharing one
// vertex list.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	Faces    []Face
	Edges    []Edge
	Markers  []Marker
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int { return len(m.Faces) }

// Empty reports whether the mesh has no elements to draw.
func (m *Mesh) Empty() bool {
	return len(m.Faces) == 0 && len(m.Edges) == 0 && len(m.Markers) == 0
}

// Bounds returns the axis-aligned bounds of the vertices.
func (m *Mesh) Bounds() (geometry.AABB, bool) {
	return geometry.BoundsOf(m.Vertices)
}

// Transform applies mat to every vertex.
func (m *Mesh) Transform(mat math3d.Mat4) error {
	out := make([]math3d.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		p, ok := mat.TransformPoint(v)
		if !ok {
			return fmt.Errorf("transform vertex %d: %w", i, primitive.ErrPointAtInfinity)
		}
		out[i] = p
	}
	m.Vertices = out
	return nil
}

// Normalize centers the mesh on the origin and scales it so its largest
// dimension equals size.
func (m *Mesh) Normalize(size float64) error {
	box, ok := m.Bounds()
	if !ok {
		return ErrEmptyMesh
	}
	mat := math3d.Translate(box.Center().Negate())
	if ext := box.MaxExtent(); ext > 0 {
		s := size / ext
		mat = math3d.Scale(math3d.V3(s, s, s)).Mul(mat)
	}
	return m.Transform(mat)
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Name:     m.Name,
		Vertices: append([]math3d.Vec3(nil), m.Vertices...),
		Faces:    append([]Face(nil), m.Faces...),
		Edges:    append([]Edge(nil), m.Edges...),
		Markers:  append([]Marker(nil), m.Markers...),
	}
}

// Validate checks that every element references an existing vertex.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	bad := func(i int) bool { return i < 0 || i >= n }
	for i, f := range m.Faces {
		if bad(f.V[0]) || bad(f.V[1]) || bad(f.V[2]) {
			return fmt.Errorf("face %d references %v of %d vertices", i, f.V, n)
		}
	}
	for i, e := range m.Edges {
		if bad(e.V[0]) || bad(e.V[1]) {
			return fmt.Errorf("edge %d references %v of %d vertices", i, e.V, n)
		}
	}
	for i, p := range m.Markers {
		if bad(p.V) {
			return fmt.Errorf("marker %d references %d of %d vertices", i, p.V, n)
		}
	}
	return nil
}

// Set returns the mesh as primitives: faces become triangles, edges become
// segments and markers become points.
func (m *Mesh) Set() primitive.Set {
	var s primitive.Set
	v := m.Vertices
	for _, f := range m.Faces {
		s.AddTriangle(primitive.NewTriangle(v[f.V[0]], v[f.V[1]], v[f.V[2]], f.Color))
	}
	for _, e := range m.Edges {
		s.AddSegment(primitive.NewSegment(v[e.V[0]], v[e.V[1]], e.Color))
	}
	for _, p := range m.Markers {
		s.AddPoint(primitive.NewPoint(v[p.V], p.Color))
	}
	return s
}

// Wireframe returns every distinct face edge as a segment, plus the mesh's
// own edges and markers.
func (m *Mesh) Wireframe() primitive.Set {
	var s primitive.Set
	seen := make(map[[2]int]bool)
	addEdge := func(a, b int, c primitive.Color) {
		key := [2]int{min(a, b), max(a, b)}
		if a == b || seen[key] {
			return
		}
		seen[key] = true
		s.AddSegment(primitive.NewSegment(m.Vertices[a], m.Vertices[b], c))
	}
	for _, f := range m.Faces {
		addEdge(f.V[0], f.V[1], f.Color)
		addEdge(f.V[1], f.V[2], f.Color)
		addEdge(f.V[2], f.V[0], f.Color)
	}
	for _, e := range m.Edges {
		addEdge(e.V[0], e.V[1], e.Color)
	}
	for _, p := range m.Markers {
		s.AddPoint(primitive.NewPoint(m.Vertices[p.V], p.Color))
	}
	return s
}

// Object places the mesh in a scene at position. With wireframe set the
// faces are drawn as their edges.
func (m *Mesh) Object(position math3d.Vec3, wireframe bool) (*scene.Object, error) {
	set := m.Set()
	if wireframe {
		set = m.Wireframe()
	}
	obj, err := scene.NewObject(position, set)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
	}
	obj.Name = m.Name
	return obj, nil
}

// Simplify reduces the face count to roughly factor times the original
// using quadric edge collapse. Faces take the color of the first face;
// edges and markers are kept as they are.
func (m *Mesh) Simplify(factor float64) *Mesh {
	if len(m.Faces) == 0 || factor >= 1 {
		return m.Clone()
	}

	tris := make([]*simplify.Triangle, len(m.Faces))
	for i, f := range m.Faces {
		tris[i] = simplify.NewTriangle(
			toSimplify(m.Vertices[f.V[0]]),
			toSimplify(m.Vertices[f.V[1]]),
			toSimplify(m.Vertices[f.V[2]]),
		)
	}
	reduced := simplify.NewMesh(tris).Simplify(factor)

	out := &Mesh{
		Name:    m.Name,
		Edges:   append([]Edge(nil), m.Edges...),
		Markers: append([]Marker(nil), m.Markers...),
	}
	out.Vertices = append(out.Vertices, m.Vertices...)
	color := m.Faces[0].Color

	index := make(map[simplify.Vector]int)
	vertex := func(v simplify.Vector) int {
		if i, ok := index[v]; ok {
			return i
		}
		i := len(out.Vertices)
		out.Vertices = append(out.Vertices, math3d.V3(v.X, v.Y, v.Z))
		index[v] = i
		return i
	}
	for _, t := range reduced.Triangles {
		out.Faces = append(out.Faces, Face{
			V:     [3]int{vertex(t.V1), vertex(t.V2), vertex(t.V3)},
			Color: color,
		})
	}
	return out
}

func toSimplify(v math3d.Vec3) simplify.Vector {
	return simplify.Vector{X: v.X, Y: v.Y, Z: v.Z}
}
