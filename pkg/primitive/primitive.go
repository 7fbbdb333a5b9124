// Package primitive defines the point, segment and triangle primitives the
// renderer draws, their homogeneous transforms, and clipping against planes.
package primitive

import (
	"errors"

	"github.com/taigrr/prism/pkg/geometry"
	"github.com/taigrr/prism/pkg/math3d"
)

// ErrPointAtInfinity is returned when a transform sends a vertex to w = 0.
var ErrPointAtInfinity = errors.New("vertex maps to w=0")

// Point is a single colored vertex.
type Point struct {
	V     [1]math3d.Vec3
	Color Color
}

// Segment is an ordered pair of vertices.
type Segment struct {
	V     [2]math3d.Vec3
	Color Color
}

// Triangle has three vertices in a fixed order. Either winding is drawn.
type Triangle struct {
	V     [3]math3d.Vec3
	Color Color
}

// NewPoint creates a Point.
func NewPoint(p math3d.Vec3, c Color) Point {
	return Point{V: [1]math3d.Vec3{p}, Color: c}
}

// NewSegment creates a Segment from a to b.
func NewSegment(a, b math3d.Vec3, c Color) Segment {
	return Segment{V: [2]math3d.Vec3{a, b}, Color: c}
}

// NewTriangle creates a Triangle.
func NewTriangle(a, b, c math3d.Vec3, col Color) Triangle {
	return Triangle{V: [3]math3d.Vec3{a, b, c}, Color: col}
}

func (p *Point) vertices() []math3d.Vec3    { return p.V[:] }
func (s *Segment) vertices() []math3d.Vec3  { return s.V[:] }
func (t *Triangle) vertices() []math3d.Vec3 { return t.V[:] }

// vertexPtr is satisfied by pointers to the three primitive kinds.
type vertexPtr[P any] interface {
	*P
	vertices() []math3d.Vec3
}

// transformVertices maps every vertex through m with a perspective divide.
// vs is left untouched when any vertex lands at w = 0.
func transformVertices(vs []math3d.Vec3, m math3d.Mat4) error {
	var out [3]math3d.Vec3
	for i, v := range vs {
		p, ok := m.TransformPoint(v)
		if !ok {
			return ErrPointAtInfinity
		}
		out[i] = p
	}
	copy(vs, out[:len(vs)])
	return nil
}

// TransformInPlace applies m to the vertex.
func (p *Point) TransformInPlace(m math3d.Mat4) error {
	return transformVertices(p.V[:], m)
}

// TransformInPlace applies m to both vertices.
func (s *Segment) TransformInPlace(m math3d.Mat4) error {
	return transformVertices(s.V[:], m)
}

// TransformInPlace applies m to all three vertices.
func (t *Triangle) TransformInPlace(m math3d.Mat4) error {
	return transformVertices(t.V[:], m)
}

// Transformed returns a transformed copy.
func (p Point) Transformed(m math3d.Mat4) (Point, error) {
	err := p.TransformInPlace(m)
	return p, err
}

// Transformed returns a transformed copy.
func (s Segment) Transformed(m math3d.Mat4) (Segment, error) {
	err := s.TransformInPlace(m)
	return s, err
}

// Transformed returns a transformed copy.
func (t Triangle) Transformed(m math3d.Mat4) (Triangle, error) {
	err := t.TransformInPlace(m)
	return t, err
}

// Area returns the area of the triangle.
func (t Triangle) Area() float64 {
	return t.V[1].Sub(t.V[0]).Cross(t.V[2].Sub(t.V[0])).Len() / 2
}

// Length returns the length of the segment.
func (s Segment) Length() float64 {
	return s.V[0].Distance(s.V[1])
}

// inside reports whether v is on the kept side of pl. Points on the plane
// are kept.
func inside(pl geometry.Plane, v math3d.Vec3) bool {
	return pl.SignedDistance(v) >= 0
}

// AppendIntersect appends p to dst when it lies on the positive side of pl.
func (p Point) AppendIntersect(dst []Point, pl geometry.Plane) []Point {
	if inside(pl, p.V[0]) {
		dst = append(dst, p)
	}
	return dst
}

// AppendIntersect appends the part of s on the positive side of pl to dst.
// An endpoint outside the half-space is moved onto the plane.
func (s Segment) AppendIntersect(dst []Segment, pl geometry.Plane) []Segment {
	in0, in1 := inside(pl, s.V[0]), inside(pl, s.V[1])
	switch {
	case in0 && in1:
		return append(dst, s)
	case !in0 && !in1:
		return dst
	}

	x, ok := pl.IntersectSegment(s.V[0], s.V[1])
	if !ok {
		return dst
	}
	if in0 {
		s.V[1] = x
	} else {
		s.V[0] = x
	}
	return append(dst, s)
}

// AppendIntersect appends the part of t on the positive side of pl to dst
// as zero, one or two triangles. The clipped polygon lists the inside
// vertices in order followed by the edge crossings for edges (0,1), (0,2)
// and (1,2), and is fanned over consecutive triples.
func (t Triangle) AppendIntersect(dst []Triangle, pl geometry.Plane) []Triangle {
	var in [3]bool
	count := 0
	for i, v := range t.V {
		in[i] = inside(pl, v)
		if in[i] {
			count++
		}
	}
	switch count {
	case 0:
		return dst
	case 3:
		return append(dst, t)
	}

	var poly [4]math3d.Vec3
	n := 0
	for i, v := range t.V {
		if in[i] {
			poly[n] = v
			n++
		}
	}
	for _, e := range [3][2]int{{0, 1}, {0, 2}, {1, 2}} {
		if in[e[0]] == in[e[1]] {
			continue
		}
		x, ok := pl.IntersectSegment(t.V[e[0]], t.V[e[1]])
		if !ok {
			return dst
		}
		poly[n] = x
		n++
	}

	for i := 0; i+2 < n; i++ {
		dst = append(dst, Triangle{
			V:     [3]math3d.Vec3{poly[i], poly[i+1], poly[i+2]},
			Color: t.Color,
		})
	}
	return dst
}

// Intersect returns p clipped to the positive side of pl.
func (p Point) Intersect(pl geometry.Plane) []Point {
	return p.AppendIntersect(nil, pl)
}

// Intersect returns s clipped to the positive side of pl.
func (s Segment) Intersect(pl geometry.Plane) []Segment {
	return s.AppendIntersect(nil, pl)
}

// Intersect returns t clipped to the positive side of pl.
func (t Triangle) Intersect(pl geometry.Plane) []Triangle {
	return t.AppendIntersect(nil, pl)
}
