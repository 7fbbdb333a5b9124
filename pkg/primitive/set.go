package primitive

import (
	"fmt"

	"github.com/taigrr/prism/pkg/geometry"
	"github.com/taigrr/prism/pkg/math3d"
)

// Set holds primitives grouped by kind.
type Set struct {
	Points    []Point
	Segments  []Segment
	Triangles []Triangle
}

// AddPoint appends a point.
func (s *Set) AddPoint(p Point) { s.Points = append(s.Points, p) }

// AddSegment appends a segment.
func (s *Set) AddSegment(seg Segment) { s.Segments = append(s.Segments, seg) }

// AddTriangle appends a triangle.
func (s *Set) AddTriangle(t Triangle) { s.Triangles = append(s.Triangles, t) }

// Append adds every primitive of o to s.
func (s *Set) Append(o Set) {
	s.Points = append(s.Points, o.Points...)
	s.Segments = append(s.Segments, o.Segments...)
	s.Triangles = append(s.Triangles, o.Triangles...)
}

// Len returns the total number of primitives.
func (s Set) Len() int {
	return len(s.Points) + len(s.Segments) + len(s.Triangles)
}

// Empty reports whether s holds no primitives.
func (s Set) Empty() bool {
	return s.Len() == 0
}

// Clone returns a deep copy.
func (s Set) Clone() Set {
	return Set{
		Points:    append([]Point(nil), s.Points...),
		Segments:  append([]Segment(nil), s.Segments...),
		Triangles: append([]Triangle(nil), s.Triangles...),
	}
}

// Vertices returns every vertex of every primitive.
func (s Set) Vertices() []math3d.Vec3 {
	out := make([]math3d.Vec3, 0, len(s.Points)+2*len(s.Segments)+3*len(s.Triangles))
	out = appendVertices(out, s.Points)
	out = appendVertices(out, s.Segments)
	out = appendVertices(out, s.Triangles)
	return out
}

func appendVertices[P any, PP vertexPtr[P]](dst []math3d.Vec3, prims []P) []math3d.Vec3 {
	for i := range prims {
		dst = append(dst, PP(&prims[i]).vertices()...)
	}
	return dst
}

func transformAll[P any, PP vertexPtr[P]](prims []P, m math3d.Mat4) error {
	for i := range prims {
		if err := transformVertices(PP(&prims[i]).vertices(), m); err != nil {
			return fmt.Errorf("transform primitive %d: %w", i, err)
		}
	}
	return nil
}

// TransformInPlace applies m to every vertex. On error s may be partially
// transformed.
func (s *Set) TransformInPlace(m math3d.Mat4) error {
	if err := transformAll(s.Points, m); err != nil {
		return fmt.Errorf("points: %w", err)
	}
	if err := transformAll(s.Segments, m); err != nil {
		return fmt.Errorf("segments: %w", err)
	}
	if err := transformAll(s.Triangles, m); err != nil {
		return fmt.Errorf("triangles: %w", err)
	}
	return nil
}

// Transformed returns a transformed copy of s.
func (s Set) Transformed(m math3d.Mat4) (Set, error) {
	out := s.Clone()
	if err := out.TransformInPlace(m); err != nil {
		return Set{}, err
	}
	return out, nil
}

type clippable[P any] interface {
	AppendIntersect(dst []P, pl geometry.Plane) []P
}

// clipAll folds AppendIntersect over planes.
func clipAll[P clippable[P]](prims []P, planes []geometry.Plane) []P {
	if len(planes) == 0 {
		return append([]P(nil), prims...)
	}
	cur := prims
	for _, pl := range planes {
		if len(cur) == 0 {
			break
		}
		next := make([]P, 0, len(cur))
		for _, p := range cur {
			next = p.AppendIntersect(next, pl)
		}
		cur = next
	}
	return cur
}

// Intersect returns the part of s on the positive side of pl.
func (s Set) Intersect(pl geometry.Plane) Set {
	return s.Clip([]geometry.Plane{pl})
}

// Clip returns the part of s inside the intersection of the positive
// half-spaces of planes.
func (s Set) Clip(planes []geometry.Plane) Set {
	return Set{
		Points:    clipAll(s.Points, planes),
		Segments:  clipAll(s.Segments, planes),
		Triangles: clipAll(s.Triangles, planes),
	}
}
