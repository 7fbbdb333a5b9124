// Package geometry provides the half-space and bounding-volume primitives the
// renderer culls and clips with.
package geometry

import (
	"errors"
	"fmt"

	"github.com/taigrr/prism/pkg/math3d"
)

var (
	// ErrDegeneratePlane is returned when a plane normal has zero length.
	ErrDegeneratePlane = errors.New("degenerate plane normal")
	// ErrSingularTransform is returned when a plane is mapped through a
	// matrix that has no inverse.
	ErrSingularTransform = errors.New("singular transform")
)

// Plane is the oriented plane n·p + D = 0 with |n| = 1.
// Points with n·p + D >= 0 are on its positive side.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// NewPlane creates a plane from a normal and offset. Both are scaled so the
// normal has unit length.
func NewPlane(normal math3d.Vec3, d float64) (Plane, error) {
	l := normal.Len()
	if l == 0 {
		return Plane{}, ErrDegeneratePlane
	}
	return Plane{Normal: normal.Div(l), D: d / l}, nil
}

// NewPlaneFromPoint creates the plane with the given normal passing through
// point.
func NewPlaneFromPoint(normal, point math3d.Vec3) (Plane, error) {
	return NewPlane(normal, -normal.Dot(point))
}

// NewPlaneFromPoints creates the plane through a, b and c. The normal is
// (b-a) × (c-a), so the points wind counter-clockwise seen from the positive
// side.
func NewPlaneFromPoints(a, b, c math3d.Vec3) (Plane, error) {
	p, err := NewPlaneFromPoint(b.Sub(a).Cross(c.Sub(a)), a)
	if err != nil {
		return Plane{}, fmt.Errorf("plane from collinear points: %w", err)
	}
	return p, nil
}

// NewPlaneFromCoefficients creates the plane ax + by + cz + d = 0.
func NewPlaneFromCoefficients(a, b, c, d float64) (Plane, error) {
	return NewPlane(math3d.V3(a, b, c), d)
}

// SignedDistance returns n·p + D.
func (p Plane) SignedDistance(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Coefficients returns (a, b, c, d).
func (p Plane) Coefficients() math3d.Vec4 {
	return math3d.V4FromV3(p.Normal, p.D)
}

// Flip returns the plane with its sides swapped.
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Negate(), D: -p.D}
}

// Transform returns the plane bounding the image of p's positive half-space
// under the point transform m.
func (p Plane) Transform(m math3d.Mat4) (Plane, error) {
	t, err := NewPlaneTransform(m)
	if err != nil {
		return Plane{}, err
	}
	return t.Apply(p)
}

// PlaneTransform maps planes through a point transform. It holds the
// inverse-transpose so a batch of planes shares one inversion.
type PlaneTransform struct {
	invT math3d.Mat4
}

// NewPlaneTransform prepares m for mapping planes.
func NewPlaneTransform(m math3d.Mat4) (PlaneTransform, error) {
	invT, ok := m.InverseTranspose()
	if !ok {
		return PlaneTransform{}, ErrSingularTransform
	}
	return PlaneTransform{invT: invT}, nil
}

// Apply maps p. The result is renormalized.
func (t PlaneTransform) Apply(p Plane) (Plane, error) {
	c := t.invT.MulVec4(p.Coefficients())
	out, err := NewPlaneFromCoefficients(c.X, c.Y, c.Z, c.W)
	if err != nil {
		return Plane{}, fmt.Errorf("transform plane: %w", err)
	}
	return out, nil
}

// ApplyAll maps every plane in ps in place.
func (t PlaneTransform) ApplyAll(ps []Plane) error {
	for i := range ps {
		out, err := t.Apply(ps[i])
		if err != nil {
			return err
		}
		ps[i] = out
	}
	return nil
}

// IntersectSegment returns the point where the segment a→b crosses p.
// ok is false when the segment is parallel to the plane.
func (p Plane) IntersectSegment(a, b math3d.Vec3) (x math3d.Vec3, ok bool) {
	da := p.SignedDistance(a)
	db := p.SignedDistance(b)
	den := da - db
	if den == 0 {
		return math3d.Vec3{}, false
	}
	return a.Lerp(b, da/den), true
}
