// Package render turns a scene into pixels: camera and frustum, clipping
// and culling, rasterization, the depth-tested screen, and presentation of
// finished frames.
package render

import (
	"fmt"

	"github.com/taigrr/prism/pkg/geometry"
	"github.com/taigrr/prism/pkg/math3d"
)

// Frustum holds the six planes bounding the view volume. Every plane's
// positive side faces the interior.
type Frustum struct {
	Planes [6]geometry.Plane
}

// Frustum plane indices.
const (
	FrustumNear = iota
	FrustumFar
	FrustumLeft
	FrustumRight
	FrustumBottom
	FrustumTop
)

// NewFrustum builds the camera-space frustum of shape. The side planes pass
// through the eye and the corners of the near rectangle.
func NewFrustum(s FrustumShape) (Frustum, error) {
	if err := s.Validate(); err != nil {
		return Frustum{}, err
	}
	n := s.Near
	defs := [6]struct {
		normal math3d.Vec3
		d      float64
	}{
		FrustumNear:   {math3d.V3(0, 0, 1), -s.Near},
		FrustumFar:    {math3d.V3(0, 0, -1), s.Far},
		FrustumLeft:   {math3d.V3(n, 0, -s.Left), 0},
		FrustumRight:  {math3d.V3(-n, 0, s.Right), 0},
		FrustumBottom: {math3d.V3(0, n, -s.Bottom), 0},
		FrustumTop:    {math3d.V3(0, -n, s.Top), 0},
	}

	var f Frustum
	for i, def := range defs {
		p, err := geometry.NewPlane(def.normal, def.d)
		if err != nil {
			return Frustum{}, fmt.Errorf("frustum plane %d: %w", i, err)
		}
		f.Planes[i] = p
	}
	return f, nil
}

// NewFrustumFromMatrix extracts the planes of a view-projection matrix with
// the Gribb/Hartmann method. The result lives in whatever space m maps from.
func NewFrustumFromMatrix(m math3d.Mat4) (Frustum, error) {
	row := func(i int) math3d.Vec4 {
		return math3d.V4(m.Get(i, 0), m.Get(i, 1), m.Get(i, 2), m.Get(i, 3))
	}
	add := func(a, b math3d.Vec4) math3d.Vec4 {
		return math3d.V4(a.X+b.X, a.Y+b.Y, a.Z+b.Z, a.W+b.W)
	}
	x, y, z, w := row(0), row(1), row(2), row(3)

	coeffs := [6]math3d.Vec4{
		FrustumNear:   add(w, z),
		FrustumFar:    add(w, z.Scale(-1)),
		FrustumLeft:   add(w, x),
		FrustumRight:  add(w, x.Scale(-1)),
		FrustumBottom: add(w, y),
		FrustumTop:    add(w, y.Scale(-1)),
	}

	var f Frustum
	for i, c := range coeffs {
		p, err := geometry.NewPlaneFromCoefficients(c.X, c.Y, c.Z, c.W)
		if err != nil {
			return Frustum{}, fmt.Errorf("frustum plane %d: %w", i, err)
		}
		f.Planes[i] = p
	}
	return f, nil
}

// Transform maps all six planes through the point transform m, inverting m
// once.
func (f Frustum) Transform(m math3d.Mat4) (Frustum, error) {
	t, err := geometry.NewPlaneTransform(m)
	if err != nil {
		return Frustum{}, fmt.Errorf("transform frustum: %w", err)
	}
	out := f
	if err := t.ApplyAll(out.Planes[:]); err != nil {
		return Frustum{}, fmt.Errorf("transform frustum: %w", err)
	}
	return out, nil
}

// ContainsPoint reports whether p is inside or on the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].SignedDistance(p) < 0 {
			return false
		}
	}
	return true
}

// Containment is the result of testing a bounding volume against a frustum.
type Containment int

const (
	// Outside means the volume is provably invisible.
	Outside Containment = iota
	// Inside means the volume needs no clipping.
	Inside
	// Straddling means at least one plane cuts the volume.
	Straddling
)

func (c Containment) String() string {
	switch c {
	case Outside:
		return "outside"
	case Inside:
		return "inside"
	case Straddling:
		return "straddling"
	default:
		return fmt.Sprintf("Containment(%d)", int(c))
	}
}

// Bounded is anything that can classify its bounding volume against a plane.
type Bounded interface {
	CheckBounding(geometry.Plane) geometry.Side
}

// Classify tests b against all six planes. A single negative plane is enough
// to reject b because the frustum is convex.
func (f Frustum) Classify(b Bounded) Containment {
	result := Inside
	for i := range f.Planes {
		switch b.CheckBounding(f.Planes[i]) {
		case geometry.OnNegativeSide:
			return Outside
		case geometry.Intersects:
			result = Straddling
		}
	}
	return result
}

// ClassifySphere is Classify for a bare sphere.
func (f Frustum) ClassifySphere(s geometry.Sphere) Containment {
	return f.Classify(sphereBounds(s))
}

type sphereBounds geometry.Sphere

func (s sphereBounds) CheckBounding(p geometry.Plane) geometry.Side {
	return geometry.Sphere(s).Classify(p)
}
