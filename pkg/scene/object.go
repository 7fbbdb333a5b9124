// Package scene holds the objects a renderer draws.
package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/prism/pkg/geometry"
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/primitive"
)

// ErrEmptyObject is returned when an object is built from no primitives.
var ErrEmptyObject = errors.New("object has no primitives")

// BoundingSeed seeds the bounding-sphere search of every object.
const BoundingSeed uint64 = 0x5eed

// Object is a primitive set placed at a world position. Primitives are
// stored in the object's local frame; the bounding sphere is computed once
// in that frame.
type Object struct {
	Name string

	position   math3d.Vec3
	primitives primitive.Set
	bounds     geometry.Sphere
}

// NewObject creates an object from primitives in local coordinates.
func NewObject(position math3d.Vec3, prims primitive.Set) (*Object, error) {
	if prims.Empty() {
		return nil, ErrEmptyObject
	}
	bounds, err := geometry.BoundingSphere(prims.Vertices(), BoundingSeed)
	if err != nil {
		return nil, fmt.Errorf("bound object: %w", err)
	}
	return &Object{
		position:   position,
		primitives: prims.Clone(),
		bounds:     bounds,
	}, nil
}

// NewTriangleObject creates an object holding one triangle given in world
// coordinates.
func NewTriangleObject(a, b, c math3d.Vec3, col primitive.Color) (*Object, error) {
	var s primitive.Set
	s.AddTriangle(primitive.NewTriangle(a, b, c, col))
	return NewObject(math3d.Vec3{}, s)
}

// NewSegmentObject creates an object holding one segment given in world
// coordinates.
func NewSegmentObject(a, b math3d.Vec3, col primitive.Color) (*Object, error) {
	var s primitive.Set
	s.AddSegment(primitive.NewSegment(a, b, col))
	return NewObject(math3d.Vec3{}, s)
}

// NewPointObject creates an object holding one point given in world
// coordinates.
func NewPointObject(p math3d.Vec3, col primitive.Color) (*Object, error) {
	var s primitive.Set
	s.AddPoint(primitive.NewPoint(p, col))
	return NewObject(math3d.Vec3{}, s)
}

// Position returns the world offset of the object.
func (o *Object) Position() math3d.Vec3 { return o.position }

// Bounds returns the bounding sphere in world coordinates.
func (o *Object) Bounds() geometry.Sphere { return o.bounds.Translate(o.position) }

// LocalPrimitives returns the primitives in the object's frame. The result
// must not be modified.
func (o *Object) LocalPrimitives() primitive.Set { return o.primitives }

// Primitives returns a copy of the primitives in world coordinates.
func (o *Object) Primitives() primitive.Set {
	out, err := o.primitives.Transformed(math3d.Translate(o.position))
	if err != nil {
		// A translation always keeps w = 1.
		panic(err)
	}
	return out
}

// CheckBounding classifies the object's bounding sphere against a
// world-space plane.
func (o *Object) CheckBounding(p geometry.Plane) geometry.Side {
	return geometry.ClassifySphere(p, o.bounds.Center().Add(o.position), o.bounds.Radius())
}
