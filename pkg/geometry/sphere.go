package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/prism/pkg/math3d"
)

// ErrNegativeRadius is returned when a sphere is given a radius below zero.
var ErrNegativeRadius = errors.New("negative sphere radius")

// Side classifies a bounding volume against a plane.
type Side int

const (
	OnPositiveSide Side = iota
	Intersects
	OnNegativeSide
)

func (s Side) String() string {
	switch s {
	case OnPositiveSide:
		return "positive"
	case Intersects:
		return "intersects"
	case OnNegativeSide:
		return "negative"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Sphere is a bounding sphere. Its radius is never negative.
type Sphere struct {
	center math3d.Vec3
	radius float64
}

// NewSphere creates a sphere.
func NewSphere(center math3d.Vec3, radius float64) (Sphere, error) {
	var s Sphere
	s.SetCenter(center)
	if err := s.SetRadius(radius); err != nil {
		return Sphere{}, err
	}
	return s, nil
}

// Center returns the sphere center.
func (s Sphere) Center() math3d.Vec3 { return s.center }

// Radius returns the sphere radius.
func (s Sphere) Radius() float64 { return s.radius }

// SetCenter moves the sphere.
func (s *Sphere) SetCenter(c math3d.Vec3) { s.center = c }

// SetRadius changes the radius. Negative values are rejected and leave the
// sphere unchanged.
func (s *Sphere) SetRadius(r float64) error {
	if r < 0 || math.IsNaN(r) {
		return fmt.Errorf("set radius %v: %w", r, ErrNegativeRadius)
	}
	s.radius = r
	return nil
}

// Translate returns the sphere moved by offset.
func (s Sphere) Translate(offset math3d.Vec3) Sphere {
	return Sphere{center: s.center.Add(offset), radius: s.radius}
}

// Contains reports whether p lies inside the sphere, allowing eps slack.
func (s Sphere) Contains(p math3d.Vec3, eps float64) bool {
	return p.Distance(s.center) <= s.radius+eps
}

// Classify tests the sphere against the half-space of p.
func (s Sphere) Classify(p Plane) Side {
	return ClassifySphere(p, s.center, s.radius)
}

// ClassifySphere tests a sphere given by center and radius against p. A
// sphere whose center is closer to the plane than its radius straddles it.
func ClassifySphere(p Plane, center math3d.Vec3, radius float64) Side {
	dist := p.SignedDistance(center)
	switch {
	case dist < radius && dist > -radius:
		return Intersects
	case dist < 0:
		return OnNegativeSide
	default:
		return OnPositiveSide
	}
}
