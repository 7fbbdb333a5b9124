package geometry

import "github.com/taigrr/prism/pkg/math3d"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// BoundsOf returns the smallest box containing points. ok is false for an
// empty slice.
func BoundsOf(points []math3d.Vec3) (box AABB, ok bool) {
	if len(points) == 0 {
		return AABB{}, false
	}
	box = AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box, true
}

// Center returns the center of the box.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box dimensions.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// MaxExtent returns the largest of the three dimensions.
func (b AABB) MaxExtent() float64 {
	s := b.Size()
	return max(s.X, s.Y, s.Z)
}

// ContainsPoint reports whether p is inside the box.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
