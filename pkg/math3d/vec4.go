package math3d

// Vec4 is a homogeneous point, or the coefficient vector (a, b, c, d) of a
// plane.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// V4FromV3 creates a Vec4 from v with the given W.
func V4FromV3(v Vec3, w float64) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// Vec3 drops W.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// PerspectiveDivide returns xyz/w. ok is false when w is zero, in which case
// the undivided xyz is returned.
func (v Vec4) PerspectiveDivide() (p Vec3, ok bool) {
	if v.W == 0 {
		return v.Vec3(), false
	}
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}, true
}

// Dot returns the four-component dot product.
//
//nolint:st1016 // a·b naming convention is clearer for vector operations
func (a Vec4) Dot(b Vec4) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// Scale returns the scalar product.
func (v Vec4) Scale(s float64) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}
