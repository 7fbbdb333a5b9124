package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/prism/pkg/math3d"
)

var (
	// ErrInvalidFrustum is returned for a frustum shape that violates
	// 0 < near < far, left < right or bottom < top.
	ErrInvalidFrustum = errors.New("invalid frustum")
	// ErrInvalidOrientation is returned when the orientation is not a
	// right-handed orthonormal basis.
	ErrInvalidOrientation = errors.New("orientation is not a rotation")
)

// OrientationTolerance bounds how far an orientation may drift from
// orthonormal before it is rejected.
const OrientationTolerance = 1e-6

// FrustumShape describes the view volume in camera space. Left, Right,
// Bottom and Top are measured on the near plane.
type FrustumShape struct {
	Left, Right float64
	Bottom, Top float64
	Near, Far   float64
}

// SymmetricFrustum returns a shape centered on the view axis.
func SymmetricFrustum(halfWidth, halfHeight, near, far float64) FrustumShape {
	return FrustumShape{
		Left: -halfWidth, Right: halfWidth,
		Bottom: -halfHeight, Top: halfHeight,
		Near: near, Far: far,
	}
}

// FieldOfView returns a symmetric shape with vertical field of view fovy
// (radians) and aspect ratio width/height.
func FieldOfView(fovy, aspect, near, far float64) FrustumShape {
	h := near * math.Tan(fovy/2)
	return SymmetricFrustum(h*aspect, h, near, far)
}

// Validate checks the shape invariants.
func (s FrustumShape) Validate() error {
	switch {
	case !(s.Near > 0):
		return fmt.Errorf("%w: near %v must be positive", ErrInvalidFrustum, s.Near)
	case !(s.Near < s.Far):
		return fmt.Errorf("%w: near %v must be less than far %v", ErrInvalidFrustum, s.Near, s.Far)
	case !(s.Left < s.Right):
		return fmt.Errorf("%w: left %v must be less than right %v", ErrInvalidFrustum, s.Left, s.Right)
	case !(s.Bottom < s.Top):
		return fmt.Errorf("%w: bottom %v must be less than top %v", ErrInvalidFrustum, s.Bottom, s.Top)
	}
	return nil
}

// Camera is a pinhole camera looking down its local +z axis.
// The orientation rows are the camera's right, up and forward directions in
// world coordinates.
type Camera struct {
	position    math3d.Vec3
	orientation math3d.Mat3
	shape       FrustumShape

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	viewProjDirty  bool
}

// NewCamera creates a camera after validating orientation and shape.
func NewCamera(position math3d.Vec3, orientation math3d.Mat3, shape FrustumShape) (*Camera, error) {
	c := &Camera{position: position}
	if err := c.SetOrientation(orientation); err != nil {
		return nil, err
	}
	if err := c.SetShape(shape); err != nil {
		return nil, err
	}
	return c, nil
}

// OrbitCamera places a camera distance away from target and aims it at the
// target. yaw turns around the world Y axis and pitch raises the camera;
// yaw=0, pitch=0 puts the camera on the -z side looking down +z.
func OrbitCamera(target math3d.Vec3, distance, yaw, pitch float64, shape FrustumShape) (*Camera, error) {
	const maxPitch = math.Pi/2 - 0.01
	pitch = math.Max(-maxPitch, math.Min(maxPitch, pitch))

	offset := math3d.V3(
		math.Sin(yaw)*math.Cos(pitch),
		math.Sin(pitch),
		-math.Cos(yaw)*math.Cos(pitch),
	).Scale(distance)
	pos := target.Add(offset)

	forward := offset.Negate().Normalize()
	right := math3d.V3(0, 1, 0).Cross(forward).Normalize()
	up := forward.Cross(right)

	return NewCamera(pos, math3d.Mat3FromRows(right, up, forward), shape)
}

// Position returns the camera position.
func (c *Camera) Position() math3d.Vec3 { return c.position }

// Orientation returns the camera orientation.
func (c *Camera) Orientation() math3d.Mat3 { return c.orientation }

// Shape returns the frustum shape.
func (c *Camera) Shape() FrustumShape { return c.shape }

// Right returns the camera's right direction in world space.
func (c *Camera) Right() math3d.Vec3 { return c.orientation.Row(0) }

// Up returns the camera's up direction in world space.
func (c *Camera) Up() math3d.Vec3 { return c.orientation.Row(1) }

// Forward returns the viewing direction in world space.
func (c *Camera) Forward() math3d.Vec3 { return c.orientation.Row(2) }

// SetPosition moves the camera.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.position = pos
	c.viewDirty = true
	c.viewProjDirty = true
}

// SetOrientation replaces the orientation. It must be a rotation.
func (c *Camera) SetOrientation(m math3d.Mat3) error {
	if !m.IsRotation(OrientationTolerance) {
		return fmt.Errorf("set orientation: %w", ErrInvalidOrientation)
	}
	c.orientation = m
	c.viewDirty = true
	c.viewProjDirty = true
	return nil
}

// SetShape replaces the frustum shape.
func (c *Camera) SetShape(s FrustumShape) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("set shape: %w", err)
	}
	c.shape = s
	c.projDirty = true
	c.viewProjDirty = true
	return nil
}

// ViewMatrix returns the world-to-camera transform [R | -R·position].
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		r := c.orientation
		c.viewMatrix = math3d.Rigid(r, r.MulVec3(c.position).Negate())
		c.viewDirty = false
	}
	return c.viewMatrix
}

// CameraToWorld returns the inverse of ViewMatrix.
func (c *Camera) CameraToWorld() math3d.Mat4 {
	return math3d.Rigid(c.orientation.Transpose(), c.position)
}

// ProjectionMatrix returns the off-center perspective projection.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		s := c.shape
		c.projMatrix = math3d.Frustum(s.Left, s.Right, s.Bottom, s.Top, s.Near, s.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns ProjectionMatrix · ViewMatrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewProjDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.viewProjDirty = false
	}
	return c.viewProjMatrix
}

// InvertedDepth maps a camera-space depth z to the value the depth test
// compares. It is affine in 1/z, +1 on the near plane and -1 on the far
// plane, and equals the negated NDC z of the projection.
func (c *Camera) InvertedDepth(z float64) float64 {
	return invertedDepth(c.shape.Near, c.shape.Far, z)
}

func invertedDepth(near, far, z float64) float64 {
	return 2*far*near/((far-near)*z) - (far+near)/(far-near)
}

// Frustum returns the six frustum planes in camera space.
func (c *Camera) Frustum() Frustum {
	f, err := NewFrustum(c.shape)
	if err != nil {
		// The shape was validated when it was set.
		panic(err)
	}
	return f
}

// WorldFrustum returns the frustum planes in world space.
func (c *Camera) WorldFrustum() (Frustum, error) {
	return c.Frustum().Transform(c.CameraToWorld())
}
