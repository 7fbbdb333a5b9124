package render

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/primitive"
)

var (
	// ErrOffscreenVertex is returned when a vertex handed to the rasterizer
	// projects outside the view volume. Clipping should have prevented it.
	ErrOffscreenVertex = errors.New("vertex projects off screen")
	// ErrZeroArea is returned for a triangle that covers no screen area.
	ErrZeroArea = errors.New("triangle has zero screen area")
)

// projectionTolerance absorbs the rounding left over from clipping.
const projectionTolerance = 1e-9

// segmentHalfWidth is the distance from a segment within which pixel
// centers are lit, giving a band √2 pixels wide.
const segmentHalfWidth = math.Sqrt2 / 2

// Rasterizer converts camera-space primitives to pixels on a Screen. It is
// safe for concurrent use: the projection is fixed at construction and the
// counters are atomic.
type Rasterizer struct {
	screen    *Screen
	proj      math3d.Mat4
	near, far float64

	primitives atomic.Int64
	pixels     atomic.Int64
}

// screenVertex is a vertex in continuous pixel coordinates with its
// inverted depth.
type screenVertex struct {
	X, Y  float64
	Depth float64
}

// NewRasterizer creates a rasterizer drawing with cam's projection onto
// screen.
func NewRasterizer(screen *Screen, cam *Camera) *Rasterizer {
	s := cam.Shape()
	return &Rasterizer{
		screen: screen,
		proj:   cam.ProjectionMatrix(),
		near:   s.Near,
		far:    s.Far,
	}
}

// Primitives returns how many primitives have been rasterized.
func (r *Rasterizer) Primitives() int64 { return r.primitives.Load() }

// Pixels returns how many pixel writes won the depth test.
func (r *Rasterizer) Pixels() int64 { return r.pixels.Load() }

// clampUnit clamps v to [-1, 1], failing if it is beyond the tolerance.
func clampUnit(v float64) (float64, bool) {
	switch {
	case math.IsNaN(v), math.Abs(v) > 1+projectionTolerance:
		return v, false
	case v > 1:
		return 1, true
	case v < -1:
		return -1, true
	}
	return v, true
}

func (r *Rasterizer) project(v math3d.Vec3) (screenVertex, error) {
	ndc, ok := r.proj.MulVec4(math3d.V4FromV3(v, 1)).PerspectiveDivide()
	if !ok {
		return screenVertex{}, fmt.Errorf("project %v: %w", v, ErrOffscreenVertex)
	}
	x, okX := clampUnit(ndc.X)
	y, okY := clampUnit(ndc.Y)
	d, okD := clampUnit(invertedDepth(r.near, r.far, v.Z))
	if !okX || !okY || !okD {
		return screenVertex{}, fmt.Errorf("project %v to (%v, %v): %w", v, ndc.X, ndc.Y, ErrOffscreenVertex)
	}
	return screenVertex{
		X:     (x + 1) * 0.5 * float64(r.screen.width),
		Y:     (y + 1) * 0.5 * float64(r.screen.height),
		Depth: d,
	}, nil
}

// pixelRange returns the clamped integer pixel range whose centers may lie
// within [lo, hi].
func pixelRange(lo, hi float64, size int) (int, int) {
	first := int(math.Max(0, math.Floor(lo)))
	last := int(math.Min(float64(size-1), math.Floor(hi)))
	return first, last
}

func (r *Rasterizer) put(x, y int, depth float64, c primitive.Color) error {
	ok, err := r.screen.PutPixel(x, y, depth, c)
	if err != nil {
		return err
	}
	if ok {
		r.pixels.Add(1)
	}
	return nil
}

// DrawPoint lights the pixel containing p.
func (r *Rasterizer) DrawPoint(p primitive.Point) error {
	sv, err := r.project(p.V[0])
	if err != nil {
		return fmt.Errorf("draw point: %w", err)
	}
	r.primitives.Add(1)
	return r.putVertex(sv, p.Color)
}

func (r *Rasterizer) putVertex(sv screenVertex, c primitive.Color) error {
	x := min(int(sv.X), r.screen.width-1)
	y := min(int(sv.Y), r.screen.height-1)
	return r.put(x, y, sv.Depth, c)
}

// DrawSegment lights the pixels whose centers lie within a band around the
// segment, interpolating depth along it.
func (r *Rasterizer) DrawSegment(s primitive.Segment) error {
	a, err := r.project(s.V[0])
	if err != nil {
		return fmt.Errorf("draw segment: %w", err)
	}
	b, err := r.project(s.V[1])
	if err != nil {
		return fmt.Errorf("draw segment: %w", err)
	}
	r.primitives.Add(1)

	pa := math3d.V2(a.X, a.Y)
	d := math3d.V2(b.X, b.Y).Sub(pa)
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return r.putVertex(a, s.Color)
	}
	invLen := 1 / d.Len()

	minX, maxX := pixelRange(min(a.X, b.X)-segmentHalfWidth, max(a.X, b.X)+segmentHalfWidth, r.screen.width)
	minY, maxY := pixelRange(min(a.Y, b.Y)-segmentHalfWidth, max(a.Y, b.Y)+segmentHalfWidth, r.screen.height)

	var errs []error
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := math3d.V2(float64(x)+0.5, float64(y)+0.5).Sub(pa)
			t := p.Dot(d) / lenSq
			if t < 0 || t > 1 {
				continue
			}
			if math.Abs(d.Cross(p))*invLen > segmentHalfWidth {
				continue
			}
			if err := r.put(x, y, (1-t)*a.Depth+t*b.Depth, s.Color); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// edgeCoeffs returns A, B, C of the edge function A*x + B*y + C for the
// directed edge (x0, y0) -> (x1, y1). It is positive to the left.
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

// DrawTriangle fills the pixels whose centers lie inside or on the
// triangle, interpolating depth with barycentric weights.
func (r *Rasterizer) DrawTriangle(t primitive.Triangle) error {
	var sv [3]screenVertex
	for i := range sv {
		v, err := r.project(t.V[i])
		if err != nil {
			return fmt.Errorf("draw triangle: %w", err)
		}
		sv[i] = v
	}

	area2 := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if area2 == 0 {
		return ErrZeroArea
	}
	r.primitives.Add(1)
	invArea := 1 / area2

	minX, maxX := pixelRange(min(sv[0].X, sv[1].X, sv[2].X), max(sv[0].X, sv[1].X, sv[2].X), r.screen.width)
	minY, maxY := pixelRange(min(sv[0].Y, sv[1].Y, sv[2].Y), max(sv[0].Y, sv[1].Y, sv[2].Y), r.screen.height)
	if minX > maxX || minY > maxY {
		return nil
	}

	// Edge i is opposite vertex i, so its value is that vertex's weight.
	A0, B0, C0 := edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	A1, B1, C1 := edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	A2, B2, C2 := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)

	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := A0*px + B0*py + C0
	w1Row := A1*px + B1*py + C1
	w2Row := A2*px + B2*py + C2

	var errs []error
	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		for x := minX; x <= maxX; x++ {
			bc0, bc1, bc2 := w0*invArea, w1*invArea, w2*invArea
			if bc0 >= 0 && bc1 >= 0 && bc2 >= 0 {
				depth := bc0*sv[0].Depth + bc1*sv[1].Depth + bc2*sv[2].Depth
				if err := r.put(x, y, depth, t.Color); err != nil {
					errs = append(errs, err)
				}
			}
			w0 += A0
			w1 += A1
			w2 += A2
		}
		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
	return errors.Join(errs...)
}

// DrawSet rasterizes every primitive of s. Triangles with zero screen area
// are skipped; other failures are collected and do not stop the rest.
func (r *Rasterizer) DrawSet(s primitive.Set) error {
	var errs []error
	for _, p := range s.Points {
		if err := r.DrawPoint(p); err != nil {
			errs = append(errs, err)
		}
	}
	for _, seg := range s.Segments {
		if err := r.DrawSegment(seg); err != nil {
			errs = append(errs, err)
		}
	}
	for _, t := range s.Triangles {
		if err := r.DrawTriangle(t); err != nil && !errors.Is(err, ErrZeroArea) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
