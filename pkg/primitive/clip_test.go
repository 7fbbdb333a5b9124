package primitive

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/prism/pkg/geometry"
	"github.com/taigrr/prism/pkg/math3d"
)

var red = RGB(255, 0, 0)

func mustPlane(t *testing.T, n math3d.Vec3, d float64) geometry.Plane {
	t.Helper()
	p, err := geometry.NewPlane(n, d)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func randomVec(rng *rand.Rand, scale float64) math3d.Vec3 {
	return math3d.V3(
		(rng.Float64()*2-1)*scale,
		(rng.Float64()*2-1)*scale,
		(rng.Float64()*2-1)*scale,
	)
}

func TestPointIntersect(t *testing.T) {
	plane := mustPlane(t, math3d.V3(0, 0, 1), -2)

	tests := []struct {
		name string
		p    math3d.Vec3
		want int
	}{
		{"inside", math3d.V3(0, 0, 3), 1},
		{"outside", math3d.V3(0, 0, 1), 0},
		{"on boundary", math3d.V3(5, -5, 2), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPoint(tt.p, red).Intersect(plane)
			if len(got) != tt.want {
				t.Fatalf("got %d points, want %d", len(got), tt.want)
			}
			if tt.want == 1 && got[0] != NewPoint(tt.p, red) {
				t.Errorf("got %+v, want the original point", got[0])
			}
		})
	}
}

func TestSegmentIntersect(t *testing.T) {
	plane := mustPlane(t, math3d.V3(0, 0, 1), -2)

	tests := []struct {
		name string
		seg  Segment
		want []Segment
	}{
		{
			"both inside",
			NewSegment(math3d.V3(0, 0, 3), math3d.V3(1, 1, 5), red),
			[]Segment{NewSegment(math3d.V3(0, 0, 3), math3d.V3(1, 1, 5), red)},
		},
		{
			"both outside",
			NewSegment(math3d.V3(0, 0, 0), math3d.V3(1, 1, 1), red),
			nil,
		},
		{
			"first outside",
			NewSegment(math3d.V3(0, 0, 0), math3d.V3(0, 0, 4), red),
			[]Segment{NewSegment(math3d.V3(0, 0, 2), math3d.V3(0, 0, 4), red)},
		},
		{
			"second outside",
			NewSegment(math3d.V3(4, 0, 6), math3d.V3(0, 0, -2), red),
			[]Segment{NewSegment(math3d.V3(4, 0, 6), math3d.V3(2, 0, 2), red)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.seg.Intersect(plane)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d segments, want %d", len(got), len(tt.want))
			}
			for i := range got {
				for j := range got[i].V {
					if !got[i].V[j].ApproxEqual(tt.want[i].V[j], 1e-12) {
						t.Errorf("vertex %d: got %v, want %v", j, got[i].V[j], tt.want[i].V[j])
					}
				}
				if got[i].Color != red {
					t.Errorf("color = %v, want %v", got[i].Color, red)
				}
			}
		})
	}
}

func TestSegmentIntersectOppositeSides(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for trial := 0; trial < 500; trial++ {
		n := randomVec(rng, 1)
		if n.Len() < 1e-3 {
			continue
		}
		plane := mustPlane(t, n, rng.Float64()*4-2)
		a, b := randomVec(rng, 10), randomVec(rng, 10)
		da, db := plane.SignedDistance(a), plane.SignedDistance(b)
		if da*db >= 0 || math.Abs(da) < 1e-6 || math.Abs(db) < 1e-6 {
			continue
		}

		got := NewSegment(a, b, red).Intersect(plane)
		if len(got) != 1 {
			t.Fatalf("trial %d: got %d segments, want 1", trial, len(got))
		}
		kept, moved := 0, 1
		if da < 0 {
			kept, moved = 1, 0
		}
		orig := [2]math3d.Vec3{a, b}
		if got[0].V[kept] != orig[kept] {
			t.Errorf("trial %d: inside endpoint changed from %v to %v", trial, orig[kept], got[0].V[kept])
		}
		if d := plane.SignedDistance(got[0].V[moved]); math.Abs(d) > 1e-9 {
			t.Errorf("trial %d: replaced endpoint at distance %v from plane", trial, d)
		}
	}
}

func TestTriangleIntersect(t *testing.T) {
	tri := NewTriangle(math3d.V3(0, 0, 0), math3d.V3(2, 0, 0), math3d.V3(0, 2, 0), red)

	t.Run("fully inside", func(t *testing.T) {
		got := tri.Intersect(mustPlane(t, math3d.V3(1, 0, 0), 5))
		if len(got) != 1 || got[0] != tri {
			t.Errorf("got %+v, want the original triangle", got)
		}
	})

	t.Run("fully outside", func(t *testing.T) {
		got := tri.Intersect(mustPlane(t, math3d.V3(1, 0, 0), -5))
		if len(got) != 0 {
			t.Errorf("got %d triangles, want 0", len(got))
		}
	})

	t.Run("one inside", func(t *testing.T) {
		got := tri.Intersect(mustPlane(t, math3d.V3(1, 0, 0), -1))
		if len(got) != 1 {
			t.Fatalf("got %d triangles, want 1", len(got))
		}
		want := [3]math3d.Vec3{math3d.V3(2, 0, 0), math3d.V3(1, 0, 0), math3d.V3(1, 1, 0)}
		for i := range want {
			if !got[0].V[i].ApproxEqual(want[i], 1e-12) {
				t.Errorf("vertex %d: got %v, want %v", i, got[0].V[i], want[i])
			}
		}
		if got[0].Color != red {
			t.Errorf("color = %v, want %v", got[0].Color, red)
		}
	})

	t.Run("two inside", func(t *testing.T) {
		// x >= 0 cuts the triangle (-1,0) (1,0) (1,2) into a quad of area 1.5.
		tri := NewTriangle(math3d.V3(-1, 0, 0), math3d.V3(1, 0, 0), math3d.V3(1, 2, 0), red)
		got := tri.Intersect(mustPlane(t, math3d.V3(1, 0, 0), 0))
		if len(got) != 2 {
			t.Fatalf("got %d triangles, want 2", len(got))
		}
		area := got[0].Area() + got[1].Area()
		if math.Abs(area-1.5) > 1e-12 {
			t.Errorf("area = %v, want 1.5", area)
		}
	})

	t.Run("vertex on plane counts as inside", func(t *testing.T) {
		got := tri.Intersect(mustPlane(t, math3d.V3(1, 0, 0), 0))
		if len(got) != 1 || got[0] != tri {
			t.Errorf("got %+v, want the original triangle", got)
		}
	})
}

func TestTriangleIntersectKeepsAreaAndSide(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))

	for trial := 0; trial < 500; trial++ {
		n := randomVec(rng, 1)
		if n.Len() < 1e-3 {
			continue
		}
		plane := mustPlane(t, n, rng.Float64()*2-1)
		tri := NewTriangle(randomVec(rng, 5), randomVec(rng, 5), randomVec(rng, 5), red)

		kept := tri.Intersect(plane)
		cut := tri.Intersect(plane.Flip())

		var area float64
		for _, k := range kept {
			for _, v := range k.V {
				if d := plane.SignedDistance(v); d < -1e-9 {
					t.Fatalf("trial %d: clipped vertex %v at distance %v", trial, v, d)
				}
			}
			area += k.Area()
		}
		for _, c := range cut {
			area += c.Area()
		}
		if math.Abs(area-tri.Area()) > 1e-9*math.Max(1, tri.Area()) {
			t.Errorf("trial %d: pieces sum to %v, want %v", trial, area, tri.Area())
		}
	}
}

func TestSetClipAgainstBox(t *testing.T) {
	// The cube |x|,|y|,|z| <= 1 as six inward-facing planes.
	var box []geometry.Plane
	for _, n := range []math3d.Vec3{
		math3d.V3(1, 0, 0), math3d.V3(-1, 0, 0),
		math3d.V3(0, 1, 0), math3d.V3(0, -1, 0),
		math3d.V3(0, 0, 1), math3d.V3(0, 0, -1),
	} {
		box = append(box, mustPlane(t, n, 1))
	}

	var s Set
	s.AddPoint(NewPoint(math3d.V3(0, 0, 0), red))
	s.AddPoint(NewPoint(math3d.V3(3, 0, 0), red))
	s.AddSegment(NewSegment(math3d.V3(-3, 0, 0), math3d.V3(3, 0, 0), red))
	s.AddSegment(NewSegment(math3d.V3(-3, 5, 0), math3d.V3(3, 5, 0), red))
	s.AddTriangle(NewTriangle(math3d.V3(-4, -4, 0), math3d.V3(4, -4, 0), math3d.V3(0, 4, 0), red))
	s.AddTriangle(NewTriangle(math3d.V3(5, 5, 5), math3d.V3(6, 5, 5), math3d.V3(5, 6, 5), red))

	got := s.Clip(box)

	if len(got.Points) != 1 {
		t.Errorf("points: got %d, want 1", len(got.Points))
	}
	if len(got.Segments) != 1 {
		t.Fatalf("segments: got %d, want 1", len(got.Segments))
	}
	if l := got.Segments[0].Length(); math.Abs(l-2) > 1e-12 {
		t.Errorf("segment length = %v, want 2", l)
	}
	if len(got.Triangles) == 0 {
		t.Fatal("expected the large triangle to survive clipping")
	}

	var area float64
	for _, tri := range got.Triangles {
		for _, v := range tri.V {
			if math.Abs(v.X) > 1+1e-9 || math.Abs(v.Y) > 1+1e-9 || math.Abs(v.Z) > 1+1e-9 {
				t.Errorf("vertex %v escapes the box", v)
			}
		}
		area += tri.Area()
	}
	// The big triangle covers the whole z=0 face of the cube.
	if math.Abs(area-4) > 1e-9 {
		t.Errorf("clipped area = %v, want 4", area)
	}

	// Clip must not alias the input.
	if len(s.Triangles) != 2 || s.Triangles[0].V[0] != math3d.V3(-4, -4, 0) {
		t.Error("input set was modified")
	}
}

func TestSetClipOrderIndependentArea(t *testing.T) {
	planes := []geometry.Plane{
		mustPlane(t, math3d.V3(1, 0, 0), 0.5),
		mustPlane(t, math3d.V3(0, 1, 0), 0.25),
		mustPlane(t, math3d.V3(-1, -1, 0), 1),
	}
	var s Set
	s.AddTriangle(NewTriangle(math3d.V3(-2, -2, 0), math3d.V3(3, -1, 0), math3d.V3(0, 3, 0), red))

	area := func(set Set) float64 {
		var a float64
		for _, tri := range set.Triangles {
			a += tri.Area()
		}
		return a
	}

	forward := area(s.Clip(planes))
	reversed := area(s.Clip([]geometry.Plane{planes[2], planes[1], planes[0]}))
	if math.Abs(forward-reversed) > 1e-9 {
		t.Errorf("plane order changed area: %v vs %v", forward, reversed)
	}
}
