package models

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/primitive"
)

func planeMesh(n int) *Mesh {
	m := NewMesh("plane")
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			m.Vertices = append(m.Vertices, math3d.V3(float64(x), float64(y), 0))
		}
	}
	at := func(x, y int) int { return y*(n+1) + x }
	for y := range n {
		for x := range n {
			c := primitive.RGB(10, 20, 30)
			m.Faces = append(m.Faces,
				Face{V: [3]int{at(x, y), at(x+1, y), at(x+1, y+1)}, Color: c},
				Face{V: [3]int{at(x, y), at(x+1, y+1), at(x, y+1)}, Color: c},
			)
		}
	}
	return m
}

func TestBoxAndSet(t *testing.T) {
	b := Box(2, primitive.RGB(1, 2, 3))
	if err := b.Validate(); err != nil {
		t.Fatal(err)
	}
	if b.TriangleCount() != 12 {
		t.Errorf("got %d faces, want 12", b.TriangleCount())
	}
	var area float64
	for _, tri := range b.Set().Triangles {
		area += tri.Area()
	}
	if math.Abs(area-24) > 1e-9 {
		t.Errorf("surface area = %v, want 24", area)
	}

	wire := b.Wireframe()
	// 12 cube edges plus one diagonal per face.
	if len(wire.Segments) != 18 {
		t.Errorf("got %d wireframe segments, want 18", len(wire.Segments))
	}
	if len(wire.Triangles) != 0 {
		t.Error("wireframe kept triangles")
	}
}

func TestNormalize(t *testing.T) {
	m := planeMesh(4)
	if err := m.Transform(math3d.Translate(math3d.V3(10, -3, 2))); err != nil {
		t.Fatal(err)
	}
	if err := m.Normalize(2); err != nil {
		t.Fatal(err)
	}
	box, _ := m.Bounds()
	if !box.Center().ApproxEqual(math3d.Vec3{}, 1e-12) {
		t.Errorf("center = %v, want origin", box.Center())
	}
	if math.Abs(box.MaxExtent()-2) > 1e-12 {
		t.Errorf("extent = %v, want 2", box.MaxExtent())
	}

	if err := NewMesh("empty").Normalize(1); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("got %v, want ErrEmptyMesh", err)
	}
}

func TestMeshValidate(t *testing.T) {
	m := Axes(1)
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	m.Edges = append(m.Edges, Edge{V: [2]int{0, 7}})
	if err := m.Validate(); err == nil {
		t.Error("expected an error for a dangling edge")
	}
}

func TestSimplify(t *testing.T) {
	m := planeMesh(8)
	out := m.Simplify(0.25)
	if out.TriangleCount() == 0 || out.TriangleCount() >= m.TriangleCount() {
		t.Errorf("got %d faces from %d, want fewer but some", out.TriangleCount(), m.TriangleCount())
	}
	if err := out.Validate(); err != nil {
		t.Error(err)
	}
	for _, f := range out.Faces {
		if f.Color != m.Faces[0].Color {
			t.Fatalf("face color = %v, want %v", f.Color, m.Faces[0].Color)
		}
	}

	same := m.Simplify(1)
	if same.TriangleCount() != m.TriangleCount() {
		t.Errorf("factor 1 changed face count to %d", same.TriangleCount())
	}
	same.Vertices[0] = math3d.V3(9, 9, 9)
	if m.Vertices[0] == same.Vertices[0] {
		t.Error("Simplify(1) shares vertices with the input")
	}
}

func TestShapes(t *testing.T) {
	tests := []struct {
		name    string
		mesh    *Mesh
		faces   int
		edges   int
		markers int
	}{
		{"pyramid", Pyramid(2, 1), 6, 0, 0},
		{"axes", Axes(1), 0, 3, 0},
		{"grid", Grid(4, 1, primitive.RGB(1, 1, 1)), 0, 10, 0},
		{"cloud", Cloud(50, 2), 0, 0, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.mesh.Validate(); err != nil {
				t.Fatal(err)
			}
			if got := len(tt.mesh.Faces); got != tt.faces {
				t.Errorf("faces = %d, want %d", got, tt.faces)
			}
			if got := len(tt.mesh.Edges); got != tt.edges {
				t.Errorf("edges = %d, want %d", got, tt.edges)
			}
			if got := len(tt.mesh.Markers); got != tt.markers {
				t.Errorf("markers = %d, want %d", got, tt.markers)
			}
		})
	}

	for _, p := range Cloud(50, 2).Vertices {
		if math.Abs(p.Len()-2) > 1e-9 {
			t.Fatalf("cloud point %v not on the sphere", p)
		}
	}
}

func TestDemos(t *testing.T) {
	names := DemoNames()
	want := []string{"triangle", "overlap", "cube", "pyramid", "points"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("demo %d = %q, want %q", i, names[i], want[i])
		}
	}

	for _, d := range Demos() {
		t.Run(d.Name, func(t *testing.T) {
			w, err := d.World()
			if err != nil {
				t.Fatal(err)
			}
			if w.Len() == 0 {
				t.Error("demo world is empty")
			}
		})
	}

	if _, err := LookupDemo("teapot"); !errors.Is(err, ErrUnknownDemo) {
		t.Errorf("got %v, want ErrUnknownDemo", err)
	}
}
