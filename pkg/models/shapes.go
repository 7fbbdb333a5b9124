package models

import (
	"math"

	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/primitive"
)

// Box returns an axis-aligned box centered on the origin as a mesh with
// twelve faces.
func Box(size float64, c primitive.Color) *Mesh {
	half := size / 2

	// 8 vertices, bit 0 = +x, bit 1 = +y, bit 2 = +z
	m := NewMesh("box")
	for i := range 8 {
		m.Vertices = append(m.Vertices, math3d.V3(
			sign(i&1)*half,
			sign(i&2)*half,
			sign(i&4)*half,
		))
	}

	quads := [6][4]int{
		{0, 2, 3, 1}, // back  (-z)
		{4, 5, 7, 6}, // front (+z)
		{0, 1, 5, 4}, // bottom
		{2, 6, 7, 3}, // top
		{0, 4, 6, 2}, // left
		{1, 3, 7, 5}, // right
	}
	for _, q := range quads {
		m.Faces = append(m.Faces,
			Face{V: [3]int{q[0], q[1], q[2]}, Color: c},
			Face{V: [3]int{q[0], q[2], q[3]}, Color: c},
		)
	}
	return m
}

func sign(bit int) float64 {
	if bit != 0 {
		return 1
	}
	return -1
}

// Pyramid returns a square pyramid with its base on y = 0 and apex at
// y = height. Each face gets the next palette color.
func Pyramid(base, height float64) *Mesh {
	h := base / 2
	m := NewMesh("pyramid")
	m.Vertices = []math3d.Vec3{
		math3d.V3(-h, 0, -h),
		math3d.V3(h, 0, -h),
		math3d.V3(h, 0, h),
		math3d.V3(-h, 0, h),
		math3d.V3(0, height, 0),
	}
	faces := [][3]int{{0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}, {0, 2, 1}, {0, 3, 2}}
	colors := primitive.Palette(len(faces))
	for i, f := range faces {
		m.Faces = append(m.Faces, Face{V: f, Color: colors[i]})
	}
	return m
}

// Axes returns three segments of the given length along +x, +y and +z
// colored red, green and blue.
func Axes(length float64) *Mesh {
	m := NewMesh("axes")
	m.Vertices = []math3d.Vec3{
		{},
		math3d.V3(length, 0, 0),
		math3d.V3(0, length, 0),
		math3d.V3(0, 0, length),
	}
	m.Edges = []Edge{
		{V: [2]int{0, 1}, Color: primitive.RGB(255, 0, 0)},
		{V: [2]int{0, 2}, Color: primitive.RGB(0, 255, 0)},
		{V: [2]int{0, 3}, Color: primitive.RGB(0, 0, 255)},
	}
	return m
}

// Grid returns a square grid of lines on the XZ plane, centered on the
// origin, size wide with lines every step.
func Grid(size, step float64, c primitive.Color) *Mesh {
	m := NewMesh("grid")
	if step <= 0 {
		return m
	}
	half := size / 2
	for x := -half; x <= half+step/2; x += step {
		i := len(m.Vertices)
		m.Vertices = append(m.Vertices,
			math3d.V3(x, 0, -half), math3d.V3(x, 0, half),
			math3d.V3(-half, 0, x), math3d.V3(half, 0, x),
		)
		m.Edges = append(m.Edges,
			Edge{V: [2]int{i, i + 1}, Color: c},
			Edge{V: [2]int{i + 2, i + 3}, Color: c},
		)
	}
	return m
}

// Cloud returns n markers spread on a sphere of the given radius using a
// golden-angle spiral, colored along the palette.
func Cloud(n int, radius float64) *Mesh {
	m := NewMesh("points")
	colors := primitive.Palette(max(n, 1))
	for i := range n {
		p := spiralPoint(i, n).Scale(radius)
		m.Vertices = append(m.Vertices, p)
		m.Markers = append(m.Markers, Marker{V: i, Color: colors[i]})
	}
	return m
}

// spiralPoint returns the i-th of n roughly evenly spaced unit vectors.
func spiralPoint(i, n int) math3d.Vec3 {
	golden := math.Pi * (3 - math.Sqrt(5))
	y := 1 - 2*(float64(i)+0.5)/float64(n)
	r := math.Sqrt(1 - y*y)
	theta := golden * float64(i)
	return math3d.V3(r*math.Cos(theta), y, r*math.Sin(theta))
}
