package geometry

import (
	"errors"
	"math/rand/v2"

	"github.com/taigrr/prism/pkg/math3d"
)

// ErrNoPoints is returned when a bounding volume is requested for an empty
// point set.
var ErrNoPoints = errors.New("no points to bound")

// BoundingSphere computes an approximate minimal enclosing sphere of points
// with Ritter's algorithm. The starting point is picked from a PCG generator
// seeded with seed, so equal inputs give equal spheres.
func BoundingSphere(points []math3d.Vec3, seed uint64) (Sphere, error) {
	if len(points) == 0 {
		return Sphere{}, ErrNoPoints
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	x := points[rng.IntN(len(points))]
	y := farthest(points, x)
	z := farthest(points, y)

	center := y.Lerp(z, 0.5)
	radius := y.Distance(z) / 2

	// Grow to take in every point left outside. Each grown sphere contains
	// the previous one, so a single pass suffices.
	for _, p := range points {
		d := p.Distance(center)
		if d <= radius {
			continue
		}
		newRadius := (radius + d) / 2
		center = center.Add(p.Sub(center).Scale((newRadius - radius) / d))
		radius = newRadius
	}

	// Absorb rounding so every input point tests inside.
	for _, p := range points {
		if d := p.Distance(center); d > radius {
			radius = d
		}
	}

	return NewSphere(center, radius)
}

func farthest(points []math3d.Vec3, pivot math3d.Vec3) math3d.Vec3 {
	best := points[0]
	bestDist := best.Sub(pivot).LenSq()
	for _, p := range points[1:] {
		if d := p.Sub(pivot).LenSq(); d > bestDist {
			best, bestDist = p, d
		}
	}
	return best
}
