package models

import (
	"errors"
	"fmt"
	"slices"

	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/primitive"
	"github.com/taigrr/prism/pkg/scene"
)

// ErrUnknownDemo is returned by LookupDemo for a name with no scene.
var ErrUnknownDemo = errors.New("unknown demo scene")

// Demo is a built-in scene together with where to look at it from.
type Demo struct {
	Name        string
	Description string
	Target      math3d.Vec3
	Distance    float64
	build       func(w *scene.World) error
}

// World builds a fresh world for the demo.
func (d Demo) World() (*scene.World, error) {
	w := new(scene.World)
	if err := d.build(w); err != nil {
		return nil, fmt.Errorf("build demo %q: %w", d.Name, err)
	}
	return w, nil
}

var demos = []Demo{
	{
		Name:        "triangle",
		Description: "a single red unit triangle",
		Target:      math3d.V3(0, 0, 5),
		Distance:    5,
		build: func(w *scene.World) error {
			return pushAll(w)(scene.NewTriangleObject(
				math3d.V3(0, 0, 5), math3d.V3(1, 0, 5), math3d.V3(0, 1, 5),
				primitive.RGB(255, 0, 0),
			))
		},
	},
	{
		Name:        "overlap",
		Description: "two overlapping triangles at different depths",
		Target:      math3d.V3(0, 0, 5),
		Distance:    5,
		build: func(w *scene.World) error {
			push := pushAll(w)
			if err := push(scene.NewTriangleObject(
				math3d.V3(-2, -1.5, 6), math3d.V3(2, -1.5, 6), math3d.V3(0, 2, 6),
				primitive.RGB(230, 60, 60),
			)); err != nil {
				return err
			}
			return push(scene.NewTriangleObject(
				math3d.V3(-1.5, 1, 4), math3d.V3(1.5, 1, 4), math3d.V3(0, -1.5, 4),
				primitive.RGB(60, 120, 230),
			))
		},
	},
	{
		Name:        "cube",
		Description: "a wireframe cube over a grid",
		Distance:    6,
		build: func(w *scene.World) error {
			push := pushAll(w)
			if err := push(Box(2, primitive.RGB(0, 255, 128)).Object(math3d.Vec3{}, true)); err != nil {
				return err
			}
			if err := push(Axes(1.5).Object(math3d.Vec3{}, false)); err != nil {
				return err
			}
			return push(Grid(8, 1, primitive.RGB(70, 70, 90)).Object(math3d.V3(0, -1, 0), false))
		},
	},
	{
		Name:        "pyramid",
		Description: "a solid pyramid with colored faces",
		Target:      math3d.V3(0, 0.75, 0),
		Distance:    5,
		build: func(w *scene.World) error {
			push := pushAll(w)
			if err := push(Pyramid(2, 1.5).Object(math3d.Vec3{}, false)); err != nil {
				return err
			}
			return push(Grid(8, 1, primitive.RGB(70, 70, 90)).Object(math3d.Vec3{}, false))
		},
	},
	{
		Name:        "points",
		Description: "a cloud of points on a sphere",
		Distance:    6,
		build: func(w *scene.World) error {
			return pushAll(w)(Cloud(400, 2).Object(math3d.Vec3{}, false))
		},
	},
}

func pushAll(w *scene.World) func(*scene.Object, error) error {
	return func(o *scene.Object, err error) error {
		if err != nil {
			return err
		}
		w.PushObject(o)
		return nil
	}
}

// Demos returns the built-in scenes.
func Demos() []Demo {
	return slices.Clone(demos)
}

// DemoNames returns the names of the built-in scenes in order.
func DemoNames() []string {
	names := make([]string, len(demos))
	for i, d := range demos {
		names[i] = d.Name
	}
	return names
}

// LookupDemo returns the demo called name.
func LookupDemo(name string) (Demo, error) {
	for _, d := range demos {
		if d.Name == name {
			return d, nil
		}
	}
	return Demo{}, fmt.Errorf("%w %q (have %v)", ErrUnknownDemo, name, DemoNames())
}
