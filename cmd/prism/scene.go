package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/models"
	"github.com/taigrr/prism/pkg/scene"
)

// sceneFlags selects what to draw: a built-in demo or a glTF file.
type sceneFlags struct {
	demo      string
	gltf      string
	wireframe bool
	simplify  float64
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.demo, "scene", "cube", fmt.Sprintf("built-in scene %v", models.DemoNames()))
	cmd.Flags().StringVar(&f.gltf, "gltf", "", "load a .gltf or .glb file instead of a built-in scene")
	cmd.Flags().BoolVar(&f.wireframe, "wireframe", false, "draw triangle edges instead of filled faces")
	cmd.Flags().Float64Var(&f.simplify, "simplify", 1, "keep roughly this fraction of the triangles (0-1]")
}

// loaded is a world ready to render and where an orbit camera should aim.
type loaded struct {
	label    string
	world    *scene.World
	target   math3d.Vec3
	distance float64
	mesh     *models.Mesh
}

func (f *sceneFlags) load() (*loaded, error) {
	if f.simplify <= 0 || f.simplify > 1 {
		return nil, fmt.Errorf("--simplify must be in (0, 1], got %v", f.simplify)
	}
	if f.gltf == "" {
		d, err := models.LookupDemo(f.demo)
		if err != nil {
			return nil, err
		}
		w, err := d.World()
		if err != nil {
			return nil, err
		}
		return &loaded{label: d.Name, world: w, target: d.Target, distance: d.Distance}, nil
	}

	mesh, err := models.LoadGLTF(f.gltf)
	if err != nil {
		return nil, err
	}
	if f.simplify < 1 {
		mesh = mesh.Simplify(f.simplify)
	}
	if err := mesh.Normalize(2); err != nil {
		return nil, err
	}
	l := &loaded{label: mesh.Name, target: math3d.Vec3{}, distance: 4, mesh: mesh}
	if err := l.rebuild(f.wireframe); err != nil {
		return nil, err
	}
	return l, nil
}

// rebuild recreates the world from the loaded mesh. Demos have no mesh and
// are left alone.
func (l *loaded) rebuild(wireframe bool) error {
	if l.mesh == nil {
		return nil
	}
	obj, err := l.mesh.Object(math3d.Vec3{}, wireframe)
	if err != nil {
		return fmt.Errorf("build %s: %w", l.label, err)
	}
	w := new(scene.World)
	w.PushObject(obj)
	l.world = w
	return nil
}
