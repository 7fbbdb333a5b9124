package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/primitive"
	"github.com/taigrr/prism/pkg/scene"
)

// ErrInvalidSize is returned for a screen without pixels.
var ErrInvalidSize = errors.New("invalid screen size")

// Stats summarizes one render.
type Stats struct {
	Objects    int // objects in the world
	Culled     int // rejected by the bounding test
	Inside     int // drawn without clipping
	Clipped    int // clipped against the frustum
	Failed     int // dropped because of an error
	Primitives int // primitives handed to the rasterizer
	Pixels     int // pixel writes that won the depth test
	Duration   time.Duration
}

type statsCounter struct {
	culled, inside, clipped, failed atomic.Int64
}

// Renderer draws worlds onto fresh screens.
type Renderer struct {
	width, height int
	workers       int
	background    primitive.Color
	logger        *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWorkers sets how many objects are rendered concurrently. Values below
// one are ignored.
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the logger for per-object failures and frame stats.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithBackground sets the clear color.
func WithBackground(c primitive.Color) Option {
	return func(r *Renderer) { r.background = c }
}

// NewRenderer creates a renderer producing width x height screens.
func NewRenderer(width, height int, opts ...Option) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("new renderer %dx%d: %w", width, height, ErrInvalidSize)
	}
	r := &Renderer{
		width:   width,
		height:  height,
		workers: runtime.NumCPU(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Width returns the screen width.
func (r *Renderer) Width() int { return r.width }

// Height returns the screen height.
func (r *Renderer) Height() int { return r.height }

// Render draws every object of world as seen by cam. Objects are culled
// against the world-space frustum, moved to camera space, clipped there
// when they straddle the frustum and rasterized in parallel. A failing
// object is logged and skipped. The only error returned is the context's;
// the partially drawn screen comes back with it.
func (r *Renderer) Render(ctx context.Context, world *scene.World, cam *Camera) (*Screen, error) {
	start := time.Now()
	screen := NewScreen(r.width, r.height, r.background)

	cull, err := cam.WorldFrustum()
	if err != nil {
		return screen, fmt.Errorf("render: %w", err)
	}
	p := &pass{
		cull: cull,
		clip: cam.Frustum(),
		view: cam.ViewMatrix(),
		rast: NewRasterizer(screen, cam),
	}

	objects := world.Objects()
	var counts statsCounter

	g := new(errgroup.Group)
	g.SetLimit(r.workers)
	for i, obj := range objects {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := p.renderObject(obj, &counts); err != nil {
				counts.failed.Add(1)
				r.logger.Warn("object failed", "index", i, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	screen.stats = Stats{
		Objects:    len(objects),
		Culled:     int(counts.culled.Load()),
		Inside:     int(counts.inside.Load()),
		Clipped:    int(counts.clipped.Load()),
		Failed:     int(counts.failed.Load()),
		Primitives: int(p.rast.Primitives()),
		Pixels:     int(p.rast.Pixels()),
		Duration:   time.Since(start),
	}
	r.logger.Debug("frame rendered",
		"objects", screen.stats.Objects,
		"culled", screen.stats.Culled,
		"clipped", screen.stats.Clipped,
		"failed", screen.stats.Failed,
		"pixels", screen.stats.Pixels,
		"duration", screen.stats.Duration,
	)
	return screen, ctx.Err()
}

// pass holds what every object of one frame reads. Culling uses world-space
// planes; clipping uses camera-space planes so clipped vertices stay exact
// relative to the camera wherever the scene sits in the world.
type pass struct {
	cull Frustum
	clip Frustum
	view math3d.Mat4
	rast *Rasterizer
}

func (p *pass) renderObject(obj *scene.Object, counts *statsCounter) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render object: panic: %v", r)
		}
	}()

	var straddling bool
	switch p.cull.Classify(obj) {
	case Outside:
		counts.culled.Add(1)
		return nil
	case Inside:
		counts.inside.Add(1)
	case Straddling:
		counts.clipped.Add(1)
		straddling = true
	}

	prims := obj.Primitives()
	if err := prims.TransformInPlace(p.view); err != nil {
		return fmt.Errorf("render object: %w", err)
	}
	if straddling {
		prims = prims.Clip(p.clip.Planes[:])
	}
	if err := p.rast.DrawSet(prims); err != nil {
		return fmt.Errorf("render object: %w", err)
	}
	return nil
}
