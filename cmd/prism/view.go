package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/prism/pkg/render"
)

// RotationAxis tracks an angle and its angular velocity. The velocity
// decays toward zero through a critically damped spring.
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

// NewRotationAxis creates an axis stepping at fps.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update advances the angle by one frame and decays the velocity.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// orbit is the interactive camera state.
type orbit struct {
	yaw, pitch RotationAxis
	distance   float64
	home       float64
	fps        int
}

func newOrbit(fps int, distance float64) *orbit {
	o := &orbit{home: distance, fps: fps}
	o.reset()
	return o
}

func (o *orbit) reset() {
	o.yaw = NewRotationAxis(o.fps)
	o.pitch = NewRotationAxis(o.fps)
	o.yaw.Position = math.Pi / 6
	o.pitch.Position = math.Pi / 9
	o.distance = o.home
}

func (o *orbit) update() {
	o.yaw.Update()
	o.pitch.Update()
	const limit = math.Pi/2 - 0.05
	o.pitch.Position = math.Max(-limit, math.Min(limit, o.pitch.Position))
}

func (o *orbit) zoom(step float64) {
	o.distance = math.Max(0.5, math.Min(50, o.distance+step))
}

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A5ADCB")).Background(lipgloss.Color("#1E2030"))

func newViewCmd(a *app) *cobra.Command {
	var sf sceneFlags
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Orbit a scene in the terminal",
		Long: `Orbit a scene in the terminal.

Controls:
  W/S/A/D, arrows  pitch and yaw
  +/- or wheel     zoom
  Space            random spin
  X                toggle wireframe (glTF only)
  R                reset view
  Esc, Q           quit`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := intFlag(cmd, "fps", &a.cfg.FPS); err != nil {
				return err
			}
			scn, err := sf.load()
			if err != nil {
				return err
			}
			return runView(cmd.Context(), a, &sf, scn)
		},
	}
	sf.register(cmd)
	cmd.Flags().Int("fps", 0, "target frames per second (default PRISM_FPS or 30)")
	return cmd
}

func runView(ctx context.Context, a *app, sf *sceneFlags, scn *loaded) error {
	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)
	// button events for the wheel, SGR encoding
	fmt.Fprint(os.Stdout, "\x1b[?1000h\x1b[?1006h")
	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1000l\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// stderr is the terminal we draw on
	quiet := slog.New(slog.DiscardHandler)
	fps := a.cfg.FPS
	view := newOrbit(fps, scn.distance)
	frame := time.Second / time.Duration(fps)

	events := make(chan uv.Event, 16)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	var last render.Stats
	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "q", "ctrl+c"):
					return nil
				case ev.MatchString("w", "up"):
					view.pitch.Velocity += 0.02
				case ev.MatchString("s", "down"):
					view.pitch.Velocity -= 0.02
				case ev.MatchString("a", "left"):
					view.yaw.Velocity -= 0.03
				case ev.MatchString("d", "right"):
					view.yaw.Velocity += 0.03
				case ev.MatchString("+", "="):
					view.zoom(-0.25)
				case ev.MatchString("-", "_"):
					view.zoom(0.25)
				case ev.MatchString("space"):
					view.yaw.Velocity += (rand.Float64() - 0.5) * 0.3
					view.pitch.Velocity += (rand.Float64() - 0.5) * 0.15
				case ev.MatchString("r"):
					view.reset()
				case ev.MatchString("x"):
					sf.wireframe = !sf.wireframe
					if err := scn.rebuild(sf.wireframe); err != nil {
						return err
					}
				}
			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					view.zoom(-0.5)
				case uv.MouseWheelDown:
					view.zoom(0.5)
				}
			}
		case <-ticker.C:
			view.update()
			stats, err := drawFrame(ctx, term, a, quiet, scn, view, width, height)
			if err != nil {
				return err
			}
			last = stats
			drawStatus(term, scn.label, last, width, height)
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}

// drawFrame renders into every terminal row but the last, two pixels per
// row.
func drawFrame(ctx context.Context, term *uv.Terminal, a *app, logger *slog.Logger, scn *loaded, view *orbit, width, height int) (render.Stats, error) {
	rows := height - 1
	if width <= 0 || rows <= 0 {
		return render.Stats{}, nil
	}
	pw, ph := width, rows*2

	shape := render.FieldOfView(math.Pi/3, float64(pw)/float64(ph), 0.1, 100)
	cam, err := render.OrbitCamera(scn.target, view.distance, view.yaw.Position, view.pitch.Position, shape)
	if err != nil {
		return render.Stats{}, err
	}
	r, err := render.NewRenderer(pw, ph,
		render.WithWorkers(a.cfg.Workers),
		render.WithBackground(a.cfg.Background),
		render.WithLogger(logger),
	)
	if err != nil {
		return render.Stats{}, err
	}
	screen, err := r.Render(ctx, scn.world, cam)
	if err != nil {
		return render.Stats{}, err
	}
	screen.Draw(term, uv.Rect(0, 0, pw, rows))
	return screen.Stats(), nil
}

func drawStatus(term *uv.Terminal, label string, s render.Stats, width, height int) {
	if height <= 0 {
		return
	}
	text := fmt.Sprintf(" %s  objects %d  culled %d  clipped %d  primitives %d  %s ",
		label, s.Objects, s.Culled, s.Clipped, s.Primitives, s.Duration.Round(time.Microsecond))
	line := statusStyle.Width(width).MaxWidth(width).Render(text)
	uv.NewStyledString(line).Draw(term, uv.Rect(0, height-1, width, 1))
}
