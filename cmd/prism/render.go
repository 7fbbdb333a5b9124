package main

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/taigrr/prism/internal/upload"
	"github.com/taigrr/prism/pkg/render"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F5A97F"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8AADF4")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CAD3F5"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#494D64")).Padding(0, 1)
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		sf         sceneFlags
		out        string
		scale      int
		ascii      bool
		push       bool
		prefix     string
		yaw, pitch float64
		distance   float64
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame",
		Example: `  prism render --scene pyramid --out pyramid.png --scale 4
  prism render --gltf model.glb --wireframe --ascii --width 80 --height 40`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			for name, dst := range map[string]*int{"width": &cfg.Width, "height": &cfg.Height, "workers": &cfg.Workers} {
				if err := intFlag(cmd, name, dst); err != nil {
					return err
				}
			}

			scn, err := sf.load()
			if err != nil {
				return err
			}
			if distance <= 0 {
				distance = scn.distance
			}
			shape := render.FieldOfView(math.Pi/3, float64(cfg.Width)/float64(cfg.Height), 0.1, 100)
			cam, err := render.OrbitCamera(scn.target, distance, yaw*math.Pi/180, pitch*math.Pi/180, shape)
			if err != nil {
				return err
			}

			r, err := render.NewRenderer(cfg.Width, cfg.Height,
				render.WithWorkers(cfg.Workers),
				render.WithBackground(cfg.Background),
				render.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}
			screen, err := r.Render(cmd.Context(), scn.world, cam)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if ascii {
				if err := screen.ASCII(w); err != nil {
					return err
				}
			}
			if out != "" {
				if err := render.SavePNG(out, screen, scale); err != nil {
					return err
				}
				a.logger.Info("wrote image", "path", out)
			}
			if push {
				if err := uploadFrame(cmd, a, screen, scale, prefix, scn.label); err != nil {
					return err
				}
			}
			if !ascii {
				printStats(w, scn.label, screen)
			}
			return nil
		},
	}

	sf.register(cmd)
	cmd.Flags().Int("width", 0, "screen width in pixels (default PRISM_WIDTH or 160)")
	cmd.Flags().Int("height", 0, "screen height in pixels (default PRISM_HEIGHT or 90)")
	cmd.Flags().Int("workers", 0, "objects rendered concurrently (default logical cores)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write a PNG to this path")
	cmd.Flags().IntVar(&scale, "scale", 1, "PNG upscale factor")
	cmd.Flags().BoolVar(&ascii, "ascii", false, "print the coverage mask instead of stats")
	cmd.Flags().BoolVar(&push, "upload", false, "upload the PNG to the configured S3 bucket")
	cmd.Flags().StringVar(&prefix, "prefix", "frames", "object key prefix for --upload")
	cmd.Flags().Float64Var(&yaw, "yaw", 30, "camera yaw around the target in degrees")
	cmd.Flags().Float64Var(&pitch, "pitch", 20, "camera pitch above the target in degrees")
	cmd.Flags().Float64Var(&distance, "distance", 0, "camera distance from the target (default per scene)")
	return cmd
}

func uploadFrame(cmd *cobra.Command, a *app, screen *render.Screen, scale int, prefix, label string) error {
	sink, err := upload.New(a.cfg.S3)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, screen, scale); err != nil {
		return err
	}
	key := upload.Key(prefix, label, time.Now())
	if err := sink.Upload(cmd.Context(), key, buf.Bytes()); err != nil {
		return err
	}
	a.logger.Info("uploaded image", "bucket", sink.Bucket(), "key", key, "bytes", buf.Len())
	return nil
}

func printStats(w io.Writer, label string, screen *render.Screen) {
	s := screen.Stats()
	row := func(k, v string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(k), valueStyle.Render(v))
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(label),
		row("size", fmt.Sprintf("%dx%d", screen.Width(), screen.Height())),
		row("objects", strconv.Itoa(s.Objects)),
		row("culled", strconv.Itoa(s.Culled)),
		row("inside", strconv.Itoa(s.Inside)),
		row("clipped", strconv.Itoa(s.Clipped)),
		row("failed", strconv.Itoa(s.Failed)),
		row("primitives", strconv.Itoa(s.Primitives)),
		row("pixels", strconv.Itoa(s.Pixels)),
		row("time", s.Duration.Round(time.Microsecond).String()),
	)
	lipgloss.Fprintln(w, boxStyle.Render(body))
}
