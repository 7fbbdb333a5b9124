// prism renders scenes of points, segments and triangles on the CPU.
//
// Commands:
//
//	prism render   draw one frame to PNG, ASCII or an S3 bucket
//	prism view     orbit a scene interactively in the terminal
//	prism info     show detected CPU features and the built-in scenes
//
// Settings come from ./.env and PRISM_* environment variables; flags win.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/klauspost/cpuid/v2"
	"github.com/spf13/cobra"

	"github.com/taigrr/prism/internal/config"
)

var version = "dev"

// app is shared by every subcommand once the root has loaded settings.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	if err := fang.Execute(ctx, newRootCmd(a), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:   "prism",
		Short: "A CPU rasterizer for points, segments and triangles",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				if cfg.LogLevel, err = config.ParseLevel(logLevel); err != nil {
					return err
				}
			}
			a.cfg = cfg
			a.logger = cfg.Logger()
			slog.SetDefault(a.logger)
			a.logger.Debug("cpu detected",
				"brand", cpuid.CPU.BrandName,
				"logical", cpuid.CPU.LogicalCores,
				"workers", cfg.Workers,
			)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newRenderCmd(a), newViewCmd(a), newInfoCmd(a))
	return root
}

// intFlag copies a flag value over the configured one when the user set it.
func intFlag(cmd *cobra.Command, name string, dst *int) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("--%s must be positive, got %d", name, v)
	}
	*dst = v
	return nil
}
