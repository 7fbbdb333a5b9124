// Package config reads prism settings from a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/klauspost/cpuid/v2"

	"github.com/taigrr/prism/pkg/primitive"
)

// ErrInvalid is returned when a setting cannot be parsed.
var ErrInvalid = errors.New("invalid setting")

// Config holds every setting the CLI needs.
type Config struct {
	Width      int
	Height     int
	Workers    int
	Background primitive.Color
	LogLevel   slog.Level
	FPS        int

	S3 S3Config
}

// S3Config describes where rendered frames are uploaded.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Enabled reports whether an upload bucket is configured.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	bg, _ := primitive.ParseHex("#101418")
	return Config{
		Width:      160,
		Height:     90,
		Workers:    DefaultWorkers(),
		Background: bg,
		LogLevel:   slog.LevelInfo,
		FPS:        30,
	}
}

// DefaultWorkers returns the number of logical cores, falling back to the
// runtime's count when CPU detection fails.
func DefaultWorkers() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Load reads dir/.env if present, then the PRISM_* environment variables.
// Variables already set in the environment win over the file.
func Load(dir string) (Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Defaults()
	var errs []error
	intVar := func(key string, dst *int) {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s=%q must be a positive integer", ErrInvalid, key, v))
			return
		}
		*dst = n
	}

	intVar("PRISM_WIDTH", &cfg.Width)
	intVar("PRISM_HEIGHT", &cfg.Height)
	intVar("PRISM_WORKERS", &cfg.Workers)
	intVar("PRISM_FPS", &cfg.FPS)

	if v := os.Getenv("PRISM_BACKGROUND"); v != "" {
		c, err := primitive.ParseHex(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: PRISM_BACKGROUND: %w", ErrInvalid, err))
		} else {
			cfg.Background = c
		}
	}
	if v := os.Getenv("PRISM_LOG_LEVEL"); v != "" {
		lvl, err := ParseLevel(v)
		if err != nil {
			errs = append(errs, err)
		} else {
			cfg.LogLevel = lvl
		}
	}

	cfg.S3 = S3Config{
		Endpoint:  os.Getenv("PRISM_S3_ENDPOINT"),
		Region:    os.Getenv("PRISM_S3_REGION"),
		Bucket:    os.Getenv("PRISM_S3_BUCKET"),
		AccessKey: os.Getenv("PRISM_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("PRISM_S3_SECRET_KEY"),
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, s)
	}
	return lvl, nil
}

// Logger returns a text logger on stderr at the configured level.
func (c Config) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel}))
}
