package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/taigrr/prism/pkg/primitive"
)

// ErrPixelOutOfRange is returned when a pixel write falls outside the screen.
var ErrPixelOutOfRange = errors.New("pixel out of range")

const lockStripes = 256

// Screen is a color buffer paired with a depth buffer. Row 0 is the bottom
// of the image. Larger depth values are nearer to the camera; a fresh cell
// holds -Inf so the first valid write always wins.
//
// PutPixel may be called from many goroutines at once.
type Screen struct {
	width, height int
	background    color.RGBA

	pixels []color.RGBA // row-major
	depth  []float64

	locks [lockStripes]sync.Mutex
	stats Stats
}

// NewScreen creates a screen cleared to background.
func NewScreen(width, height int, background primitive.Color) *Screen {
	s := &Screen{
		width:      width,
		height:     height,
		background: background.RGBA(),
		pixels:     make([]color.RGBA, width*height),
		depth:      make([]float64, width*height),
	}
	s.Reset()
	return s
}

// Width returns the screen width in pixels.
func (s *Screen) Width() int { return s.width }

// Height returns the screen height in pixels.
func (s *Screen) Height() int { return s.height }

// Background returns the clear color.
func (s *Screen) Background() color.RGBA { return s.background }

// Reset clears colors to the background and depths to -Inf.
func (s *Screen) Reset() {
	n := len(s.depth)
	if n == 0 {
		return
	}
	s.depth[0] = math.Inf(-1)
	s.pixels[0] = s.background
	for i := 1; i < n; i *= 2 {
		copy(s.depth[i:], s.depth[:i])
		copy(s.pixels[i:], s.pixels[:i])
	}
	s.stats = Stats{}
}

// PutPixel writes c at (x, y) if depth lies in [-1, 1] and is nearer than
// what the cell holds. At equal depth the color with the larger packed RGB
// value wins, so the frame does not depend on draw order. It reports
// whether the write happened.
func (s *Screen) PutPixel(x, y int, depth float64, c primitive.Color) (bool, error) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return false, fmt.Errorf("put pixel (%d, %d) on %dx%d screen: %w", x, y, s.width, s.height, ErrPixelOutOfRange)
	}
	if !(depth >= -1 && depth <= 1) {
		return false, nil
	}

	idx := y*s.width + x
	mu := &s.locks[(x+y)&(lockStripes-1)]
	mu.Lock()
	defer mu.Unlock()
	rgba := c.RGBA()
	if d := s.depth[idx]; depth < d || depth == d && packRGB(rgba) <= packRGB(s.pixels[idx]) {
		return false, nil
	}
	s.depth[idx] = depth
	s.pixels[idx] = rgba
	return true, nil
}

func packRGB(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// At returns the color at (x, y), or the background outside the screen.
func (s *Screen) At(x, y int) color.RGBA {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return s.background
	}
	return s.pixels[y*s.width+x]
}

// Depth returns the stored depth at (x, y), or -Inf outside the screen.
func (s *Screen) Depth(x, y int) float64 {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return math.Inf(-1)
	}
	return s.depth[y*s.width+x]
}

// Covered reports whether anything was drawn at (x, y).
func (s *Screen) Covered(x, y int) bool {
	return !math.IsInf(s.Depth(x, y), -1)
}

// Frame returns a copy of the pixels as rows, row 0 at the bottom.
func (s *Screen) Frame() [][]color.RGBA {
	rows := make([][]color.RGBA, s.height)
	for y := range rows {
		rows[y] = make([]color.RGBA, s.width)
		copy(rows[y], s.pixels[y*s.width:(y+1)*s.width])
	}
	return rows
}

// Stats returns the statistics of the render that filled the screen.
func (s *Screen) Stats() Stats { return s.stats }

// ToImage converts the screen to an image with the top row first.
func (s *Screen) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, s.width, s.height))
	for y := 0; y < s.height; y++ {
		row := img.Pix[(s.height-1-y)*img.Stride:]
		for x, c := range s.pixels[y*s.width : (y+1)*s.width] {
			i := 4 * x
			row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return img
}
