package render

import (
	"errors"
	"image/color"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/taigrr/prism/pkg/primitive"
)

var (
	bg   = primitive.RGB(16, 20, 24)
	red  = primitive.RGB(255, 0, 0)
	blue = primitive.RGB(0, 0, 255)
)

func TestScreenReset(t *testing.T) {
	s := NewScreen(7, 5, bg)
	for y := range 5 {
		for x := range 7 {
			if s.At(x, y) != bg.RGBA() {
				t.Fatalf("pixel (%d, %d) = %v, want background", x, y, s.At(x, y))
			}
			if !math.IsInf(s.Depth(x, y), -1) {
				t.Fatalf("depth (%d, %d) = %v, want -Inf", x, y, s.Depth(x, y))
			}
		}
	}

	if _, err := s.PutPixel(3, 2, 0, red); err != nil {
		t.Fatal(err)
	}
	s.Reset()
	if s.Covered(3, 2) || s.At(3, 2) != bg.RGBA() {
		t.Error("Reset left a drawn pixel behind")
	}
}

func TestPutPixel(t *testing.T) {
	tests := []struct {
		name    string
		x, y    int
		depth   float64
		wantOK  bool
		wantErr error
	}{
		{"inside", 1, 1, 0.5, true, nil},
		{"near plane", 0, 0, 1, true, nil},
		{"far plane", 0, 0, -1, true, nil},
		{"beyond near", 1, 1, 1.01, false, nil},
		{"beyond far", 1, 1, -1.01, false, nil},
		{"nan", 1, 1, math.NaN(), false, nil},
		{"left of screen", -1, 0, 0, false, ErrPixelOutOfRange},
		{"above screen", 0, 3, 0, false, ErrPixelOutOfRange},
		{"right of screen", 4, 0, 0, false, ErrPixelOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(4, 3, bg)
			ok, err := s.PutPixel(tt.x, tt.y, tt.depth, red)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestPutPixelDepthOrder(t *testing.T) {
	s := NewScreen(2, 2, bg)

	mustPut := func(depth float64, c primitive.Color) bool {
		t.Helper()
		ok, err := s.PutPixel(1, 0, depth, c)
		if err != nil {
			t.Fatal(err)
		}
		return ok
	}

	if !mustPut(-0.5, red) {
		t.Error("first write rejected")
	}
	if mustPut(-0.5, blue) {
		t.Error("equal depth with a smaller color overwrote")
	}
	if mustPut(-0.7, blue) {
		t.Error("farther write overwrote")
	}
	if !mustPut(0.2, blue) {
		t.Error("nearer write rejected")
	}
	if got := s.At(1, 0); got != blue.RGBA() {
		t.Errorf("got %v, want blue", got)
	}
	if got := s.Depth(1, 0); got != 0.2 {
		t.Errorf("depth = %v, want 0.2", got)
	}
}

func TestPutPixelEqualDepth(t *testing.T) {
	tests := []struct {
		name  string
		first primitive.Color
		then  primitive.Color
	}{
		{"red then blue", red, blue},
		{"blue then red", blue, red},
		{"green then gray", primitive.RGB(0, 255, 0), primitive.RGB(128, 128, 128)},
		{"gray then green", primitive.RGB(128, 128, 128), primitive.RGB(0, 255, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(1, 1, bg)
			for _, c := range []primitive.Color{tt.first, tt.then} {
				if _, err := s.PutPixel(0, 0, 0.25, c); err != nil {
					t.Fatal(err)
				}
			}
			want := tt.first
			if packRGB(tt.then.RGBA()) > packRGB(tt.first.RGBA()) {
				want = tt.then
			}
			if got := s.At(0, 0); got != want.RGBA() {
				t.Errorf("got %v, want %v", got, want.RGBA())
			}
		})
	}
}

func TestPutPixelConcurrent(t *testing.T) {
	const w, h, writers = 8, 8, 16
	s := NewScreen(w, h, bg)

	var mu sync.Mutex
	best := make([]float64, w*h)
	for i := range best {
		best[i] = math.Inf(-1)
	}

	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(uint64(i), 7))
			for range 500 {
				x, y := rng.IntN(w), rng.IntN(h)
				d := rng.Float64()*2 - 1
				if _, err := s.PutPixel(x, y, d, primitive.RGB(uint8(i), 0, 0)); err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				best[y*w+x] = max(best[y*w+x], d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	for y := range h {
		for x := range w {
			if got, want := s.Depth(x, y), best[y*w+x]; got != want {
				t.Errorf("depth (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestFrameAndImageOrientation(t *testing.T) {
	s := NewScreen(3, 2, bg)
	if _, err := s.PutPixel(0, 0, 0, red); err != nil {
		t.Fatal(err)
	}

	frame := s.Frame()
	if len(frame) != 2 || len(frame[0]) != 3 {
		t.Fatalf("frame is %dx%d, want 2 rows of 3", len(frame), len(frame[0]))
	}
	if frame[0][0] != red.RGBA() {
		t.Errorf("frame[0][0] = %v, want red", frame[0][0])
	}
	frame[0][0] = color.RGBA{}
	if s.At(0, 0) != red.RGBA() {
		t.Error("Frame shares memory with the screen")
	}

	img := s.ToImage()
	r, g, b, _ := img.At(0, 1).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("bottom-left image pixel = (%d, %d, %d), want red", r>>8, g>>8, b>>8)
	}
	if got := img.NRGBAAt(0, 0); got.R != bg.R {
		t.Errorf("top-left image pixel = %v, want background", got)
	}
}

func TestToImageAllocations(t *testing.T) {
	s := NewScreen(64, 48, bg)
	for x := range 64 {
		if _, err := s.PutPixel(x, x%48, 0, red); err != nil {
			t.Fatal(err)
		}
	}
	// One image header and one pixel buffer.
	if n := testing.AllocsPerRun(10, func() { _ = s.ToImage() }); n > 2 {
		t.Errorf("ToImage made %v allocations, want at most 2", n)
	}

	img := s.ToImage()
	for y := range 48 {
		for x := range 64 {
			want := s.At(x, 47-y)
			got := img.NRGBAAt(x, y)
			if got.R != want.R || got.G != want.G || got.B != want.B || got.A != want.A {
				t.Fatalf("image (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}
