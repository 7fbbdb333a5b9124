package render

import (
	"bytes"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

// cornerScreen is 2x2 with red at the bottom-left pixel.
func cornerScreen(t *testing.T) *Screen {
	t.Helper()
	s := NewScreen(2, 2, bg)
	if _, err := s.PutPixel(0, 0, 0, red); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestImageScale(t *testing.T) {
	s := cornerScreen(t)
	tests := []struct {
		scale int
		want  int
	}{
		{0, 2},
		{1, 2},
		{3, 6},
	}
	for _, tt := range tests {
		b := s.Image(tt.scale).Bounds()
		if b.Dx() != tt.want || b.Dy() != tt.want {
			t.Errorf("Image(%d) = %dx%d, want %dx%d", tt.scale, b.Dx(), b.Dy(), tt.want, tt.want)
		}
	}

	img := s.Image(3)
	// bottom-left block of the enlarged image
	r, g, b, _ := img.At(1, 4).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("enlarged bottom-left = (%d, %d, %d), want red", r>>8, g>>8, b>>8)
	}
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, cornerScreen(t), 1); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	got := color.RGBAModel.Convert(img.At(0, 1)).(color.RGBA)
	if got != red.RGBA() {
		t.Errorf("decoded bottom-left = %v, want %v", got, red.RGBA())
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := SavePNG(path, cornerScreen(t), 2); err != nil {
		t.Fatal(err)
	}
	img, err := imaging.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("saved size = %dx%d, want 4x4", b.Dx(), b.Dy())
	}

	if err := SavePNG(filepath.Join(t.TempDir(), "missing", "frame.png"), cornerScreen(t), 1); err == nil {
		t.Error("saving into a missing directory succeeded")
	}
}
