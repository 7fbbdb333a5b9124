package render

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// Image returns the screen as an image, enlarged by an integer factor with
// nearest-neighbor sampling so pixels stay crisp. Factors below 2 return
// the screen at its own size.
func (s *Screen) Image(scale int) image.Image {
	img := s.ToImage()
	if scale < 2 {
		return img
	}
	return resize.Resize(uint(s.width*scale), uint(s.height*scale), img, resize.NearestNeighbor)
}

// EncodePNG writes the screen to w as a PNG.
func EncodePNG(w io.Writer, s *Screen, scale int) error {
	if err := imaging.Encode(w, s.Image(scale), imaging.PNG); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG writes the screen to a PNG file at path.
func SavePNG(path string, s *Screen, scale int) error {
	if err := imaging.Save(s.Image(scale), path); err != nil {
		return fmt.Errorf("save png %s: %w", path, err)
	}
	return nil
}
