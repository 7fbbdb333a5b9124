package primitive

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a flat 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// RGB creates a Color.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b}
}

// ParseHex parses "#rrggbb" or "#rgb".
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return FromColorful(c), nil
}

// FromColorful converts a go-colorful color, clamping it into gamut.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{r, g, b}
}

// FromFloat converts [0, 1] channels, as stored by glTF base
// color factors, into a Color.
func FromFloat(r, g, b float64) Color {
	return FromColorful(colorful.Color{R: r, G: g, B: b})
}

// RGBA returns the opaque image/color value.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{c.R, c.G, c.B, 255}
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Palette returns n visually distinct colors spread around the hue circle.
func Palette(n int) []Color {
	out := make([]Color, n)
	for i := range out {
		hue := 360 * float64(i) / float64(max(n, 1))
		out[i] = FromColorful(colorful.Hsv(hue, 0.65, 0.95))
	}
	return out
}
