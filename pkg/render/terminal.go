package render

import (
	"bufio"
	"image/color"
	"io"

	uv "github.com/charmbracelet/ultraviolet"
)

// TerminalRows returns how many terminal rows Draw needs for the screen.
func (s *Screen) TerminalRows() int {
	return (s.height + 1) / 2
}

// Draw paints the screen into area using upper half blocks, two pixel rows
// per terminal row. The top terminal row shows the top of the image.
func (s *Screen) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := s.height - 1 - 2*(row-area.Min.Y)
		botY := topY - 1
		if topY < 0 {
			break
		}

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < s.width; col++ {
			x := col - area.Min.X
			top := s.At(x, topY)
			bot := s.background
			if botY >= 0 {
				bot = s.At(x, botY)
			}

			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(top),
					Bg: rgbaToColor(bot),
				},
			})
		}
	}
}

// rgbaToColor returns nil for fully transparent pixels so the terminal
// default shows through.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// ASCII writes the screen top row first, one line per row, with 'x' for
// covered pixels and '.' for background.
func (s *Screen) ASCII(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for y := s.height - 1; y >= 0; y-- {
		for x := 0; x < s.width; x++ {
			c := byte('.')
			if s.Covered(x, y) {
				c = 'x'
			}
			if err := bw.WriteByte(c); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
