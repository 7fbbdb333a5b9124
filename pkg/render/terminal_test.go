package render

import (
	"bytes"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestScreenASCII(t *testing.T) {
	s := NewScreen(3, 2, bg)
	if _, err := s.PutPixel(0, 0, 0, red); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PutPixel(2, 1, 0, red); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.ASCII(&buf); err != nil {
		t.Fatal(err)
	}
	want := "..x\nx..\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestScreenDraw(t *testing.T) {
	s := NewScreen(2, 4, bg)
	// Top-left pixel and the one below it.
	if _, err := s.PutPixel(0, 3, 0, red); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PutPixel(0, 2, 0, blue); err != nil {
		t.Fatal(err)
	}

	if s.TerminalRows() != 2 {
		t.Fatalf("TerminalRows() = %d, want 2", s.TerminalRows())
	}

	buf := uv.NewScreenBuffer(2, 2)
	s.Draw(buf, uv.Rect(0, 0, 2, 2))

	cell := buf.CellAt(0, 0)
	if cell == nil || cell.Content != "▀" {
		t.Fatalf("cell (0, 0) = %+v, want a half block", cell)
	}
	if cell.Style.Fg != red.RGBA() {
		t.Errorf("fg = %v, want red", cell.Style.Fg)
	}
	if cell.Style.Bg != blue.RGBA() {
		t.Errorf("bg = %v, want blue", cell.Style.Bg)
	}
	if got := buf.CellAt(1, 1).Style.Fg; got != bg.RGBA() {
		t.Errorf("bottom-right fg = %v, want background", got)
	}
}
