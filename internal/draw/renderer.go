package draw

import (
	"fmt"
	"io"
)

// Rect is an inclusive rectangle on a surface.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Renderer is the backend that receives the validated drawing commands.
type Renderer interface {
	FillRect(dest int, r Rect, color int) error
	DrawLine(dest, x1, y1, x2, y2, color int) error
	PutPixel(dest, x, y, color int) error
	Text(x, y, color int, text string) error
}

// NullRenderer discards all drawing commands.
type NullRenderer struct{}

func (NullRenderer) FillRect(int, Rect, int) error               { return nil }
func (NullRenderer) DrawLine(int, int, int, int, int, int) error { return nil }
func (NullRenderer) PutPixel(int, int, int, int) error           { return nil }
func (NullRenderer) Text(int, int, int, string) error            { return nil }

// TextRenderer writes one line per drawing command, used for headless runs.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a renderer writing to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) FillRect(dest int, rect Rect, color int) error {
	_, err := fmt.Fprintf(r.w, "fill %d (%d,%d)-(%d,%d) color %d\n",
		dest, rect.Left, rect.Top, rect.Right, rect.Bottom, color)
	return err
}

func (r *TextRenderer) DrawLine(dest, x1, y1, x2, y2, color int) error {
	_, err := fmt.Fprintf(r.w, "line %d (%d,%d)-(%d,%d) color %d\n", dest, x1, y1, x2, y2, color)
	return err
}

func (r *TextRenderer) PutPixel(dest, x, y, color int) error {
	_, err := fmt.Fprintf(r.w, "pixel %d (%d,%d) color %d\n", dest, x, y, color)
	return err
}

func (r *TextRenderer) Text(x, y, color int, text string) error {
	_, err := fmt.Fprintf(r.w, "text (%d,%d) color %d %q\n", x, y, color, text)
	return err
}
