// Package draw manages the sprite surfaces and forwards drawing primitives
// and texts to a rendering backend.
package draw

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// MaxSprites is the number of sprite slots, including the screen surfaces.
const MaxSprites = 50

// Surfaces that exist for the whole session.
const (
	FrontSurface = 20
	BackSurface  = 21
)

// Text layout of program texts.
const (
	LineHeight       = 8
	HiResLineHeight  = 16 // line height of 640x480 and 800x600 releases
	DefaultTextColor = 15
)

var (
	// ErrInvalidSprite is returned for a sprite index that is out of range or not allocated.
	ErrInvalidSprite = errors.New("invalid sprite")
	// ErrInvalidSize is returned for sprites without a positive size.
	ErrInvalidSize = errors.New("invalid sprite size")
)

// Sprite is an allocated drawing surface.
type Sprite struct {
	Width  int
	Height int
	Flags  int
}

// Drawer implements the drawing subsystem.
type Drawer struct {
	logger   *log.Logger
	renderer Renderer
	decoder  *encoding.Decoder
	sprites  [MaxSprites]*Sprite
	line     int
}

// New returns a drawer with the screen surfaces of the given resolution.
func New(logger *log.Logger, renderer Renderer, width, height int) *Drawer {
	d := &Drawer{
		logger:   logger,
		renderer: renderer,
		decoder:  charmap.CodePage850.NewDecoder(),
		line:     LineHeight,
	}
	d.sprites[FrontSurface] = &Sprite{Width: width, Height: height}
	d.sprites[BackSurface] = &Sprite{Width: width, Height: height}
	return d
}

// SetLineHeight sets the row distance of program text lines.
func (d *Drawer) SetLineHeight(height int) {
	if height > 0 {
		d.line = height
	}
}

// Sprite returns an allocated sprite.
func (d *Drawer) Sprite(index int) (Sprite, bool) {
	if index < 0 || index >= MaxSprites || d.sprites[index] == nil {
		return Sprite{}, false
	}
	return *d.sprites[index], true
}

func (d *Drawer) sprite(index int) (*Sprite, error) {
	if index < 0 || index >= MaxSprites {
		return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidSprite, index)
	}
	s := d.sprites[index]
	if s == nil {
		return nil, fmt.Errorf("%w: index %d not allocated", ErrInvalidSprite, index)
	}
	return s, nil
}

// CreateSprite allocates a sprite, replacing a previous one in the slot.
func (d *Drawer) CreateSprite(index, width, height, flags int) error {
	if index < 0 || index >= MaxSprites || index == FrontSurface || index == BackSurface {
		return fmt.Errorf("%w: index %d can not be created", ErrInvalidSprite, index)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	d.sprites[index] = &Sprite{Width: width, Height: height, Flags: flags}
	d.logger.Debug("Created sprite", log.Int("index", index), log.Int("width", width), log.Int("height", height))
	return nil
}

// FreeSprite releases a sprite slot.
func (d *Drawer) FreeSprite(index int) error {
	if index == FrontSurface || index == BackSurface {
		return fmt.Errorf("%w: screen surface %d can not be freed", ErrInvalidSprite, index)
	}
	if _, err := d.sprite(index); err != nil {
		return err
	}
	d.sprites[index] = nil
	return nil
}

// FillRect fills a rectangle clipped to the destination sprite.
func (d *Drawer) FillRect(dest, left, top, right, bottom, color int) error {
	s, err := d.sprite(dest)
	if err != nil {
		return err
	}
	if left > right {
		left, right = right, left
	}
	if top > bottom {
		top, bottom = bottom, top
	}
	r := Rect{
		Left:   max(left, 0),
		Top:    max(top, 0),
		Right:  min(right, s.Width-1),
		Bottom: min(bottom, s.Height-1),
	}
	if r.Left > r.Right || r.Top > r.Bottom {
		return nil
	}
	return d.renderer.FillRect(dest, r, color)
}

// DrawLine draws a line on the destination sprite.
func (d *Drawer) DrawLine(dest, x1, y1, x2, y2, color int) error {
	if _, err := d.sprite(dest); err != nil {
		return err
	}
	return d.renderer.DrawLine(dest, x1, y1, x2, y2, color)
}

// PutPixel sets one pixel, pixels outside of the sprite are ignored.
func (d *Drawer) PutPixel(dest, x, y, color int) error {
	s, err := d.sprite(dest)
	if err != nil {
		return err
	}
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return nil
	}
	return d.renderer.PutPixel(dest, x, y, color)
}

// PrintText prints a code page 850 encoded text.
func (d *Drawer) PrintText(x, y, color int, text []byte) error {
	s, err := d.decode(text)
	if err != nil {
		return err
	}
	return d.renderer.Text(x, y, color, s)
}

// PrintTotText prints a text of the program text table, one line per row.
func (d *Drawer) PrintTotText(id int, text []byte) error {
	text = bytes.TrimRight(text, "\x00")
	lines := bytes.FieldsFunc(text, func(r rune) bool { return r == '\r' || r == '\n' })
	for i, line := range lines {
		s, err := d.decode(line)
		if err != nil {
			return fmt.Errorf("text %d: %w", id, err)
		}
		if err := d.renderer.Text(0, i*d.line, DefaultTextColor, s); err != nil {
			return err
		}
	}
	return nil
}

func (d *Drawer) decode(text []byte) (string, error) {
	b, err := d.decoder.Bytes(text)
	if err != nil {
		return "", fmt.Errorf("decoding text: %w", err)
	}
	return string(b), nil
}
