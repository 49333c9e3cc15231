// Package palanim holds the VGA and EGA palettes and cycles palette ranges.
package palanim

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogob/internal/saveload"
)

// Palette dimensions.
const (
	Colors    = 256
	EGAColors = 16
	MaxRanges = 8
)

// ErrInvalidColor is returned for color indexes or ranges outside of the palette.
var ErrInvalidColor = errors.New("invalid palette color")

// Range is a cycling color range, the colors rotate by one entry every
// Speed calls of Animate. A zero speed disables the range.
type Range struct {
	Start   int
	End     int
	Speed   int
	counter int
}

// Palette implements the palette subsystem.
type Palette struct {
	rgb    [Colors * 3]byte
	ega    [EGAColors]byte
	ranges [MaxRanges]Range
}

// New returns a palette with all colors black.
func New() *Palette {
	return &Palette{}
}

// SetColors replaces consecutive colors starting at first with RGB triples.
func (p *Palette) SetColors(first int, rgb []byte) error {
	if len(rgb)%3 != 0 {
		return fmt.Errorf("%w: %d bytes are not RGB triples", ErrInvalidColor, len(rgb))
	}
	if first < 0 || first+len(rgb)/3 > Colors {
		return fmt.Errorf("%w: %d colors at %d", ErrInvalidColor, len(rgb)/3, first)
	}
	copy(p.rgb[first*3:], rgb)
	return nil
}

// SetEGA sets the EGA color mapping.
func (p *Palette) SetEGA(indexes []byte) error {
	if len(indexes) > EGAColors {
		return fmt.Errorf("%w: %d EGA colors", ErrInvalidColor, len(indexes))
	}
	copy(p.ega[:], indexes)
	return nil
}

// InitRange configures a cycling range.
func (p *Palette) InitRange(index, start, end, speed int) error {
	if index < 0 || index >= MaxRanges {
		return fmt.Errorf("%w: range %d", ErrInvalidColor, index)
	}
	if start < 0 || end >= Colors || start >= end || speed < 0 {
		return fmt.Errorf("%w: range %d-%d speed %d", ErrInvalidColor, start, end, speed)
	}
	if err := saveload.CheckUint16(speed); err != nil {
		return fmt.Errorf("range %d speed: %w", index, err)
	}
	p.ranges[index] = Range{Start: start, End: end, Speed: speed}
	return nil
}

// Animate rotates all ranges whose speed counter elapsed.
func (p *Palette) Animate() {
	for i := range p.ranges {
		r := &p.ranges[i]
		if r.Speed == 0 {
			continue
		}
		r.counter++
		if r.counter < r.Speed {
			continue
		}
		r.counter = 0
		p.rotate(r.Start, r.End)
	}
}

// Update cycles the palette once per engine frame.
func (p *Palette) Update() {
	p.Animate()
}

// rotate moves every color of the range one entry up, the last color wraps
// to the start.
func (p *Palette) rotate(start, end int) {
	var last [3]byte
	copy(last[:], p.rgb[end*3:end*3+3])
	copy(p.rgb[start*3+3:end*3+3], p.rgb[start*3:end*3])
	copy(p.rgb[start*3:], last[:])
}

// Color returns the RGB value of a color.
func (p *Palette) Color(index int) [3]byte {
	var c [3]byte
	if index >= 0 && index < Colors {
		copy(c[:], p.rgb[index*3:])
	}
	return c
}

// EGA returns the EGA color mapping.
func (p *Palette) EGA() [EGAColors]byte {
	return p.ega
}

// Range returns a cycling range.
func (p *Palette) Range(index int) (Range, bool) {
	if index < 0 || index >= MaxRanges {
		return Range{}, false
	}
	return p.ranges[index], true
}

type rangeRecord struct {
	Start   uint8
	End     uint8
	Speed   uint16
	Counter uint16
}

type paletteRecord struct {
	RGB    [Colors * 3]byte
	EGA    [EGAColors]byte
	Ranges [MaxRanges]rangeRecord
}

// FragmentID returns the save fragment id.
func (p *Palette) FragmentID() [4]byte {
	return [4]byte{'P', 'A', 'L', ' '}
}

// SaveFragment encodes the palettes and ranges.
func (p *Palette) SaveFragment() ([]byte, error) {
	enc := &saveload.Encoder{}
	rec := paletteRecord{RGB: p.rgb, EGA: p.ega}
	for i, r := range p.ranges {
		rec.Ranges[i] = rangeRecord{
			Start:   enc.Uint8(r.Start),
			End:     enc.Uint8(r.End),
			Speed:   enc.Uint16(r.Speed),
			Counter: enc.Uint16(r.counter),
		}
	}
	enc.Write(&rec)
	return enc.Bytes()
}

// LoadFragment decodes a palette, a nil payload resets it to black.
func (p *Palette) LoadFragment(data []byte) (func(), error) {
	if data == nil {
		return func() { *p = Palette{} }, nil
	}
	dec := saveload.NewDecoder(data)
	var rec paletteRecord
	dec.Read(&rec)
	if err := dec.Err(); err != nil {
		return nil, err
	}

	loaded := Palette{rgb: rec.RGB, ega: rec.EGA}
	for i, r := range rec.Ranges {
		if r.Speed > 0 && r.Start >= r.End {
			return nil, fmt.Errorf("%w: palette range %d-%d", saveload.ErrCorrupt, r.Start, r.End)
		}
		loaded.ranges[i] = Range{Start: int(r.Start), End: int(r.End), Speed: int(r.Speed), counter: int(r.Counter)}
	}
	return func() { *p = loaded }, nil
}
