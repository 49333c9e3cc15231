// Package scenery manages the static pictures and scenery animations that are
// loaded from program resources into a fixed number of slots.
package scenery

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogob/internal/script"
	"github.com/retroenv/retrogolib/log"
)

// Slot counts.
const (
	MaxStatics = 10
	MaxAnims   = 10
)

var (
	// ErrNoFreeSlot is returned when all slots are in use.
	ErrNoFreeSlot = errors.New("no free scenery slot")
	// ErrInvalidSlot is returned for a slot that is out of range or empty.
	ErrInvalidSlot = errors.New("invalid scenery slot")
	// ErrInvalidLayer is returned for a layer or frame the resource does not contain.
	ErrInvalidLayer = errors.New("invalid scenery layer")
	// ErrInvalidData is returned for resources that can not be parsed.
	ErrInvalidData = errors.New("invalid scenery data")
)

// Piece is a loaded static picture or animation. Every layer of an
// animation has a frame count, static layers have one frame.
type Piece struct {
	Resource int
	Width    int
	Height   int
	Frames   []int
}

// Blitter is the backend that draws scenery layers.
type Blitter interface {
	Blit(resource, layer, frame, x, y, width, height int) error
}

// NullBlitter discards all blits.
type NullBlitter struct{}

func (NullBlitter) Blit(int, int, int, int, int, int, int) error { return nil }

// AnimState is the last rendered state of an animation slot.
type AnimState struct {
	Layer int
	Frame int
	X     int
	Y     int
}

// Scenery implements the scenery subsystem.
type Scenery struct {
	logger  *log.Logger
	blitter Blitter
	statics [MaxStatics]*Piece
	anims   [MaxAnims]*Piece
	states  [MaxAnims]AnimState
}

// New returns an empty scenery subsystem.
func New(logger *log.Logger, blitter Blitter) *Scenery {
	return &Scenery{
		logger:  logger,
		blitter: blitter,
	}
}

// parsePiece decodes a layer count byte, followed for animations by one
// frame count byte per layer.
func parsePiece(res script.Resource, anim bool) (*Piece, error) {
	data := res.Data
	if len(data) == 0 || data[0] == 0 {
		return nil, fmt.Errorf("%w: resource %d has no layers", ErrInvalidData, res.ID)
	}
	layers := int(data[0])
	p := &Piece{
		Resource: res.ID,
		Width:    int(res.Width),
		Height:   int(res.Height),
		Frames:   make([]int, layers),
	}
	for i := range p.Frames {
		if !anim {
			p.Frames[i] = 1
			continue
		}
		if 1+i >= len(data) || data[1+i] == 0 {
			return nil, fmt.Errorf("%w: resource %d layer %d has no frames", ErrInvalidData, res.ID, i)
		}
		p.Frames[i] = int(data[1+i])
	}
	return p, nil
}

func freeSlot(slots []*Piece) (int, error) {
	for i, p := range slots {
		if p == nil {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: all %d slots used", ErrNoFreeSlot, len(slots))
}

func slot(slots []*Piece, index int) (*Piece, error) {
	if index < 0 || index >= len(slots) || slots[index] == nil {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSlot, index)
	}
	return slots[index], nil
}

// LoadStatic loads a static picture into a free slot and returns its index.
func (s *Scenery) LoadStatic(res script.Resource) (int, error) {
	p, err := parsePiece(res, false)
	if err != nil {
		return -1, err
	}
	index, err := freeSlot(s.statics[:])
	if err != nil {
		return -1, err
	}
	s.statics[index] = p
	s.logger.Debug("Loaded static", log.Int("slot", index), log.Int("resource", res.ID))
	return index, nil
}

// FreeStatic releases a static slot.
func (s *Scenery) FreeStatic(index int) error {
	if _, err := slot(s.statics[:], index); err != nil {
		return err
	}
	s.statics[index] = nil
	return nil
}

// RenderStatic draws one layer of a static picture.
func (s *Scenery) RenderStatic(index, layer int) error {
	p, err := slot(s.statics[:], index)
	if err != nil {
		return err
	}
	if layer < 0 || layer >= len(p.Frames) {
		return fmt.Errorf("%w: layer %d of static %d", ErrInvalidLayer, layer, index)
	}
	return s.blitter.Blit(p.Resource, layer, 0, 0, 0, p.Width, p.Height)
}

// LoadAnim loads a scenery animation into a free slot and returns its index.
func (s *Scenery) LoadAnim(res script.Resource) (int, error) {
	p, err := parsePiece(res, true)
	if err != nil {
		return -1, err
	}
	index, err := freeSlot(s.anims[:])
	if err != nil {
		return -1, err
	}
	s.anims[index] = p
	s.states[index] = AnimState{}
	return index, nil
}

// FreeAnim releases an animation slot.
func (s *Scenery) FreeAnim(index int) error {
	if _, err := slot(s.anims[:], index); err != nil {
		return err
	}
	s.anims[index] = nil
	return nil
}

// UpdateAnim draws a frame of an animation layer at a position.
func (s *Scenery) UpdateAnim(index, layer, frame, x, y int) error {
	p, err := slot(s.anims[:], index)
	if err != nil {
		return err
	}
	if layer < 0 || layer >= len(p.Frames) {
		return fmt.Errorf("%w: layer %d of animation %d", ErrInvalidLayer, layer, index)
	}
	if frame < 0 || frame >= p.Frames[layer] {
		return fmt.Errorf("%w: frame %d of layer %d", ErrInvalidLayer, frame, layer)
	}
	s.states[index] = AnimState{Layer: layer, Frame: frame, X: x, Y: y}
	return s.blitter.Blit(p.Resource, layer, frame, x, y, p.Width, p.Height)
}

// Anim returns the state of an animation slot.
func (s *Scenery) Anim(index int) (AnimState, bool) {
	if _, err := slot(s.anims[:], index); err != nil {
		return AnimState{}, false
	}
	return s.states[index], true
}

// Static returns a loaded static picture.
func (s *Scenery) Static(index int) (Piece, bool) {
	p, err := slot(s.statics[:], index)
	if err != nil {
		return Piece{}, false
	}
	return *p, true
}
