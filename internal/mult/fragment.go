package mult

import (
	"fmt"

	"github.com/retroenv/retrogob/internal/saveload"
)

type stateRecord struct {
	X          int16
	Y          int16
	Width      int16
	Height     int16
	Playing    uint8
	Animations uint16
	Objects    uint16
}

type objectRecord struct {
	X      int16
	Y      int16
	Anim   int16
	Frame  int16
	Layer  int16
	Active uint8
	Done   uint8
}

// FragmentID returns the save fragment id.
func (m *Mult) FragmentID() [4]byte {
	return [4]byte{'M', 'U', 'L', 'T'}
}

// SaveFragment encodes the animation state.
func (m *Mult) SaveFragment() ([]byte, error) {
	enc := &saveload.Encoder{}
	enc.Write(&stateRecord{
		X:          enc.Int16(m.area.X),
		Y:          enc.Int16(m.area.Y),
		Width:      enc.Int16(m.area.Width),
		Height:     enc.Int16(m.area.Height),
		Playing:    boolByte(m.playing),
		Animations: enc.Uint16(len(m.frames)),
		Objects:    enc.Uint16(len(m.objects)),
	})
	counts := make([]byte, len(m.frames))
	for i, n := range m.frames {
		counts[i] = enc.Uint8(n)
	}
	enc.Raw(counts)
	for _, o := range m.objects {
		enc.Write(&objectRecord{
			X:      enc.Int16(o.X),
			Y:      enc.Int16(o.Y),
			Anim:   enc.Int16(o.Anim),
			Frame:  enc.Int16(o.Frame),
			Layer:  enc.Int16(o.Layer),
			Active: boolByte(o.Active),
			Done:   boolByte(o.Finished),
		})
	}
	return enc.Bytes()
}

// LoadFragment decodes an animation state, a nil payload resets it.
func (m *Mult) LoadFragment(data []byte) (func(), error) {
	if data == nil {
		return m.Free, nil
	}

	dec := saveload.NewDecoder(data)
	var state stateRecord
	dec.Read(&state)
	counts := dec.Raw(int(state.Animations))
	if err := dec.Err(); err != nil {
		return nil, err
	}
	if state.Objects > MaxObjects {
		return nil, fmt.Errorf("%w: %d objects", saveload.ErrCorrupt, state.Objects)
	}

	frames := make([]int, len(counts))
	for i, n := range counts {
		if n == 0 {
			return nil, fmt.Errorf("%w: animation %d has no frames", saveload.ErrCorrupt, i)
		}
		frames[i] = int(n)
	}

	objects := make([]Object, state.Objects)
	for i := range objects {
		var rec objectRecord
		dec.Read(&rec)
		if err := dec.Err(); err != nil {
			return nil, err
		}
		o := Object{
			X:        int(rec.X),
			Y:        int(rec.Y),
			Anim:     int(rec.Anim),
			Frame:    int(rec.Frame),
			Layer:    int(rec.Layer),
			Active:   rec.Active != 0,
			Finished: rec.Done != 0,
		}
		if o.Active && (o.Anim < 0 || o.Anim >= len(frames) || o.Frame < 0 || o.Frame >= frames[o.Anim]) {
			return nil, fmt.Errorf("%w: object %d shows frame %d of animation %d", saveload.ErrCorrupt, i, o.Frame, o.Anim)
		}
		objects[i] = o
	}

	return func() {
		m.area = Area{X: int(state.X), Y: int(state.Y), Width: int(state.Width), Height: int(state.Height)}
		m.playing = state.Playing != 0
		m.frames = frames
		m.objects = objects
	}, nil
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
