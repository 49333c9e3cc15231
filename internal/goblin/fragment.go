package goblin

import (
	"fmt"

	"github.com/retroenv/retrogob/internal/gobmap"
	"github.com/retroenv/retrogob/internal/saveload"
)

type actorRecord struct {
	X       int16
	Y       int16
	State   int16
	Placed  uint8
	PathLen uint16
}

type pointRecord struct {
	X int16
	Y int16
}

// FragmentID returns the save fragment id.
func (g *Goblins) FragmentID() [4]byte {
	return [4]byte{'G', 'O', 'B', 'L'}
}

// SaveFragment encodes all actor slots.
func (g *Goblins) SaveFragment() ([]byte, error) {
	enc := &saveload.Encoder{}
	enc.Write(&struct{ Count uint16 }{Count: MaxActors})
	for _, a := range g.actors {
		rec := actorRecord{
			X:       enc.Int16(a.Position.X),
			Y:       enc.Int16(a.Position.Y),
			State:   enc.Int16(a.State),
			PathLen: enc.Uint16(len(a.Path)),
		}
		if a.Placed {
			rec.Placed = 1
		}
		enc.Write(&rec)
		for _, p := range a.Path {
			enc.Write(&pointRecord{X: enc.Int16(p.X), Y: enc.Int16(p.Y)})
		}
	}
	return enc.Bytes()
}

// LoadFragment decodes the actor slots, a nil payload removes all actors.
func (g *Goblins) LoadFragment(data []byte) (func(), error) {
	var actors [MaxActors]Actor
	if data == nil {
		return func() { g.actors = actors }, nil
	}

	dec := saveload.NewDecoder(data)
	var count struct{ Count uint16 }
	dec.Read(&count)
	if err := dec.Err(); err != nil {
		return nil, err
	}
	if count.Count > MaxActors {
		return nil, fmt.Errorf("%w: %d actors", saveload.ErrCorrupt, count.Count)
	}

	for i := range int(count.Count) {
		var rec actorRecord
		dec.Read(&rec)
		a := Actor{
			Position: gobmap.Point{X: int(rec.X), Y: int(rec.Y)},
			State:    int(rec.State),
			Placed:   rec.Placed != 0,
		}
		for range int(rec.PathLen) {
			var p pointRecord
			dec.Read(&p)
			a.Path = append(a.Path, gobmap.Point{X: int(p.X), Y: int(p.Y)})
		}
		if err := dec.Err(); err != nil {
			return nil, err
		}
		actors[i] = a
	}
	return func() { g.actors = actors }, nil
}
