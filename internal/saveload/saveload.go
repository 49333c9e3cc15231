// Package saveload serializes the variable store and the subsystem state
// fragments into the versioned save file layout and restores them.
//
// Layout, all values little endian:
//
//	v1 header: "GOBS", u16 version, u8 game, u32 variables size, u16 fragment count
//	v2 header: "GOBS", u16 version, u8 game, u8 endianness, u32 variables size, u16 fragment count
//	variable store bytes
//	fragments: [4]byte id, u32 length, payload
package saveload

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-restruct/restruct"
	"github.com/retroenv/retrogob/internal/endian"
	"github.com/retroenv/retrogob/internal/variables"
	"github.com/retroenv/retrogob/internal/variant"
	"github.com/retroenv/retrogolib/log"
)

// Supported save format versions.
const (
	MinVersion     = 1
	CurrentVersion = 3
)

const (
	headerV1Size       = 13
	headerV2Size       = 14
	fragmentHeaderSize = 8
)

// Magic identifies a save file.
var Magic = [4]byte{'G', 'O', 'B', 'S'}

var (
	// ErrIncompatible is returned for saves of another game or an unsupported version.
	ErrIncompatible = errors.New("incompatible save")
	// ErrCorrupt is returned for saves that can not be decoded.
	ErrCorrupt = errors.New("corrupt save")
	// ErrMissingFragment is returned when an expected fragment is absent.
	ErrMissingFragment = errors.New("missing save fragment")
	// ErrOutOfRange is returned for state values that do not fit their record field.
	ErrOutOfRange = errors.New("value exceeds save record field")
)

type headerV1 struct {
	Magic         [4]byte
	Version       uint16
	Game          uint8
	VariablesSize uint32
	FragmentCount uint16
}

type headerV2 struct {
	Magic         [4]byte
	Version       uint16
	Game          uint8
	Endianness    uint8
	VariablesSize uint32
	FragmentCount uint16
}

type fragmentHeader struct {
	ID     [4]byte
	Length uint32
}

// Fragment is a serializable part of the subsystem state.
type Fragment interface {
	FragmentID() [4]byte
	SaveFragment() ([]byte, error)
	// LoadFragment decodes and validates a payload without changing state
	// and returns the function that applies it. A nil payload resets the
	// state to its defaults.
	LoadFragment(data []byte) (func(), error)
}

// Entry registers a fragment with the format version that introduced it.
type Entry struct {
	Fragment Fragment
	Since    uint16
}

// Info describes a save file.
type Info struct {
	Version       uint16
	Game          variant.GameType
	Endianness    endian.Endianness
	VariablesSize uint32
	Fragments     []string
}

// Codec saves and loads the state of one game variant.
type Codec struct {
	logger  *log.Logger
	variant variant.Variant
	vars    *variables.Store
	entries []Entry
}

// New returns a codec. The entries define the fixed fragment order.
func New(logger *log.Logger, v variant.Variant, vars *variables.Store, entries ...Entry) *Codec {
	return &Codec{
		logger:  logger,
		variant: v,
		vars:    vars,
		entries: entries,
	}
}

// Save writes the current state in the current format version.
func (c *Codec) Save(w io.Writer) error {
	vars := c.vars.Snapshot()
	h := headerV2{
		Magic:         Magic,
		Version:       CurrentVersion,
		Game:          uint8(c.variant.Game),
		Endianness:    uint8(c.vars.Endianness()),
		VariablesSize: uint32(len(vars)),
		FragmentCount: uint16(len(c.entries)),
	}

	enc := &Encoder{}
	enc.Write(&h)
	enc.Raw(vars)
	for _, entry := range c.entries {
		payload, err := entry.Fragment.SaveFragment()
		if err != nil {
			id := entry.Fragment.FragmentID()
			return fmt.Errorf("saving fragment '%s': %w", id[:], err)
		}
		enc.Write(&fragmentHeader{ID: entry.Fragment.FragmentID(), Length: uint32(len(payload))})
		enc.Raw(payload)
	}

	data, err := enc.Bytes()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing save: %w", err)
	}
	return nil
}

type parsed struct {
	info      Info
	vars      []byte
	fragments map[[4]byte][]byte
}

func parse(data []byte, defaultEndianness endian.Endianness) (parsed, error) {
	var p parsed
	if len(data) < headerV1Size {
		return p, fmt.Errorf("%w: %d bytes too short for header", ErrCorrupt, len(data))
	}
	if !bytes.Equal(data[:4], Magic[:]) {
		return p, fmt.Errorf("%w: invalid magic %q", ErrCorrupt, data[:4])
	}

	version := binary.LittleEndian.Uint16(data[4:])
	if version < MinVersion || version > CurrentVersion {
		return p, fmt.Errorf("%w: version %d not in supported range %d-%d",
			ErrIncompatible, version, MinVersion, CurrentVersion)
	}

	var fragmentCount uint16
	offset := headerV1Size
	if version == 1 {
		var h headerV1
		if err := restruct.Unpack(data[:headerV1Size], binary.LittleEndian, &h); err != nil {
			return p, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		p.info = Info{Version: h.Version, Game: variant.GameType(h.Game), Endianness: defaultEndianness,
			VariablesSize: h.VariablesSize}
		fragmentCount = h.FragmentCount
	} else {
		if len(data) < headerV2Size {
			return p, fmt.Errorf("%w: %d bytes too short for header", ErrCorrupt, len(data))
		}
		var h headerV2
		if err := restruct.Unpack(data[:headerV2Size], binary.LittleEndian, &h); err != nil {
			return p, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		p.info = Info{Version: h.Version, Game: variant.GameType(h.Game), Endianness: endian.Endianness(h.Endianness),
			VariablesSize: h.VariablesSize}
		if !p.info.Endianness.Valid() {
			return p, fmt.Errorf("%w: invalid endianness %d", ErrCorrupt, h.Endianness)
		}
		fragmentCount = h.FragmentCount
		offset = headerV2Size
	}

	if uint64(offset)+uint64(p.info.VariablesSize) > uint64(len(data)) {
		return p, fmt.Errorf("%w: variables truncated", ErrCorrupt)
	}
	p.vars = data[offset : offset+int(p.info.VariablesSize)]
	offset += int(p.info.VariablesSize)

	p.fragments = make(map[[4]byte][]byte, fragmentCount)
	for i := range int(fragmentCount) {
		if offset+fragmentHeaderSize > len(data) {
			return p, fmt.Errorf("%w: fragment header %d truncated", ErrCorrupt, i)
		}
		var fh fragmentHeader
		if err := restruct.Unpack(data[offset:offset+fragmentHeaderSize], binary.LittleEndian, &fh); err != nil {
			return p, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		offset += fragmentHeaderSize
		if uint64(offset)+uint64(fh.Length) > uint64(len(data)) {
			return p, fmt.Errorf("%w: fragment '%s' truncated", ErrCorrupt, fh.ID[:])
		}
		if _, ok := p.fragments[fh.ID]; !ok {
			p.fragments[fh.ID] = data[offset : offset+int(fh.Length)]
			p.info.Fragments = append(p.info.Fragments, string(fh.ID[:]))
		}
		offset += int(fh.Length)
	}
	return p, nil
}

// Inspect decodes the header and fragment directory of a save.
func Inspect(data []byte) (Info, error) {
	p, err := parse(data, endian.LittleEndian)
	return p.info, err
}

// Load restores a save. Either the whole save is applied or the state is
// left untouched.
func (c *Codec) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading save: %w", err)
	}

	p, err := parse(data, c.variant.DataEndianness())
	if err != nil {
		return err
	}
	info := p.info
	if info.Game != c.variant.Game {
		return fmt.Errorf("%w: save of game %s, running %s", ErrIncompatible, info.Game, c.variant.Game)
	}
	if info.VariablesSize != uint32(c.vars.Size()) {
		return fmt.Errorf("%w: variables size %d, expected %d", ErrCorrupt, info.VariablesSize, c.vars.Size())
	}

	retag := false
	if info.Endianness != c.vars.Endianness() {
		if c.variant.EndiannessMethod != endian.MethodAltFile {
			return fmt.Errorf("%w: save byte order %s, running %s",
				ErrIncompatible, info.Endianness, c.vars.Endianness())
		}
		retag = true
	}

	commits := make([]func(), 0, len(c.entries))
	for _, entry := range c.entries {
		id := entry.Fragment.FragmentID()
		var payload []byte
		if entry.Since <= info.Version {
			var ok bool
			payload, ok = p.fragments[id]
			if !ok {
				return fmt.Errorf("%w: '%s'", ErrMissingFragment, id[:])
			}
			if payload == nil {
				payload = []byte{}
			}
		}

		commit, err := entry.Fragment.LoadFragment(payload)
		if err != nil {
			if errors.Is(err, ErrCorrupt) {
				return fmt.Errorf("loading fragment '%s': %w", id[:], err)
			}
			return fmt.Errorf("%w: loading fragment '%s': %v", ErrCorrupt, id[:], err)
		}
		commits = append(commits, commit)
	}

	if err := c.vars.Restore(p.vars); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if retag {
		c.logger.Debug("Re-tagging variable store byte order", log.Stringer("endianness", info.Endianness))
		c.vars.SetEndianness(info.Endianness)
	}
	for _, commit := range commits {
		commit()
	}

	c.logger.Debug("Loaded save", log.Uint16("version", info.Version), log.Int("fragments", len(commits)))
	return nil
}
