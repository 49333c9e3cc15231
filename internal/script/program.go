// Package script contains the loaded script programs and the cursor that
// walks over their bytecode.
package script

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-restruct/restruct"
)

// HeaderSize is the size of the TOT file header.
const HeaderSize = 128

// FunctionCount is the number of entries in the TOT function table.
const FunctionCount = 14

// noTable marks an absent texts or resources table.
const noTable = 0xFFFFFFFF

var (
	// ErrMissingText is returned for a text id that is not part of the program.
	ErrMissingText = errors.New("missing text")
	// ErrMissingResource is returned for a resource id that is not part of the program.
	ErrMissingResource = errors.New("missing resource")
	// ErrExternalResource is returned for resources stored outside of the program file.
	ErrExternalResource = errors.New("external resource")
)

// Header is the TOT file header, all values are little endian.
type Header struct {
	Signature       [39]byte
	VersionMajor    uint8
	VersionDot      uint8
	VersionMinor    uint8
	Reserved        [2]byte
	VariablesCount  uint32 // number of 4 byte variable slots
	TextsOffset     uint32
	ResourcesOffset uint32
	AnimDataSize    uint16
	Padding         uint8
	IMFileNumber    uint8
	EXFileNumber    uint8
	CommunHandling  uint8
	Reserved2       [38]byte
	Functions       [FunctionCount]uint16
}

// Version returns the script format version encoded as ASCII digits.
func (h Header) Version() (int, int) {
	return int(h.VersionMajor) - '0', int(h.VersionMinor) - '0'
}

// Resource is an embedded resource of a program.
type Resource struct {
	ID     int
	Data   []byte
	Width  int16
	Height int16
}

type textEntry struct {
	Offset uint16
	Size   uint16
}

type resourceEntry struct {
	Offset int32
	Size   uint16
	Width  int16
	Height int16
}

const resourceEntrySize = 10

// Program is an immutable loaded script unit.
type Program struct {
	name      string
	data      []byte
	header    Header
	hasHeader bool
}

// New wraps raw bytecode without a TOT header, execution starts at offset 0.
func New(name string, code []byte) *Program {
	return &Program{
		name: name,
		data: code,
	}
}

// Load parses a TOT file.
func Load(name string, data []byte) (*Program, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("program '%s' too short for header: %d bytes", name, len(data))
	}

	p := &Program{
		name:      name,
		data:      data,
		hasHeader: true,
	}
	if err := restruct.Unpack(data[:HeaderSize], binary.LittleEndian, &p.header); err != nil {
		return nil, fmt.Errorf("unpacking header of '%s': %w", name, err)
	}

	for i, offset := range p.header.Functions {
		if int(offset) >= len(data) {
			return nil, fmt.Errorf("function %d of '%s' at offset %d outside of program", i, name, offset)
		}
	}
	return p, nil
}

// Name returns the program name.
func (p *Program) Name() string {
	return p.name
}

// Len returns the size of the program in bytes.
func (p *Program) Len() int {
	return len(p.data)
}

// Header returns the TOT header and whether the program has one.
func (p *Program) Header() (Header, bool) {
	return p.header, p.hasHeader
}

// Entry returns the offset where execution of the program starts.
func (p *Program) Entry() uint32 {
	if !p.hasHeader {
		return 0
	}
	return uint32(p.header.Functions[0])
}

// FunctionOffset returns the offset of an entry of the function table.
func (p *Program) FunctionOffset(index int) (uint32, error) {
	if index < 0 || index >= FunctionCount {
		return 0, fmt.Errorf("invalid function index %d", index)
	}
	if !p.hasHeader {
		if index == 0 {
			return 0, nil
		}
		return 0, fmt.Errorf("program '%s' has no function table", p.name)
	}
	return uint32(p.header.Functions[index]), nil
}

// VariablesCount returns the number of 4 byte variable slots the program requests.
func (p *Program) VariablesCount() uint32 {
	return p.header.VariablesCount
}

func (p *Program) table(offset uint32) bool {
	return p.hasHeader && offset != 0 && offset != noTable && int(offset) < len(p.data)
}

// TextCount returns the number of texts in the texts table.
func (p *Program) TextCount() int {
	if !p.table(p.header.TextsOffset) {
		return 0
	}
	return int(p.word(p.header.TextsOffset))
}

// Text returns the bytes of a text of the texts table.
func (p *Program) Text(id int) ([]byte, error) {
	if id < 0 || id >= p.TextCount() {
		return nil, fmt.Errorf("%w: %d in '%s'", ErrMissingText, id, p.name)
	}

	base := int(p.header.TextsOffset)
	entryOffset := base + 2 + id*4
	if entryOffset+4 > len(p.data) {
		return nil, fmt.Errorf("%w: text table of '%s' truncated", ErrMissingText, p.name)
	}
	var entry textEntry
	if err := restruct.Unpack(p.data[entryOffset:entryOffset+4], binary.LittleEndian, &entry); err != nil {
		return nil, fmt.Errorf("unpacking text entry %d: %w", id, err)
	}

	start := base + int(entry.Offset)
	end := start + int(entry.Size)
	if end > len(p.data) {
		return nil, fmt.Errorf("%w: text %d of '%s' outside of program", ErrMissingText, id, p.name)
	}
	return p.data[start:end], nil
}

// ResourceCount returns the number of resources in the resources table.
func (p *Program) ResourceCount() int {
	if !p.table(p.header.ResourcesOffset) {
		return 0
	}
	return int(p.word(p.header.ResourcesOffset))
}

// Resource returns an embedded resource. Sizes exceeding the program are an
// error unless clamp is set, which cuts the resource at the end of the data.
func (p *Program) Resource(id int, clamp bool) (Resource, error) {
	count := p.ResourceCount()
	if id < 0 || id >= count {
		return Resource{}, fmt.Errorf("%w: %d in '%s'", ErrMissingResource, id, p.name)
	}

	base := int(p.header.ResourcesOffset) + 3
	entryOffset := base + id*resourceEntrySize
	if entryOffset+resourceEntrySize > len(p.data) {
		return Resource{}, fmt.Errorf("%w: resource table of '%s' truncated", ErrMissingResource, p.name)
	}
	var entry resourceEntry
	if err := restruct.Unpack(p.data[entryOffset:entryOffset+resourceEntrySize], binary.LittleEndian, &entry); err != nil {
		return Resource{}, fmt.Errorf("unpacking resource entry %d: %w", id, err)
	}
	if entry.Offset < 0 {
		return Resource{}, fmt.Errorf("%w: resource %d of '%s'", ErrExternalResource, id, p.name)
	}

	start := base + count*resourceEntrySize + int(entry.Offset)
	end := start + int(entry.Size)
	if start > len(p.data) {
		return Resource{}, fmt.Errorf("%w: resource %d of '%s' outside of program", ErrMissingResource, id, p.name)
	}
	if end > len(p.data) {
		if !clamp {
			return Resource{}, fmt.Errorf("%w: resource %d of '%s' exceeds program", ErrMissingResource, id, p.name)
		}
		end = len(p.data)
	}

	return Resource{
		ID:     id,
		Data:   p.data[start:end],
		Width:  entry.Width,
		Height: entry.Height,
	}, nil
}

func (p *Program) word(offset uint32) uint16 {
	if int(offset)+2 > len(p.data) {
		return 0
	}
	return binary.LittleEndian.Uint16(p.data[offset:])
}
