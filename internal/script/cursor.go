package script

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// DefaultMaxDepth is the default maximum nesting depth of the call stack.
const DefaultMaxDepth = 50

var (
	// ErrOutOfBounds is returned when a fetch would read past the program.
	ErrOutOfBounds = errors.New("script fetch out of bounds")
	// ErrStackOverflow is returned when a call exceeds the maximum nesting depth.
	ErrStackOverflow = errors.New("call stack overflow")
	// ErrStackUnderflow is returned for a return without a matching call.
	ErrStackUnderflow = errors.New("call stack underflow")
	// ErrNoProgram is returned when the cursor has no program.
	ErrNoProgram = errors.New("no program loaded")
)

// Frame is a return address on the call stack.
type Frame struct {
	Program *Program
	Offset  uint32
}

// Cursor is the program counter over a script program with a call stack.
// Multi byte operands are decoded with the code byte order which is
// independent of the variable store byte order.
type Cursor struct {
	prog     *Program
	pos      uint32
	order    binary.ByteOrder
	frames   []Frame
	maxDepth int
}

// NewCursor returns a cursor decoding operands with the given byte order.
func NewCursor(order binary.ByteOrder, maxDepth int) *Cursor {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Cursor{
		order:    order,
		maxDepth: maxDepth,
	}
}

// Reset sets the program and position and clears the call stack.
func (c *Cursor) Reset(prog *Program, offset uint32) {
	c.prog = prog
	c.pos = offset
	c.frames = c.frames[:0]
}

// Unwind clears the call stack and drops the program.
func (c *Cursor) Unwind() {
	c.prog = nil
	c.pos = 0
	c.frames = c.frames[:0]
}

// Program returns the active program.
func (c *Cursor) Program() *Program {
	return c.prog
}

// Pos returns the current offset in the active program.
func (c *Cursor) Pos() uint32 {
	return c.pos
}

// Depth returns the number of frames on the call stack.
func (c *Cursor) Depth() int {
	return len(c.frames)
}

// Order returns the code byte order.
func (c *Cursor) Order() binary.ByteOrder {
	return c.order
}

func (c *Cursor) span(n int) ([]byte, error) {
	if c.prog == nil {
		return nil, ErrNoProgram
	}
	if uint64(c.pos)+uint64(n) > uint64(len(c.prog.data)) {
		return nil, fmt.Errorf("%w: reading %d bytes at offset %d of '%s' (size %d)",
			ErrOutOfBounds, n, c.pos, c.prog.name, len(c.prog.data))
	}
	return c.prog.data[c.pos : c.pos+uint32(n)], nil
}

// PeekByte returns the byte at the cursor without advancing.
func (c *Cursor) PeekByte() (byte, error) {
	b, err := c.span(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// FetchByte reads a byte and advances the cursor.
func (c *Cursor) FetchByte() (byte, error) {
	b, err := c.span(1)
	if err != nil {
		return 0, err
	}
	c.pos++
	return b[0], nil
}

// FetchInt8 reads a signed byte.
func (c *Cursor) FetchInt8() (int8, error) {
	b, err := c.FetchByte()
	return int8(b), err
}

// FetchWord reads a 16 bit value.
func (c *Cursor) FetchWord() (uint16, error) {
	b, err := c.span(2)
	if err != nil {
		return 0, err
	}
	c.pos += 2
	return c.order.Uint16(b), nil
}

// FetchInt16 reads a signed 16 bit value.
func (c *Cursor) FetchInt16() (int16, error) {
	w, err := c.FetchWord()
	return int16(w), err
}

// FetchDword reads a 32 bit value.
func (c *Cursor) FetchDword() (uint32, error) {
	b, err := c.span(4)
	if err != nil {
		return 0, err
	}
	c.pos += 4
	return c.order.Uint32(b), nil
}

// FetchInt32 reads a signed 32 bit value.
func (c *Cursor) FetchInt32() (int32, error) {
	d, err := c.FetchDword()
	return int32(d), err
}

// FetchString reads a NUL terminated string and advances past the terminator.
func (c *Cursor) FetchString() (string, error) {
	if c.prog == nil {
		return "", ErrNoProgram
	}
	data := c.prog.data
	for i := int(c.pos); i < len(data); i++ {
		if data[i] == 0 {
			s := string(data[c.pos:i])
			c.pos = uint32(i) + 1
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: unterminated string at offset %d of '%s'", ErrOutOfBounds, c.pos, c.prog.name)
}

// FetchBytes reads n raw bytes.
func (c *Cursor) FetchBytes(n int) ([]byte, error) {
	b, err := c.span(n)
	if err != nil {
		return nil, err
	}
	c.pos += uint32(n)
	return b, nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) error {
	if _, err := c.span(n); err != nil {
		return err
	}
	c.pos += uint32(n)
	return nil
}

// Seek sets the cursor to an offset of the active program. The end of the
// program is a valid position, fetching from it fails.
func (c *Cursor) Seek(offset uint32) error {
	if c.prog == nil {
		return ErrNoProgram
	}
	if int(offset) > len(c.prog.data) {
		return fmt.Errorf("%w: seeking to offset %d of '%s' (size %d)",
			ErrOutOfBounds, offset, c.prog.name, len(c.prog.data))
	}
	c.pos = offset
	return nil
}

// Call pushes the current position and continues at the offset of the given
// program, or of the active program if prog is nil.
func (c *Cursor) Call(prog *Program, offset uint32) error {
	if len(c.frames) >= c.maxDepth {
		return fmt.Errorf("%w: depth %d", ErrStackOverflow, c.maxDepth)
	}
	if prog == nil {
		prog = c.prog
	}
	if prog == nil {
		return ErrNoProgram
	}
	if int(offset) > len(prog.data) {
		return fmt.Errorf("%w: call to offset %d of '%s' (size %d)", ErrOutOfBounds, offset, prog.name, len(prog.data))
	}

	c.frames = append(c.frames, Frame{Program: c.prog, Offset: c.pos})
	c.prog = prog
	c.pos = offset
	return nil
}

// Push pushes a frame without changing the position. A frame with a nil
// program marks the bottom of an interpreter run.
func (c *Cursor) Push(frame Frame) error {
	if len(c.frames) >= c.maxDepth {
		return fmt.Errorf("%w: depth %d", ErrStackOverflow, c.maxDepth)
	}
	c.frames = append(c.frames, frame)
	return nil
}

// Ret pops the last frame and continues at its return address. The popped
// frame is returned so that callers can detect marker frames.
func (c *Cursor) Ret() (Frame, error) {
	if len(c.frames) == 0 {
		return Frame{}, ErrStackUnderflow
	}
	frame := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	if frame.Program != nil {
		c.prog = frame.Program
		c.pos = frame.Offset
	}
	return frame, nil
}
