// Package variables implements the flat byte addressable variable store that
// scripts read and write through typed accessors.
//
// Variables are addressed either by raw byte offset or by symbolic index,
// which the store layout resolves to an offset. Multi byte values are encoded
// using the effective endianness of the store. Accesses of different widths
// may overlap, scripts rely on that.
package variables

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/retroenv/retrogob/internal/endian"
)

// ErrOutOfBounds is returned for an access outside of the store.
var ErrOutOfBounds = errors.New("variable access out of bounds")

// DefaultStride is the byte distance between two symbolic variables.
const DefaultStride = 4

// Layout maps symbolic variable indexes to byte offsets.
type Layout struct {
	Stride uint32
	Fixed  map[uint32]uint32 // explicit offsets that take precedence over the stride
}

// Offset returns the byte offset of a symbolic variable.
func (l Layout) Offset(index uint32) uint32 {
	if off, ok := l.Fixed[index]; ok {
		return off
	}
	stride := l.Stride
	if stride == 0 {
		stride = DefaultStride
	}
	return index * stride
}

// Option configures a store.
type Option func(*Store)

// WithLayout sets the symbolic variable layout.
func WithLayout(layout Layout) Option {
	return func(s *Store) {
		s.layout = layout
	}
}

// Store is the variable memory of the interpreter.
type Store struct {
	data       []byte
	endianness endian.Endianness
	order      binary.ByteOrder
	layout     Layout
}

// New returns a zeroed store of the given size in bytes.
func New(size int, e endian.Endianness, options ...Option) *Store {
	s := &Store{
		data:   make([]byte, size),
		layout: Layout{Stride: DefaultStride},
	}
	s.SetEndianness(e)
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Size returns the size of the store in bytes.
func (s *Store) Size() int {
	return len(s.data)
}

// Endianness returns the effective byte order of the store.
func (s *Store) Endianness() endian.Endianness {
	return s.endianness
}

// SetEndianness re-tags the byte order used by all following numeric accesses.
// The stored bytes are not modified.
func (s *Store) SetEndianness(e endian.Endianness) {
	s.endianness = e
	s.order = e.ByteOrder()
}

// Layout returns the symbolic variable layout.
func (s *Store) Layout() Layout {
	return s.layout
}

// VarOffset returns the byte offset of a symbolic variable.
func (s *Store) VarOffset(index uint32) uint32 {
	return s.layout.Offset(index)
}

func (s *Store) check(offset uint32, width int) error {
	if uint64(offset)+uint64(width) > uint64(len(s.data)) {
		return fmt.Errorf("%w: offset %d width %d size %d", ErrOutOfBounds, offset, width, len(s.data))
	}
	return nil
}

// ReadOff8 reads the byte at the offset.
func (s *Store) ReadOff8(offset uint32) (uint8, error) {
	if err := s.check(offset, 1); err != nil {
		return 0, err
	}
	return s.data[offset], nil
}

// ReadOff16 reads a 16 bit value at the offset.
func (s *Store) ReadOff16(offset uint32) (uint16, error) {
	if err := s.check(offset, 2); err != nil {
		return 0, err
	}
	return s.order.Uint16(s.data[offset:]), nil
}

// ReadOff32 reads a 32 bit value at the offset.
func (s *Store) ReadOff32(offset uint32) (uint32, error) {
	if err := s.check(offset, 4); err != nil {
		return 0, err
	}
	return s.order.Uint32(s.data[offset:]), nil
}

// WriteOff8 writes a byte at the offset.
func (s *Store) WriteOff8(offset uint32, value uint8) error {
	if err := s.check(offset, 1); err != nil {
		return err
	}
	s.data[offset] = value
	return nil
}

// WriteOff16 writes a 16 bit value at the offset.
func (s *Store) WriteOff16(offset uint32, value uint16) error {
	if err := s.check(offset, 2); err != nil {
		return err
	}
	s.order.PutUint16(s.data[offset:], value)
	return nil
}

// WriteOff32 writes a 32 bit value at the offset.
func (s *Store) WriteOff32(offset uint32, value uint32) error {
	if err := s.check(offset, 4); err != nil {
		return err
	}
	s.order.PutUint32(s.data[offset:], value)
	return nil
}

// ReadVar8 reads the byte of a symbolic variable.
func (s *Store) ReadVar8(index uint32) (uint8, error) {
	return s.ReadOff8(s.layout.Offset(index))
}

// ReadVar16 reads a 16 bit symbolic variable.
func (s *Store) ReadVar16(index uint32) (uint16, error) {
	return s.ReadOff16(s.layout.Offset(index))
}

// ReadVar32 reads a 32 bit symbolic variable.
func (s *Store) ReadVar32(index uint32) (uint32, error) {
	return s.ReadOff32(s.layout.Offset(index))
}

// WriteVar8 writes the byte of a symbolic variable.
func (s *Store) WriteVar8(index uint32, value uint8) error {
	return s.WriteOff8(s.layout.Offset(index), value)
}

// WriteVar16 writes a 16 bit symbolic variable.
func (s *Store) WriteVar16(index uint32, value uint16) error {
	return s.WriteOff16(s.layout.Offset(index), value)
}

// WriteVar32 writes a 32 bit symbolic variable.
func (s *Store) WriteVar32(index uint32, value uint32) error {
	return s.WriteOff32(s.layout.Offset(index), value)
}

// ReadOffString reads a NUL terminated string at the offset. Reading stops at
// the terminator, after capacity bytes if capacity is positive, or at the end
// of the store.
func (s *Store) ReadOffString(offset uint32, capacity int) (string, error) {
	if err := s.check(offset, 0); err != nil {
		return "", err
	}
	end := len(s.data)
	if capacity > 0 && int(offset)+capacity < end {
		end = int(offset) + capacity
	}
	buf := s.data[offset:end]
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i]), nil
		}
	}
	return string(buf), nil
}

// WriteOffString writes the text followed by a NUL terminator at the offset.
// A positive capacity includes the terminator and truncates longer texts.
func (s *Store) WriteOffString(offset uint32, text string, capacity int) error {
	if capacity > 0 && len(text) >= capacity {
		text = text[:capacity-1]
	}
	if err := s.check(offset, len(text)+1); err != nil {
		return err
	}
	n := copy(s.data[offset:], text)
	s.data[int(offset)+n] = 0
	return nil
}

// ReadVarString reads the string stored at a symbolic variable.
func (s *Store) ReadVarString(index uint32, capacity int) (string, error) {
	return s.ReadOffString(s.layout.Offset(index), capacity)
}

// WriteVarString writes a string at a symbolic variable.
func (s *Store) WriteVarString(index uint32, text string, capacity int) error {
	return s.WriteOffString(s.layout.Offset(index), text, capacity)
}

// ReadBytes returns a copy of n raw bytes at the offset.
func (s *Store) ReadBytes(offset uint32, n int) ([]byte, error) {
	if err := s.check(offset, n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	copy(buf, s.data[offset:])
	return buf, nil
}

// WriteBytes copies raw bytes to the offset.
func (s *Store) WriteBytes(offset uint32, data []byte) error {
	if err := s.check(offset, len(data)); err != nil {
		return err
	}
	copy(s.data[offset:], data)
	return nil
}

// Snapshot returns a copy of the whole store content.
func (s *Store) Snapshot() []byte {
	buf := make([]byte, len(s.data))
	copy(buf, s.data)
	return buf
}

// Restore replaces the store content. The size has to match, otherwise the
// store is left untouched.
func (s *Store) Restore(data []byte) error {
	if len(data) != len(s.data) {
		return fmt.Errorf("restoring %d bytes into store of size %d", len(data), len(s.data))
	}
	copy(s.data, data)
	return nil
}

// Clear zeroes the store.
func (s *Store) Clear() {
	clear(s.data)
}
