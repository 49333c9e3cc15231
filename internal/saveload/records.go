package saveload

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-restruct/restruct"
)

// Encoder appends little endian packed records to a fragment payload.
type Encoder struct {
	buf []byte
	err error
}

// Write packs a record, the first error is kept and returned by Bytes.
func (e *Encoder) Write(v any) {
	if e.err != nil {
		return
	}
	b, err := restruct.Pack(binary.LittleEndian, v)
	if err != nil {
		e.err = fmt.Errorf("packing %T: %w", v, err)
		return
	}
	e.buf = append(e.buf, b...)
}

// Raw appends bytes as they are.
func (e *Encoder) Raw(b []byte) {
	if e.err == nil {
		e.buf = append(e.buf, b...)
	}
}

// Int16 converts a value for a signed 16 bit field, a value outside of the
// field range fails the encoding.
func (e *Encoder) Int16(v int) int16 {
	e.check(CheckInt16(v))
	return int16(v)
}

// Uint16 converts a value for an unsigned 16 bit field.
func (e *Encoder) Uint16(v int) uint16 {
	e.check(CheckUint16(v))
	return uint16(v)
}

// Uint8 converts a value for an unsigned 8 bit field.
func (e *Encoder) Uint8(v int) uint8 {
	if v < 0 || v > math.MaxUint8 {
		e.check(fmt.Errorf("%w: %d does not fit 8 bits", ErrOutOfRange, v))
	}
	return uint8(v)
}

func (e *Encoder) check(err error) {
	if e.err == nil && err != nil {
		e.err = err
	}
}

// Bytes returns the payload.
func (e *Encoder) Bytes() ([]byte, error) {
	return e.buf, e.err
}

// Decoder reads packed records from a fragment payload. The available data
// is checked before every record, truncated payloads fail with ErrCorrupt.
type Decoder struct {
	data []byte
	pos  int
	err  error
}

// NewDecoder returns a decoder over a payload.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Read unpacks the next record into v, which has to be a pointer to a
// fixed size record.
func (d *Decoder) Read(v any) {
	if d.err != nil {
		return
	}
	size, err := restruct.SizeOf(v)
	if err != nil {
		d.err = fmt.Errorf("sizing %T: %w", v, err)
		return
	}
	if d.pos+size > len(d.data) {
		d.err = fmt.Errorf("%w: record %T needs %d bytes at offset %d of %d", ErrCorrupt, v, size, d.pos, len(d.data))
		return
	}
	if err := restruct.Unpack(d.data[d.pos:d.pos+size], binary.LittleEndian, v); err != nil {
		d.err = fmt.Errorf("%w: unpacking %T: %v", ErrCorrupt, v, err)
		return
	}
	d.pos += size
}

// Raw returns the next n bytes.
func (d *Decoder) Raw(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.pos+n > len(d.data) {
		d.err = fmt.Errorf("%w: %d bytes at offset %d of %d", ErrCorrupt, n, d.pos, len(d.data))
		return nil
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b
}

// Err returns the first decoding error.
func (d *Decoder) Err() error {
	return d.err
}

// CheckInt16 returns ErrOutOfRange if a value does not fit a signed 16 bit
// record field.
func CheckInt16(values ...int) error {
	for _, v := range values {
		if v < math.MinInt16 || v > math.MaxInt16 {
			return fmt.Errorf("%w: %d does not fit 16 bits", ErrOutOfRange, v)
		}
	}
	return nil
}

// CheckUint16 returns ErrOutOfRange if a value does not fit an unsigned 16
// bit record field.
func CheckUint16(values ...int) error {
	for _, v := range values {
		if v < 0 || v > math.MaxUint16 {
			return fmt.Errorf("%w: %d does not fit 16 bits", ErrOutOfRange, v)
		}
	}
	return nil
}
