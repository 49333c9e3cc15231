package expr

import (
	"fmt"

	"github.com/retroenv/retrogob/internal/script"
	"github.com/retroenv/retrogob/internal/variables"
)

// VarKind is the access width of a variable reference.
type VarKind uint8

const (
	Var8 VarKind = iota
	Var16
	Var32
	VarString
)

// VarRef is a resolved variable location in the store.
type VarRef struct {
	Offset   uint32
	Kind     VarKind
	Capacity int // string capacity including the terminator, 0 is unbounded
}

// ReadVarRef decodes an assignment target at the cursor.
func (e *Evaluator) ReadVarRef(c *script.Cursor) (VarRef, error) {
	start := c.Pos()
	tok, err := c.FetchByte()
	if err != nil {
		return VarRef{}, err
	}

	switch tok {
	case ArrayInt8, LoadVarInt16, LoadVarInt8, LoadVarInt32, LoadVarInt32As16, LoadVarStr,
		ArrayInt32, ArrayInt16, ArrayStr:
		return e.varRef(c, tok)
	default:
		return VarRef{}, fmt.Errorf("%w: %d at offset %d, expected variable", ErrInvalidToken, tok, start)
	}
}

// varRef decodes the operands of a variable token. A string variable can be
// followed by a substring index, which moves the reference into the string.
func (e *Evaluator) varRef(c *script.Cursor, tok byte) (VarRef, error) {
	switch tok {
	case ArrayInt8:
		return e.arrayRef(c, Var8, 1)
	case ArrayInt16:
		return e.arrayRef(c, Var16, 2)
	case ArrayInt32:
		return e.arrayRef(c, Var32, 4)
	case ArrayStr:
		return e.stringArrayRef(c)
	}

	slot, err := c.FetchWord()
	if err != nil {
		return VarRef{}, err
	}
	offset := uint32(slot)

	switch tok {
	case LoadVarInt8:
		return VarRef{Offset: offset, Kind: Var8}, nil
	case LoadVarInt16:
		return VarRef{Offset: offset * 2, Kind: Var16}, nil
	case LoadVarInt32:
		return VarRef{Offset: offset * 4, Kind: Var32}, nil
	case LoadVarInt32As16:
		return VarRef{Offset: offset * 4, Kind: Var16}, nil
	}

	ref := VarRef{Offset: offset * 4, Kind: VarString}
	if next, err := c.PeekByte(); err != nil || next != SubStr {
		return ref, nil
	}
	if err := c.Skip(1); err != nil {
		return VarRef{}, err
	}
	index, err := e.sequence(c, EndMarker)
	if err != nil {
		return VarRef{}, err
	}
	i, err := index.AsInt()
	if err != nil {
		return VarRef{}, err
	}
	if i < 0 {
		return VarRef{}, fmt.Errorf("%w: negative substring index %d", variables.ErrOutOfBounds, i)
	}
	ref.Offset += uint32(i)
	return ref, nil
}

// dims reads the dimension sizes and index expressions of an array access
// and returns the row major flat index.
func (e *Evaluator) dims(c *script.Cursor) (uint32, error) {
	count, err := c.FetchByte()
	if err != nil {
		return 0, err
	}
	sizes, err := c.FetchBytes(int(count))
	if err != nil {
		return 0, err
	}

	var flat int64
	for i := range int(count) {
		index, err := e.sequence(c, EndMarker)
		if err != nil {
			return 0, err
		}
		n, err := index.AsInt()
		if err != nil {
			return 0, err
		}
		if n < 0 {
			return 0, fmt.Errorf("%w: negative array index %d", variables.ErrOutOfBounds, n)
		}
		flat = flat*int64(sizes[i]) + int64(n)
	}
	if flat > int64(^uint32(0)) {
		return 0, fmt.Errorf("%w: array index %d", variables.ErrOutOfBounds, flat)
	}
	return uint32(flat), nil
}

func (e *Evaluator) arrayRef(c *script.Cursor, kind VarKind, width uint32) (VarRef, error) {
	base, err := c.FetchWord()
	if err != nil {
		return VarRef{}, err
	}
	flat, err := e.dims(c)
	if err != nil {
		return VarRef{}, err
	}
	return VarRef{Offset: uint32(base)*width + flat*width, Kind: kind}, nil
}

func (e *Evaluator) stringArrayRef(c *script.Cursor) (VarRef, error) {
	base, err := c.FetchWord()
	if err != nil {
		return VarRef{}, err
	}
	size, err := c.FetchByte()
	if err != nil {
		return VarRef{}, err
	}
	flat, err := e.dims(c)
	if err != nil {
		return VarRef{}, err
	}
	return VarRef{
		Offset:   uint32(base)*4 + flat*uint32(size),
		Kind:     VarString,
		Capacity: int(size),
	}, nil
}

// Load reads the value of a variable reference. Numbers narrower than 32
// bits are sign extended.
func (e *Evaluator) Load(ref VarRef) (Value, error) {
	switch ref.Kind {
	case Var8:
		v, err := e.vars.ReadOff8(ref.Offset)
		return Int(int32(int8(v))), err
	case Var16:
		v, err := e.vars.ReadOff16(ref.Offset)
		return Int(int32(int16(v))), err
	case Var32:
		v, err := e.vars.ReadOff32(ref.Offset)
		return Int(int32(v)), err
	default:
		s, err := e.vars.ReadOffString(ref.Offset, ref.Capacity)
		return String(s), err
	}
}

// Assign writes a value to a variable reference, truncating numbers to the
// width of the variable.
func (e *Evaluator) Assign(ref VarRef, v Value) error {
	if ref.Kind == VarString {
		s, err := v.AsString()
		if err != nil {
			return err
		}
		return e.vars.WriteOffString(ref.Offset, s, ref.Capacity)
	}

	i, err := v.AsInt()
	if err != nil {
		return err
	}
	switch ref.Kind {
	case Var8:
		return e.vars.WriteOff8(ref.Offset, uint8(i))
	case Var16:
		return e.vars.WriteOff16(ref.Offset, uint16(i))
	default:
		return e.vars.WriteOff32(ref.Offset, uint32(i))
	}
}

// AssignInt writes a number to a variable reference.
func (e *Evaluator) AssignInt(ref VarRef, v int32) error {
	return e.Assign(ref, Int(v))
}
