// Package assembler assembles script bytecode and TOT files. It is used to
// build test programs and by tools that patch small scripts.
package assembler

import (
	"encoding/binary"
	"fmt"

	"github.com/retroenv/retrogob/internal/expr"
	"github.com/retroenv/retrogob/internal/script"
)

type fixup struct {
	pos   int
	label string
}

// Builder appends bytecode and resolves label references.
type Builder struct {
	order  binary.ByteOrder
	base   int
	buf    []byte
	labels map[string]int
	fixups []fixup
}

// New returns a builder writing multi byte operands in the given byte order.
func New(order binary.ByteOrder) *Builder {
	return &Builder{
		order:  order,
		labels: map[string]int{},
	}
}

// Base sets the offset the code is placed at inside the program, label
// references are relative to the program start.
func (b *Builder) Base(offset int) *Builder {
	b.base = offset
	return b
}

// Pos returns the program offset of the next byte.
func (b *Builder) Pos() int {
	return b.base + len(b.buf)
}

// Byte appends raw bytes.
func (b *Builder) Byte(v ...byte) *Builder {
	b.buf = append(b.buf, v...)
	return b
}

// Word appends a 16 bit value.
func (b *Builder) Word(v uint16) *Builder {
	b.buf = b.order.AppendUint16(b.buf, v)
	return b
}

// Dword appends a 32 bit value.
func (b *Builder) Dword(v uint32) *Builder {
	b.buf = b.order.AppendUint32(b.buf, v)
	return b
}

// String appends a NUL terminated string.
func (b *Builder) String(s string) *Builder {
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, 0)
	return b
}

// Label defines a label at the current position.
func (b *Builder) Label(name string) *Builder {
	b.labels[name] = b.Pos()
	return b
}

// Ref appends a 16 bit placeholder for the offset of a label.
func (b *Builder) Ref(label string) *Builder {
	b.fixups = append(b.fixups, fixup{pos: len(b.buf), label: label})
	return b.Word(0)
}

// Int appends an immediate 32 bit operand without terminator.
func (b *Builder) Int(v int32) *Builder {
	return b.Byte(expr.LoadImmInt32).Dword(uint32(v))
}

// Str appends an immediate string operand without terminator.
func (b *Builder) Str(s string) *Builder {
	return b.Byte(expr.LoadImmStr).String(s)
}

// Var8 appends an 8 bit variable operand.
func (b *Builder) Var8(slot uint16) *Builder {
	return b.Byte(expr.LoadVarInt8).Word(slot)
}

// Var16 appends a 16 bit variable operand.
func (b *Builder) Var16(slot uint16) *Builder {
	return b.Byte(expr.LoadVarInt16).Word(slot)
}

// Var32 appends a 32 bit variable operand.
func (b *Builder) Var32(slot uint16) *Builder {
	return b.Byte(expr.LoadVarInt32).Word(slot)
}

// VarStr appends a string variable operand.
func (b *Builder) VarStr(slot uint16) *Builder {
	return b.Byte(expr.LoadVarStr).Word(slot)
}

// Op appends an operator token.
func (b *Builder) Op(tok byte) *Builder {
	return b.Byte(tok)
}

// End terminates an expression.
func (b *Builder) End() *Builder {
	return b.Byte(expr.EndExpr)
}

// IntExpr appends a complete expression of a single number.
func (b *Builder) IntExpr(v int32) *Builder {
	return b.Int(v).End()
}

// StrExpr appends a complete expression of a single string.
func (b *Builder) StrExpr(s string) *Builder {
	return b.Str(s).End()
}

// Bytes resolves all label references and returns the code.
func (b *Builder) Bytes() ([]byte, error) {
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	for _, f := range b.fixups {
		offset, ok := b.labels[f.label]
		if !ok {
			return nil, fmt.Errorf("undefined label '%s'", f.label)
		}
		if offset > 0xFFFF {
			return nil, fmt.Errorf("label '%s' offset %d exceeds 16 bits", f.label, offset)
		}
		b.order.PutUint16(out[f.pos:], uint16(offset))
	}
	return out, nil
}

// Program returns the code wrapped as raw script program.
func (b *Builder) Program(name string) (*script.Program, error) {
	if b.base != 0 {
		return nil, fmt.Errorf("raw program '%s' requires base 0, got %d", name, b.base)
	}
	code, err := b.Bytes()
	if err != nil {
		return nil, err
	}
	return script.New(name, code), nil
}
