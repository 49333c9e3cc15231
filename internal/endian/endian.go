// Package endian contains the byte order policies used for script bytecode,
// the variable store and save files.
package endian

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Endianness is a concrete byte order.
// The values are stored in save files, reordering them invalidates saves.
type Endianness uint8

const (
	LittleEndian Endianness = iota
	BigEndian
)

// Method is the policy that decides the byte order of multi byte values.
// The values are stored in save files, reordering them invalidates saves.
type Method uint8

const (
	MethodLE      Method = iota // always little endian
	MethodBE                    // always big endian
	MethodSystem                // follows the host byte order
	MethodAltFile               // byte order recorded in an alternate file, for example a save
)

// ByteOrder returns the encoding/binary byte order for the endianness.
func (e Endianness) ByteOrder() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Valid returns whether the endianness is one of the known values.
func (e Endianness) Valid() bool {
	return e == LittleEndian || e == BigEndian
}

func (e Endianness) String() string {
	switch e {
	case LittleEndian:
		return "le"
	case BigEndian:
		return "be"
	default:
		return fmt.Sprintf("endianness(%d)", uint8(e))
	}
}

// Host returns the byte order of the machine running the interpreter.
func Host() Endianness {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	if b[0] == 1 {
		return LittleEndian
	}
	return BigEndian
}

// Resolve returns the effective endianness of the method. The base endianness
// is used by the alternate file method until a file re-tags it.
func (m Method) Resolve(base Endianness) Endianness {
	switch m {
	case MethodBE:
		return BigEndian
	case MethodSystem:
		return Host()
	case MethodAltFile:
		return base
	default:
		return LittleEndian
	}
}

func (m Method) String() string {
	switch m {
	case MethodLE:
		return "le"
	case MethodBE:
		return "be"
	case MethodSystem:
		return "system"
	case MethodAltFile:
		return "altfile"
	default:
		return fmt.Sprintf("method(%d)", uint8(m))
	}
}

// ParseEndianness parses a byte order name like "le" or "big".
func ParseEndianness(s string) (Endianness, error) {
	switch strings.ToLower(s) {
	case "le", "little", "little-endian":
		return LittleEndian, nil
	case "be", "big", "big-endian":
		return BigEndian, nil
	default:
		return 0, fmt.Errorf("unsupported endianness '%s'", s)
	}
}

// ParseMethod parses an endianness method name.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "le", "little":
		return MethodLE, nil
	case "be", "big":
		return MethodBE, nil
	case "system", "host":
		return MethodSystem, nil
	case "altfile", "alt":
		return MethodAltFile, nil
	default:
		return 0, fmt.Errorf("unsupported endianness method '%s'", s)
	}
}
