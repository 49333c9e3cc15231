package expr

import (
	"fmt"
	"strconv"
)

// Kind is the type of an expression value.
type Kind uint8

const (
	KindInt Kind = iota
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Value is the result of an expression evaluation.
type Value struct {
	Kind Kind
	Int  int32
	Str  string
	Bool bool
}

// Int returns an integer value.
func Int(v int32) Value {
	return Value{Kind: KindInt, Int: v}
}

// String returns a string value.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// AsInt returns the numeric value. Booleans convert to 0 or 1.
func (v Value) AsInt() (int32, error) {
	switch v.Kind {
	case KindInt:
		return v.Int, nil
	case KindBool:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: expected number, got %s", ErrTypeMismatch, v.Kind)
	}
}

// Truth returns the logical value. Numbers are true when not zero.
func (v Value) Truth() (bool, error) {
	switch v.Kind {
	case KindBool:
		return v.Bool, nil
	case KindInt:
		return v.Int != 0, nil
	default:
		return false, fmt.Errorf("%w: expected condition, got %s", ErrTypeMismatch, v.Kind)
	}
}

// AsString returns the string value.
func (v Value) AsString() (string, error) {
	if v.Kind != KindString {
		return "", fmt.Errorf("%w: expected string, got %s", ErrTypeMismatch, v.Kind)
	}
	return v.Str, nil
}

func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return strconv.Quote(v.Str)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return strconv.FormatInt(int64(v.Int), 10)
	}
}
