package expr

import (
	"fmt"
	"strings"
)

// apply combines two operands. Integer arithmetic wraps around at 32 bits.
func apply(op byte, a, b Value) (Value, error) {
	switch op {
	case Add:
		if a.Kind == KindString || b.Kind == KindString {
			x, err := a.AsString()
			if err != nil {
				return Value{}, err
			}
			y, err := b.AsString()
			if err != nil {
				return Value{}, err
			}
			return String(x + y), nil
		}
		return arithmetic(op, a, b)

	case Sub, BitOr, Mul, Div, Mod, BitAnd:
		return arithmetic(op, a, b)

	case And, Or:
		x, err := a.Truth()
		if err != nil {
			return Value{}, err
		}
		y, err := b.Truth()
		if err != nil {
			return Value{}, err
		}
		if op == And {
			return Bool(x && y), nil
		}
		return Bool(x || y), nil

	case Less, LessEq, Greater, GreatEq, Equal, NotEq:
		return compare(op, a, b)

	default:
		return Value{}, fmt.Errorf("%w: operator %d", ErrInvalidToken, op)
	}
}

func arithmetic(op byte, a, b Value) (Value, error) {
	x, err := a.AsInt()
	if err != nil {
		return Value{}, err
	}
	y, err := b.AsInt()
	if err != nil {
		return Value{}, err
	}

	switch op {
	case Add:
		return Int(x + y), nil
	case Sub:
		return Int(x - y), nil
	case BitOr:
		return Int(x | y), nil
	case Mul:
		return Int(x * y), nil
	case BitAnd:
		return Int(x & y), nil
	case Div:
		if y == 0 {
			return Value{}, ErrDivideByZero
		}
		return Int(x / y), nil
	default: // Mod
		if y == 0 {
			return Value{}, ErrDivideByZero
		}
		return Int(x % y), nil
	}
}

func compare(op byte, a, b Value) (Value, error) {
	var cmp int
	switch {
	case a.Kind == KindString && b.Kind == KindString:
		cmp = strings.Compare(a.Str, b.Str)

	case a.Kind == KindString || b.Kind == KindString:
		return Value{}, fmt.Errorf("%w: comparing %s with %s", ErrTypeMismatch, a.Kind, b.Kind)

	default:
		x, _ := a.AsInt()
		y, _ := b.AsInt()
		switch {
		case x < y:
			cmp = -1
		case x > y:
			cmp = 1
		}
	}

	switch op {
	case Less:
		return Bool(cmp < 0), nil
	case LessEq:
		return Bool(cmp <= 0), nil
	case Greater:
		return Bool(cmp > 0), nil
	case GreatEq:
		return Bool(cmp >= 0), nil
	case Equal:
		return Bool(cmp == 0), nil
	default: // NotEq
		return Bool(cmp != 0), nil
	}
}
