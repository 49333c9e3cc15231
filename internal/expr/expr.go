// Package expr evaluates the operator tagged expressions embedded in the
// script bytecode and resolves assignment targets in the variable store.
package expr

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogob/internal/script"
	"github.com/retroenv/retrogob/internal/variables"
)

// Token bytes of the expression encoding.
const (
	Neg       byte = 1
	Add       byte = 2
	Sub       byte = 3
	BitOr     byte = 4
	Mul       byte = 5
	Div       byte = 6
	Mod       byte = 7
	BitAnd    byte = 8
	BeginExpr byte = 9
	EndExpr   byte = 10
	Not       byte = 11
	EndMarker byte = 12
	SubStr    byte = 13

	ArrayInt8        byte = 16
	LoadVarInt16     byte = 17
	LoadVarInt8      byte = 18
	LoadImmInt32     byte = 19
	LoadImmInt16     byte = 20
	LoadImmInt8      byte = 21
	LoadImmStr       byte = 22
	LoadVarInt32     byte = 23
	LoadVarInt32As16 byte = 24
	LoadVarStr       byte = 25
	ArrayInt32       byte = 26
	ArrayInt16       byte = 27
	ArrayStr         byte = 28
	Func             byte = 29

	Or      byte = 30
	And     byte = 31
	Less    byte = 32
	LessEq  byte = 33
	Greater byte = 34
	GreatEq byte = 35
	Equal   byte = 36
	NotEq   byte = 37
)

// Function ids of the FUNC token.
const (
	FuncSqrt1 byte = 0
	FuncSqrt2 byte = 1
	FuncSqr   byte = 5
	FuncSqrt3 byte = 6
	FuncAbs   byte = 7
	FuncRand  byte = 10
)

var (
	// ErrTypeMismatch is returned when numeric and string operands are mixed.
	ErrTypeMismatch = errors.New("operand type mismatch")
	// ErrDivideByZero is returned for a division or modulo by zero.
	ErrDivideByZero = errors.New("division by zero")
	// ErrInvalidToken is returned for a byte that is not valid at its position.
	ErrInvalidToken = errors.New("invalid expression token")
	// ErrUnknownFunction is returned for an unsupported FUNC id.
	ErrUnknownFunction = errors.New("unknown expression function")
)

// Random is the source of the random function.
type Random interface {
	IntN(n int) int
}

// Evaluator evaluates expressions against a variable store.
type Evaluator struct {
	vars *variables.Store
	rnd  Random
}

// NewEvaluator returns an evaluator reading and writing the given store.
func NewEvaluator(vars *variables.Store, rnd Random) *Evaluator {
	return &Evaluator{
		vars: vars,
		rnd:  rnd,
	}
}

// Eval evaluates an expression terminated by END_EXPR at the cursor.
func (e *Evaluator) Eval(c *script.Cursor) (Value, error) {
	return e.sequence(c, EndExpr)
}

// EvalInt evaluates a numeric expression.
func (e *Evaluator) EvalInt(c *script.Cursor) (int32, error) {
	v, err := e.Eval(c)
	if err != nil {
		return 0, err
	}
	return v.AsInt()
}

// EvalBool evaluates a condition.
func (e *Evaluator) EvalBool(c *script.Cursor) (bool, error) {
	v, err := e.Eval(c)
	if err != nil {
		return false, err
	}
	return v.Truth()
}

// EvalString evaluates a string expression.
func (e *Evaluator) EvalString(c *script.Cursor) (string, error) {
	v, err := e.Eval(c)
	if err != nil {
		return "", err
	}
	return v.AsString()
}

// sequence reads operands joined by binary operators until the terminator
// and folds them by operator precedence. All operands are evaluated, there
// is no short circuit evaluation.
func (e *Evaluator) sequence(c *script.Cursor, terminator byte) (Value, error) {
	first, err := e.operand(c)
	if err != nil {
		return Value{}, err
	}
	values := []Value{first}
	var ops []byte

	for {
		start := c.Pos()
		tok, err := c.FetchByte()
		if err != nil {
			return Value{}, err
		}
		if tok == terminator {
			break
		}
		prec, ok := precedence(tok)
		if !ok {
			return Value{}, fmt.Errorf("%w: %d at offset %d, expected operator", ErrInvalidToken, tok, start)
		}

		for len(ops) > 0 {
			top, _ := precedence(ops[len(ops)-1])
			if top < prec {
				break
			}
			if values, ops, err = reduce(values, ops); err != nil {
				return Value{}, err
			}
		}

		operand, err := e.operand(c)
		if err != nil {
			return Value{}, err
		}
		ops = append(ops, tok)
		values = append(values, operand)
	}

	for len(ops) > 0 {
		if values, ops, err = reduce(values, ops); err != nil {
			return Value{}, err
		}
	}
	return values[0], nil
}

func precedence(tok byte) (int, bool) {
	switch tok {
	case Mul, Div, Mod, BitAnd:
		return 4, true
	case Add, Sub, BitOr:
		return 3, true
	case Less, LessEq, Greater, GreatEq, Equal, NotEq:
		return 2, true
	case And:
		return 1, true
	case Or:
		return 0, true
	default:
		return 0, false
	}
}

func reduce(values []Value, ops []byte) ([]Value, []byte, error) {
	n := len(values)
	result, err := apply(ops[len(ops)-1], values[n-2], values[n-1])
	if err != nil {
		return nil, nil, err
	}
	values = append(values[:n-2], result)
	return values, ops[:len(ops)-1], nil
}

func (e *Evaluator) operand(c *script.Cursor) (Value, error) {
	start := c.Pos()
	tok, err := c.FetchByte()
	if err != nil {
		return Value{}, err
	}

	switch tok {
	case Neg:
		v, err := e.operand(c)
		if err != nil {
			return Value{}, err
		}
		i, err := v.AsInt()
		if err != nil {
			return Value{}, err
		}
		return Int(-i), nil

	case Not:
		v, err := e.operand(c)
		if err != nil {
			return Value{}, err
		}
		b, err := v.Truth()
		if err != nil {
			return Value{}, err
		}
		return Bool(!b), nil

	case BeginExpr:
		return e.sequence(c, EndExpr)

	case LoadImmInt32:
		v, err := c.FetchInt32()
		return Int(v), err

	case LoadImmInt16:
		v, err := c.FetchInt16()
		return Int(int32(v)), err

	case LoadImmInt8:
		v, err := c.FetchInt8()
		return Int(int32(v)), err

	case LoadImmStr:
		s, err := c.FetchString()
		return String(s), err

	case Func:
		return e.function(c)

	case ArrayInt8, LoadVarInt16, LoadVarInt8, LoadVarInt32, LoadVarInt32As16, LoadVarStr,
		ArrayInt32, ArrayInt16, ArrayStr:
		ref, err := e.varRef(c, tok)
		if err != nil {
			return Value{}, err
		}
		return e.Load(ref)

	default:
		return Value{}, fmt.Errorf("%w: %d at offset %d, expected operand", ErrInvalidToken, tok, start)
	}
}

func (e *Evaluator) function(c *script.Cursor) (Value, error) {
	id, err := c.FetchByte()
	if err != nil {
		return Value{}, err
	}
	arg, err := e.sequence(c, EndExpr)
	if err != nil {
		return Value{}, err
	}
	n, err := arg.AsInt()
	if err != nil {
		return Value{}, err
	}

	switch id {
	case FuncSqrt1, FuncSqrt2, FuncSqrt3:
		return Int(isqrt(n)), nil
	case FuncSqr:
		return Int(n * n), nil
	case FuncAbs:
		if n < 0 {
			n = -n
		}
		return Int(n), nil
	case FuncRand:
		if n <= 0 || e.rnd == nil {
			return Int(0), nil
		}
		return Int(int32(e.rnd.IntN(int(n)))), nil
	default:
		return Value{}, fmt.Errorf("%w: %d", ErrUnknownFunction, id)
	}
}

// isqrt returns the integer square root, negative numbers yield 0.
func isqrt(n int32) int32 {
	if n <= 0 {
		return 0
	}
	v := int64(n)
	x := v
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + v/x) / 2
	}
	return int32(x)
}
