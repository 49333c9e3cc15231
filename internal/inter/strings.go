package inter

import (
	"strings"

	"github.com/retroenv/retrogob/internal/expr"
)

// atoi parses a leading decimal number, text without digits yields 0.
func atoi(s string) int32 {
	s = strings.TrimLeft(s, " \t")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var n int32
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int32(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func (in *Interpreter) strToLong() error {
	_, s, err := in.evalVarRefString()
	if err != nil {
		return err
	}
	dest, err := in.eval.ReadVarRef(in.cursor)
	if err != nil {
		return err
	}
	return in.eval.AssignInt(dest, atoi(s))
}

// cleanupStr removes leading and trailing spaces and collapses inner runs.
func (in *Interpreter) cleanupStr() error {
	ref, s, err := in.evalVarRefString()
	if err != nil {
		return err
	}
	return in.eval.Assign(ref, expr.String(strings.Join(strings.Fields(s), " ")))
}

func (in *Interpreter) insertStr() error {
	ref, s, err := in.evalVarRefString()
	if err != nil {
		return err
	}
	pos, err := in.eval.EvalInt(in.cursor)
	if err != nil {
		return err
	}
	text, err := in.eval.EvalString(in.cursor)
	if err != nil {
		return err
	}

	p := clamp(int(pos), 0, len(s))
	return in.eval.Assign(ref, expr.String(s[:p]+text+s[p:]))
}

func (in *Interpreter) cutStr() error {
	ref, s, err := in.evalVarRefString()
	if err != nil {
		return err
	}
	values, err := in.ints(2)
	if err != nil {
		return err
	}

	start := clamp(values[0], 0, len(s))
	end := clamp(start+values[1], start, len(s))
	return in.eval.Assign(ref, expr.String(s[:start]+s[end:]))
}

// strStr stores the 1 based position of the needle, or 0 if not found.
func (in *Interpreter) strStr() error {
	_, s, err := in.evalVarRefString()
	if err != nil {
		return err
	}
	needle, err := in.eval.EvalString(in.cursor)
	if err != nil {
		return err
	}
	dest, err := in.eval.ReadVarRef(in.cursor)
	if err != nil {
		return err
	}
	return in.eval.AssignInt(dest, int32(strings.Index(s, needle)+1))
}

func (in *Interpreter) strLen() error {
	_, s, err := in.evalVarRefString()
	if err != nil {
		return err
	}
	dest, err := in.eval.ReadVarRef(in.cursor)
	if err != nil {
		return err
	}
	return in.eval.AssignInt(dest, int32(len(s)))
}
