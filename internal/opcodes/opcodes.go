// Package opcodes contains the data driven opcode tables that map the opcode
// bytes of a game release to handler identities.
package opcodes

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogob/internal/variant"
	"github.com/retroenv/retrogolib/set"
)

// ErrUnknownOpcode is returned for an opcode that the active table does not map.
var ErrUnknownOpcode = errors.New("unknown opcode")

// Category is an opcode namespace.
type Category uint8

const (
	Func Category = iota
	Draw
	Goblin

	categoryCount
)

func (c Category) String() string {
	switch c {
	case Func:
		return "func"
	case Draw:
		return "draw"
	case Goblin:
		return "goblin"
	default:
		return fmt.Sprintf("category(%d)", c)
	}
}

// Unknown opcodes are skipped over this number of operand bytes.
const (
	FuncSkipLength   = 2
	DrawSkipLength   = 0
	GoblinSkipLength = 0
)

type entry struct {
	op      byte
	handler Handler
}

// revision lists the opcodes a generation introduces.
type revision struct {
	generation int
	funcs      []entry
	draws      []entry
	goblins    []entry
}

// Table is an immutable opcode mapping for one game release.
type Table struct {
	handlers [categoryCount][256]Handler
	skip     [categoryCount]int
	present  set.Set[Handler]
	count    int
}

// Option adjusts a table while it is built.
type Option func(*Table)

// WithSkipLength overrides the unknown opcode operand length of a category.
func WithSkipLength(cat Category, length int) Option {
	return func(t *Table) {
		t.skip[cat] = length
	}
}

// Build creates the opcode table for a game release by layering the opcodes
// of all generations up to the release generation and applying feature
// specific replacements.
func Build(v variant.Variant, options ...Option) (*Table, error) {
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("building opcode table: %w", err)
	}

	t := &Table{
		skip: [categoryCount]int{
			Func:   FuncSkipLength,
			Draw:   DrawSkipLength,
			Goblin: GoblinSkipLength,
		},
		present: set.New[Handler](),
	}

	gen := v.Generation()
	for _, s := range generations {
		if s.generation > gen {
			break
		}
		t.apply(Func, s.funcs)
		t.apply(Draw, s.draws)
		t.apply(Goblin, s.goblins)
	}

	if gen >= 5 {
		t.handlers[Goblin] = [256]Handler{}
		t.remove(Func, GoblinFunc)
	}
	if v.IsEGA() {
		t.replace(Func, PalLoad, PalLoadEGA)
		t.replace(Func, AnimPalInit, AnimPalInitEGA)
		t.replace(Func, AnimatePalette, AnimatePaletteEGA)
	}
	if v.IsDemo() {
		t.replace(Func, LoadTot, LoadTotDemo)
	}
	if v.IsCD() {
		t.apply(Func, []entry{{0x25, PlayCDTrack}})
	}
	if !v.HasAdLib() {
		t.replace(Func, PlayMusic, SkipMusic)
	}
	if v.IsTrueColor() {
		t.replace(Func, FillRect, FillRectTrueColor)
		t.replace(Func, DrawLine, DrawLineTrueColor)
		t.replace(Func, PutPixel, PutPixelTrueColor)
	}

	for _, opt := range options {
		opt(t)
	}

	t.index()
	return t, nil
}

func (t *Table) apply(cat Category, entries []entry) {
	for _, e := range entries {
		t.handlers[cat][e.op] = e.handler
	}
}

func (t *Table) replace(cat Category, from, to Handler) {
	for op, h := range t.handlers[cat] {
		if h == from {
			t.handlers[cat][op] = to
		}
	}
}

func (t *Table) remove(cat Category, h Handler) {
	t.replace(cat, h, Unknown)
}

func (t *Table) index() {
	for cat := range t.handlers {
		for _, h := range t.handlers[cat] {
			if h != Unknown && !t.present.Contains(h) {
				t.present.Add(h)
				t.count++
			}
		}
	}
}

// Resolve returns the handler of an opcode.
func (t *Table) Resolve(cat Category, op byte) (Handler, bool) {
	if cat >= categoryCount {
		return Unknown, false
	}
	h := t.handlers[cat][op]
	return h, h != Unknown
}

// SkipLength returns the operand length skipped for unknown opcodes of a category.
func (t *Table) SkipLength(cat Category) int {
	if cat >= categoryCount {
		return 0
	}
	return t.skip[cat]
}

// Handlers returns the set of handlers present in the table.
func (t *Table) Handlers() set.Set[Handler] {
	return t.present
}

// Has returns whether the table maps any opcode to the handler.
func (t *Table) Has(h Handler) bool {
	return t.present.Contains(h)
}

// Count returns the number of distinct handlers in the table.
func (t *Table) Count() int {
	return t.count
}

// Opcodes returns the opcode bytes of a category that map to a handler,
// in ascending order.
func (t *Table) Opcodes(cat Category) []byte {
	if cat >= categoryCount {
		return nil
	}
	var ops []byte
	for op, h := range t.handlers[cat] {
		if h != Unknown {
			ops = append(ops, byte(op))
		}
	}
	return ops
}
