package engine

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/retroenv/retrogob/internal/assembler"
	"github.com/retroenv/retrogob/internal/draw"
	"github.com/retroenv/retrogob/internal/expr"
	"github.com/retroenv/retrogob/internal/inter"
	"github.com/retroenv/retrogob/internal/variant"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

var gob2 = variant.New(variant.Gob2, variant.PC, 0)

func code() *assembler.Builder {
	return assembler.NewTotCode()
}

// assign32 appends an assignment of a number to a 32 bit variable slot.
func assign32(b *assembler.Builder, slot uint16, v int32) *assembler.Builder {
	return b.Byte(0x08, expr.LoadVarInt32).Word(slot).IntExpr(v)
}

func newEngine(t *testing.T, l *fakeLoader, options ...Option) *Engine {
	t.Helper()
	options = append([]Option{WithRandom(fixedRandom(3))}, options...)
	e, err := New(log.NewTestLogger(t), gob2, l, options...)
	assert.NoError(t, err)
	return e
}

func read32(t *testing.T, e *Engine, slot uint32) int32 {
	t.Helper()
	v, err := e.Variables().ReadOff32(slot * 4)
	assert.NoError(t, err)
	return int32(v)
}

func TestNew(t *testing.T) {
	l := newFakeLoader()
	_, err := New(log.NewTestLogger(t), gob2, l)
	assert.ErrorContains(t, err, "loading start program")

	l.add(t, "intro.tot", code().Byte(0x07))
	e := newEngine(t, l, WithMinVariables(16))
	assert.Equal(t, 64, e.Variables().Size(), "sized by the program variables count")

	e = newEngine(t, l)
	assert.Equal(t, DefaultMinVariables, e.Variables().Size())
}

func TestSessionSwitchesPrograms(t *testing.T) {
	l := newFakeLoader()
	intro := code()
	assign32(intro, 0, 11).Byte(0x09).String("NEXT.TOT")
	l.add(t, "intro.tot", intro)
	next := code()
	assign32(next, 1, 22).Byte(0x06)
	l.add(t, "next.tot", next)

	e := newEngine(t, l)
	assert.NoError(t, e.Run(context.Background(), ""))
	assert.Equal(t, int32(11), read32(t, e, 0))
	assert.Equal(t, int32(22), read32(t, e, 1))
	assert.Equal(t, []string{"intro.tot", "NEXT.TOT"}, l.loads)
	assert.Equal(t, inter.Halted, e.Interpreter().State())
	assert.Equal(t, 2, e.Frames())
}

func TestDemoEndsSession(t *testing.T) {
	l := newFakeLoader()
	l.add(t, "intro.tot", code().Byte(0x09).String("next.tot"))

	demo := variant.New(variant.Gob2, variant.PC, variant.FeatureDemo)
	e, err := New(log.NewTestLogger(t), demo, l)
	assert.NoError(t, err)
	assert.NoError(t, e.Run(context.Background(), ""))
	assert.Equal(t, []string{"intro.tot"}, l.loads)
}

func TestTimerWait(t *testing.T) {
	l := newFakeLoader()
	b := code().Byte(0x0A).IntExpr(100)
	assign32(b, 0, 1).Byte(0x07)
	l.add(t, "intro.tot", b)

	e := newEngine(t, l)
	assert.NoError(t, e.Run(context.Background(), ""))
	assert.Equal(t, int32(1), read32(t, e, 0))
	assert.True(t, e.Ticks() >= 100, "ticks %d", e.Ticks())
}

func TestInputWait(t *testing.T) {
	l := newFakeLoader()
	b := code().Byte(0x0B, 1, expr.LoadVarInt32).Word(5).Byte(0x07)
	l.add(t, "intro.tot", b)

	e := newEngine(t, l, WithMaxFrames(10))
	err := e.Run(context.Background(), "")
	assert.True(t, errors.Is(err, ErrFrameLimit))
	assert.Equal(t, inter.Suspended, e.Interpreter().State())

	e = newEngine(t, l)
	e.Input.Push(0x1c0d)
	assert.NoError(t, e.Run(context.Background(), ""))
	assert.Equal(t, int32(0x1c0d), read32(t, e, 5))
}

func TestFatalErrorReturned(t *testing.T) {
	l := newFakeLoader()
	b := code().Byte(0x08, expr.LoadVarInt32).Word(0).Int(1).Op(expr.Div).Int(0).End()
	l.add(t, "intro.tot", b)

	e := newEngine(t, l)
	err := e.Run(context.Background(), "")
	var fe *inter.FatalError
	assert.True(t, errors.As(err, &fe), "unexpected error: %v", err)
	assert.True(t, errors.Is(err, expr.ErrDivideByZero))
	assert.Equal(t, "intro.tot", fe.Program)
}

func TestMissingNextProgram(t *testing.T) {
	l := newFakeLoader()
	l.add(t, "intro.tot", code().Byte(0x09).String("gone.tot"))

	e := newEngine(t, l)
	err := e.Run(context.Background(), "")
	assert.ErrorContains(t, err, "gone.tot")
}

func TestFrameLimitAndCancel(t *testing.T) {
	l := newFakeLoader()
	loop := code().Label("loop").Byte(0x01).Ref("loop")
	l.add(t, "intro.tot", loop)

	e := newEngine(t, l, WithMaxFrames(3), WithStepsPerFrame(10))
	err := e.Run(context.Background(), "intro.tot")
	assert.True(t, errors.Is(err, ErrFrameLimit))
	assert.Equal(t, 3, e.Frames())
	assert.Equal(t, uint64(30), e.Interpreter().Steps())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e = newEngine(t, l)
	err = e.Run(ctx, "")
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, inter.Idle, e.Interpreter().State())
}

func TestSaveLoad(t *testing.T) {
	l := newFakeLoader()
	b := code()
	assign32(b, 3, 77)
	// goblin ops: init map 10x10, place actor 1 at 2,2
	b.Byte(0x17, 0x03).IntExpr(10).IntExpr(10)
	b.Byte(0x17, 0x00).IntExpr(1).IntExpr(2).IntExpr(2)
	b.Byte(0x07)
	l.add(t, "intro.tot", b)

	src := newEngine(t, l)
	assert.NoError(t, src.Run(context.Background(), ""))
	assert.NoError(t, src.Palette.SetColors(1, []byte{1, 2, 3}))

	var buf bytes.Buffer
	assert.NoError(t, src.Save(&buf))

	dst := newEngine(t, l)
	assert.NoError(t, dst.Load(bytes.NewReader(buf.Bytes())))
	assert.Equal(t, int32(77), read32(t, dst, 3))
	x, y, err := dst.Goblins.Position(1)
	assert.NoError(t, err)
	assert.Equal(t, 2, x)
	assert.Equal(t, 2, y)
	assert.Equal(t, [3]byte{1, 2, 3}, dst.Palette.Color(1))

	err = dst.Load(bytes.NewReader(buf.Bytes()[:10]))
	assert.Error(t, err)
	assert.Equal(t, int32(77), read32(t, dst, 3))
}

func TestDump(t *testing.T) {
	l := newFakeLoader()
	l.add(t, "intro.tot", code().Byte(0x07))
	e := newEngine(t, l)
	assert.NoError(t, e.Run(context.Background(), ""))

	var buf bytes.Buffer
	e.Dump(&buf)
	assert.Contains(t, buf.String(), "Variant")
	assert.Contains(t, buf.String(), "gob2/pc")

	s := e.Snapshot()
	assert.Equal(t, "halted", s.State)
	assert.Equal(t, 1, s.Frames)
}

func TestHiResTextLayout(t *testing.T) {
	l := newFakeLoader()
	l.add(t, "intro.tot", code().Byte(0x07))

	var buf bytes.Buffer
	hiRes := variant.New(variant.Urban, variant.Windows, variant.Feature640x480)
	e, err := New(log.NewTestLogger(t), hiRes, l, WithRenderer(draw.NewTextRenderer(&buf)))
	assert.NoError(t, err)
	assert.NoError(t, e.Draw.PrintTotText(0, []byte("a\rb")))
	assert.Contains(t, buf.String(), "text (0,16)")
}
