// Package inter implements the interpreter core: the fetch decode dispatch
// loop over a script program, its execution state machine and the opcode
// handlers that drive the game state subsystems.
package inter

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/retroenv/retrogob/internal/expr"
	"github.com/retroenv/retrogob/internal/opcodes"
	"github.com/retroenv/retrogob/internal/script"
	"github.com/retroenv/retrogob/internal/variables"
	"github.com/retroenv/retrogob/internal/variant"
	"github.com/retroenv/retrogolib/log"
)

var (
	// ErrNotRunning is returned when stepping an interpreter that is not running.
	ErrNotRunning = errors.New("interpreter not running")
	// ErrBusy is returned when starting an interpreter that executes a program.
	ErrBusy = errors.New("interpreter busy")
)

type handlerFunc func() error

// Interpreter executes script programs.
type Interpreter struct {
	logger   *log.Logger
	variant  variant.Variant
	table    *opcodes.Table
	vars     *variables.Store
	sub      Subsystems
	cursor   *script.Cursor
	eval     *expr.Evaluator
	handlers map[opcodes.Handler]handlerFunc

	clock    Clock
	loader   ProgramLoader
	rnd      expr.Random
	maxDepth int
	trace    bool

	state     State
	prog      *script.Program
	wait      Wait
	err       error
	next      string
	opStart   uint32
	frameRate int
	steps     uint64
}

// Option configures an interpreter.
type Option func(*Interpreter)

// WithClock sets the tick source used by timer waits.
func WithClock(clock Clock) Option {
	return func(in *Interpreter) {
		in.clock = clock
	}
}

// WithLoader sets the loader used for calls into other programs.
func WithLoader(loader ProgramLoader) Option {
	return func(in *Interpreter) {
		in.loader = loader
	}
}

// WithRandom sets the source of the random expression function.
func WithRandom(rnd expr.Random) Option {
	return func(in *Interpreter) {
		in.rnd = rnd
	}
}

// WithMaxDepth sets the maximum call nesting depth.
func WithMaxDepth(depth int) Option {
	return func(in *Interpreter) {
		in.maxDepth = depth
	}
}

// WithTrace enables debug logging of every dispatched opcode.
func WithTrace(trace bool) Option {
	return func(in *Interpreter) {
		in.trace = trace
	}
}

type systemClock struct {
	start time.Time
}

func (c systemClock) Ticks() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

// New returns an idle interpreter.
func New(logger *log.Logger, v variant.Variant, table *opcodes.Table, vars *variables.Store,
	sub Subsystems, options ...Option) (*Interpreter, error) {
	if err := sub.validate(); err != nil {
		return nil, err
	}

	in := &Interpreter{
		logger:    logger,
		variant:   v,
		table:     table,
		vars:      vars,
		sub:       sub,
		clock:     systemClock{start: time.Now()},
		rnd:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		maxDepth:  script.DefaultMaxDepth,
		frameRate: 12,
	}
	for _, opt := range options {
		opt(in)
	}

	in.cursor = script.NewCursor(v.CodeEndianness.ByteOrder(), in.maxDepth)
	in.eval = expr.NewEvaluator(vars, in.rnd)
	in.handlers = in.handlerTable()
	return in, nil
}

// State returns the execution state.
func (in *Interpreter) State() State {
	return in.state
}

// Wait returns the resume condition while suspended.
func (in *Interpreter) Wait() Wait {
	return in.wait
}

// Err returns the fatal error that halted the last program.
func (in *Interpreter) Err() error {
	return in.err
}

// NextProgram returns the program the halted script requested to load.
func (in *Interpreter) NextProgram() string {
	return in.next
}

// Program returns the started program.
func (in *Interpreter) Program() *script.Program {
	return in.prog
}

// Variables returns the variable store.
func (in *Interpreter) Variables() *variables.Store {
	return in.vars
}

// FrameRate returns the frame rate requested by the script.
func (in *Interpreter) FrameRate() int {
	return in.frameRate
}

// Steps returns the number of dispatched opcodes.
func (in *Interpreter) Steps() uint64 {
	return in.steps
}

// Cursor returns the current program and offset of the cursor.
func (in *Interpreter) Cursor() (string, uint32, int) {
	name := ""
	if p := in.cursor.Program(); p != nil {
		name = p.Name()
	}
	return name, in.cursor.Pos(), in.cursor.Depth()
}

// Start begins the execution of a program at its entry point. A root frame
// is pushed so that returning from the entry function ends the program.
func (in *Interpreter) Start(prog *script.Program) error {
	if in.state == Running || in.state == Suspended {
		return fmt.Errorf("%w: %s", ErrBusy, in.state)
	}
	if prog == nil {
		return script.ErrNoProgram
	}

	in.cursor.Reset(prog, prog.Entry())
	if err := in.cursor.Push(script.Frame{}); err != nil {
		return err
	}
	in.prog = prog
	in.state = Running
	in.wait = Wait{}
	in.err = nil
	in.next = ""

	in.logger.Debug("Starting program",
		log.String("program", prog.Name()),
		log.Hex("entry", prog.Entry()))
	return nil
}

// Step dispatches exactly one function opcode including its nested drawing
// or goblin opcode. A fatal error halts the program and is returned as
// *FatalError.
func (in *Interpreter) Step() error {
	if in.state != Running {
		return fmt.Errorf("%w: %s", ErrNotRunning, in.state)
	}
	if err := in.step(); err != nil {
		return in.fatal(err)
	}
	return nil
}

// Run steps until the budget is used up, the interpreter leaves the running
// state or the context is cancelled. It returns the number of steps.
func (in *Interpreter) Run(ctx context.Context, budget int) (int, error) {
	n := 0
	for in.state == Running && n < budget {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := in.Step(); err != nil {
			return n + 1, err
		}
		n++
	}
	return n, nil
}

// Signal delivers an external event. A matching event resumes a suspended
// script, the returned flag reports whether it did.
func (in *Interpreter) Signal(ev Event) (bool, error) {
	if in.state != Suspended || !in.wait.matches(ev) {
		return false, nil
	}

	if in.wait.Kind == WaitInput {
		if err := in.eval.AssignInt(in.wait.Target, int32(ev.Key)); err != nil {
			return false, in.fatal(err)
		}
	}

	in.logger.Debug("Resuming script", log.Stringer("wait", in.wait.Kind))
	in.wait = Wait{}
	in.state = Running
	return true, nil
}

// Reset returns a halted interpreter to the idle state.
func (in *Interpreter) Reset() error {
	if in.state != Halted && in.state != Idle {
		return fmt.Errorf("%w: %s", ErrBusy, in.state)
	}
	in.state = Idle
	in.prog = nil
	in.err = nil
	in.next = ""
	return nil
}

// Abort cancels the execution, unwinds the call stack and discards the
// program without saving any state.
func (in *Interpreter) Abort() {
	in.cursor.Unwind()
	in.state = Idle
	in.prog = nil
	in.wait = Wait{}
	in.next = ""
}

func (in *Interpreter) step() error {
	in.opStart = in.cursor.Pos()
	op, err := in.cursor.FetchByte()
	if err != nil {
		return err
	}
	in.steps++
	return in.dispatch(opcodes.Func, op)
}

func (in *Interpreter) dispatch(cat opcodes.Category, op byte) error {
	h, ok := in.table.Resolve(cat, op)
	if !ok {
		return in.unknown(cat, op)
	}
	fn, ok := in.handlers[h]
	if !ok {
		return in.unknown(cat, op)
	}

	if in.trace {
		in.logger.Debug("Opcode",
			log.String("program", in.cursor.Program().Name()),
			log.Hex("offset", in.opStart),
			log.Stringer("category", cat),
			log.Hex("opcode", op),
			log.Stringer("handler", h))
	}
	return fn()
}

// unknown skips the operands of an opcode that the table does not map by
// the documented length of its category.
func (in *Interpreter) unknown(cat opcodes.Category, op byte) error {
	skip := in.table.SkipLength(cat)
	in.logger.Warn("Unknown opcode",
		log.String("program", in.cursor.Program().Name()),
		log.Hex("offset", in.opStart),
		log.Stringer("category", cat),
		log.Hex("opcode", op),
		log.Int("skip", skip))
	return in.cursor.Skip(skip)
}

// Implemented returns whether the interpreter has a handler implementation.
func (in *Interpreter) Implemented(h opcodes.Handler) bool {
	_, ok := in.handlers[h]
	return ok
}

func (in *Interpreter) fatal(err error) error {
	name := ""
	if in.prog != nil {
		name = in.prog.Name()
	}
	if p := in.cursor.Program(); p != nil {
		name = p.Name()
	}

	var fe *FatalError
	if !errors.As(err, &fe) {
		fe = &FatalError{Program: name, Offset: in.opStart, Err: err}
	}
	in.logger.Error("Script terminated", log.String("program", fe.Program),
		log.Hex("offset", fe.Offset), log.Err(fe.Err))

	in.err = fe
	in.halt()
	return fe
}

func (in *Interpreter) halt() {
	in.cursor.Unwind()
	in.wait = Wait{}
	in.state = Halted
}

func (in *Interpreter) suspend(w Wait) {
	in.logger.Debug("Suspending script", log.Stringer("wait", w.Kind), log.Int("id", w.ID))
	in.wait = w
	in.state = Suspended
}

// content logs a recoverable subsystem error, execution continues.
func (in *Interpreter) content(operation string, err error) error {
	if err == nil {
		return nil
	}
	in.logger.Warn("Operation failed",
		log.String("operation", operation),
		log.String("program", in.cursor.Program().Name()),
		log.Hex("offset", in.opStart),
		log.Err(err))
	return nil
}

func (in *Interpreter) ints(n int) ([]int, error) {
	values := make([]int, n)
	for i := range values {
		v, err := in.eval.EvalInt(in.cursor)
		if err != nil {
			return nil, err
		}
		values[i] = int(v)
	}
	return values, nil
}

func (in *Interpreter) resource(id uint16) (script.Resource, error) {
	return in.cursor.Program().Resource(int(id), in.variant.HasResourceSizeWorkaround())
}
