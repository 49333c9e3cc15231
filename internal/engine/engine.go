// Package engine runs the frame loop that drives the interpreter and the game
// state subsystems through a session of script programs.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/retroenv/retrogob/internal/draw"
	"github.com/retroenv/retrogob/internal/gobmap"
	"github.com/retroenv/retrogob/internal/goblin"
	"github.com/retroenv/retrogob/internal/input"
	"github.com/retroenv/retrogob/internal/inter"
	"github.com/retroenv/retrogob/internal/mult"
	"github.com/retroenv/retrogob/internal/opcodes"
	"github.com/retroenv/retrogob/internal/palanim"
	"github.com/retroenv/retrogob/internal/saveload"
	"github.com/retroenv/retrogob/internal/scenery"
	"github.com/retroenv/retrogob/internal/script"
	"github.com/retroenv/retrogob/internal/sound"
	"github.com/retroenv/retrogob/internal/variables"
	"github.com/retroenv/retrogob/internal/variant"
	"github.com/retroenv/retrogob/internal/video"
	"github.com/retroenv/retrogolib/log"
)

// ErrFrameLimit is returned when a run reaches the configured frame limit.
var ErrFrameLimit = errors.New("frame limit reached")

// Engine owns the interpreter, the variable store and the subsystems of a
// game session.
type Engine struct {
	logger  *log.Logger
	variant variant.Variant
	loader  inter.ProgramLoader
	opts    Options

	first  *script.Program
	clock  *virtualClock
	vars   *variables.Store
	interp *inter.Interpreter
	codec  *saveload.Codec
	frames int

	Draw    *draw.Drawer
	Mult    *mult.Mult
	Scenery *scenery.Scenery
	Map     *gobmap.Map
	Goblins *goblin.Goblins
	Palette *palanim.Palette
	Video   *video.Player
	Sound   *sound.Player
	Input   *input.Queue
}

// New loads the start program of the variant, sizes the variable store for
// it and builds the subsystems, the interpreter and the save codec.
func New(logger *log.Logger, v variant.Variant, loader inter.ProgramLoader, options ...Option) (*Engine, error) {
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("invalid variant: %w", err)
	}
	opts := defaultOptions()
	for _, opt := range options {
		opt(&opts)
	}

	first, err := loader.LoadProgram(v.StartTot)
	if err != nil {
		return nil, fmt.Errorf("loading start program: %w", err)
	}

	table, err := opcodes.Build(v)
	if err != nil {
		return nil, fmt.Errorf("building opcode table: %w", err)
	}

	size := max(int(first.VariablesCount())*variables.DefaultStride, opts.MinVariables)
	e := &Engine{
		logger:  logger,
		variant: v,
		loader:  loader,
		opts:    opts,
		first:   first,
		clock:   &virtualClock{},
		vars:    variables.New(size, v.DataEndianness()),
		Draw:    draw.New(logger, opts.Renderer, v.Width, v.Height),
		Mult:    mult.New(logger),
		Scenery: scenery.New(logger, opts.Blitter),
		Map:     gobmap.New(),
		Palette: palanim.New(),
		Video:   video.New(logger, opts.Decoder),
		Sound:   sound.New(logger, opts.Mixer),
		Input:   input.NewQueue(),
	}
	e.Goblins = goblin.New(logger, e.Map)
	if v.Is640x480() || v.Is800x600() {
		e.Draw.SetLineHeight(draw.HiResLineHeight)
	}

	sub := inter.Subsystems{
		Draw:    e.Draw,
		Mult:    e.Mult,
		Scenery: e.Scenery,
		Goblins: e.Goblins,
		Map:     e.Map,
		Palette: e.Palette,
		Video:   e.Video,
		Sound:   e.Sound,
		Input:   e.Input,
	}
	interpOptions := []inter.Option{
		inter.WithClock(e.clock),
		inter.WithLoader(loader),
		inter.WithTrace(opts.Trace),
	}
	if opts.Random != nil {
		interpOptions = append(interpOptions, inter.WithRandom(opts.Random))
	}
	e.interp, err = inter.New(logger, v, table, e.vars, sub, interpOptions...)
	if err != nil {
		return nil, fmt.Errorf("creating interpreter: %w", err)
	}

	e.codec = saveload.New(logger, v, e.vars,
		saveload.Entry{Fragment: e.Goblins, Since: 1},
		saveload.Entry{Fragment: e.Mult, Since: 1},
		saveload.Entry{Fragment: e.Map, Since: 3},
		saveload.Entry{Fragment: e.Palette, Since: 3},
	)

	logger.Debug("Engine created",
		log.Stringer("variant", v),
		log.Int("variables", size),
		log.Int("opcodes", table.Count()))
	return e, nil
}

// Interpreter returns the interpreter of the session.
func (e *Engine) Interpreter() *inter.Interpreter {
	return e.interp
}

// Variables returns the variable store of the session.
func (e *Engine) Variables() *variables.Store {
	return e.vars
}

// Frames returns the number of executed frames.
func (e *Engine) Frames() int {
	return e.frames
}

// Ticks returns the virtual time in milliseconds.
func (e *Engine) Ticks() uint32 {
	return e.clock.Ticks()
}

// Run executes the session starting with the named program, an empty name
// starts the start program of the variant. It returns when the session ends,
// a program terminates with a fatal error, the frame limit is reached or the
// context is cancelled. Cancellation aborts the interpreter without saving.
func (e *Engine) Run(ctx context.Context, start string) error {
	prog := e.first
	if start != "" && !e.variant.IsCurrentTot(e.first.Name(), start) {
		var err error
		prog, err = e.loader.LoadProgram(start)
		if err != nil {
			return fmt.Errorf("loading program '%s': %w", start, err)
		}
	}
	if err := e.interp.Start(prog); err != nil {
		return fmt.Errorf("starting program '%s': %w", prog.Name(), err)
	}

	for {
		if err := ctx.Err(); err != nil {
			e.interp.Abort()
			return err
		}
		if e.opts.MaxFrames > 0 && e.frames >= e.opts.MaxFrames {
			e.logger.Info("Frame limit reached", log.Int("frames", e.frames))
			return ErrFrameLimit
		}

		done, err := e.frame(ctx)
		if err != nil || done {
			return err
		}
	}
}

// frame executes one frame and returns whether the session ended.
func (e *Engine) frame(ctx context.Context) (bool, error) {
	if e.interp.State() == inter.Running {
		// fatal errors halt the interpreter and are returned by halted
		if _, err := e.interp.Run(ctx, e.opts.StepsPerFrame); err != nil && ctx.Err() != nil {
			e.interp.Abort()
			return true, err
		}
	}

	elapsed := e.frameDuration()
	e.update(elapsed)
	e.clock.advance(elapsed)
	e.frames++

	switch e.interp.State() {
	case inter.Suspended:
		if ev, ok := e.event(e.interp.Wait()); ok {
			if _, err := e.interp.Signal(ev); err != nil {
				return true, err
			}
		}
		return false, nil

	case inter.Halted:
		return e.halted()

	case inter.Idle:
		return true, nil

	default:
		return false, nil
	}
}

// halted switches to the requested next program or ends the session.
func (e *Engine) halted() (bool, error) {
	if err := e.interp.Err(); err != nil {
		return true, err
	}
	next := e.interp.NextProgram()
	if next == "" {
		e.logger.Info("Session ended", log.Int("frames", e.frames))
		return true, nil
	}

	prog, err := e.loader.LoadProgram(next)
	if err != nil {
		return true, fmt.Errorf("loading program '%s': %w", next, err)
	}
	if err := e.interp.Reset(); err != nil {
		return true, err
	}
	if err := e.interp.Start(prog); err != nil {
		return true, fmt.Errorf("starting program '%s': %w", next, err)
	}
	return false, nil
}

func (e *Engine) frameDuration() uint32 {
	rate := e.interp.FrameRate()
	if rate <= 0 {
		rate = 12
	}
	return uint32(1000 / rate)
}

// update advances all subsystems by one frame.
func (e *Engine) update(elapsed uint32) {
	e.Mult.Update()
	e.Goblins.Update()
	e.Palette.Update()
	if err := e.Video.Update(); err != nil {
		e.logger.Warn("Video playback failed", log.Err(err))
	}
	e.Sound.Update(elapsed)
}

// event returns the event that resumes a wait once its condition holds.
func (e *Engine) event(w inter.Wait) (inter.Event, bool) {
	ev := inter.Event{Kind: w.Kind, ID: w.ID, Tick: e.clock.Ticks()}
	switch w.Kind {
	case inter.WaitTimer:
		return ev, e.clock.Ticks() >= w.Deadline
	case inter.WaitAnimation:
		return ev, e.Mult.Finished(w.ID)
	case inter.WaitActor:
		return ev, !e.Goblins.Moving(w.ID)
	case inter.WaitVideo:
		return ev, e.Video.Done()
	case inter.WaitSound:
		return ev, !e.Sound.Playing()
	case inter.WaitInput:
		key, ok := e.Input.Key()
		ev.Key = key
		return ev, ok
	default:
		return ev, false
	}
}

// Save writes the session state.
func (e *Engine) Save(w io.Writer) error {
	return e.codec.Save(w)
}

// Load restores a session state, a failed load keeps the current state.
func (e *Engine) Load(r io.Reader) error {
	return e.codec.Load(r)
}

// Snapshot is a debug view of the session.
type Snapshot struct {
	Variant    string
	State      string
	Program    string
	Offset     uint32
	Depth      int
	Wait       inter.Wait
	Frames     int
	Ticks      uint32
	Steps      uint64
	Variables  int
	Endianness string
	Actors     []goblin.Actor
	Video      string
	Sound      int
	CDTrack    string
}

// Snapshot returns a debug view of the session.
func (e *Engine) Snapshot() Snapshot {
	name, offset, depth := e.interp.Cursor()
	s := Snapshot{
		Variant:    e.variant.String(),
		State:      e.interp.State().String(),
		Program:    name,
		Offset:     offset,
		Depth:      depth,
		Wait:       e.interp.Wait(),
		Frames:     e.frames,
		Ticks:      e.clock.Ticks(),
		Steps:      e.interp.Steps(),
		Variables:  e.vars.Size(),
		Endianness: e.vars.Endianness().String(),
		Video:      e.Video.Name(),
		Sound:      e.Sound.Current(),
		CDTrack:    e.Sound.Track(),
	}
	for id := range goblin.MaxActors {
		if a, ok := e.Goblins.Actor(id); ok {
			s.Actors = append(s.Actors, a)
		}
	}
	return s
}

// Dump writes the debug view of the session.
func (e *Engine) Dump(w io.Writer) {
	cfg := spew.NewDefaultConfig()
	cfg.DisableCapacities = true
	cfg.DisablePointerAddresses = true
	cfg.Fdump(w, e.Snapshot())
}
