// Package pipeline orchestrates the session workflow stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogob/internal/config"
	"github.com/retroenv/retrogob/internal/detector"
	"github.com/retroenv/retrogob/internal/draw"
	"github.com/retroenv/retrogob/internal/engine"
	"github.com/retroenv/retrogob/internal/loader"
	"github.com/retroenv/retrogob/internal/options"
	"github.com/retroenv/retrogob/internal/variant"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete session workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
}

// New creates a new session pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
	}
}

// Execute runs the complete session pipeline. Drawing commands and the state
// dump are written to output if it is not nil.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, output io.Writer) (*engine.Engine, error) {
	game, err := p.loadGame(opts)
	if err != nil {
		return nil, err
	}

	v, err := p.detector.Detect(opts, game)
	if err != nil {
		return nil, fmt.Errorf("detecting game variant: %w", err)
	}
	p.printInfo(opts, v)

	e, err := p.createEngine(opts, v, output)
	if err != nil {
		return nil, err
	}

	if opts.Load != "" {
		if err := p.loadSave(e, opts.Load); err != nil {
			return e, err
		}
	}

	err = e.Run(ctx, "")
	switch {
	case errors.Is(err, engine.ErrFrameLimit):
		p.logger.Info("Session stopped", log.Int("frames", e.Frames()))
	case err != nil:
		return e, fmt.Errorf("running session: %w", err)
	default:
		p.logger.Info("Session ended", log.Int("frames", e.Frames()))
	}

	if opts.Save != "" {
		if err := p.writeSave(e, opts.Save); err != nil {
			return e, err
		}
	}

	if opts.Dump && output != nil {
		e.Dump(output)
	}
	return e, nil
}

func (p *Pipeline) loadGame(opts options.Program) (config.Game, error) {
	if opts.Config == "" {
		return config.Game{}, nil
	}
	game, err := config.LoadGame(opts.Config)
	if err != nil {
		return config.Game{}, fmt.Errorf("loading game file: %w", err)
	}
	return game, nil
}

// createEngine sets up the program loader and the engine for the detected variant.
func (p *Pipeline) createEngine(opts options.Program, v variant.Variant, output io.Writer) (*engine.Engine, error) {
	engineOpts := []engine.Option{
		engine.WithStepsPerFrame(opts.StepsPerFrame),
		engine.WithMaxFrames(opts.MaxFrames),
		engine.WithTrace(opts.Trace),
	}
	if opts.Output != "" && output != nil {
		engineOpts = append(engineOpts, engine.WithRenderer(draw.NewTextRenderer(output)))
	}

	l := loader.NewDir(p.logger, opts.Dir)
	e, err := engine.New(p.logger, v, l, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	return e, nil
}

func (p *Pipeline) loadSave(e *engine.Engine, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening save file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	if err := e.Load(file); err != nil {
		return fmt.Errorf("loading save file %s: %w", path, err)
	}
	p.logger.Info("Save restored", log.String("file", path))
	return nil
}

func (p *Pipeline) writeSave(e *engine.Engine, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating save file %s: %w", path, err)
	}

	if err := e.Save(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing save file %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing save file %s: %w", path, err)
	}
	p.logger.Info("Save written", log.String("file", path))
	return nil
}

// printInfo prints information about the session being started.
func (p *Pipeline) printInfo(opts options.Program, v variant.Variant) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Starting session",
		log.String("game", v.Game.String()),
		log.String("platform", v.Platform.String()),
		log.String("start", v.StartTot),
		log.String("endianness", v.EndiannessMethod.String()),
	)
	if v.IsDemo() {
		p.logger.Warn("Demo release, the session ends with the first program")
	}
}
