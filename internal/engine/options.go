package engine

import (
	"github.com/retroenv/retrogob/internal/draw"
	"github.com/retroenv/retrogob/internal/expr"
	"github.com/retroenv/retrogob/internal/scenery"
	"github.com/retroenv/retrogob/internal/sound"
	"github.com/retroenv/retrogob/internal/video"
)

// Defaults of the engine options.
const (
	DefaultStepsPerFrame = 1000
	DefaultMinVariables  = 4096
	DefaultVideoFrames   = 1
)

// Option configures an engine.
type Option func(*Options)

// Options contains the engine settings and the external backends.
type Options struct {
	StepsPerFrame int // opcode budget of one frame
	MaxFrames     int // frame limit of headless runs, 0 for no limit
	MinVariables  int // minimum variable store size in bytes
	Trace         bool

	Random   expr.Random
	Renderer draw.Renderer
	Blitter  scenery.Blitter
	Decoder  video.Decoder
	Mixer    sound.Mixer
}

func defaultOptions() Options {
	return Options{
		StepsPerFrame: DefaultStepsPerFrame,
		MinVariables:  DefaultMinVariables,
		Renderer:      draw.NullRenderer{},
		Blitter:       scenery.NullBlitter{},
		Decoder:       video.NullDecoder{Frames: DefaultVideoFrames},
		Mixer:         sound.NullMixer{},
	}
}

// WithStepsPerFrame sets the opcode budget of one frame.
func WithStepsPerFrame(steps int) Option {
	return func(o *Options) {
		o.StepsPerFrame = steps
	}
}

// WithMaxFrames limits the number of frames a run executes.
func WithMaxFrames(frames int) Option {
	return func(o *Options) {
		o.MaxFrames = frames
	}
}

// WithMinVariables sets the minimum variable store size in bytes.
func WithMinVariables(size int) Option {
	return func(o *Options) {
		o.MinVariables = size
	}
}

// WithTrace enables the opcode trace logging.
func WithTrace(trace bool) Option {
	return func(o *Options) {
		o.Trace = trace
	}
}

// WithRandom sets the random source of the scripts.
func WithRandom(rnd expr.Random) Option {
	return func(o *Options) {
		o.Random = rnd
	}
}

// WithRenderer sets the drawing backend.
func WithRenderer(r draw.Renderer) Option {
	return func(o *Options) {
		o.Renderer = r
	}
}

// WithBlitter sets the scenery backend.
func WithBlitter(b scenery.Blitter) Option {
	return func(o *Options) {
		o.Blitter = b
	}
}

// WithDecoder sets the video backend.
func WithDecoder(d video.Decoder) Option {
	return func(o *Options) {
		o.Decoder = d
	}
}

// WithMixer sets the audio backend.
func WithMixer(m sound.Mixer) Option {
	return func(o *Options) {
		o.Mixer = m
	}
}
