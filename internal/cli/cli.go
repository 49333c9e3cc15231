// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogob/internal/engine"
	"github.com/retroenv/retrogob/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	var features string
	readOptionFlags(flags, &opts, &features)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}
	opts.Input = args[0]

	if err := normalizeOptions(&opts, features); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrogob [options] <start script file>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after start script file, please pass the start script file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program, features string) error {
	if opts.Dir == "" {
		opts.Dir = filepath.Dir(opts.Input)
	}

	for _, feature := range strings.Split(features, ",") {
		if feature = strings.TrimSpace(feature); feature != "" {
			opts.Features = append(opts.Features, strings.ToLower(feature))
		}
	}

	opts.Endianness = strings.ToLower(opts.Endianness)
	validMethods := []string{"", "auto", "le", "be", "system", "altfile"}
	valid := false
	for _, method := range validMethods {
		if opts.Endianness == method {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unsupported endianness: %s. Valid options: %s",
			opts.Endianness, strings.Join(validMethods[1:], ", "))
	}

	if opts.MaxFrames < 0 {
		return fmt.Errorf("invalid frame limit %d", opts.MaxFrames)
	}
	if opts.StepsPerFrame <= 0 {
		return fmt.Errorf("invalid steps per frame %d", opts.StepsPerFrame)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program, features *string) {
	flags.StringVar(&opts.Dir, "d", "", "game data directory, defaults to the directory of the start script")
	flags.StringVar(&opts.Config, "c", "", "TOML game file describing the game release")
	flags.StringVar(&opts.Load, "load", "", "save file to restore before running")
	flags.StringVar(&opts.Save, "save", "", "save file to write after running")
	flags.StringVar(&opts.Output, "o", "", "write drawing commands to this file, - for console")
	flags.StringVar(&opts.Game.Game, "game", "", "game type (gob1, gob2, gob3, ween, woodruff, urban, adibou2...) - if not auto-detected")
	flags.StringVar(&opts.Platform, "platform", "", "platform of the release (pc, amiga, atarist, macintosh, windows)")
	flags.StringVar(&opts.Language, "lang", "", "language of the release")
	flags.StringVar(features, "features", "", "comma separated release features (cd, ega, adlib, demo, scndemo, batdemo, 640x480, 800x600, truecolor)")
	flags.StringVar(&opts.Endianness, "endianness", "", "variable byte order method (auto, le, be, system, altfile)")
	flags.StringVar(&opts.CodeEndianness, "code-endianness", "", "script bytecode byte order (le, be)")
	flags.StringVar(&opts.Start, "start", "", "name of the start script, defaults to the given file")
	flags.IntVar(&opts.MaxFrames, "frames", 0, "stop after this number of frames, 0 runs until the session ends")
	flags.IntVar(&opts.StepsPerFrame, "steps", engine.DefaultStepsPerFrame, "opcode budget of one frame")
	flags.BoolVar(&opts.Trace, "trace", false, "log every dispatched opcode")
	flags.BoolVar(&opts.Dump, "dump", false, "dump the interpreter state after running")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
