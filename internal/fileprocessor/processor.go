// Package fileprocessor handles output file creation and session processing
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogob/internal/options"
	"github.com/retroenv/retrogob/internal/pipeline"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ConsoleOutput selects the console as output target.
const ConsoleOutput = "-"

// ProcessFile handles the complete session workflow for the start script
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program) error {
	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if closer, ok := writer.(io.Closer); ok && writer != io.Writer(os.Stdout) {
			_ = closer.Close()
		}
	}()

	p := pipeline.New(logger)
	if _, err := p.Execute(ctx, opts, writer); err != nil {
		return fmt.Errorf("processing session: %w", err)
	}
	return nil
}

// createWriter returns the target of drawing commands and state dumps. The
// state dump goes to the console if no output file is set.
func createWriter(opts options.Program) (io.Writer, error) {
	switch {
	case opts.Output == ConsoleOutput:
		return os.Stdout, nil
	case opts.Output != "":
		file, err := os.Create(opts.Output)
		if err != nil {
			return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
		}
		return file, nil
	case opts.Dump:
		return os.Stdout, nil
	default:
		return nil, nil
	}
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("retrogob", log.String("version", buildinfo.Version(version, commit, date)))
}
