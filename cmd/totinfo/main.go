// Package main implements an inspector for Gob engine script and save files
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/retroenv/retrogob/internal/saveload"
	"github.com/retroenv/retrogob/internal/script"
	"github.com/retroenv/retrogolib/buildinfo"
	"golang.org/x/text/encoding/charmap"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type optionFlags struct {
	input string
	save  bool
	texts bool
	quiet bool
}

func main() {
	options := readArguments()

	if !options.quiet {
		printBanner()
	}

	var err error
	if options.save {
		err = inspectSave(os.Stdout, options)
	} else {
		err = inspectProgram(os.Stdout, options)
	}
	if err != nil {
		fmt.Println(fmt.Errorf("inspecting failed: %w", err))
		os.Exit(1)
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}

	flags.BoolVar(&options.save, "save", false, "inspect a save file instead of a script")
	flags.BoolVar(&options.texts, "texts", false, "print the embedded texts of the script")
	flags.BoolVar(&options.quiet, "q", false, "perform operations quietly")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()

	if err != nil || len(args) == 0 {
		printBanner()
		fmt.Printf("usage: totinfo [options] <file to inspect>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	options.input = args[0]

	return options
}

func printBanner() {
	fmt.Println("[-------------------------------------]")
	fmt.Println("[ totinfo - Gob engine file inspector ]")
	fmt.Printf("[-------------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}

func inspectProgram(w io.Writer, options optionFlags) error {
	data, err := os.ReadFile(options.input)
	if err != nil {
		return fmt.Errorf("reading file '%s': %w", options.input, err)
	}

	prog, err := script.Load(filepath.Base(options.input), data)
	if err != nil {
		return fmt.Errorf("loading script: %w", err)
	}

	header, _ := prog.Header()
	major, minor := header.Version()
	_, _ = fmt.Fprintf(w, "name:       %s\n", prog.Name())
	_, _ = fmt.Fprintf(w, "version:    %d.%d\n", major, minor)
	_, _ = fmt.Fprintf(w, "size:       %d\n", prog.Len())
	_, _ = fmt.Fprintf(w, "variables:  %d\n", prog.VariablesCount())
	_, _ = fmt.Fprintf(w, "texts:      %d\n", prog.TextCount())
	_, _ = fmt.Fprintf(w, "resources:  %d\n\n", prog.ResourceCount())

	for i := range script.FunctionCount {
		offset, err := prog.FunctionOffset(i)
		if err != nil || (i > 0 && offset == 0) {
			continue
		}
		_, _ = fmt.Fprintf(w, "function %2d: 0x%04X\n", i, offset)
	}

	for i := range prog.ResourceCount() {
		res, err := prog.Resource(i, true)
		if err != nil {
			continue
		}
		_, _ = fmt.Fprintf(w, "resource %3d: %dx%d, %d bytes\n", i, res.Width, res.Height, len(res.Data))
	}

	if options.texts {
		return printTexts(w, prog)
	}
	return nil
}

func printTexts(w io.Writer, prog *script.Program) error {
	decoder := charmap.CodePage850.NewDecoder()
	for i := range prog.TextCount() {
		raw, err := prog.Text(i)
		if err != nil {
			continue
		}
		text, err := decoder.Bytes(raw)
		if err != nil {
			return fmt.Errorf("decoding text %d: %w", i, err)
		}
		_, _ = fmt.Fprintf(w, "text %3d: %q\n", i, text)
	}
	return nil
}

func inspectSave(w io.Writer, options optionFlags) error {
	data, err := os.ReadFile(options.input)
	if err != nil {
		return fmt.Errorf("reading file '%s': %w", options.input, err)
	}

	info, err := saveload.Inspect(data)
	if err != nil {
		return fmt.Errorf("inspecting save: %w", err)
	}

	_, _ = fmt.Fprintf(w, "version:    %d\n", info.Version)
	_, _ = fmt.Fprintf(w, "game:       %s\n", info.Game)
	_, _ = fmt.Fprintf(w, "endianness: %s\n", info.Endianness)
	_, _ = fmt.Fprintf(w, "variables:  %d bytes\n", info.VariablesSize)
	for _, id := range info.Fragments {
		_, _ = fmt.Fprintf(w, "fragment:   %s\n", id)
	}
	return nil
}
