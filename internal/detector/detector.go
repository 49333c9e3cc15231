// Package detector resolves the game release description.
package detector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogob/internal/config"
	"github.com/retroenv/retrogob/internal/endian"
	"github.com/retroenv/retrogob/internal/options"
	"github.com/retroenv/retrogob/internal/variant"
	"github.com/retroenv/retrogolib/log"
)

// Detector resolves the game variant from options, the game file and the
// input file name.
type Detector struct {
	logger *log.Logger
}

// New creates a new variant detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// first returns the first non empty value.
func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Detect resolves the variant. Command line options take precedence over
// the game file, the game type is auto-detected from the input path when
// neither sets it.
func (d *Detector) Detect(opts options.Program, game config.Game) (variant.Variant, error) {
	gameType, err := d.gameType(first(opts.Game.Game, game.Game), opts.Input)
	if err != nil {
		return variant.Variant{}, err
	}

	platform := variant.PC
	if name := first(opts.Platform, game.Platform); name != "" {
		if platform, err = variant.ParsePlatform(name); err != nil {
			return variant.Variant{}, err
		}
	}

	features, err := variant.ParseFeatures(append(append([]string(nil), game.Features...), opts.Features...))
	if err != nil {
		return variant.Variant{}, err
	}

	v := variant.New(gameType, platform, features)
	if lang := first(opts.Language, game.Language); lang != "" {
		v.Language = lang
	}
	if game.Width > 0 && game.Height > 0 {
		v.Width, v.Height = game.Width, game.Height
	}

	if method := first(opts.Endianness, game.Endianness); method != "" && !strings.EqualFold(method, "auto") {
		if v.EndiannessMethod, err = endian.ParseMethod(method); err != nil {
			return variant.Variant{}, err
		}
	}
	if order := first(opts.CodeEndianness, game.CodeEndianness); order != "" {
		if v.CodeEndianness, err = endian.ParseEndianness(order); err != nil {
			return variant.Variant{}, err
		}
	}

	start := first(opts.Start, game.Start)
	if start == "" && opts.Input != "" {
		start = filepath.Base(opts.Input)
	}
	if start != "" {
		v.StartTot = start
	}

	v.Workarounds = variant.Workarounds{
		ResourceSize:               game.Workarounds.ResourceSize,
		Adibou2FreeBananas:         game.Workarounds.Adibou2FreeBananas,
		Adibou2FlowersInfiniteLoop: game.Workarounds.Adibou2FlowersInfiniteLoop,
	}

	if err := v.Validate(); err != nil {
		return variant.Variant{}, fmt.Errorf("invalid game options: %w", err)
	}
	return v, nil
}

func (d *Detector) gameType(name, input string) (variant.GameType, error) {
	if name != "" {
		return variant.ParseGameType(name)
	}
	gameType := d.detectFromFile(input)
	d.logger.Debug("Auto-detected game",
		log.Stringer("game", gameType),
		log.String("file", input))
	return gameType, nil
}

// detectFromFile determines the game type from the name of the data
// directory or the file, for example "gob2/intro.tot".
func (d *Detector) detectFromFile(filename string) variant.GameType {
	if filename == "" {
		return variant.Gob1
	}
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	dir := filepath.Base(filepath.Dir(filename))
	for _, candidate := range []string{dir, stem} {
		if gameType, err := variant.ParseGameType(candidate); err == nil {
			return gameType
		}
	}
	// Default to the first game for unknown names
	return variant.Gob1
}
