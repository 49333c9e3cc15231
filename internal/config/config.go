// Package config handles application configuration and setup
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// Game is the content of a TOML game file describing a release.
type Game struct {
	Game           string      `toml:"game"`
	Platform       string      `toml:"platform"`
	Language       string      `toml:"language"`
	Features       []string    `toml:"features"`
	Endianness     string      `toml:"endianness"`
	CodeEndianness string      `toml:"code_endianness"`
	Start          string      `toml:"start"`
	Width          int         `toml:"width"`
	Height         int         `toml:"height"`
	Workarounds    Workarounds `toml:"workarounds"`
}

// Workarounds enables fixes for bugs in the game data.
type Workarounds struct {
	ResourceSize               bool `toml:"resource_size"`
	Adibou2FreeBananas         bool `toml:"adibou2_free_bananas"`
	Adibou2FlowersInfiniteLoop bool `toml:"adibou2_flowers_infinite_loop"`
}

// LoadGame reads a game file. Unknown keys are rejected.
func LoadGame(path string) (Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Game{}, fmt.Errorf("reading game file %s: %w", path, err)
	}
	return ParseGame(data)
}

// ParseGame decodes the content of a game file.
func ParseGame(data []byte) (Game, error) {
	var g Game
	md, err := toml.Decode(string(data), &g)
	if err != nil {
		return Game{}, fmt.Errorf("parsing game file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Game{}, fmt.Errorf("unknown game file key '%s'", undecoded[0])
	}
	return g, nil
}
