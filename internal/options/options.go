// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input  string // start script file
	Dir    string // game data directory, defaults to the directory of the input
	Config string // TOML game file
	Load   string // save file restored before running
	Save   string // save file written after the run
	Output string // drawing command log, printed on console if "-"
}

// Flags contains behavior options.
type Flags struct {
	Debug bool
	Quiet bool
	Trace bool
	Dump  bool
}

// Game contains the game release options given on the command line, empty
// values keep the values of the game file or the defaults.
type Game struct {
	Game           string
	Platform       string
	Language       string
	Features       []string
	Endianness     string // auto, le, be, system or altfile
	CodeEndianness string // le or be
	Start          string
}

// Engine contains the frame loop limits.
type Engine struct {
	MaxFrames     int
	StepsPerFrame int
}

// Program options of the interpreter.
type Program struct {
	Parameters
	Flags
	Game
	Engine
}
