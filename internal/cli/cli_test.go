package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/retrogob/internal/engine"
	"github.com/retroenv/retrogob/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Program
	}{
		{
			name: "default flags",
			args: []string{"prog", "data/intro.tot"},
			want: options.Program{
				Parameters: options.Parameters{Input: "data/intro.tot", Dir: "data"},
				Engine:     options.Engine{StepsPerFrame: engine.DefaultStepsPerFrame},
			},
		},
		{
			name: "game options",
			args: []string{"prog", "-game", "gob2", "-features", "CD, ega", "-endianness", "AltFile", "intro.tot"},
			want: options.Program{
				Parameters: options.Parameters{Input: "intro.tot", Dir: "."},
				Game: options.Game{
					Game:       "gob2",
					Features:   []string{"cd", "ega"},
					Endianness: "altfile",
				},
				Engine: options.Engine{StepsPerFrame: engine.DefaultStepsPerFrame},
			},
		},
		{
			name: "session flags",
			args: []string{"prog", "-d", "games/gob1", "-load", "a.sav", "-save", "b.sav", "-frames", "50", "-trace", "-dump", "x.tot"},
			want: options.Program{
				Parameters: options.Parameters{Input: "x.tot", Dir: "games/gob1", Load: "a.sav", Save: "b.sav"},
				Flags:      options.Flags{Trace: true, Dump: true},
				Engine:     options.Engine{MaxFrames: 50, StepsPerFrame: engine.DefaultStepsPerFrame},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			got, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		usage bool
	}{
		{"no file", []string{"prog"}, true},
		{"flag after file", []string{"prog", "intro.tot", "-q"}, true},
		{"endianness", []string{"prog", "-endianness", "middle", "intro.tot"}, false},
		{"steps", []string{"prog", "-steps", "0", "intro.tot"}, false},
		{"frames", []string{"prog", "-frames", "-1", "intro.tot"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			_, err := ParseFlags()
			assert.Error(t, err)
			var usageErr *UsageError
			assert.Equal(t, tt.usage, errors.As(err, &usageErr))
		})
	}
}
