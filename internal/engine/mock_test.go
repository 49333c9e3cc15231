package engine

import (
	"fmt"
	"strings"
	"testing"

	"github.com/retroenv/retrogob/internal/assembler"
	"github.com/retroenv/retrogob/internal/script"
	"github.com/retroenv/retrogolib/assert"
)

// fakeLoader serves assembled programs by case insensitive name.
type fakeLoader struct {
	programs map[string]*script.Program
	loads    []string
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{programs: map[string]*script.Program{}}
}

func (l *fakeLoader) add(t *testing.T, name string, code *assembler.Builder) {
	t.Helper()
	data, err := assembler.Tot{VariablesCount: 16, Code: code}.Assemble()
	assert.NoError(t, err)
	prog, err := script.Load(name, data)
	assert.NoError(t, err)
	l.programs[strings.ToLower(name)] = prog
}

func (l *fakeLoader) LoadProgram(name string) (*script.Program, error) {
	l.loads = append(l.loads, name)
	prog, ok := l.programs[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: program '%s'", script.ErrMissingResource, name)
	}
	return prog, nil
}

type fixedRandom int

func (r fixedRandom) IntN(int) int {
	return int(r)
}
