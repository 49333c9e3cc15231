// Package loader handles script program file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/retroenv/retrogob/internal/script"
	"github.com/retroenv/retrogolib/log"
)

// Extension is the file extension of script programs.
const Extension = ".tot"

// ErrNotFound is returned for programs that do not exist in the data directory.
var ErrNotFound = errors.New("program not found")

// Loader loads script programs from a game data directory. File names are
// matched case insensitively, the game data was written for DOS file systems.
type Loader struct {
	logger *log.Logger
	fsys   fs.FS

	mu    sync.Mutex
	cache map[string]*script.Program
}

// New creates a loader reading from the given file system.
func New(logger *log.Logger, fsys fs.FS) *Loader {
	return &Loader{
		logger: logger,
		fsys:   fsys,
		cache:  map[string]*script.Program{},
	}
}

// NewDir creates a loader reading from a directory.
func NewDir(logger *log.Logger, dir string) *Loader {
	return New(logger, os.DirFS(dir))
}

// LoadProgram loads and parses a program, the extension is optional.
// Loaded programs are cached, programs are immutable.
func (l *Loader) LoadProgram(name string) (*script.Program, error) {
	if path.Ext(name) == "" {
		name += Extension
	}
	key := strings.ToLower(name)

	l.mu.Lock()
	defer l.mu.Unlock()
	if prog, ok := l.cache[key]; ok {
		return prog, nil
	}

	file, err := l.resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(l.fsys, file)
	if err != nil {
		return nil, fmt.Errorf("reading program %s: %w", file, err)
	}
	prog, err := script.Load(name, data)
	if err != nil {
		return nil, fmt.Errorf("loading program %s: %w", file, err)
	}

	l.logger.Debug("Loaded program", log.String("file", file), log.Int("size", len(data)))
	l.cache[key] = prog
	return prog, nil
}

// resolve returns the file name of a program in the data directory.
func (l *Loader) resolve(name string) (string, error) {
	if _, err := fs.Stat(l.fsys, name); err == nil {
		return name, nil
	}
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return "", fmt.Errorf("reading data directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(entry.Name(), name) {
			return entry.Name(), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}
