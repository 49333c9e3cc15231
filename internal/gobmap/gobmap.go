// Package gobmap implements the passability map the goblins walk on and the
// path finding over it.
package gobmap

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogob/internal/saveload"
)

// MaxSize is the maximum width and height of a map.
const MaxSize = 256

// Cell values.
const (
	Blocked  = 0
	Walkable = 1
)

var (
	// ErrNoMap is returned for accesses before the map is initialized.
	ErrNoMap = errors.New("map not initialized")
	// ErrInvalidSize is returned for map sizes outside of 1 to MaxSize.
	ErrInvalidSize = errors.New("invalid map size")
	// ErrOutOfBounds is returned for cells outside of the map.
	ErrOutOfBounds = errors.New("map cell out of bounds")
	// ErrNoPath is returned when the destination can not be reached.
	ErrNoPath = errors.New("no path")
)

// Point is a map cell position.
type Point struct {
	X int
	Y int
}

// Map is a grid of cells, a cell is walkable when its value is not Blocked.
type Map struct {
	width  int
	height int
	cells  []uint8
}

// New returns an uninitialized map.
func New() *Map {
	return &Map{}
}

// Init allocates a map with all cells walkable.
func (m *Map) Init(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxSize || height > MaxSize {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	m.width = width
	m.height = height
	m.cells = make([]uint8, width*height)
	for i := range m.cells {
		m.cells[i] = Walkable
	}
	return nil
}

// Size returns the map dimensions.
func (m *Map) Size() (int, int) {
	return m.width, m.height
}

func (m *Map) index(x, y int) (int, error) {
	if m.cells == nil {
		return 0, ErrNoMap
	}
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return 0, fmt.Errorf("%w: %d,%d of %dx%d", ErrOutOfBounds, x, y, m.width, m.height)
	}
	return y*m.width + x, nil
}

// SetCell sets the value of a cell.
func (m *Map) SetCell(x, y, value int) error {
	i, err := m.index(x, y)
	if err != nil {
		return err
	}
	m.cells[i] = uint8(value)
	return nil
}

// Cell returns the value of a cell.
func (m *Map) Cell(x, y int) (int, error) {
	i, err := m.index(x, y)
	if err != nil {
		return 0, err
	}
	return int(m.cells[i]), nil
}

// Walkable returns whether a cell can be entered.
func (m *Map) Walkable(x, y int) bool {
	i, err := m.index(x, y)
	return err == nil && m.cells[i] != Blocked
}

var neighbours = [4]Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// FindPath returns the shortest 4-neighbour path from one cell to another,
// excluding the start and including the destination. Equal length paths are
// resolved in the order up, right, down, left.
func (m *Map) FindPath(from, to Point) ([]Point, error) {
	start, err := m.index(from.X, from.Y)
	if err != nil {
		return nil, err
	}
	goal, err := m.index(to.X, to.Y)
	if err != nil {
		return nil, err
	}
	if start == goal {
		return nil, nil
	}
	if m.cells[goal] == Blocked {
		return nil, fmt.Errorf("%w: destination %d,%d blocked", ErrNoPath, to.X, to.Y)
	}

	prev := make([]int, len(m.cells))
	for i := range prev {
		prev[i] = -1
	}
	prev[start] = start
	queue := []int{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == goal {
			break
		}
		x, y := cur%m.width, cur/m.width
		for _, n := range neighbours {
			nx, ny := x+n.X, y+n.Y
			if !m.Walkable(nx, ny) {
				continue
			}
			next := ny*m.width + nx
			if prev[next] != -1 {
				continue
			}
			prev[next] = cur
			queue = append(queue, next)
		}
	}

	if prev[goal] == -1 {
		return nil, fmt.Errorf("%w: from %d,%d to %d,%d", ErrNoPath, from.X, from.Y, to.X, to.Y)
	}
	var path []Point
	for cur := goal; cur != start; cur = prev[cur] {
		path = append(path, Point{X: cur % m.width, Y: cur / m.width})
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

type mapRecord struct {
	Width  uint16
	Height uint16
}

// FragmentID returns the save fragment id.
func (m *Map) FragmentID() [4]byte {
	return [4]byte{'M', 'A', 'P', ' '}
}

// SaveFragment encodes the map size and cells.
func (m *Map) SaveFragment() ([]byte, error) {
	enc := &saveload.Encoder{}
	enc.Write(&mapRecord{Width: uint16(m.width), Height: uint16(m.height)})
	enc.Raw(m.cells)
	return enc.Bytes()
}

// LoadFragment decodes a map, a nil payload resets it to uninitialized.
func (m *Map) LoadFragment(data []byte) (func(), error) {
	if data == nil {
		return func() { *m = Map{} }, nil
	}
	dec := saveload.NewDecoder(data)
	var rec mapRecord
	dec.Read(&rec)
	if err := dec.Err(); err != nil {
		return nil, err
	}
	if rec.Width > MaxSize || rec.Height > MaxSize || (rec.Width == 0) != (rec.Height == 0) {
		return nil, fmt.Errorf("%w: map size %dx%d", saveload.ErrCorrupt, rec.Width, rec.Height)
	}
	cells := dec.Raw(int(rec.Width) * int(rec.Height))
	if err := dec.Err(); err != nil {
		return nil, err
	}
	var copied []uint8
	if rec.Width > 0 {
		copied = append([]uint8(nil), cells...)
	}
	return func() {
		m.width = int(rec.Width)
		m.height = int(rec.Height)
		m.cells = copied
	}, nil
}
