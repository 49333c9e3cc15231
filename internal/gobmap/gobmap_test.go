package gobmap

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestCells(t *testing.T) {
	m := New()
	assert.True(t, errors.Is(m.SetCell(0, 0, 1), ErrNoMap))
	assert.False(t, m.Walkable(0, 0))

	assert.True(t, errors.Is(m.Init(0, 5), ErrInvalidSize))
	assert.True(t, errors.Is(m.Init(MaxSize+1, 5), ErrInvalidSize))

	assert.NoError(t, m.Init(4, 3))
	assert.True(t, m.Walkable(3, 2))
	assert.NoError(t, m.SetCell(3, 2, Blocked))
	assert.False(t, m.Walkable(3, 2))

	v, err := m.Cell(3, 2)
	assert.NoError(t, err)
	assert.Equal(t, Blocked, v)

	assert.True(t, errors.Is(m.SetCell(4, 0, 1), ErrOutOfBounds))
	assert.True(t, errors.Is(m.SetCell(0, -1, 1), ErrOutOfBounds))
}

func TestFindPath(t *testing.T) {
	m := New()
	assert.NoError(t, m.Init(4, 3))
	// wall in column 1 with a gap in the last row
	assert.NoError(t, m.SetCell(1, 0, Blocked))
	assert.NoError(t, m.SetCell(1, 1, Blocked))

	path, err := m.FindPath(Point{0, 0}, Point{2, 0})
	assert.NoError(t, err)
	want := []Point{{0, 1}, {0, 2}, {1, 2}, {2, 2}, {2, 1}, {2, 0}}
	assert.Equal(t, want, path)

	path, err = m.FindPath(Point{2, 2}, Point{2, 2})
	assert.NoError(t, err)
	assert.Empty(t, path)

	assert.NoError(t, m.SetCell(1, 2, Blocked))
	_, err = m.FindPath(Point{0, 0}, Point{2, 0})
	assert.True(t, errors.Is(err, ErrNoPath))

	_, err = m.FindPath(Point{0, 0}, Point{1, 0})
	assert.True(t, errors.Is(err, ErrNoPath))

	_, err = m.FindPath(Point{0, 0}, Point{9, 0})
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestFragment(t *testing.T) {
	src := New()
	assert.NoError(t, src.Init(3, 2))
	assert.NoError(t, src.SetCell(2, 1, 7))
	data, err := src.SaveFragment()
	assert.NoError(t, err)

	dst := New()
	commit, err := dst.LoadFragment(data)
	assert.NoError(t, err)
	commit()
	w, h := dst.Size()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
	v, err := dst.Cell(2, 1)
	assert.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = dst.LoadFragment(data[:len(data)-1])
	assert.Error(t, err)

	reset, err := dst.LoadFragment(nil)
	assert.NoError(t, err)
	reset()
	assert.True(t, errors.Is(dst.SetCell(0, 0, 1), ErrNoMap))

	empty, err := New().SaveFragment()
	assert.NoError(t, err)
	commit, err = dst.LoadFragment(empty)
	assert.NoError(t, err)
	commit()
	w, _ = dst.Size()
	assert.Equal(t, 0, w)
}
