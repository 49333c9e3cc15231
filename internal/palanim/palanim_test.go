package palanim

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogob/internal/saveload"
	"github.com/retroenv/retrogolib/assert"
)

func TestSetColors(t *testing.T) {
	p := New()
	assert.NoError(t, p.SetColors(254, []byte{1, 2, 3, 4, 5, 6}))
	assert.Equal(t, [3]byte{4, 5, 6}, p.Color(255))

	assert.True(t, errors.Is(p.SetColors(255, []byte{1, 2, 3, 4, 5, 6}), ErrInvalidColor))
	assert.True(t, errors.Is(p.SetColors(0, []byte{1, 2}), ErrInvalidColor))
	assert.True(t, errors.Is(p.SetEGA(make([]byte, EGAColors+1)), ErrInvalidColor))

	assert.NoError(t, p.SetEGA([]byte{0, 5, 9}))
	assert.Equal(t, byte(9), p.EGA()[2])
}

func TestAnimate(t *testing.T) {
	p := New()
	assert.NoError(t, p.SetColors(10, []byte{1, 1, 1, 2, 2, 2, 3, 3, 3}))
	assert.NoError(t, p.InitRange(0, 10, 12, 2))

	p.Animate()
	assert.Equal(t, [3]byte{1, 1, 1}, p.Color(10), "speed counter not elapsed")

	p.Update()
	assert.Equal(t, [3]byte{3, 3, 3}, p.Color(10))
	assert.Equal(t, [3]byte{1, 1, 1}, p.Color(11))
	assert.Equal(t, [3]byte{2, 2, 2}, p.Color(12))

	tests := []struct {
		name  string
		index int
		start int
		end   int
		speed int
	}{
		{"index", MaxRanges, 0, 1, 1},
		{"reversed", 0, 5, 5, 1},
		{"end", 0, 0, Colors, 1},
		{"speed", 0, 0, 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.InitRange(tt.index, tt.start, tt.end, tt.speed)
			assert.True(t, errors.Is(err, ErrInvalidColor))
		})
	}
}

func TestFragment(t *testing.T) {
	src := New()
	assert.NoError(t, src.SetColors(0, []byte{9, 8, 7}))
	assert.NoError(t, src.SetEGA([]byte{3}))
	assert.NoError(t, src.InitRange(2, 0, 4, 3))
	src.Animate()
	data, err := src.SaveFragment()
	assert.NoError(t, err)

	dst := New()
	commit, err := dst.LoadFragment(data)
	assert.NoError(t, err)
	commit()
	assert.Equal(t, [3]byte{9, 8, 7}, dst.Color(0))
	assert.Equal(t, byte(3), dst.EGA()[0])
	r, ok := dst.Range(2)
	assert.True(t, ok)
	assert.Equal(t, Range{Start: 0, End: 4, Speed: 3, counter: 1}, r)

	_, err = dst.LoadFragment(data[:10])
	assert.True(t, errors.Is(err, saveload.ErrCorrupt))

	reset, err := dst.LoadFragment(nil)
	assert.NoError(t, err)
	reset()
	assert.Equal(t, [3]byte{}, dst.Color(0))
}

func TestSpeedOutOfRecordRange(t *testing.T) {
	p := New()
	err := p.InitRange(0, 0, 1, 70000)
	assert.True(t, errors.Is(err, saveload.ErrOutOfRange), "unexpected error: %v", err)
	r, _ := p.Range(0)
	assert.Equal(t, 0, r.Speed)

	p.ranges[1] = Range{Start: 0, End: 1, Speed: 70000}
	_, err = p.SaveFragment()
	assert.True(t, errors.Is(err, saveload.ErrOutOfRange), "unexpected error: %v", err)
}
