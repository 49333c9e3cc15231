package mult

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogob/internal/saveload"
	"github.com/retroenv/retrogob/internal/script"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newLoaded(t *testing.T) *Mult {
	t.Helper()
	m := New(log.NewTestLogger(t))
	assert.NoError(t, m.Load(script.Resource{ID: 1, Data: []byte{2, 3, 1}}))
	assert.NoError(t, m.Init(0, 0, 320, 200, 4))
	return m
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated", []byte{3, 1}},
		{"no frames", []byte{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(log.NewTestLogger(t))
			err := m.Load(script.Resource{Data: tt.data})
			assert.True(t, errors.Is(err, ErrInvalidData), "unexpected error: %v", err)
		})
	}
}

func TestAnimate(t *testing.T) {
	m := newLoaded(t)
	assert.NoError(t, m.LoadObject(0, 10, 20, 0, 0, 1))
	assert.NoError(t, m.LoadObject(1, 0, 0, 1, 0, 1))

	assert.False(t, m.Finished(0))
	assert.False(t, m.Finished(1))
	assert.True(t, m.Finished(2))
	assert.True(t, m.Finished(99))

	m.Update()
	o, _ := m.Object(0)
	assert.Equal(t, 0, o.Frame, "update only advances while playing")

	assert.NoError(t, m.Play(0))
	m.Update()
	assert.False(t, m.Finished(0))
	assert.True(t, m.Finished(1), "single frame animation")
	m.Update()
	assert.True(t, m.Finished(0))
	o, _ = m.Object(0)
	assert.Equal(t, 2, o.Frame)

	assert.NoError(t, m.Play(0))
	assert.False(t, m.Finished(0))

	x, y, err := m.ObjectPosition(0)
	assert.NoError(t, err)
	assert.Equal(t, 10, x)
	assert.Equal(t, 20, y)
}

func TestErrors(t *testing.T) {
	m := newLoaded(t)

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"object range", m.LoadObject(4, 0, 0, 0, 0, 0), ErrInvalidObject},
		{"animation range", m.LoadObject(0, 0, 0, 2, 0, 0), ErrInvalidAnimation},
		{"frame range", m.LoadObject(0, 0, 0, 0, 3, 0), ErrInvalidAnimation},
		{"play range", m.Play(5), ErrInvalidAnimation},
		{"too many objects", m.Init(0, 0, 1, 1, MaxObjects+1), ErrInvalidObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.want), "unexpected error: %v", tt.err)
		})
	}
}

func TestFragment(t *testing.T) {
	src := newLoaded(t)
	assert.NoError(t, src.LoadObject(2, 5, 6, 0, 1, 3))
	assert.NoError(t, src.Play(1))
	data, err := src.SaveFragment()
	assert.NoError(t, err)

	dst := New(log.NewTestLogger(t))
	commit, err := dst.LoadFragment(data)
	assert.NoError(t, err)
	_, ok := dst.Object(2)
	assert.False(t, ok, "state changes only on commit")

	commit()
	o, ok := dst.Object(2)
	assert.True(t, ok)
	assert.Equal(t, Object{X: 5, Y: 6, Anim: 0, Frame: 1, Layer: 3, Active: true}, o)
	assert.Equal(t, Area{Width: 320, Height: 200}, dst.Area())

	_, err = dst.LoadFragment(data[:len(data)-1])
	assert.True(t, errors.Is(err, saveload.ErrCorrupt))

	reset, err := dst.LoadFragment(nil)
	assert.NoError(t, err)
	reset()
	_, ok = dst.Object(2)
	assert.False(t, ok)
}

func TestReloadDropsStaleObjects(t *testing.T) {
	m := New(log.NewTestLogger(t))
	assert.NoError(t, m.Init(0, 0, 10, 10, 2))
	assert.NoError(t, m.Load(script.Resource{Data: []byte{2, 3, 1}}))
	assert.NoError(t, m.LoadObject(0, 1, 1, 1, 0, 0))
	assert.NoError(t, m.LoadObject(1, 2, 2, 0, 2, 0))

	assert.NoError(t, m.Load(script.Resource{Data: []byte{1, 3}}))
	o, _ := m.Object(0)
	assert.False(t, o.Active, "animation 1 is gone")
	o, _ = m.Object(1)
	assert.True(t, o.Active)

	assert.NoError(t, m.Load(script.Resource{Data: []byte{1, 2}}))
	o, _ = m.Object(1)
	assert.False(t, o.Active, "frame 2 is gone")

	m.Animate()
	assert.True(t, m.Finished(0))

	data, err := m.SaveFragment()
	assert.NoError(t, err)
	commit, err := New(log.NewTestLogger(t)).LoadFragment(data)
	assert.NoError(t, err)
	assert.NotNil(t, commit)
}

func TestAnimateInvalidObject(t *testing.T) {
	m := newLoaded(t)
	m.objects[0] = Object{Anim: 7, Active: true}
	m.Animate()
	assert.True(t, m.Finished(0))
}

func TestOutOfRecordRange(t *testing.T) {
	m := newLoaded(t)
	err := m.Init(70000, 0, 1, 1, 1)
	assert.True(t, errors.Is(err, saveload.ErrOutOfRange), "unexpected error: %v", err)
	err = m.LoadObject(0, 0, -40000, 0, 0, 0)
	assert.True(t, errors.Is(err, saveload.ErrOutOfRange), "unexpected error: %v", err)

	m.objects[0] = Object{X: 1 << 20, Active: true}
	_, err = m.SaveFragment()
	assert.True(t, errors.Is(err, saveload.ErrOutOfRange), "unexpected error: %v", err)
}
