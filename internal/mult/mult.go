// Package mult implements the mult animation subsystem: a set of animation
// objects that play frame sequences of the loaded animations.
package mult

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogob/internal/saveload"
	"github.com/retroenv/retrogob/internal/script"
	"github.com/retroenv/retrogolib/log"
)

// MaxObjects is the maximum number of animation objects.
const MaxObjects = 64

var (
	// ErrInvalidData is returned for animation resources that can not be parsed.
	ErrInvalidData = errors.New("invalid animation data")
	// ErrInvalidObject is returned for an object index that is out of range.
	ErrInvalidObject = errors.New("invalid animation object")
	// ErrInvalidAnimation is returned for an animation or frame that does not exist.
	ErrInvalidAnimation = errors.New("invalid animation")
)

// Object is one animation object.
type Object struct {
	X     int
	Y     int
	Anim  int
	Frame int
	Layer int

	Active   bool
	Finished bool
}

// Area is the screen area the objects are animated in.
type Area struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Mult implements the animation subsystem.
type Mult struct {
	logger  *log.Logger
	frames  []int // frame count per animation
	objects []Object
	area    Area
	playing bool
}

// New returns an empty animation subsystem.
func New(logger *log.Logger) *Mult {
	return &Mult{logger: logger}
}

// Load parses the frame counts of an animation resource: a count byte
// followed by one frame count byte per animation.
func (m *Mult) Load(res script.Resource) error {
	frames, err := parseFrames(res.Data)
	if err != nil {
		return fmt.Errorf("resource %d: %w", res.ID, err)
	}
	m.frames = frames
	m.dropStale()
	m.logger.Debug("Loaded animations", log.Int("resource", res.ID), log.Int("animations", len(frames)))
	return nil
}

// dropStale deactivates objects that show an animation or frame the loaded
// animations do not have.
func (m *Mult) dropStale() {
	for i := range m.objects {
		o := &m.objects[i]
		if o.Active && !m.shows(o.Anim, o.Frame) {
			m.logger.Debug("Dropped animation object", log.Int("object", i), log.Int("animation", o.Anim))
			m.objects[i] = Object{}
		}
	}
}

func (m *Mult) shows(anim, frame int) bool {
	return anim >= 0 && anim < len(m.frames) && frame >= 0 && frame < m.frames[anim]
}

func parseFrames(data []byte) ([]int, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidData)
	}
	count := int(data[0])
	if len(data) < 1+count {
		return nil, fmt.Errorf("%w: %d animations need %d bytes, got %d", ErrInvalidData, count, 1+count, len(data))
	}
	frames := make([]int, count)
	for i := range frames {
		frames[i] = int(data[1+i])
		if frames[i] == 0 {
			return nil, fmt.Errorf("%w: animation %d has no frames", ErrInvalidData, i)
		}
	}
	return frames, nil
}

// Init sets up the animation area and allocates the objects.
func (m *Mult) Init(x, y, width, height, objects int) error {
	if objects < 0 || objects > MaxObjects {
		return fmt.Errorf("%w: %d objects exceed maximum %d", ErrInvalidObject, objects, MaxObjects)
	}
	if err := saveload.CheckInt16(x, y, width, height); err != nil {
		return fmt.Errorf("animation area: %w", err)
	}
	m.area = Area{X: x, Y: y, Width: width, Height: height}
	m.objects = make([]Object, objects)
	m.playing = false
	return nil
}

// LoadObject places an object showing a frame of an animation.
func (m *Mult) LoadObject(obj, x, y, anim, frame, layer int) error {
	if obj < 0 || obj >= len(m.objects) {
		return fmt.Errorf("%w: %d", ErrInvalidObject, obj)
	}
	if anim < 0 || anim >= len(m.frames) {
		return fmt.Errorf("%w: animation %d not loaded", ErrInvalidAnimation, anim)
	}
	if frame < 0 || frame >= m.frames[anim] {
		return fmt.Errorf("%w: frame %d of animation %d", ErrInvalidAnimation, frame, anim)
	}
	if err := saveload.CheckInt16(x, y, layer); err != nil {
		return fmt.Errorf("object %d: %w", obj, err)
	}
	m.objects[obj] = Object{X: x, Y: y, Anim: anim, Frame: frame, Layer: layer, Active: true}
	return nil
}

// Play restarts all objects showing the given animation.
func (m *Mult) Play(sequence int) error {
	if sequence < 0 || sequence >= len(m.frames) {
		return fmt.Errorf("%w: sequence %d not loaded", ErrInvalidAnimation, sequence)
	}
	for i := range m.objects {
		o := &m.objects[i]
		if o.Active && o.Anim == sequence {
			o.Frame = 0
			o.Finished = false
		}
	}
	m.playing = true
	return nil
}

// Free releases the animations and objects.
func (m *Mult) Free() {
	m.frames = nil
	m.objects = nil
	m.area = Area{}
	m.playing = false
}

// Animate advances all active objects by one frame. Objects stop on the
// last frame of their animation, objects without a valid animation count as
// finished.
func (m *Mult) Animate() {
	for i := range m.objects {
		o := &m.objects[i]
		if !o.Active || o.Finished {
			continue
		}
		if !m.shows(o.Anim, o.Frame) {
			o.Finished = true
			continue
		}
		last := m.frames[o.Anim] - 1
		if o.Frame < last {
			o.Frame++
		}
		if o.Frame >= last {
			o.Finished = true
		}
	}
}

// Update advances the animations once per engine frame while playing.
func (m *Mult) Update() {
	if m.playing {
		m.Animate()
	}
}

// ObjectPosition returns the position of an object.
func (m *Mult) ObjectPosition(obj int) (int, int, error) {
	if obj < 0 || obj >= len(m.objects) {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidObject, obj)
	}
	return m.objects[obj].X, m.objects[obj].Y, nil
}

// Finished returns whether an object reached the end of its animation.
// Unknown and inactive objects count as finished.
func (m *Mult) Finished(obj int) bool {
	if obj < 0 || obj >= len(m.objects) {
		return true
	}
	o := m.objects[obj]
	return !o.Active || o.Finished
}

// Object returns a copy of an object.
func (m *Mult) Object(obj int) (Object, bool) {
	if obj < 0 || obj >= len(m.objects) {
		return Object{}, false
	}
	return m.objects[obj], true
}

// Area returns the animation area.
func (m *Mult) Area() Area {
	return m.area
}
