package inter

import (
	"errors"
	"strings"

	"github.com/retroenv/retrogob/internal/script"
)

// Drawer renders sprites, primitives and texts.
type Drawer interface {
	CreateSprite(index, width, height, flags int) error
	FreeSprite(index int) error
	FillRect(dest, left, top, right, bottom, color int) error
	DrawLine(dest, x1, y1, x2, y2, color int) error
	PutPixel(dest, x, y, color int) error
	PrintText(x, y, color int, text []byte) error
	PrintTotText(id int, text []byte) error
}

// Animator plays mult animations.
type Animator interface {
	Load(res script.Resource) error
	Play(sequence int) error
	Free()
	Init(x, y, width, height, objects int) error
	LoadObject(obj, x, y, anim, frame, layer int) error
	Animate()
	ObjectPosition(obj int) (int, int, error)
	Finished(obj int) bool
}

// Scenery manages static pictures and scenery animations.
type Scenery interface {
	LoadStatic(res script.Resource) (int, error)
	FreeStatic(index int) error
	RenderStatic(index, layer int) error
	LoadAnim(res script.Resource) (int, error)
	FreeAnim(index int) error
	UpdateAnim(index, layer, frame, x, y int) error
}

// Actors controls the goblins.
type Actors interface {
	Place(id, x, y int) error
	SetState(id, state int) error
	Position(id int) (int, int, error)
	Move(id, x, y int) error
	Step()
	Moving(id int) bool
}

// PathMap is the passability map the actors walk on.
type PathMap interface {
	Init(width, height int) error
	SetCell(x, y, value int) error
}

// Palette sets and cycles palette colors.
type Palette interface {
	SetColors(first int, rgb []byte) error
	SetEGA(indexes []byte) error
	InitRange(index, start, end, speed int) error
	Animate()
}

// VideoPlayer plays video resources.
type VideoPlayer interface {
	Play(name string, start, last int) error
	Stop()
	Done() bool
	Frame() int
}

// SoundPlayer plays samples, AdLib music and CD audio tracks.
type SoundPlayer interface {
	Load(slot int, res script.Resource) error
	Play(slot, repeat, frequency int) error
	Stop(slot int) error
	Free(slot int) error
	Playing() bool
	PlayCDTrack(name string) error
	PlayMusic(res script.Resource) error
}

// Input delivers key presses.
type Input interface {
	Key() (int, bool)
}

// Clock returns the engine time in ticks.
type Clock interface {
	Ticks() uint32
}

// ProgramLoader loads script programs by name.
type ProgramLoader interface {
	LoadProgram(name string) (*script.Program, error)
}

// Subsystems bundles the collaborators the interpreter dispatches to.
// The interpreter does not own them.
type Subsystems struct {
	Draw    Drawer
	Mult    Animator
	Scenery Scenery
	Goblins Actors
	Map     PathMap
	Palette Palette
	Video   VideoPlayer
	Sound   SoundPlayer
	Input   Input
}

func (s Subsystems) validate() error {
	var missing []string
	if s.Draw == nil {
		missing = append(missing, "draw")
	}
	if s.Mult == nil {
		missing = append(missing, "mult")
	}
	if s.Scenery == nil {
		missing = append(missing, "scenery")
	}
	if s.Goblins == nil {
		missing = append(missing, "goblins")
	}
	if s.Map == nil {
		missing = append(missing, "map")
	}
	if s.Palette == nil {
		missing = append(missing, "palette")
	}
	if s.Video == nil {
		missing = append(missing, "video")
	}
	if s.Sound == nil {
		missing = append(missing, "sound")
	}
	if s.Input == nil {
		missing = append(missing, "input")
	}
	if len(missing) > 0 {
		return errors.New("missing subsystems: " + strings.Join(missing, ", "))
	}
	return nil
}
