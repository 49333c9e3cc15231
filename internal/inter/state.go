package inter

import (
	"fmt"

	"github.com/retroenv/retrogob/internal/expr"
)

// State is the execution state of the interpreter.
type State uint8

const (
	Idle State = iota
	Running
	Suspended
	Halted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("state(%d)", s)
	}
}

// WaitKind is the external condition a suspended script waits for.
type WaitKind uint8

const (
	WaitNone WaitKind = iota
	WaitTimer
	WaitAnimation
	WaitActor
	WaitVideo
	WaitSound
	WaitInput
)

func (k WaitKind) String() string {
	switch k {
	case WaitNone:
		return "none"
	case WaitTimer:
		return "timer"
	case WaitAnimation:
		return "animation"
	case WaitActor:
		return "actor"
	case WaitVideo:
		return "video"
	case WaitSound:
		return "sound"
	case WaitInput:
		return "input"
	default:
		return fmt.Sprintf("wait(%d)", k)
	}
}

// Wait is the resume condition of a suspended script.
type Wait struct {
	Kind     WaitKind
	ID       int         // animation object or actor id
	Deadline uint32      // tick count for timer waits
	Target   expr.VarRef // variable receiving the key of input waits
}

// Event is an external signal delivered by the engine.
type Event struct {
	Kind WaitKind
	ID   int
	Tick uint32
	Key  int
}

// matches returns whether the event satisfies the wait condition.
func (w Wait) matches(ev Event) bool {
	if w.Kind != ev.Kind {
		return false
	}
	switch w.Kind {
	case WaitTimer:
		return ev.Tick >= w.Deadline
	case WaitAnimation, WaitActor:
		return w.ID == ev.ID
	default:
		return true
	}
}

// FatalError terminates the execution of the current script program.
type FatalError struct {
	Program string
	Offset  uint32
	Err     error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal error in '%s' at offset 0x%04X: %v", e.Program, e.Offset, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}
