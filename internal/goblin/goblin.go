// Package goblin implements the actors that scripts place on the map and move
// along paths found on it.
package goblin

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogob/internal/gobmap"
	"github.com/retroenv/retrogob/internal/saveload"
	"github.com/retroenv/retrogolib/log"
)

// MaxActors is the number of actor slots.
const MaxActors = 16

// ErrInvalidActor is returned for an actor id that is out of range or not placed.
var ErrInvalidActor = errors.New("invalid actor")

// Pathfinder finds walkable paths between map cells.
type Pathfinder interface {
	FindPath(from, to gobmap.Point) ([]gobmap.Point, error)
}

// Actor is one goblin.
type Actor struct {
	Position gobmap.Point
	State    int
	Placed   bool
	Path     []gobmap.Point // remaining cells to walk
}

// Goblins implements the actor subsystem.
type Goblins struct {
	logger *log.Logger
	paths  Pathfinder
	actors [MaxActors]Actor
}

// New returns the actor subsystem walking on the given map.
func New(logger *log.Logger, paths Pathfinder) *Goblins {
	return &Goblins{
		logger: logger,
		paths:  paths,
	}
}

func (g *Goblins) actor(id int) (*Actor, error) {
	if id < 0 || id >= MaxActors {
		return nil, fmt.Errorf("%w: %d out of range", ErrInvalidActor, id)
	}
	a := &g.actors[id]
	if !a.Placed {
		return nil, fmt.Errorf("%w: %d not placed", ErrInvalidActor, id)
	}
	return a, nil
}

// Place puts an actor on a cell and stops it.
func (g *Goblins) Place(id, x, y int) error {
	if id < 0 || id >= MaxActors {
		return fmt.Errorf("%w: %d out of range", ErrInvalidActor, id)
	}
	if err := saveload.CheckInt16(x, y); err != nil {
		return fmt.Errorf("actor %d position: %w", id, err)
	}
	a := &g.actors[id]
	a.Position = gobmap.Point{X: x, Y: y}
	a.Placed = true
	a.Path = nil
	return nil
}

// SetState sets the animation state of an actor.
func (g *Goblins) SetState(id, state int) error {
	a, err := g.actor(id)
	if err != nil {
		return err
	}
	if err := saveload.CheckInt16(state); err != nil {
		return fmt.Errorf("actor %d state: %w", id, err)
	}
	a.State = state
	return nil
}

// Position returns the cell of an actor.
func (g *Goblins) Position(id int) (int, int, error) {
	a, err := g.actor(id)
	if err != nil {
		return 0, 0, err
	}
	return a.Position.X, a.Position.Y, nil
}

// Move starts walking an actor to a destination cell. An unreachable
// destination leaves the actor where it is.
func (g *Goblins) Move(id, x, y int) error {
	a, err := g.actor(id)
	if err != nil {
		return err
	}
	path, err := g.paths.FindPath(a.Position, gobmap.Point{X: x, Y: y})
	if err != nil {
		a.Path = nil
		return fmt.Errorf("moving actor %d: %w", id, err)
	}
	a.Path = path
	g.logger.Debug("Moving actor", log.Int("actor", id), log.Int("steps", len(path)))
	return nil
}

// Step advances every moving actor by one cell.
func (g *Goblins) Step() {
	for i := range g.actors {
		a := &g.actors[i]
		if len(a.Path) == 0 {
			continue
		}
		a.Position = a.Path[0]
		a.Path = a.Path[1:]
	}
}

// Update advances the actors once per engine frame.
func (g *Goblins) Update() {
	g.Step()
}

// Moving returns whether an actor still has cells to walk.
func (g *Goblins) Moving(id int) bool {
	a, err := g.actor(id)
	return err == nil && len(a.Path) > 0
}

// Actor returns a copy of an actor.
func (g *Goblins) Actor(id int) (Actor, bool) {
	a, err := g.actor(id)
	if err != nil {
		return Actor{}, false
	}
	c := *a
	c.Path = append([]gobmap.Point(nil), a.Path...)
	return c, true
}
