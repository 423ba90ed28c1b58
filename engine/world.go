package engine

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/lixenwraith/celldomain/core"
	"github.com/lixenwraith/celldomain/grid"
)

// ActorID identifies an actor or building, 0 is reserved for terrain
type ActorID uint64

var (
	ErrOutOfBounds  = errors.New("cell out of bounds")
	ErrCellFull     = errors.New("cell occupancy full")
	ErrUnknownActor = errors.New("unknown actor")
	ErrNotMovable   = errors.New("buildings cannot move")
)

// Occupant is anything whose presence blocks the cells it occupies
type Occupant interface {
	OccupantID() ActorID
	OccupiedCells() []core.Point
	IsBuilding() bool
}

// Actor is a unit occupying a single cell
type Actor struct {
	ID       ActorID
	Location core.Point
}

func (a *Actor) OccupantID() ActorID         { return a.ID }
func (a *Actor) OccupiedCells() []core.Point { return []core.Point{a.Location} }
func (a *Actor) IsBuilding() bool            { return false }

// Building occupies a rectangular footprint anchored at TopLeft
type Building struct {
	ID      ActorID
	TopLeft core.Point
	Width   int
	Height  int
}

func (b *Building) OccupantID() ActorID { return b.ID }
func (b *Building) IsBuilding() bool    { return true }

// OccupiedCells returns the footprint in row-major order
func (b *Building) OccupiedCells() []core.Point {
	cells := make([]core.Point, 0, b.Width*b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			cells = append(cells, b.TopLeft.Add(x, y))
		}
	}
	return cells
}

// Listener receives world membership notifications synchronously,
// after the occupancy change has been applied
type Listener interface {
	ActorAdded(o Occupant)
	ActorRemoved(o Occupant)
	TerrainChanged(p core.Point)
}

// World owns terrain, occupants and their occupancy grid
// Not safe for concurrent use; the simulation tick is the single writer
type World struct {
	Map       *grid.Rect
	terrain   []bool
	occupancy *OccupancyGrid
	occupants map[ActorID]Occupant
	nextID    ActorID
	listeners []Listener
}

// NewWorld creates an empty world over the given map
func NewWorld(m *grid.Rect) *World {
	return &World{
		Map:       m,
		terrain:   make([]bool, m.Width*m.Height),
		occupancy: NewOccupancyGrid(m.Width, m.Height),
		occupants: make(map[ActorID]Occupant),
		nextID:    1,
	}
}

// Subscribe registers a listener; listeners are notified in registration order
func (w *World) Subscribe(l Listener) {
	w.listeners = append(w.listeners, l)
}

// Locomotor returns the passability view of this world
func (w *World) Locomotor() *Locomotor {
	return &Locomotor{world: w}
}

// SetTerrain marks a cell as permanently blocked or clear
// Notifies listeners only when the value changes
func (w *World) SetTerrain(p core.Point, blocked bool) error {
	if !w.Map.Contains(p) {
		return errors.Wrapf(ErrOutOfBounds, "terrain %v", p)
	}
	idx := grid.Index(w.Map.Width, p)
	if w.terrain[idx] == blocked {
		return nil
	}
	w.terrain[idx] = blocked
	for _, l := range w.listeners {
		l.TerrainChanged(p)
	}
	return nil
}

// LoadTerrain sets terrain without notifying listeners, for use before the manager is built
func (w *World) LoadTerrain(cells []core.Point) error {
	for _, p := range cells {
		if !w.Map.Contains(p) {
			return errors.Wrapf(ErrOutOfBounds, "terrain %v", p)
		}
		w.terrain[grid.Index(w.Map.Width, p)] = true
	}
	return nil
}

// TerrainBlocked reports the terrain value of a cell
func (w *World) TerrainBlocked(p core.Point) bool {
	if !w.Map.Contains(p) {
		return false
	}
	return w.terrain[grid.Index(w.Map.Width, p)]
}

// SpawnActor creates an actor at p and adds it to the world
func (w *World) SpawnActor(p core.Point) (*Actor, error) {
	a := &Actor{ID: w.allocID(), Location: p}
	if err := w.add(a); err != nil {
		return nil, err
	}
	return a, nil
}

// PlaceBuilding creates a building footprint and adds it to the world
func (w *World) PlaceBuilding(topLeft core.Point, width, height int) (*Building, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("building footprint %dx%d must be positive", width, height)
	}
	b := &Building{ID: w.allocID(), TopLeft: topLeft, Width: width, Height: height}
	if err := w.add(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Remove takes an occupant out of the world
func (w *World) Remove(id ActorID) error {
	o, ok := w.occupants[id]
	if !ok {
		return errors.Wrapf(ErrUnknownActor, "remove %d", id)
	}
	for _, c := range o.OccupiedCells() {
		w.occupancy.Remove(id, c.X, c.Y)
	}
	delete(w.occupants, id)
	for _, l := range w.listeners {
		l.ActorRemoved(o)
	}
	return nil
}

// MoveActor relocates a single-cell actor, notifying removal then addition
func (w *World) MoveActor(id ActorID, to core.Point) error {
	o, ok := w.occupants[id]
	if !ok {
		return errors.Wrapf(ErrUnknownActor, "move %d", id)
	}
	a, ok := o.(*Actor)
	if !ok {
		return errors.Wrapf(ErrNotMovable, "move %d", id)
	}
	if !w.Map.Contains(to) {
		return errors.Wrapf(ErrOutOfBounds, "move %d to %v", id, to)
	}
	if w.occupancy.Free(to.X, to.Y) == 0 {
		return errors.Wrapf(ErrCellFull, "move %d to %v", id, to)
	}

	if err := w.Remove(id); err != nil {
		return err
	}
	a.Location = to
	return w.add(a)
}

// Get returns the occupant with the given id
func (w *World) Get(id ActorID) (Occupant, bool) {
	o, ok := w.occupants[id]
	return o, ok
}

// OccupantIDs returns all ids in ascending order
func (w *World) OccupantIDs() []ActorID {
	ids := make([]ActorID, 0, len(w.occupants))
	for id := range w.occupants {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// OccupantsAt returns a copy of the ids standing on p
func (w *World) OccupantsAt(p core.Point) []ActorID {
	return slices.Clone(w.occupancy.At(p.X, p.Y))
}

func (w *World) allocID() ActorID {
	id := w.nextID
	w.nextID++
	return id
}

// add validates the whole footprint before touching occupancy so a failed add leaves no residue
func (w *World) add(o Occupant) error {
	cells := o.OccupiedCells()
	for _, c := range cells {
		if !w.Map.Contains(c) {
			return errors.Wrapf(ErrOutOfBounds, "occupant %d at %v", o.OccupantID(), c)
		}
		if w.occupancy.Free(c.X, c.Y) == 0 {
			return errors.Wrapf(ErrCellFull, "occupant %d at %v", o.OccupantID(), c)
		}
	}
	for _, c := range cells {
		w.occupancy.Add(o.OccupantID(), c.X, c.Y)
	}
	w.occupants[o.OccupantID()] = o
	for _, l := range w.listeners {
		l.ActorAdded(o)
	}
	return nil
}

// Locomotor answers passability for a single cell
// Pure query: terrain or any occupant blocks
type Locomotor struct {
	world *World
}

// IsBlocked reports whether p is impassable; cells outside the map are blocked
func (l *Locomotor) IsBlocked(p core.Point) bool {
	if !l.world.Map.Contains(p) {
		return true
	}
	return l.world.TerrainBlocked(p) || l.world.occupancy.HasAny(p.X, p.Y)
}
