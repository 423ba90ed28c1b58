package engine

import (
	"errors"
	"testing"

	"github.com/lixenwraith/celldomain/core"
	"github.com/lixenwraith/celldomain/grid"
)

type recordingListener struct {
	added   []ActorID
	removed []ActorID
	terrain []core.Point
}

func (r *recordingListener) ActorAdded(o Occupant)       { r.added = append(r.added, o.OccupantID()) }
func (r *recordingListener) ActorRemoved(o Occupant)     { r.removed = append(r.removed, o.OccupantID()) }
func (r *recordingListener) TerrainChanged(p core.Point) { r.terrain = append(r.terrain, p) }

func TestWorld_ActorLifecycle(t *testing.T) {
	w := NewWorld(grid.NewRect(5, 5))
	rec := &recordingListener{}
	w.Subscribe(rec)
	loco := w.Locomotor()

	p := core.Point{X: 2, Y: 2}
	a, err := w.SpawnActor(p)
	if err != nil {
		t.Fatalf("SpawnActor failed: %v", err)
	}
	if !loco.IsBlocked(p) {
		t.Error("Expected actor cell to be blocked")
	}

	if err := w.MoveActor(a.ID, core.Point{X: 3, Y: 2}); err != nil {
		t.Fatalf("MoveActor failed: %v", err)
	}
	if loco.IsBlocked(p) || !loco.IsBlocked(core.Point{X: 3, Y: 2}) {
		t.Error("Expected blocked cell to follow the actor")
	}

	if err := w.Remove(a.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if loco.IsBlocked(core.Point{X: 3, Y: 2}) {
		t.Error("Expected cell clear after removal")
	}

	if len(rec.added) != 2 || len(rec.removed) != 2 {
		t.Errorf("Expected 2 added / 2 removed notifications, got %v / %v", rec.added, rec.removed)
	}
}

func TestWorld_BuildingFootprint(t *testing.T) {
	w := NewWorld(grid.NewRect(6, 6))
	b, err := w.PlaceBuilding(core.Point{X: 1, Y: 1}, 2, 2)
	if err != nil {
		t.Fatalf("PlaceBuilding failed: %v", err)
	}

	cells := b.OccupiedCells()
	want := []core.Point{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}}
	if len(cells) != len(want) {
		t.Fatalf("Expected %d cells, got %d", len(want), len(cells))
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("Cell %d: expected %v, got %v", i, want[i], cells[i])
		}
	}

	if _, err := w.PlaceBuilding(core.Point{X: 5, Y: 5}, 2, 2); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds for overhanging footprint, got %v", err)
	}
	if w.Locomotor().IsBlocked(core.Point{X: 5, Y: 5}) {
		t.Error("Failed placement must not leave occupancy behind")
	}
	if err := w.MoveActor(b.ID, core.Point{}); !errors.Is(err, ErrNotMovable) {
		t.Errorf("Expected ErrNotMovable, got %v", err)
	}
}

func TestWorld_Terrain(t *testing.T) {
	w := NewWorld(grid.NewRect(3, 3))
	rec := &recordingListener{}
	w.Subscribe(rec)

	p := core.Point{X: 0, Y: 1}
	if err := w.SetTerrain(p, true); err != nil {
		t.Fatalf("SetTerrain failed: %v", err)
	}
	if err := w.SetTerrain(p, true); err != nil {
		t.Fatalf("SetTerrain failed: %v", err)
	}
	if len(rec.terrain) != 1 {
		t.Errorf("Expected one notification for an unchanged repeat, got %d", len(rec.terrain))
	}
	if !w.Locomotor().IsBlocked(p) {
		t.Error("Expected terrain cell blocked")
	}
	if !w.Locomotor().IsBlocked(core.Point{X: -1, Y: 0}) {
		t.Error("Expected out-of-map cell blocked")
	}
	if err := w.SetTerrain(core.Point{X: 3, Y: 0}, true); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}
}

func TestWorld_UnknownActor(t *testing.T) {
	w := NewWorld(grid.NewRect(2, 2))
	if err := w.Remove(42); !errors.Is(err, ErrUnknownActor) {
		t.Errorf("Expected ErrUnknownActor, got %v", err)
	}
}
