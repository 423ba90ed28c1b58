package engine

import (
	"testing"

	"github.com/lixenwraith/celldomain/parameter"
)

func TestOccupancyGrid_AddRemove(t *testing.T) {
	g := NewOccupancyGrid(4, 4)

	if g.HasAny(1, 1) {
		t.Fatal("Expected empty cell")
	}
	if !g.Add(7, 1, 1) || !g.Add(9, 1, 1) {
		t.Fatal("Expected add to succeed")
	}
	if got := len(g.At(1, 1)); got != 2 {
		t.Errorf("Expected 2 occupants, got %d", got)
	}

	g.Remove(7, 1, 1)
	occ := g.At(1, 1)
	if len(occ) != 1 || occ[0] != 9 {
		t.Errorf("Expected [9] after swap-remove, got %v", occ)
	}

	g.Remove(9, 1, 1)
	if g.HasAny(1, 1) {
		t.Error("Expected cell empty after removing all occupants")
	}
}

func TestOccupancyGrid_Bounds(t *testing.T) {
	g := NewOccupancyGrid(2, 2)
	if g.Add(1, 2, 0) || g.Add(1, -1, 0) {
		t.Error("Expected out-of-bounds add to fail")
	}
	if g.HasAny(5, 5) || g.At(-1, 0) != nil {
		t.Error("Expected out-of-bounds queries to report empty")
	}
	g.Remove(1, 9, 9) // must not panic
}

func TestOccupancyGrid_Full(t *testing.T) {
	g := NewOccupancyGrid(1, 1)
	for i := 0; i < parameter.MaxEntitiesPerCell; i++ {
		if !g.Add(ActorID(i+1), 0, 0) {
			t.Fatalf("Add %d failed before capacity", i)
		}
	}
	if g.Add(99, 0, 0) {
		t.Error("Expected add to fail on full cell")
	}
	if g.Free(0, 0) != 0 {
		t.Errorf("Expected no free slots, got %d", g.Free(0, 0))
	}
}
