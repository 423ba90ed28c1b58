package grid

import (
	"testing"

	"github.com/lixenwraith/celldomain/core"
)

func TestRectContains(t *testing.T) {
	r := NewRect(4, 3)
	tests := []struct {
		p    core.Point
		want bool
	}{
		{core.Point{X: 0, Y: 0}, true},
		{core.Point{X: 3, Y: 2}, true},
		{core.Point{X: 4, Y: 0}, false},
		{core.Point{X: 0, Y: 3}, false},
		{core.Point{X: -1, Y: 1}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v): expected %v, got %v", tt.p, tt.want, got)
		}
	}
}

func TestSharedSidesMatch(t *testing.T) {
	r := NewRect(3, 3)
	c := core.Point{X: 1, Y: 1}
	edges := r.CellEdges(c)

	for s := SideTop; s < SideCount; s++ {
		n, ok := r.Neighbour(c, s)
		if !ok {
			t.Fatalf("Expected neighbour on side %d of %v", s, c)
		}
		other := r.CellEdges(n)[Opposite[s]]
		if edges[s] != other {
			t.Errorf("Side %d of %v (%v) does not match opposite side of %v (%v)", s, c, edges[s], n, other)
		}
		if edges[s].Length() != r.CellSize {
			t.Errorf("Side %d: expected length %d, got %d", s, r.CellSize, edges[s].Length())
		}
	}
}

func TestIndexRoundTrip(t *testing.T) {
	w := 7
	for idx := 0; idx < w*5; idx++ {
		p := PointAt(w, idx)
		if Index(w, p) != idx {
			t.Fatalf("Index(PointAt(%d)) = %d", idx, Index(w, p))
		}
	}
}

func TestCenterOfCell(t *testing.T) {
	r := NewRect(2, 2)
	got := r.CenterOfCell(core.Point{X: 1, Y: 0})
	want := core.WPos{X: r.CellSize + r.CellSize/2, Y: r.CellSize / 2}
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
