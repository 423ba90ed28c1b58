package core

import "testing"

func TestPointDistances(t *testing.T) {
	a := Point{X: 2, Y: 3}
	b := Point{X: 5, Y: -1}

	if got := a.Manhattan(b); got != 7 {
		t.Errorf("Manhattan: expected 7, got %d", got)
	}
	if got := a.DistSq(b); got != 25 {
		t.Errorf("DistSq: expected 25, got %d", got)
	}
	if !a.Adjacent(a.Add(0, 1)) || !a.Adjacent(a.Add(-1, 0)) {
		t.Error("Expected orthogonal neighbours to be adjacent")
	}
	if a.Adjacent(a.Add(1, 1)) || a.Adjacent(a) {
		t.Error("Diagonal neighbour and self must not be adjacent")
	}
}

func TestNewSegmentIsOrderIndependent(t *testing.T) {
	p, q := WPos{X: 1024, Y: 0}, WPos{X: 0, Y: 0}
	if NewSegment(p, q) != NewSegment(q, p) {
		t.Errorf("Expected equal segments, got %v and %v", NewSegment(p, q), NewSegment(q, p))
	}
	s := NewSegment(p, q)
	if s.A != q || s.B != p {
		t.Errorf("Expected canonical order %v-%v, got %v", q, p, s)
	}
}

func TestSegmentSplit(t *testing.T) {
	s := NewSegment(WPos{X: 0, Y: 2048}, WPos{X: 3072, Y: 2048})
	parts := s.Split(1024)
	if len(parts) != 3 {
		t.Fatalf("Expected 3 unit segments, got %d", len(parts))
	}
	for i, part := range parts {
		if part.Length() != 1024 || !part.Horizontal() {
			t.Errorf("Part %d: expected horizontal unit segment, got %v", i, part)
		}
	}
	if parts[0].A != s.A || parts[2].B != s.B {
		t.Errorf("Split endpoints do not match source segment %v", s)
	}

	if NewSegment(WPos{0, 0}, WPos{1, 1}).Split(1) != nil {
		t.Error("Expected nil split for diagonal segment")
	}
	if NewSegment(WPos{0, 0}, WPos{0, 1500}).Split(1024) != nil {
		t.Error("Expected nil split for non-multiple length")
	}
}
