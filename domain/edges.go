package domain

import (
	"cmp"
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/celldomain/core"
)

// EdgeTracker holds the raw set of unit boundary edges between domains
// Edges are stored in canonical endpoint order so insertion is order independent
type EdgeTracker struct {
	edges mapset.Set[core.Segment]
}

// NewEdgeTracker creates an empty tracker
func NewEdgeTracker() *EdgeTracker {
	return &EdgeTracker{edges: mapset.New[core.Segment]()}
}

// AddEdge inserts the edge a-b, returns false if it was already present
func (t *EdgeTracker) AddEdge(a, b core.WPos) bool {
	s := core.NewSegment(a, b)
	if t.edges.Has(s) {
		return false
	}
	t.edges.Put(s)
	return true
}

// RemoveEdge deletes the edge a-b, returns false if it was absent
func (t *EdgeTracker) RemoveEdge(a, b core.WPos) bool {
	s := core.NewSegment(a, b)
	if !t.edges.Has(s) {
		return false
	}
	t.edges.Remove(s)
	return true
}

// Has reports whether the edge a-b is tracked
func (t *EdgeTracker) Has(a, b core.WPos) bool {
	return t.edges.Has(core.NewSegment(a, b))
}

// Len returns the number of raw edges
func (t *EdgeTracker) Len() int {
	return t.edges.Size()
}

// Edges returns the raw edges in sorted order
func (t *EdgeTracker) Edges() []core.Segment {
	out := make([]core.Segment, 0, t.edges.Size())
	t.edges.Each(func(s core.Segment) {
		out = append(out, s)
	})
	slices.SortFunc(out, compareSegments)
	return out
}

// ConnectedEdges merges collinear touching edges into maximal straight runs
// The result is derived on each call and never modifies the raw set
func (t *EdgeTracker) ConnectedEdges() []core.Segment {
	var horizontal, vertical []core.Segment
	t.edges.Each(func(s core.Segment) {
		switch {
		case s.Horizontal():
			horizontal = append(horizontal, s)
		case s.Vertical():
			vertical = append(vertical, s)
		}
	})

	// Horizontal runs group by Y and advance on X, vertical the reverse
	slices.SortFunc(horizontal, func(a, b core.Segment) int {
		return cmp.Or(cmp.Compare(a.A.Y, b.A.Y), cmp.Compare(a.A.X, b.A.X))
	})
	slices.SortFunc(vertical, func(a, b core.Segment) int {
		return cmp.Or(cmp.Compare(a.A.X, b.A.X), cmp.Compare(a.A.Y, b.A.Y))
	})

	out := make([]core.Segment, 0, len(horizontal)+len(vertical))
	out = appendRuns(out, horizontal, func(s core.Segment) (line, lo, hi int) {
		return s.A.Y, s.A.X, s.B.X
	}, func(line, lo, hi int) core.Segment {
		return core.NewSegment(core.WPos{X: lo, Y: line}, core.WPos{X: hi, Y: line})
	})
	out = appendRuns(out, vertical, func(s core.Segment) (line, lo, hi int) {
		return s.A.X, s.A.Y, s.B.Y
	}, func(line, lo, hi int) core.Segment {
		return core.NewSegment(core.WPos{X: line, Y: lo}, core.WPos{X: line, Y: hi})
	})

	slices.SortFunc(out, compareSegments)
	return out
}

// appendRuns chains sorted collinear segments whose end touches or overlaps the next start
// A segment contained in the current run is absorbed
func appendRuns(out, sorted []core.Segment,
	split func(core.Segment) (line, lo, hi int),
	join func(line, lo, hi int) core.Segment,
) []core.Segment {
	if len(sorted) == 0 {
		return out
	}
	line, lo, hi := split(sorted[0])
	for _, s := range sorted[1:] {
		l, a, b := split(s)
		if l == line && a <= hi {
			hi = max(hi, b)
			continue
		}
		out = append(out, join(line, lo, hi))
		line, lo, hi = l, a, b
	}
	return append(out, join(line, lo, hi))
}

func compareSegments(a, b core.Segment) int {
	return cmp.Or(
		cmp.Compare(a.A.Y, b.A.Y), cmp.Compare(a.A.X, b.A.X),
		cmp.Compare(a.B.Y, b.B.Y), cmp.Compare(a.B.X, b.B.X),
	)
}
