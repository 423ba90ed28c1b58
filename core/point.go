package core

import "fmt"

// Point represents a cell coordinate on the grid
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the point offset by (dx, dy)
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Manhattan returns |dx| + |dy| between two cells
func (p Point) Manhattan(q Point) int {
	return abs(q.X-p.X) + abs(q.Y-p.Y)
}

// DistSq returns the squared Euclidean distance between two cells
func (p Point) DistSq(q Point) int {
	dx, dy := q.X-p.X, q.Y-p.Y
	return dx*dx + dy*dy
}

// Adjacent reports whether q is one of the 4 orthogonal neighbours of p
func (p Point) Adjacent(q Point) bool {
	return p.Manhattan(q) == 1
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// WPos is a world-space position, one cell spans parameter.CellSize units per axis
type WPos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Less orders positions by Y, then X
func (a WPos) Less(b WPos) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

func (a WPos) String() string {
	return fmt.Sprintf("<%d,%d>", a.X, a.Y)
}

// Segment is an unordered pair of world positions
// Constructed through NewSegment so that equal segments compare equal with ==
type Segment struct {
	A WPos `json:"a"`
	B WPos `json:"b"`
}

// NewSegment returns the segment with endpoints in canonical order
func NewSegment(a, b WPos) Segment {
	if b.Less(a) {
		a, b = b, a
	}
	return Segment{A: a, B: b}
}

// Horizontal reports whether both endpoints share Y
func (s Segment) Horizontal() bool {
	return s.A.Y == s.B.Y
}

// Vertical reports whether both endpoints share X
func (s Segment) Vertical() bool {
	return s.A.X == s.B.X
}

// Length returns the axis-aligned length, 0 for diagonal segments
func (s Segment) Length() int {
	switch {
	case s.Horizontal():
		return abs(s.B.X - s.A.X)
	case s.Vertical():
		return abs(s.B.Y - s.A.Y)
	}
	return 0
}

// Split cuts an axis-aligned segment into pieces of the given unit length
// Returns nil for diagonal segments or lengths not divisible by unit
func (s Segment) Split(unit int) []Segment {
	n := s.Length()
	if unit <= 0 || n == 0 || n%unit != 0 {
		return nil
	}
	dx, dy := 0, 0
	if s.Horizontal() {
		dx = unit
	} else {
		dy = unit
	}
	out := make([]Segment, 0, n/unit)
	cur := s.A
	for i := 0; i < n/unit; i++ {
		next := WPos{X: cur.X + dx, Y: cur.Y + dy}
		out = append(out, Segment{A: cur, B: next})
		cur = next
	}
	return out
}

func (s Segment) String() string {
	return s.A.String() + "-" + s.B.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
