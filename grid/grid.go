// Package grid provides the map geometry the domain manager works against:
// bounds, 4-neighbour order and per-cell world-space edge segments
package grid

import (
	"github.com/lixenwraith/celldomain/core"
	"github.com/lixenwraith/celldomain/parameter"
)

// Side identifies one of the four sides of a cell
type Side int8

// Side order is also the neighbour visiting order used everywhere in the repo
const (
	SideTop Side = iota
	SideBottom
	SideLeft
	SideRight
	SideCount
)

// Offsets are the neighbour vectors matching SideTop..SideRight
var Offsets = [SideCount][2]int{
	{0, -1}, {0, 1}, {-1, 0}, {1, 0},
}

// Opposite side lookup
var Opposite = [SideCount]Side{
	SideBottom, SideTop, SideRight, SideLeft,
}

// Map is the geometry collaborator: bounds and cell edges
type Map interface {
	// Size returns the grid dimensions in cells
	Size() (width, height int)
	// Contains reports whether the cell is inside the map
	Contains(p core.Point) bool
	// CellEdges returns the four world-space sides of a cell, indexed by Side
	CellEdges(p core.Point) [SideCount]core.Segment
}

// Rect is a rectangular map of Width x Height cells with square cells of CellSize world units
type Rect struct {
	Width    int
	Height   int
	CellSize int
}

// NewRect creates a map using the default cell size
func NewRect(width, height int) *Rect {
	return &Rect{Width: width, Height: height, CellSize: parameter.CellSize}
}

// Size returns the map dimensions
func (r *Rect) Size() (int, int) {
	return r.Width, r.Height
}

// Contains reports whether p is within bounds
func (r *Rect) Contains(p core.Point) bool {
	return p.X >= 0 && p.X < r.Width && p.Y >= 0 && p.Y < r.Height
}

// Neighbour returns the adjacent cell on the given side and whether it lies in bounds
func (r *Rect) Neighbour(p core.Point, s Side) (core.Point, bool) {
	q := p.Add(Offsets[s][0], Offsets[s][1])
	return q, r.Contains(q)
}

// TopLeft returns the world position of a cell's top-left corner
func (r *Rect) TopLeft(p core.Point) core.WPos {
	return core.WPos{X: p.X * r.CellSize, Y: p.Y * r.CellSize}
}

// CenterOfCell returns the world position of a cell's centre
func (r *Rect) CenterOfCell(p core.Point) core.WPos {
	tl := r.TopLeft(p)
	return core.WPos{X: tl.X + r.CellSize/2, Y: tl.Y + r.CellSize/2}
}

// CellEdges returns top, bottom, left, right sides as canonical segments
func (r *Rect) CellEdges(p core.Point) [SideCount]core.Segment {
	tl := r.TopLeft(p)
	s := r.CellSize
	tr := core.WPos{X: tl.X + s, Y: tl.Y}
	bl := core.WPos{X: tl.X, Y: tl.Y + s}
	br := core.WPos{X: tl.X + s, Y: tl.Y + s}
	return [SideCount]core.Segment{
		SideTop:    core.NewSegment(tl, tr),
		SideBottom: core.NewSegment(bl, br),
		SideLeft:   core.NewSegment(tl, bl),
		SideRight:  core.NewSegment(tr, br),
	}
}

// Index returns the flat index y*Width + x
// Caller must ensure p is in bounds
func Index(width int, p core.Point) int {
	return p.Y*width + p.X
}

// PointAt is the inverse of Index
func PointAt(width, idx int) core.Point {
	return core.Point{X: idx % width, Y: idx / width}
}
