package engine

import "github.com/lixenwraith/celldomain/parameter"

// OccupancyCell holds the occupants standing on one grid cell
// Value type designed for contiguous memory layout
type OccupancyCell struct {
	Count     uint8
	_         [7]byte // Explicit padding to ensure 8-byte alignment for Occupants
	Occupants [parameter.MaxEntitiesPerCell]ActorID
}

// OccupancyGrid is a dense 2D grid of occupants for O(1) blocked queries
type OccupancyGrid struct {
	Width  int
	Height int
	Cells  []OccupancyCell // 1D array: index = y*Width + x
}

// NewOccupancyGrid creates a new grid with the specified dimensions
func NewOccupancyGrid(width, height int) *OccupancyGrid {
	return &OccupancyGrid{
		Width:  width,
		Height: height,
		Cells:  make([]OccupancyCell, width*height),
	}
}

// Add inserts an occupant at (x, y)
// O(1), returns false if bounds invalid or cell full
func (g *OccupancyGrid) Add(id ActorID, x, y int) bool {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return false
	}

	cell := &g.Cells[y*g.Width+x]
	if cell.Count < parameter.MaxEntitiesPerCell {
		cell.Occupants[cell.Count] = id
		cell.Count++
		return true
	}
	return false
}

// Remove deletes an occupant from (x, y)
// O(k) with swap-remove to keep the slot array dense
func (g *OccupancyGrid) Remove(id ActorID, x, y int) {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return
	}

	cell := &g.Cells[y*g.Width+x]
	for i := uint8(0); i < cell.Count; i++ {
		if cell.Occupants[i] == id {
			cell.Count--
			if i < cell.Count {
				cell.Occupants[i] = cell.Occupants[cell.Count]
			}
			cell.Occupants[cell.Count] = 0
			return
		}
	}
}

// HasAny returns true if at least one occupant stands on (x, y)
func (g *OccupancyGrid) HasAny(x, y int) bool {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return false
	}
	return g.Cells[y*g.Width+x].Count > 0
}

// At returns a view of occupants on (x, y)
// Callers must copy before mutating the grid
func (g *OccupancyGrid) At(x, y int) []ActorID {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return nil
	}
	cell := &g.Cells[y*g.Width+x]
	if cell.Count == 0 {
		return nil
	}
	return cell.Occupants[:cell.Count]
}

// Free reports how many more occupants (x, y) accepts
func (g *OccupancyGrid) Free(x, y int) int {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return 0
	}
	return parameter.MaxEntitiesPerCell - int(g.Cells[y*g.Width+x].Count)
}
