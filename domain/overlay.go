package domain

import "github.com/lixenwraith/celldomain/core"

// CellInfo is the per-cell overlay record
type CellInfo struct {
	Cell    core.Point  `json:"cell"`
	Domain  DomainID    `json:"domain"`
	Blocked bool        `json:"blocked"`
	Parent  *core.Point `json:"parent,omitempty"`
}

// Overlay is a snapshot of the forest for debug rendering
type Overlay struct {
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Cells      []CellInfo     `json:"cells"`
	Heads      []Head         `json:"heads"`
	Boundaries []core.Segment `json:"boundaries"`
	RawEdges   int            `json:"raw_edges"`
}

// Overlay exports the current forest and clears the dirty flag
// Cells are row-major, heads sorted by id, boundaries are merged runs
func (m *Manager) Overlay() Overlay {
	ov := Overlay{
		Width:      m.width,
		Height:     m.height,
		Cells:      make([]CellInfo, 0, len(m.arena.nodes)),
		Heads:      m.heads.sorted(),
		Boundaries: m.edges.ConnectedEdges(),
		RawEdges:   m.edges.Len(),
	}
	for i := range m.arena.nodes {
		n := &m.arena.nodes[i]
		if n.domain == NoDomain {
			continue
		}
		ci := CellInfo{
			Cell:    m.arena.point(int32(i)),
			Domain:  n.domain,
			Blocked: m.heads.get(n.domain).Blocked,
		}
		if n.parent != noParent {
			pp := m.arena.point(n.parent)
			ci.Parent = &pp
		}
		ov.Cells = append(ov.Cells, ci)
	}
	m.dirty = false
	return ov
}

// At returns the overlay record for p
func (o *Overlay) At(p core.Point) (CellInfo, bool) {
	if p.X < 0 || p.X >= o.Width || p.Y < 0 || p.Y >= o.Height {
		return CellInfo{}, false
	}
	i := p.Y*o.Width + p.X
	if i < len(o.Cells) && o.Cells[i].Cell == p {
		return o.Cells[i], true
	}
	for _, c := range o.Cells {
		if c.Cell == p {
			return c, true
		}
	}
	return CellInfo{}, false
}
