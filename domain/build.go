package domain

import (
	"time"

	"github.com/lixenwraith/celldomain/core"
)

// build partitions every cell into domains, scanning row-major
// Each unassigned cell seeds a head and a walk attaches every same-state cell
// it reaches as a child of the cell that discovered it
func (m *Manager) build() {
	start := time.Now()
	var members []int32

	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			p := m.arena.point(int32(y*m.width + x))
			if !m.geom.Contains(p) {
				continue
			}
			i := m.arena.index(p)
			if m.arena.nodes[i].domain != NoDomain {
				continue
			}

			blocked := m.loco.IsBlocked(p)
			h := m.heads.create(p, blocked)
			m.arena.nodes[i].domain = h.ID
			h.Size = 1
			members = append(members[:0], i)

			Walk(m.geom, p,
				func(q core.Point) bool {
					return m.arena.nodes[m.arena.index(q)].domain == NoDomain && m.loco.IsBlocked(q) == blocked
				},
				func(q, via core.Point) {
					j := m.arena.index(q)
					m.arena.attach(j, m.arena.index(via))
					m.arena.nodes[j].domain = h.ID
					h.Size++
					members = append(members, j)
				},
			)

			for _, j := range members {
				m.refreshEdges(j)
			}
		}
	}

	stats := BuildStats{
		Domains: m.DomainCount(),
		Edges:   m.edges.Len(),
		Cells:   m.width * m.height,
		Elapsed: time.Since(start),
	}
	m.dirty = true
	m.log.Info("domains built",
		"domains", stats.Domains,
		"edges", stats.Edges,
		"cells", stats.Cells,
		"elapsed", stats.Elapsed,
	)
	for _, o := range m.observers {
		o.DomainsBuilt(stats)
	}
}
