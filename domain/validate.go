package domain

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/lixenwraith/celldomain/core"
	"github.com/lixenwraith/celldomain/grid"
)

// Validate checks every forest invariant against the current locomotor state
// Intended for tests and replay verification, cost is quadratic in tree depth
func (m *Manager) Validate() error {
	a := m.arena
	sizes := make(map[DomainID]int, len(m.heads.heads))
	limit := m.rerootLimit()

	for idx := range a.nodes {
		i := int32(idx)
		p := a.point(i)
		if !m.geom.Contains(p) {
			continue
		}
		n := &a.nodes[i]
		h := m.heads.get(n.domain)
		if h == nil {
			return errors.Wrapf(ErrInvariant, "cell %v has unknown domain %d", p, n.domain)
		}
		sizes[n.domain]++

		if blocked := m.loco.IsBlocked(p); blocked != h.Blocked {
			return errors.Wrapf(ErrInvariant, "cell %v blocked=%v in domain %d blocked=%v", p, blocked, h.ID, h.Blocked)
		}

		for _, c := range n.children {
			if a.nodes[c].parent != i {
				return errors.Wrapf(ErrInvariant, "child %v of %v links to another parent", a.point(c), p)
			}
		}

		// Walk up to the root
		cur := i
		for steps := 0; a.nodes[cur].parent != noParent; steps++ {
			if steps > limit {
				return errors.Wrapf(ErrRerootCycle, "parent chain from %v", p)
			}
			par := a.nodes[cur].parent
			if !a.point(cur).Adjacent(a.point(par)) {
				return errors.Wrapf(ErrInvariant, "link %v -> %v is not adjacent", a.point(cur), a.point(par))
			}
			if a.nodes[par].domain != n.domain {
				return errors.Wrapf(ErrInvariant, "link %v -> %v crosses domains", a.point(cur), a.point(par))
			}
			if !slices.Contains(a.nodes[par].children, cur) {
				return errors.Wrapf(ErrInvariant, "parent %v does not list child %v", a.point(par), a.point(cur))
			}
			cur = par
		}
		if a.point(cur) != h.Root {
			return errors.Wrapf(ErrInvariant, "cell %v roots at %v, domain %d head is %v", p, a.point(cur), h.ID, h.Root)
		}

		// Maximality: same-state neighbours share the domain
		for s := grid.Side(0); s < grid.SideCount; s++ {
			q := p.Add(grid.Offsets[s][0], grid.Offsets[s][1])
			if !m.inMap(q) {
				continue
			}
			nd := a.nodes[a.index(q)].domain
			if nd != n.domain && m.heads.get(nd) != nil && m.heads.get(nd).Blocked == h.Blocked {
				return errors.Wrapf(ErrInvariant, "neighbours %v and %v share state in domains %d and %d", p, q, n.domain, nd)
			}
		}
	}

	for id, h := range m.heads.heads {
		if !a.contains(h.Root) || a.nodes[a.index(h.Root)].domain != id || a.nodes[a.index(h.Root)].parent != noParent {
			return errors.Wrapf(ErrInvariant, "domain %d head %v is not a root of the domain", id, h.Root)
		}
		if sizes[id] == 0 || sizes[id] != h.Size {
			return errors.Wrapf(ErrInvariant, "domain %d size %d, counted %d", id, h.Size, sizes[id])
		}
	}

	want := m.expectedEdges()
	if len(want) != m.edges.Len() {
		return errors.Wrapf(ErrInvariant, "edge count %d, expected %d", m.edges.Len(), len(want))
	}
	for _, s := range want {
		if !m.edges.Has(s.A, s.B) {
			return errors.Wrapf(ErrInvariant, "missing boundary edge %v", s)
		}
	}
	return nil
}

// expectedEdges recomputes the boundary set from scratch
func (m *Manager) expectedEdges() []core.Segment {
	var out []core.Segment
	for idx := range m.arena.nodes {
		i := int32(idx)
		p := m.arena.point(i)
		if !m.geom.Contains(p) {
			continue
		}
		sides := m.geom.CellEdges(p)
		// Right and bottom only, each shared side is seen once
		for _, s := range []grid.Side{grid.SideBottom, grid.SideRight} {
			q := p.Add(grid.Offsets[s][0], grid.Offsets[s][1])
			if !m.inMap(q) {
				continue
			}
			if m.arena.nodes[i].domain != m.arena.nodes[m.arena.index(q)].domain {
				out = append(out, sides[s])
			}
		}
	}
	return out
}
