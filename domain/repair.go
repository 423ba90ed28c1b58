package domain

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/celldomain/core"
	"github.com/lixenwraith/celldomain/grid"
)

// repair runs the incremental update for cell p
// Neighbours are classified by their domain flag, never by the locomotor, so
// cells that flipped but are not yet repaired still count as their old state
func (m *Manager) repair(p core.Point) (RepairStats, bool, error) {
	i := m.arena.index(p)
	n := &m.arena.nodes[i]
	old := m.heads.get(n.domain)
	blocked := m.loco.IsBlocked(p)

	stats := RepairStats{Cell: p, Blocked: blocked}
	if old.Blocked == blocked {
		return stats, false, nil
	}
	m.touched = mapset.New[int32]()
	m.touched.Put(i)

	orphans := m.detach(i, old, &stats)

	if err := m.reattach(i, blocked, &stats); err != nil {
		return stats, true, err
	}

	if len(orphans) > 0 {
		if err := m.rehome(orphans, old.ID, &stats); err != nil {
			return stats, true, err
		}
	}

	m.touched.Each(func(k int32) { m.refreshEdges(k) })
	return stats, true, nil
}

// detach removes node i from its domain tree and returns the children left floating
// A head is replaced by its child with the most adjacent siblings, first in child
// order on ties; those siblings are moved under the new head
func (m *Manager) detach(i int32, old *Head, stats *RepairStats) []int32 {
	n := &m.arena.nodes[i]
	orphans := append([]int32(nil), n.children...)
	n.children = n.children[:0]
	for _, o := range orphans {
		m.arena.nodes[o].parent = noParent
	}
	n.domain = NoDomain

	if n.parent != noParent {
		m.arena.removeChild(n.parent, i)
		n.parent = noParent
		old.Size--
		return orphans
	}

	if len(orphans) == 0 {
		m.heads.remove(old.ID)
		stats.Removed = append(stats.Removed, old.ID)
		return nil
	}

	best, bestCount := 0, -1
	for k, o := range orphans {
		count := 0
		for l, s := range orphans {
			if l != k && m.arena.point(o).Adjacent(m.arena.point(s)) {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = k, count
		}
	}

	root := orphans[best]
	rest := make([]int32, 0, len(orphans)-1)
	for k, o := range orphans {
		switch {
		case k == best:
		case m.arena.point(root).Adjacent(m.arena.point(o)):
			m.arena.attach(o, root)
		default:
			rest = append(rest, o)
		}
	}
	old.Root = m.arena.point(root)
	old.Size--
	return rest
}

// reattach gives node i a domain matching its new state
// Without a same-state neighbour the cell becomes a singleton head. Otherwise it
// joins the largest neighbouring domain and every other neighbouring domain of
// the same state is merged through it.
func (m *Manager) reattach(i int32, blocked bool, stats *RepairStats) error {
	p := m.arena.point(i)

	var hosts []int32
	for s := grid.Side(0); s < grid.SideCount; s++ {
		q := p.Add(grid.Offsets[s][0], grid.Offsets[s][1])
		if !m.inMap(q) {
			continue
		}
		j := m.arena.index(q)
		d := m.arena.nodes[j].domain
		if d == NoDomain || m.heads.get(d).Blocked != blocked {
			continue
		}
		hosts = append(hosts, j)
	}

	if len(hosts) == 0 {
		h := m.heads.create(p, blocked)
		h.Size = 1
		m.arena.nodes[i].domain = h.ID
		stats.Created = append(stats.Created, h.ID)
		return nil
	}

	host := hosts[0]
	for _, j := range hosts[1:] {
		if m.heads.get(m.arena.nodes[j].domain).Size > m.heads.get(m.arena.nodes[host].domain).Size {
			host = j
		}
	}
	target := m.heads.get(m.arena.nodes[host].domain)
	m.arena.attach(i, host)
	m.arena.nodes[i].domain = target.ID
	target.Size++

	var members []int32
	for _, j := range hosts {
		d := m.arena.nodes[j].domain
		if d == target.ID {
			continue
		}
		// Reroot the absorbed tree at the contact cell and hang it under i
		absorbed := m.heads.get(d)
		if err := m.arena.reroot(j, m.rerootLimit()); err != nil {
			return err
		}
		m.arena.attach(j, i)
		members = m.arena.subtree(j, members[:0])
		m.relabel(members, target.ID, stats)
		target.Size += absorbed.Size
		m.heads.remove(d)
		stats.Removed = append(stats.Removed, d)
	}
	return nil
}

// rehome reconnects the floating orphan subtrees of domain oldID
// Each orphan searches through its own subtree for the nearest node outside it
// with the old state: a live domain (the old one or one created earlier in this
// repair) or another floating subtree. An orphan with no such node becomes a
// new domain that later orphans may join.
func (m *Manager) rehome(orphans []int32, oldID DomainID, stats *RepairStats) error {
	old := m.heads.get(oldID)
	oldBlocked := old.Blocked

	// slot maps each floating node to the orphan subtree holding it
	slot := make(map[int32]int)
	subtrees := make([][]int32, len(orphans))
	for k, o := range orphans {
		subtrees[k] = m.arena.subtree(o, nil)
		for _, j := range subtrees[k] {
			slot[j] = k
		}
	}

	for k, o := range orphans {
		hits := Search(m.geom, Query{
			Start: m.arena.point(o),
			Member: func(q core.Point) bool {
				s, ok := slot[m.arena.index(q)]
				return ok && s == k
			},
			Target: func(q core.Point) bool {
				j := m.arena.index(q)
				if s, ok := slot[j]; ok && s == k {
					return false
				}
				d := m.arena.nodes[j].domain
				return d != NoDomain && m.heads.get(d).Blocked == oldBlocked
			},
			Limit: 1,
		})

		if len(hits) == 0 {
			h := m.heads.create(m.arena.point(o), oldBlocked)
			m.relabel(subtrees[k], h.ID, stats)
			old.Size -= len(subtrees[k])
			h.Size = len(subtrees[k])
			stats.Created = append(stats.Created, h.ID)
			m.release(slot, subtrees[k])
			continue
		}

		hit := m.arena.index(hits[0].Cell)
		via := m.arena.index(hits[0].Via)
		if err := m.arena.reroot(via, m.rerootLimit()); err != nil {
			return err
		}
		m.arena.attach(via, hit)

		if s, ok := slot[hit]; ok {
			// Joined a later floating subtree, resolved together with it
			for _, j := range subtrees[k] {
				slot[j] = s
			}
			subtrees[s] = append(subtrees[s], subtrees[k]...)
			subtrees[k] = nil
			continue
		}

		if d := m.arena.nodes[hit].domain; d != oldID {
			m.relabel(subtrees[k], d, stats)
			old.Size -= len(subtrees[k])
			m.heads.get(d).Size += len(subtrees[k])
		}
		m.release(slot, subtrees[k])
	}
	return nil
}

// relabel moves nodes to domain d and marks them for edge refresh
func (m *Manager) relabel(nodes []int32, d DomainID, stats *RepairStats) {
	for _, j := range nodes {
		m.arena.nodes[j].domain = d
		m.touched.Put(j)
	}
	stats.Relabeled += len(nodes)
}

func (m *Manager) release(slot map[int32]int, nodes []int32) {
	for _, j := range nodes {
		delete(slot, j)
	}
}
