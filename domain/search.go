package domain

import (
	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/celldomain/core"
	"github.com/lixenwraith/celldomain/grid"
)

// Hit is a target cell reached by a search
type Hit struct {
	// Cell is the target cell
	Cell core.Point
	// Via is the member cell the target was discovered from
	Via core.Point
	// Dist is the hop count from the start along the discovery path
	Dist int
}

// Query describes a bounded connectivity search
type Query struct {
	Start core.Point
	// Member admits cells the search may expand through, the start is always expanded
	Member func(core.Point) bool
	// Target selects cells to report, targets are not expanded
	Target func(core.Point) bool
	// Limit stops the search after this many hits, 0 reports every reachable target
	Limit int
}

type frontierItem struct {
	cell   core.Point
	hops   int
	distSq int
	seq    int
}

// frontier yields the queued cell closest to the start, ties in insertion order
type frontier struct {
	start core.Point
	items *heap.Heap[frontierItem]
	seq   int
}

func newFrontier(start core.Point) *frontier {
	return &frontier{
		start: start,
		items: heap.New(func(a, b frontierItem) bool {
			if a.distSq != b.distSq {
				return a.distSq < b.distSq
			}
			return a.seq < b.seq
		}),
	}
}

func (f *frontier) push(p core.Point, hops int) {
	f.seq++
	f.items.Push(frontierItem{cell: p, hops: hops, distSq: f.start.DistSq(p), seq: f.seq})
}

func (f *frontier) pop() (frontierItem, bool) {
	return f.items.Pop()
}

// Search explores from q.Start through member cells and returns reached targets
// in discovery order. An empty result means no target is reachable.
func Search(m grid.Map, q Query) []Hit {
	visited := mapset.New[core.Point]()
	visited.Put(q.Start)
	f := newFrontier(q.Start)
	f.push(q.Start, 0)

	var hits []Hit
	for {
		cur, ok := f.pop()
		if !ok {
			return hits
		}
		for s := grid.Side(0); s < grid.SideCount; s++ {
			n := cur.cell.Add(grid.Offsets[s][0], grid.Offsets[s][1])
			if !m.Contains(n) || visited.Has(n) {
				continue
			}
			if q.Target != nil && q.Target(n) {
				visited.Put(n)
				hits = append(hits, Hit{Cell: n, Via: cur.cell, Dist: cur.hops + 1})
				if q.Limit > 0 && len(hits) >= q.Limit {
					return hits
				}
				continue
			}
			if q.Member(n) {
				visited.Put(n)
				f.push(n, cur.hops+1)
			}
		}
	}
}

// Walk visits every member cell reachable from start, reporting each with the cell
// that discovered it. Membership is evaluated when a cell is first seen, so visit
// may change what later calls to member return.
func Walk(m grid.Map, start core.Point, member func(core.Point) bool, visit func(cell, via core.Point)) {
	visited := mapset.New[core.Point]()
	visited.Put(start)
	f := newFrontier(start)
	f.push(start, 0)

	for {
		cur, ok := f.pop()
		if !ok {
			return
		}
		for s := grid.Side(0); s < grid.SideCount; s++ {
			n := cur.cell.Add(grid.Offsets[s][0], grid.Offsets[s][1])
			if !m.Contains(n) || visited.Has(n) || !member(n) {
				continue
			}
			visited.Put(n)
			visit(n, cur.cell)
			f.push(n, cur.hops+1)
		}
	}
}
