package domain

import (
	"cmp"
	"slices"

	"github.com/pkg/errors"

	"github.com/lixenwraith/celldomain/core"
	"github.com/lixenwraith/celldomain/grid"
)

// DomainID identifies a domain, allocated monotonically from 1
type DomainID uint32

// NoDomain marks a cell that is not assigned to any domain
const NoDomain DomainID = 0

const noParent int32 = -1

// node is one arena slot, indexed y*width+x
type node struct {
	parent   int32
	children []int32
	domain   DomainID
}

// Head is the registry record of one domain
type Head struct {
	ID      DomainID   `json:"id"`
	Root    core.Point `json:"root"`
	Blocked bool       `json:"blocked"`
	Size    int        `json:"size"`
}

// arena holds one node per grid cell
type arena struct {
	width  int
	height int
	nodes  []node
}

func newArena(width, height int) *arena {
	a := &arena{
		width:  width,
		height: height,
		nodes:  make([]node, width*height),
	}
	for i := range a.nodes {
		a.nodes[i].parent = noParent
	}
	return a
}

func (a *arena) index(p core.Point) int32 {
	return int32(grid.Index(a.width, p))
}

func (a *arena) point(i int32) core.Point {
	return grid.PointAt(a.width, int(i))
}

func (a *arena) contains(p core.Point) bool {
	return p.X >= 0 && p.X < a.width && p.Y >= 0 && p.Y < a.height
}

// attach links child under parent, child must currently be a root
func (a *arena) attach(child, parent int32) {
	a.nodes[child].parent = parent
	a.nodes[parent].children = append(a.nodes[parent].children, child)
}

// removeChild unlinks child from parent's child list, keeping sibling order
func (a *arena) removeChild(parent, child int32) {
	ch := a.nodes[parent].children
	if k := slices.Index(ch, child); k >= 0 {
		a.nodes[parent].children = slices.Delete(ch, k, k+1)
	}
}

// subtree appends root and all its descendants to buf in preorder
func (a *arena) subtree(root int32, buf []int32) []int32 {
	start := len(buf)
	buf = append(buf, root)
	for k := start; k < len(buf); k++ {
		buf = append(buf, a.nodes[buf[k]].children...)
	}
	return buf
}

// reroot reverses the parent chain from x up to its root so that x becomes the root
// limit bounds the chain length, exceeding it means the chain is cyclic
func (a *arena) reroot(x int32, limit int) error {
	prev := noParent
	cur := x
	steps := 0
	for cur != noParent {
		if steps > limit {
			return errors.Wrapf(ErrRerootCycle, "reroot from %v after %d steps", a.point(x), steps)
		}
		steps++

		next := a.nodes[cur].parent
		if next != noParent {
			a.removeChild(next, cur)
		}
		a.nodes[cur].parent = prev
		if prev != noParent {
			a.nodes[prev].children = append(a.nodes[prev].children, cur)
		}
		prev = cur
		cur = next
	}
	return nil
}

// registry maps domain ids to their heads
type registry struct {
	heads  map[DomainID]*Head
	nextID DomainID
}

func newRegistry() *registry {
	return &registry{heads: make(map[DomainID]*Head)}
}

func (r *registry) create(root core.Point, blocked bool) *Head {
	r.nextID++
	h := &Head{ID: r.nextID, Root: root, Blocked: blocked}
	r.heads[h.ID] = h
	return h
}

func (r *registry) get(id DomainID) *Head {
	return r.heads[id]
}

func (r *registry) remove(id DomainID) {
	delete(r.heads, id)
}

// sorted returns copies of all heads ordered by id
func (r *registry) sorted() []Head {
	out := make([]Head, 0, len(r.heads))
	for _, h := range r.heads {
		out = append(out, *h)
	}
	slices.SortFunc(out, func(a, b Head) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
