package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/celldomain/core"
	"github.com/lixenwraith/celldomain/grid"
)

// terrain is a mutable locomotor backed by a flat bool grid
type terrain struct {
	width, height int
	blocked       []bool
}

func newTerrain(width, height int) *terrain {
	return &terrain{width: width, height: height, blocked: make([]bool, width*height)}
}

func (t *terrain) IsBlocked(p core.Point) bool {
	if p.X < 0 || p.X >= t.width || p.Y < 0 || p.Y >= t.height {
		return true
	}
	return t.blocked[p.Y*t.width+p.X]
}

func (t *terrain) set(p core.Point, v bool) {
	t.blocked[p.Y*t.width+p.X] = v
}

// rows fills terrain from ASCII rows, '#' is blocked
func (t *terrain) rows(rows ...string) *terrain {
	for y, r := range rows {
		for x, ch := range r {
			t.set(core.Point{X: x, Y: y}, ch == '#')
		}
	}
	return t
}

func newManager(t *testing.T, loco *terrain) *Manager {
	t.Helper()
	m, err := New(grid.NewRect(loco.width, loco.height), loco)
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	return m
}

// flip toggles p and repairs it
func flip(t *testing.T, m *Manager, loco *terrain, p core.Point) {
	t.Helper()
	loco.set(p, !loco.IsBlocked(p))
	_, err := m.Repair(p)
	require.NoError(t, err)
}

// floodLabels labels 4-connected same-state components, the oracle for the partition
func floodLabels(loco *terrain) []int {
	labels := make([]int, loco.width*loco.height)
	next := 0
	for i := range labels {
		if labels[i] != 0 {
			continue
		}
		next++
		state := loco.blocked[i]
		labels[i] = next
		queue := []int{i}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			p := grid.PointAt(loco.width, cur)
			for _, off := range grid.Offsets {
				q := p.Add(off[0], off[1])
				if q.X < 0 || q.X >= loco.width || q.Y < 0 || q.Y >= loco.height {
					continue
				}
				j := grid.Index(loco.width, q)
				if labels[j] == 0 && loco.blocked[j] == state {
					labels[j] = next
					queue = append(queue, j)
				}
			}
		}
	}
	return labels
}

// requirePartition checks domains against the flood-fill oracle, both directions
func requirePartition(t *testing.T, m *Manager, loco *terrain) {
	t.Helper()
	labels := floodLabels(loco)
	toDomain := make(map[int]DomainID)
	toLabel := make(map[DomainID]int)
	for i, l := range labels {
		p := grid.PointAt(loco.width, i)
		d, ok := m.DomainOf(p)
		require.True(t, ok, "cell %v unassigned", p)
		if want, seen := toDomain[l]; seen {
			require.Equal(t, want, d, "component %d split at %v", l, p)
		} else {
			toDomain[l] = d
		}
		if want, seen := toLabel[d]; seen {
			require.Equal(t, want, l, "domain %d spans components at %v", d, p)
		} else {
			toLabel[d] = l
		}
	}
	require.Equal(t, len(toDomain), m.DomainCount())
}
