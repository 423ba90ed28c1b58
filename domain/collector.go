package domain

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/celldomain/core"
	"github.com/lixenwraith/celldomain/engine"
)

// TerrainSubject is the record subject used for terrain changes
const TerrainSubject engine.ActorID = 0

// ChangeRecord is one occupancy change captured during a tick
type ChangeRecord struct {
	Subject engine.ActorID
	// Cells the subject occupied when the change was notified
	Cells []core.Point
	// Past holds each cell's domain flag at notification time
	Past []bool
}

type recordKey struct {
	subject engine.ActorID
	cell    core.Point
}

// Collector queues change records until the next tick
// A (subject, cell) pair is recorded at most once per tick
type Collector struct {
	records []ChangeRecord
	seen    mapset.Set[recordKey]
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{seen: mapset.New[recordKey]()}
}

// Record queues cells for subject, dropping cells already recorded for it this tick
// past is called once per new cell to capture its pre-change flag
func (c *Collector) Record(subject engine.ActorID, cells []core.Point, past func(core.Point) bool) {
	r := ChangeRecord{Subject: subject}
	for _, p := range cells {
		k := recordKey{subject: subject, cell: p}
		if c.seen.Has(k) {
			continue
		}
		c.seen.Put(k)
		r.Cells = append(r.Cells, p)
		r.Past = append(r.Past, past(p))
	}
	if len(r.Cells) > 0 {
		c.records = append(c.records, r)
	}
}

// Pending returns the number of queued records
func (c *Collector) Pending() int {
	return len(c.records)
}

// Drain returns queued records in arrival order and resets the collector
func (c *Collector) Drain() []ChangeRecord {
	out := c.records
	c.records = nil
	c.seen = mapset.New[recordKey]()
	return out
}

// ActorAdded records the cells of an occupant that entered the world
func (m *Manager) ActorAdded(o engine.Occupant) {
	m.collector.Record(o.OccupantID(), o.OccupiedCells(), m.pastFlag)
}

// ActorRemoved records the cells of an occupant that left the world
func (m *Manager) ActorRemoved(o engine.Occupant) {
	m.collector.Record(o.OccupantID(), o.OccupiedCells(), m.pastFlag)
}

// TerrainChanged records a single terrain cell change
func (m *Manager) TerrainChanged(p core.Point) {
	m.collector.Record(TerrainSubject, []core.Point{p}, m.pastFlag)
}

// pastFlag is the domain flag of p, cells outside the map report blocked
func (m *Manager) pastFlag(p core.Point) bool {
	if !m.inMap(p) {
		return true
	}
	return m.flag(m.arena.index(p))
}

var (
	_ engine.Listener = (*Manager)(nil)
	_ engine.Ticker   = (*Manager)(nil)
)
