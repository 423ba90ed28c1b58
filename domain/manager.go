// Package domain maintains the partition of grid cells into domains: maximal
// 4-connected regions sharing one blocked state. Each domain is a tree of cell
// nodes rooted at its head; single-cell flips are repaired incrementally.
package domain

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/celldomain/core"
	"github.com/lixenwraith/celldomain/grid"
	"github.com/lixenwraith/celldomain/parameter"
)

// Locomotor answers whether a single cell currently blocks movement
type Locomotor interface {
	IsBlocked(p core.Point) bool
}

// BuildStats summarises the initial construction
type BuildStats struct {
	Domains int
	Edges   int
	Cells   int
	Elapsed time.Duration
}

// RepairStats summarises one repair
type RepairStats struct {
	Cell    core.Point
	Blocked bool
	// Created lists domains allocated by the repair
	Created []DomainID
	// Removed lists domains that vanished or were merged away
	Removed []DomainID
	// Relabeled counts nodes whose domain id changed, excluding the flipped cell
	Relabeled int
	// Domains and Edges are the totals after the repair
	Domains int
	Edges   int
	Elapsed time.Duration
}

// Observer receives manager lifecycle notifications, called synchronously
type Observer interface {
	DomainsBuilt(s BuildStats)
	Repaired(s RepairStats)
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger, default discards
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithObserver adds an observer, may be given more than once
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o != nil {
			m.observers = append(m.observers, o)
		}
	}
}

// Manager owns the cell node arena, the head registry and the edge tracker
// Not safe for concurrent use: all calls must come from the simulation goroutine
type Manager struct {
	geom grid.Map
	loco Locomotor

	width  int
	height int

	arena     *arena
	heads     *registry
	edges     *EdgeTracker
	collector *Collector

	log       *slog.Logger
	observers []Observer

	// Scratch set of nodes whose edges need recomputing after a repair
	touched mapset.Set[int32]

	dirty bool
	err   error
}

// New builds the domain forest for the current state of the map
func New(m grid.Map, loco Locomotor, opts ...Option) (*Manager, error) {
	if m == nil {
		return nil, ErrNilMap
	}
	if loco == nil {
		return nil, ErrNilLocomotor
	}
	w, h := m.Size()
	if w <= 0 || h <= 0 {
		return nil, errors.Wrapf(ErrEmptyGrid, "size %dx%d", w, h)
	}

	mgr := &Manager{
		geom:      m,
		loco:      loco,
		width:     w,
		height:    h,
		arena:     newArena(w, h),
		heads:     newRegistry(),
		edges:     NewEdgeTracker(),
		collector: NewCollector(),
		log:       slog.New(slog.DiscardHandler),
		touched:   mapset.New[int32](),
	}
	for _, opt := range opts {
		opt(mgr)
	}

	mgr.build()
	return mgr, nil
}

// Tick drains the change collector and repairs every recorded cell whose
// blocked state no longer matches its domain, in record order then cell order
func (m *Manager) Tick(tick uint64) error {
	if m.err != nil {
		return m.err
	}
	records := m.collector.Drain()
	for _, r := range records {
		for _, p := range r.Cells {
			if !m.inMap(p) {
				continue
			}
			if _, err := m.Repair(p); err != nil {
				return errors.WithMessagef(err, "tick %d subject %d", tick, r.Subject)
			}
		}
	}
	return nil
}

// Repair reconciles one cell with its current blocked state
// A cell whose state still matches its domain is left untouched
func (m *Manager) Repair(p core.Point) (RepairStats, error) {
	if m.err != nil {
		return RepairStats{}, m.err
	}
	if !m.inMap(p) {
		return RepairStats{}, errors.Wrapf(ErrOutOfBounds, "repair %v", p)
	}

	start := time.Now()
	stats, changed, err := m.repair(p)
	if err != nil {
		m.err = err
		m.log.Error("domain repair failed", "cell", p, "error", err)
		return stats, err
	}
	if !changed {
		return stats, nil
	}
	stats.Elapsed = time.Since(start)
	stats.Domains = m.DomainCount()
	stats.Edges = m.edges.Len()
	m.dirty = true

	m.log.Debug("domain repaired",
		"cell", p,
		"blocked", stats.Blocked,
		"created", len(stats.Created),
		"removed", len(stats.Removed),
		"relabeled", stats.Relabeled,
	)
	for _, o := range m.observers {
		o.Repaired(stats)
	}
	return stats, nil
}

// CellIsInDomain reports whether the cell is assigned to a domain
func (m *Manager) CellIsInDomain(p core.Point) bool {
	if !m.inMap(p) {
		return false
	}
	return m.arena.nodes[m.arena.index(p)].domain != NoDomain
}

// DomainsMatch reports whether both cells belong to the same domain
func (m *Manager) DomainsMatch(a, b core.Point) bool {
	da, ok := m.DomainOf(a)
	if !ok {
		return false
	}
	db, ok := m.DomainOf(b)
	return ok && da == db
}

// DomainOf returns the domain id of a cell
func (m *Manager) DomainOf(p core.Point) (DomainID, bool) {
	if !m.inMap(p) {
		return NoDomain, false
	}
	d := m.arena.nodes[m.arena.index(p)].domain
	return d, d != NoDomain
}

// Head returns a copy of the head record for id
func (m *Manager) Head(id DomainID) (Head, bool) {
	h := m.heads.get(id)
	if h == nil {
		return Head{}, false
	}
	return *h, true
}

// Domains returns all heads ordered by id
func (m *Manager) Domains() []Head {
	return m.heads.sorted()
}

// DomainCount returns the number of live domains
func (m *Manager) DomainCount() int {
	return len(m.heads.heads)
}

// EdgeCount returns the number of raw boundary edges
func (m *Manager) EdgeCount() int {
	return m.edges.Len()
}

// Edges exposes the boundary edge tracker for read access
func (m *Manager) Edges() *EdgeTracker {
	return m.edges
}

// Collector returns the change collector fed by world notifications
func (m *Manager) Collector() *Collector {
	return m.collector
}

// Dirty reports whether domains changed since the last Overlay call
func (m *Manager) Dirty() bool {
	return m.dirty
}

// Err returns the fatal error that stopped the manager, if any
func (m *Manager) Err() error {
	return m.err
}

// Size returns the grid dimensions
func (m *Manager) Size() (int, int) {
	return m.width, m.height
}

// flag returns the blocked flag of the domain owning node i
func (m *Manager) flag(i int32) bool {
	return m.heads.get(m.arena.nodes[i].domain).Blocked
}

// refreshEdges recomputes the four sides of node i against its neighbours
// An edge exists iff both cells are assigned and their domains differ
func (m *Manager) refreshEdges(i int32) {
	p := m.arena.point(i)
	sides := m.geom.CellEdges(p)
	d := m.arena.nodes[i].domain
	for s := grid.Side(0); s < grid.SideCount; s++ {
		q := p.Add(grid.Offsets[s][0], grid.Offsets[s][1])
		if !m.inMap(q) {
			continue
		}
		nd := m.arena.nodes[m.arena.index(q)].domain
		if d != NoDomain && nd != NoDomain && d != nd {
			m.edges.AddEdge(sides[s].A, sides[s].B)
		} else {
			m.edges.RemoveEdge(sides[s].A, sides[s].B)
		}
	}
}

func (m *Manager) rerootLimit() int {
	return m.width * m.height * parameter.RerootCapFactor
}

func (m *Manager) inMap(p core.Point) bool {
	return m.arena.contains(p) && m.geom.Contains(p)
}
