package scenario

import (
	"fmt"
	"log/slog"

	"github.com/lixenwraith/celldomain/domain"
	"github.com/lixenwraith/celldomain/engine"
	"github.com/lixenwraith/celldomain/grid"
)

// Runner owns a world built from a scenario and the domain manager watching it
// It implements engine.Ticker: each tick applies that tick's steps, then repairs
type Runner struct {
	Scenario *Scenario
	World    *engine.World
	Manager  *domain.Manager

	ids  map[string]engine.ActorID
	next int
	log  *slog.Logger
}

// NewRunner loads terrain and initial occupants, then builds the manager
func NewRunner(sc *Scenario, log *slog.Logger, opts ...domain.Option) (*Runner, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	w := engine.NewWorld(grid.NewRect(sc.Width, sc.Height))
	if err := w.LoadTerrain(sc.BlockedTerrain()); err != nil {
		return nil, fmt.Errorf("load terrain: %w", err)
	}

	r := &Runner{
		Scenario: sc,
		World:    w,
		ids:      make(map[string]engine.ActorID),
		log:      log,
	}
	for _, a := range sc.Actors {
		act, err := w.SpawnActor(a.At)
		if err != nil {
			return nil, fmt.Errorf("actor %q: %w", a.Name, err)
		}
		r.ids[a.Name] = act.ID
	}
	for _, b := range sc.Buildings {
		bld, err := w.PlaceBuilding(b.At, b.Width, b.Height)
		if err != nil {
			return nil, fmt.Errorf("building %q: %w", b.Name, err)
		}
		r.ids[b.Name] = bld.ID
	}

	opts = append([]domain.Option{domain.WithLogger(log)}, opts...)
	m, err := domain.New(w.Map, w.Locomotor(), opts...)
	if err != nil {
		return nil, fmt.Errorf("build domains: %w", err)
	}
	w.Subscribe(m)
	r.Manager = m
	return r, nil
}

// Tick applies every step scheduled for tick, then lets the manager repair
func (r *Runner) Tick(tick uint64) error {
	for r.next < len(r.Scenario.Timeline) && r.Scenario.Timeline[r.next].Tick <= tick {
		st := r.Scenario.Timeline[r.next]
		r.next++
		if err := r.apply(st); err != nil {
			return fmt.Errorf("tick %d %s %s: %w", tick, st.Action, st.Target, err)
		}
		r.log.Debug("step applied", "tick", tick, "action", st.Action, "target", st.Target, "at", st.At)
	}
	return r.Manager.Tick(tick)
}

// Done reports whether the whole timeline has been applied
func (r *Runner) Done() bool {
	return r.next >= len(r.Scenario.Timeline)
}

// ID returns the world id bound to a scenario name
func (r *Runner) ID(name string) (engine.ActorID, bool) {
	id, ok := r.ids[name]
	return id, ok
}

func (r *Runner) apply(st Step) error {
	switch st.Action {
	case ActionSpawn:
		a, err := r.World.SpawnActor(st.At)
		if err != nil {
			return err
		}
		r.ids[st.Target] = a.ID
	case ActionBuild:
		b, err := r.World.PlaceBuilding(st.At, st.Width, st.Height)
		if err != nil {
			return err
		}
		r.ids[st.Target] = b.ID
	case ActionMove:
		return r.World.MoveActor(r.ids[st.Target], st.At)
	case ActionRemove:
		id := r.ids[st.Target]
		delete(r.ids, st.Target)
		return r.World.Remove(id)
	case ActionBlock:
		return r.World.SetTerrain(st.At, true)
	case ActionClear:
		return r.World.SetTerrain(st.At, false)
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// TickReport is the per-tick summary produced by Replay
type TickReport struct {
	Tick    uint64
	Domains int
	Edges   int
}

// Replay steps the runner headlessly for ticks ticks, or to the end of the
// timeline when ticks is 0, and validates the forest after the last tick
func (r *Runner) Replay(ticks uint64, each func(TickReport)) error {
	if ticks == 0 {
		ticks = r.Scenario.LastTick()
	}
	clock := engine.NewClock(0)
	clock.Register(r)

	for clock.Ticks() < ticks {
		if err := clock.Step(); err != nil {
			return err
		}
		if each != nil {
			each(TickReport{
				Tick:    clock.Ticks(),
				Domains: r.Manager.DomainCount(),
				Edges:   r.Manager.EdgeCount(),
			})
		}
	}
	if err := r.Manager.Validate(); err != nil {
		return fmt.Errorf("validate after tick %d: %w", clock.Ticks(), err)
	}
	return nil
}
