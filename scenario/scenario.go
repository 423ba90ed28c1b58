// Package scenario loads YAML world scenarios and replays their timelines
// against a world and its domain manager
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/celldomain/core"
	"github.com/lixenwraith/celldomain/maze"
)

// Action is a timeline step kind
type Action string

const (
	ActionSpawn  Action = "spawn"  // new actor at At
	ActionMove   Action = "move"   // actor Target to At
	ActionRemove Action = "remove" // actor or building Target leaves
	ActionBuild  Action = "build"  // new building at At with Width x Height
	ActionBlock  Action = "block"  // terrain at At becomes blocked
	ActionClear  Action = "clear"  // terrain at At becomes open
)

// Scenario is the root of a scenario file
type Scenario struct {
	Name      string     `yaml:"name"`
	Width     int        `yaml:"width"`
	Height    int        `yaml:"height"`
	Terrain   Terrain    `yaml:"terrain"`
	Actors    []Actor    `yaml:"actors"`
	Buildings []Building `yaml:"buildings"`
	Timeline  []Step     `yaml:"timeline"`
}

// Terrain sources are combined: rows, then cells, then a generated maze
type Terrain struct {
	// Rows uses '#' for blocked cells, anything else is open
	Rows  []string     `yaml:"rows"`
	Cells []core.Point `yaml:"cells"`
	Maze  *Maze        `yaml:"maze"`
}

// Maze generates terrain with the maze package
type Maze struct {
	Seed          uint64  `yaml:"seed"`
	Braiding      float64 `yaml:"braiding"`
	RemoveBorders bool    `yaml:"remove_borders"`
}

// Actor is a named single-cell occupant present at load
type Actor struct {
	Name string     `yaml:"name"`
	At   core.Point `yaml:"at"`
}

// Building is a named footprint present at load
type Building struct {
	Name   string     `yaml:"name"`
	At     core.Point `yaml:"at"`
	Width  int        `yaml:"width"`
	Height int        `yaml:"height"`
}

// Step is one timeline entry, applied at the start of its tick
type Step struct {
	Tick   uint64     `yaml:"tick"`
	Action Action     `yaml:"action"`
	Target string     `yaml:"target"`
	At     core.Point `yaml:"at"`
	Width  int        `yaml:"width"`
	Height int        `yaml:"height"`
}

// Load reads and validates a scenario file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scenario document
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks bounds, names and timeline ordering
func (s *Scenario) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("size %dx%d must be positive", s.Width, s.Height)
	}
	if len(s.Terrain.Rows) > s.Height {
		return fmt.Errorf("terrain has %d rows, height is %d", len(s.Terrain.Rows), s.Height)
	}
	for y, row := range s.Terrain.Rows {
		if len(row) > s.Width {
			return fmt.Errorf("terrain row %d is %d wide, width is %d", y, len(row), s.Width)
		}
	}
	for _, p := range s.Terrain.Cells {
		if !s.contains(p) {
			return fmt.Errorf("terrain cell %v out of bounds", p)
		}
	}

	names := make(map[string]bool)
	claim := func(name, what string) error {
		if name == "" {
			return fmt.Errorf("%s without a name", what)
		}
		if names[name] {
			return fmt.Errorf("duplicate name %q", name)
		}
		names[name] = true
		return nil
	}

	for _, a := range s.Actors {
		if err := claim(a.Name, "actor"); err != nil {
			return err
		}
		if !s.contains(a.At) {
			return fmt.Errorf("actor %q at %v out of bounds", a.Name, a.At)
		}
	}
	for _, b := range s.Buildings {
		if err := claim(b.Name, "building"); err != nil {
			return err
		}
		if err := s.checkFootprint(b.At, b.Width, b.Height); err != nil {
			return fmt.Errorf("building %q: %w", b.Name, err)
		}
	}

	var last uint64
	for i, st := range s.Timeline {
		if st.Tick == 0 {
			return fmt.Errorf("step %d: ticks start at 1", i)
		}
		if st.Tick < last {
			return fmt.Errorf("step %d: tick %d before %d", i, st.Tick, last)
		}
		last = st.Tick

		switch st.Action {
		case ActionSpawn:
			if err := claim(st.Target, "spawn"); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		case ActionBuild:
			if err := claim(st.Target, "build"); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			if err := s.checkFootprint(st.At, st.Width, st.Height); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			continue
		case ActionMove, ActionRemove:
			if !names[st.Target] {
				return fmt.Errorf("step %d: unknown target %q", i, st.Target)
			}
			if st.Action == ActionRemove {
				continue
			}
		case ActionBlock, ActionClear:
		default:
			return fmt.Errorf("step %d: unknown action %q", i, st.Action)
		}
		if !s.contains(st.At) {
			return fmt.Errorf("step %d: %v out of bounds", i, st.At)
		}
	}
	return nil
}

// LastTick returns the tick of the final timeline step, 0 for an empty timeline
func (s *Scenario) LastTick() uint64 {
	if len(s.Timeline) == 0 {
		return 0
	}
	return s.Timeline[len(s.Timeline)-1].Tick
}

// BlockedTerrain resolves all terrain sources into a sorted, duplicate-free cell list
func (s *Scenario) BlockedTerrain() []core.Point {
	blocked := make([]bool, s.Width*s.Height)
	for y, row := range s.Terrain.Rows {
		for x, ch := range row {
			if ch == '#' {
				blocked[y*s.Width+x] = true
			}
		}
	}
	for _, p := range s.Terrain.Cells {
		blocked[p.Y*s.Width+p.X] = true
	}
	if m := s.Terrain.Maze; m != nil {
		res := maze.Generate(maze.Config{
			Width:         s.Width,
			Height:        s.Height,
			Braiding:      m.Braiding,
			RemoveBorders: m.RemoveBorders,
			Seed:          m.Seed,
		})
		for _, p := range res.Walls() {
			if s.contains(p) {
				blocked[p.Y*s.Width+p.X] = true
			}
		}
	}

	var out []core.Point
	for i, b := range blocked {
		if b {
			out = append(out, core.Point{X: i % s.Width, Y: i / s.Width})
		}
	}
	return out
}

func (s *Scenario) contains(p core.Point) bool {
	return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height
}

func (s *Scenario) checkFootprint(at core.Point, w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("footprint %dx%d must be positive", w, h)
	}
	if !s.contains(at) || !s.contains(at.Add(w-1, h-1)) {
		return fmt.Errorf("footprint %v %dx%d out of bounds", at, w, h)
	}
	return nil
}
