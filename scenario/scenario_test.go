package scenario

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/celldomain/core"
)

func TestLoad_Crossing(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "crossing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "crossing", sc.Name)
	assert.Equal(t, 12, sc.Width)
	require.Len(t, sc.Actors, 1)
	assert.Equal(t, core.Point{X: 1, Y: 1}, sc.Actors[0].At)
	assert.Equal(t, uint64(5), sc.LastTick())
	assert.Len(t, sc.BlockedTerrain(), 6)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty size":     "width: 0\nheight: 3\n",
		"cell out":       "width: 2\nheight: 2\nterrain:\n  cells: [{x: 2, y: 0}]\n",
		"duplicate name": "width: 4\nheight: 4\nactors:\n  - {name: a, at: {x: 0, y: 0}}\n  - {name: a, at: {x: 1, y: 0}}\n",
		"unknown target": "width: 4\nheight: 4\ntimeline:\n  - {tick: 1, action: move, target: ghost, at: {x: 0, y: 0}}\n",
		"unknown action": "width: 4\nheight: 4\ntimeline:\n  - {tick: 1, action: teleport, at: {x: 0, y: 0}}\n",
		"tick order":     "width: 4\nheight: 4\ntimeline:\n  - {tick: 2, action: block, at: {x: 0, y: 0}}\n  - {tick: 1, action: clear, at: {x: 0, y: 0}}\n",
		"zero tick":      "width: 4\nheight: 4\ntimeline:\n  - {tick: 0, action: block, at: {x: 0, y: 0}}\n",
		"footprint out":  "width: 4\nheight: 4\nbuildings:\n  - {name: b, at: {x: 3, y: 3}, width: 2, height: 1}\n",
		"row too wide":   "width: 2\nheight: 2\nterrain:\n  rows: [\"...\"]\n",
		"malformed":      "width: [\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestBlockedTerrain_CombinesSources(t *testing.T) {
	sc, err := Parse([]byte(`
width: 4
height: 2
terrain:
  rows: ["#..#"]
  cells: [{x: 0, y: 0}, {x: 1, y: 1}]
`))
	require.NoError(t, err)
	assert.Equal(t, []core.Point{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 1, Y: 1}}, sc.BlockedTerrain())
}

func TestRunner_ReplayCrossing(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "crossing.yaml"))
	require.NoError(t, err)
	r, err := NewRunner(sc, nil)
	require.NoError(t, err)
	require.Equal(t, 5, r.Manager.DomainCount())

	var counts []int
	require.NoError(t, r.Replay(0, func(rep TickReport) {
		counts = append(counts, rep.Domains)
	}))
	assert.Equal(t, []int{4, 5, 6, 6, 5}, counts)
	assert.True(t, r.Done())

	m := r.Manager
	assert.True(t, m.DomainsMatch(core.Point{X: 0, Y: 6}, core.Point{X: 11, Y: 6}), "halves joined over the cleared cell")
	assert.True(t, m.DomainsMatch(core.Point{X: 6, Y: 1}, core.Point{X: 6, Y: 5}), "runner bridges the wall")
	_, ok := r.ID("scout")
	assert.False(t, ok)
}

func TestRunner_MazeReplayValidates(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "maze.yaml"))
	require.NoError(t, err)
	r, err := NewRunner(sc, nil)
	require.NoError(t, err)

	require.NoError(t, r.Replay(6, nil))
	assert.True(t, r.Done())
	d, ok := r.Manager.DomainOf(core.Point{X: 19, Y: 9})
	require.True(t, ok)
	h, _ := r.Manager.Head(d)
	assert.False(t, h.Blocked, "maze end is a passage")
}
