package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/celldomain/core"
	"github.com/lixenwraith/celldomain/domain"
	"github.com/lixenwraith/celldomain/engine"
	"github.com/lixenwraith/celldomain/grid"
)

func TestObserver_TracksManager(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := New(reg)

	w := engine.NewWorld(grid.NewRect(5, 1))
	m, err := domain.New(w.Map, w.Locomotor(), domain.WithObserver(obs))
	require.NoError(t, err)
	w.Subscribe(m)

	assert.Equal(t, 1.0, testutil.ToFloat64(obs.builds))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.domains))

	a, err := w.SpawnActor(core.Point{X: 2})
	require.NoError(t, err)
	require.NoError(t, m.Tick(1))

	assert.Equal(t, 1.0, testutil.ToFloat64(obs.repairs.WithLabelValues(OutcomeSplit)))
	assert.Equal(t, 3.0, testutil.ToFloat64(obs.domains))
	assert.Equal(t, 2.0, testutil.ToFloat64(obs.edges))

	require.NoError(t, w.Remove(a.ID))
	require.NoError(t, m.Tick(2))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.repairs.WithLabelValues(OutcomeMerge)))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.domains))

	n, err := testutil.GatherAndCount(reg, "celldomain_repair_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeFlip, Outcome(domain.RepairStats{Created: []domain.DomainID{4}, Removed: []domain.DomainID{2}}))
	assert.Equal(t, OutcomeSplit, Outcome(domain.RepairStats{Created: []domain.DomainID{4, 5}}))
	assert.Equal(t, OutcomeMerge, Outcome(domain.RepairStats{Removed: []domain.DomainID{1}}))
}
