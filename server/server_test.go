package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/celldomain/core"
	"github.com/lixenwraith/celldomain/domain"
	"github.com/lixenwraith/celldomain/engine"
	"github.com/lixenwraith/celldomain/grid"
	"github.com/lixenwraith/celldomain/logging"
	"github.com/lixenwraith/celldomain/metrics"
)

type fixture struct {
	world *engine.World
	mgr   *domain.Manager
	srv   *Server
	http  *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := prometheus.NewRegistry()
	obs := metrics.New(reg)

	w := engine.NewWorld(grid.NewRect(6, 3))
	m, err := domain.New(w.Map, w.Locomotor(), domain.WithObserver(obs))
	require.NoError(t, err)
	w.Subscribe(m)

	srv := New(logging.NewNop(), reg)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &fixture{world: w, mgr: m, srv: srv, http: ts}
}

func (f *fixture) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(f.http.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestServer_OverlayAndMatch(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.get(t, "/api/overlay")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	pub := f.srv.Publisher(f.mgr)
	require.NoError(t, pub.Tick(1))

	resp, body := f.get(t, "/api/overlay")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, uint64(1), snap.Tick)
	assert.Equal(t, 6, snap.Overlay.Width)
	assert.Len(t, snap.Overlay.Cells, 18)

	// Wall across column 2 splits the map
	for y := 0; y < 3; y++ {
		require.NoError(t, f.world.SetTerrain(core.Point{X: 2, Y: y}, true))
	}
	require.NoError(t, f.mgr.Tick(2))
	require.NoError(t, pub.Tick(2))

	resp, body = f.get(t, "/api/match?a=0,0&b=5,2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var match MatchResponse
	require.NoError(t, json.Unmarshal(body, &match))
	assert.False(t, match.Match)
	assert.NotEqual(t, match.DomainA, match.DomainB)

	resp, body = f.get(t, "/api/match?a=3,0&b=5,2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &match))
	assert.True(t, match.Match)

	resp, _ = f.get(t, "/api/match?a=zero&b=1,1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = f.get(t, "/api/match?a=9,9&b=1,1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = f.get(t, "/api/domains")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var heads []domain.Head
	require.NoError(t, json.Unmarshal(body, &heads))
	assert.Len(t, heads, 3)
}

func TestServer_PublisherSkipsClean(t *testing.T) {
	f := newFixture(t)
	pub := f.srv.Publisher(f.mgr)
	require.NoError(t, pub.Tick(1))
	require.NoError(t, pub.Tick(2))

	snap, _ := f.srv.current()
	require.NotNil(t, snap)
	assert.Equal(t, uint64(1), snap.Tick, "unchanged manager is not republished")
}

func TestServer_Metrics(t *testing.T) {
	f := newFixture(t)
	resp, body := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "celldomain_domains 1")
}

func TestServer_Stream(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.srv.Publish(1, f.mgr.Overlay()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(f.http.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	read := func() Snapshot {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		var snap Snapshot
		require.NoError(t, json.Unmarshal(data, &snap))
		return snap
	}

	assert.Equal(t, uint64(1), read().Tick, "current snapshot on connect")

	require.Eventually(t, func() bool { return f.srv.Hub().Len() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, f.srv.Publish(2, f.mgr.Overlay()))
	assert.Equal(t, uint64(2), read().Tick)
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint(" 3, 4")
	require.NoError(t, err)
	assert.Equal(t, core.Point{X: 3, Y: 4}, p)

	_, err = parsePoint("3")
	assert.Error(t, err)
}
