// Package server exposes the domain overlay over HTTP and a websocket stream
// The simulation publishes snapshots, handlers never touch the manager
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lixenwraith/celldomain/core"
	"github.com/lixenwraith/celldomain/domain"
	"github.com/lixenwraith/celldomain/engine"
)

// Snapshot is the published overlay of one tick
type Snapshot struct {
	Tick    uint64         `json:"tick"`
	Overlay domain.Overlay `json:"overlay"`
}

// MatchResponse answers a domain match query
type MatchResponse struct {
	A       core.Point      `json:"a"`
	B       core.Point      `json:"b"`
	DomainA domain.DomainID `json:"domain_a"`
	DomainB domain.DomainID `json:"domain_b"`
	Match   bool            `json:"match"`
}

type Server struct {
	mu       sync.RWMutex
	snap     *Snapshot
	frame    []byte
	hub      *Hub
	gatherer prometheus.Gatherer
	log      *slog.Logger
}

// New creates a server, gatherer backs /metrics
func New(log *slog.Logger, gatherer prometheus.Gatherer) *Server {
	return &Server{
		hub:      NewHub(log),
		gatherer: gatherer,
		log:      log,
	}
}

// Publish stores the snapshot and streams it to connected clients
func (s *Server) Publish(tick uint64, ov domain.Overlay) error {
	snap := &Snapshot{Tick: tick, Overlay: ov}
	frame, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	s.mu.Lock()
	s.snap = snap
	s.frame = frame
	s.mu.Unlock()

	s.hub.Broadcast(frame)
	return nil
}

// Publisher returns a ticker that publishes whenever the manager changed
// Register it after the ticker that drives the manager
func (s *Server) Publisher(m *domain.Manager) engine.Ticker {
	return engine.TickerFunc(func(tick uint64) error {
		if !m.Dirty() {
			return nil
		}
		return s.Publish(tick, m.Overlay())
	})
}

// Hub returns the stream hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler builds the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/overlay", s.handleOverlay)
	r.Get("/api/domains", s.handleDomains)
	r.Get("/api/match", s.handleMatch)
	r.Get("/ws", s.handleStream)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) current() (*Snapshot, []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.frame
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	_, frame := s.current()
	if frame == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(frame)
}

func (s *Server) handleDomains(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.current()
	if snap == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, s.log, snap.Overlay.Heads)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.current()
	if snap == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}
	a, err := parsePoint(r.URL.Query().Get("a"))
	if err != nil {
		http.Error(w, fmt.Sprintf("parameter a: %v", err), http.StatusBadRequest)
		return
	}
	b, err := parsePoint(r.URL.Query().Get("b"))
	if err != nil {
		http.Error(w, fmt.Sprintf("parameter b: %v", err), http.StatusBadRequest)
		return
	}
	ca, okA := snap.Overlay.At(a)
	cb, okB := snap.Overlay.At(b)
	if !okA || !okB {
		http.Error(w, "cell out of bounds", http.StatusNotFound)
		return
	}
	writeJSON(w, s.log, MatchResponse{
		A:       a,
		B:       b,
		DomainA: ca.Domain,
		DomainB: cb.Domain,
		Match:   ca.Domain == cb.Domain,
	})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.log.Warn("websocket accept failed", "error", err)
		return
	}
	id := s.hub.Add(conn)
	defer s.hub.Remove(id)

	if _, frame := s.current(); frame != nil {
		s.hub.Send(id, frame)
	}

	// Clients only listen, reads just detect the close
	for {
		if _, _, err := conn.Read(r.Context()); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("response encode failed", "error", err)
	}
}

// parsePoint reads "x,y"
func parsePoint(s string) (core.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return core.Point{}, fmt.Errorf("expected x,y, got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return core.Point{}, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return core.Point{}, fmt.Errorf("y: %w", err)
	}
	return core.Point{X: x, Y: y}, nil
}
