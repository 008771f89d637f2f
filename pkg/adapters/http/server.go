// Package http exposes a running simulation over HTTP: topology, live node
// states, Prometheus metrics and a server-sent event stream of batches.
package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/infrasim/internal/logging"
	"github.com/aretw0/infrasim/internal/presentation/graph"
	"github.com/aretw0/infrasim/pkg/domain"
	simgraph "github.com/aretw0/infrasim/pkg/graph"
	"github.com/aretw0/infrasim/pkg/sim"
)

// NodeView is the JSON form of a node.
type NodeView struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	State        string   `json:"state"`
	Dependencies []string `json:"dependencies"`
}

// GraphView is the response of GET /graph. Ticks counts the completed
// ticks and Hour is the hour of the next one.
type GraphView struct {
	RunID string     `json:"run_id,omitempty"`
	Ticks int        `json:"ticks"`
	Hour  int        `json:"hour"`
	Nodes []NodeView `json:"nodes"`
}

// Server serves a simulation graph.
//
// Node states are copied inside OnTick, on the driver's goroutine, so
// handlers never read the graph while it is being stepped.
type Server struct {
	Streams *StreamManager

	graph    *simgraph.Graph
	gatherer prometheus.Gatherer
	version  string
	degraded []string
	logger   *slog.Logger

	mu   sync.RWMutex
	view GraphView
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer serves the gatherer's metrics on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = strings.TrimSpace(v) }
}

// WithRunID sets the run id reported by /graph before the first batch
// carries one.
func WithRunID(id string) Option {
	return func(s *Server) { s.view.RunID = id }
}

// WithStartHour sets the hour reported before the first tick.
func WithStartHour(h int) Option {
	return func(s *Server) { s.view.Hour = h }
}

// WithDegradedStates sets the states highlighted in /graph.mmd.
func WithDegradedStates(states ...string) Option {
	return func(s *Server) { s.degraded = states }
}

// WithLogger sets the server logger, shared with its StreamManager.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer snapshots g and returns a server for it.
func NewServer(g *simgraph.Graph, opts ...Option) *Server {
	s := &Server{
		graph:    g,
		version:  "dev",
		degraded: []string{"off", "stop"},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	s.view.Nodes = make([]NodeView, 0, g.Len())
	for _, n := range g.Nodes() {
		s.view.Nodes = append(s.view.Nodes, NodeView{
			ID:           n.ID,
			Type:         n.Type,
			State:        n.State,
			Dependencies: n.DependencyIDs(),
		})
	}
	return s
}

// Hooks returns the lifecycle hooks keeping the server in sync with a driver.
func (s *Server) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTick: s.observe,
	}
}

func (s *Server) observe(b *domain.Batch) {
	snapshot := s.graph.Snapshot()

	s.mu.Lock()
	if b.RunID != "" {
		s.view.RunID = b.RunID
	}
	s.view.Ticks = b.Tick + 1
	s.view.Hour = (b.Hour + 1) % sim.HoursPerDay
	for i := range s.view.Nodes {
		s.view.Nodes[i].State = snapshot[s.view.Nodes[i].ID]
	}
	s.mu.Unlock()

	if s.Streams.Len() == 0 {
		return
	}
	payload, err := json.Marshal(b)
	if err != nil {
		s.logger.Error("batch encode failed", "tick", b.Tick, "error", err)
		return
	}
	s.Streams.Broadcast(Message{Batch: *b, Payload: string(payload)})
}

// Snapshot returns a copy of the current graph view.
func (s *Server) Snapshot() GraphView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := s.view
	v.Nodes = slices.Clone(s.view.Nodes)
	return v
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/graph", s.GetGraph)
	r.Get("/graph.mmd", s.GetMermaid)
	r.Get("/events", s.SubscribeEvents)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "infrasim",
		"version": s.version,
	})
}

// GetGraph handles the GET /graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.Snapshot())
}

// GetMermaid handles the GET /graph.mmd request, rendering the topology with
// the current states.
func (s *Server) GetMermaid(w http.ResponseWriter, r *http.Request) {
	view := s.Snapshot()
	states := make(map[string]string, len(view.Nodes))
	for _, n := range view.Nodes {
		states[n.ID] = n.State
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateTopology(s.graph, &graph.Overlay{Snapshot: states, Degraded: s.degraded}))
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

// SubscribeEvents handles the GET /events request (SSE).
// Every tick is sent as a JSON batch; ?node=a,b keeps only the batches with
// events from those nodes.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	var nodes []string
	if q := r.URL.Query().Get("node"); q != "" {
		for _, id := range strings.Split(q, ",") {
			nodes = append(nodes, strings.TrimSpace(id))
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()
	s.logger.Info("SSE client connected", "nodes", nodes)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(nodes) > 0 && !msg.mentions(nodes) {
				continue
			}
			fmt.Fprintf(w, "event: batch\ndata: %s\n\n", msg.Payload)
			flusher.Flush()
		}
	}
}
