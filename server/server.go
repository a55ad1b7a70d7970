// Package server exposes the orchestration core over HTTP: agent lifecycle,
// task execution, command routing and master-agent dialogue, plus health and
// prometheus endpoints. JSON in, JSON out, no auth.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swarmdeck/swarmdeck"
	"github.com/swarmdeck/swarmdeck/coordinator"
	"github.com/swarmdeck/swarmdeck/logging"
	"github.com/swarmdeck/swarmdeck/metrics"
	"github.com/swarmdeck/swarmdeck/registry"
	"github.com/swarmdeck/swarmdeck/role"
)

// Options configure a Server.
type Options struct {
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
	// Metrics receives the live-agent gauge updates. Defaults to a private
	// throwaway set.
	Metrics *metrics.Metrics
	// Gatherer backs GET /metrics. Nil falls back to the prometheus default
	// gatherer.
	Gatherer prometheus.Gatherer
}

// Server is the HTTP gateway over a Swarm. Implements http.Handler.
type Server struct {
	swarm   *swarmdeck.Swarm
	router  *chi.Mux
	logger  logging.Logger
	metrics *metrics.Metrics
}

// New constructs the gateway and mounts all routes.
func New(swarm *swarmdeck.Swarm, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger:   logging.NoOpLogger{},
		Gatherer: prometheus.DefaultGatherer,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New(nil)
	}

	s := &Server{
		swarm:   swarm,
		router:  chi.NewRouter(),
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	s.routes(opts.Gatherer)
	return s
}

func (s *Server) routes(gatherer prometheus.Gatherer) {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/agents", s.handleListAgents)
		r.Post("/agents/spawn", s.handleSpawn)
		r.Post("/agents/task", s.handleTask)
		r.Post("/agents/cleanup", s.handleCleanup)
		r.Post("/commands", s.handleCommand)
		r.Post("/master-agent", s.handleMasterAgent)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type agentView struct {
	ID          string `json:"id"`
	Role        string `json:"role"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	CurrentTask string `json:"currentTask,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
	LastActive  int64  `json:"lastActiveAt"`
}

func viewOf(a registry.AgentInstance) agentView {
	return agentView{
		ID:          a.ID,
		Role:        string(a.Role),
		Name:        a.Name,
		Status:      a.Status.String(),
		CurrentTask: a.CurrentTask,
		CreatedAt:   a.CreatedAt.UnixMilli(),
		LastActive:  a.LastActiveAt.UnixMilli(),
	}
}

func (s *Server) handleListAgents(w http.ResponseWriter, _ *http.Request) {
	agents := s.swarm.Registry.List()
	views := make([]agentView, 0, len(agents))
	for _, a := range agents {
		views = append(views, viewOf(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{"agents": views})
}

type spawnRequest struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

func (s *Server) handleSpawn(w http.ResponseWriter, r *http.Request) {
	var req spawnRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	agent, err := s.swarm.Spawn(role.ID(req.Role), req.Name)
	if err != nil {
		if errors.Is(err, role.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "unknown role: "+req.Role)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.updateAgentGauge()
	s.logger.Info("agent spawned", "agent", agent.Name, "role", agent.Role)
	writeJSON(w, http.StatusCreated, viewOf(agent))
}

type taskRequest struct {
	AgentID string `json:"agentId"`
	Task    string `json:"task"`
}

type taskResponse struct {
	Success    bool     `json:"success"`
	Output     string   `json:"output"`
	Sources    []string `json:"sources,omitempty"`
	ToolsUsed  []string `json:"toolsUsed,omitempty"`
	Error      string   `json:"error,omitempty"`
	DurationMS int64    `json:"durationMs"`
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, ok := s.swarm.Registry.Get(req.AgentID); !ok {
		writeError(w, http.StatusNotFound, "agent not found: "+req.AgentID)
		return
	}

	result := s.swarm.Execute(r.Context(), req.AgentID, req.Task, nil)
	s.updateAgentGauge()
	writeJSON(w, http.StatusOK, taskResponse{
		Success:    result.Success,
		Output:     result.Output,
		Sources:    result.Sources,
		ToolsUsed:  result.ToolsUsed,
		Error:      result.Error,
		DurationMS: result.Duration.Milliseconds(),
	})
}

func (s *Server) handleCleanup(w http.ResponseWriter, _ *http.Request) {
	removed := s.swarm.Registry.Cleanup()
	s.updateAgentGauge()
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

type commandRequest struct {
	Command string `json:"command"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ca := s.swarm.Router.Route(r.Context(), req.Command, s.swarm.AgentSummaries(), nil)
	s.swarm.Apply(ca)
	s.updateAgentGauge()
	writeJSON(w, http.StatusOK, ca)
}

type masterRequest struct {
	Message string                    `json:"message"`
	Recent  []coordinator.FeedMessage `json:"recentMessages"`
}

type masterResponse struct {
	Text         string                    `json:"text"`
	SpawnedAgent *coordinator.SpawnedAgent `json:"spawnedAgent,omitempty"`
	TaskResult   *taskResponse             `json:"taskResult,omitempty"`
}

func (s *Server) handleMasterAgent(w http.ResponseWriter, r *http.Request) {
	var req masterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	reply := s.swarm.Converse(r.Context(), req.Message, req.Recent)
	s.updateAgentGauge()

	resp := masterResponse{Text: reply.Text, SpawnedAgent: reply.SpawnedAgent}
	if reply.TaskResult != nil {
		resp.TaskResult = &taskResponse{
			Success:    reply.TaskResult.Success,
			Output:     reply.TaskResult.Output,
			Sources:    reply.TaskResult.Sources,
			ToolsUsed:  reply.TaskResult.ToolsUsed,
			Error:      reply.TaskResult.Error,
			DurationMS: reply.TaskResult.Duration.Milliseconds(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// updateAgentGauge resets the live-agent gauge from a fresh registry
// snapshot. Called after every mutating handler; cheap enough that exactness
// beats incremental bookkeeping.
func (s *Server) updateAgentGauge() {
	counts := map[registry.Status]int{
		registry.StatusIdle:    0,
		registry.StatusActive:  0,
		registry.StatusStuck:   0,
		registry.StatusOffline: 0,
	}
	for _, a := range s.swarm.Registry.List() {
		counts[a.Status]++
	}
	for status, n := range counts {
		s.metrics.AgentsLive.WithLabelValues(status.String()).Set(float64(n))
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
