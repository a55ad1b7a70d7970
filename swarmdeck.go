// Package swarmdeck provides a high-level façade over the agent orchestration
// core: the role catalog, the in-memory agent registry, the task executor,
// the command router and the master-agent coordinator. Most applications
// interact with this package by:
//  1. Creating a Swarm via New() (optionally supplying a model client)
//  2. Spawning agents and executing tasks against them
//  3. Routing control commands and master-agent dialogue turns
//
// All defaults are safe for local development: with no model client the swarm
// runs fully deterministic (mock synthesis, fast-path commands, keyword
// coordination), which is also the configuration the tests use.
package swarmdeck

import (
	"context"

	"github.com/swarmdeck/swarmdeck/command"
	"github.com/swarmdeck/swarmdeck/coordinator"
	"github.com/swarmdeck/swarmdeck/executor"
	"github.com/swarmdeck/swarmdeck/logging"
	"github.com/swarmdeck/swarmdeck/metrics"
	"github.com/swarmdeck/swarmdeck/model"
	"github.com/swarmdeck/swarmdeck/registry"
	"github.com/swarmdeck/swarmdeck/role"
	"github.com/swarmdeck/swarmdeck/tool"
	"github.com/swarmdeck/swarmdeck/tool/duckduckgo"
	"github.com/swarmdeck/swarmdeck/tool/wikipedia"
)

// Options configure a Swarm instance.
type Options struct {
	// Model is the shared language-model client. Nil selects mock mode
	// throughout: deterministic reports, fast-path-only commands and keyword
	// coordination.
	Model model.Client

	// Tools overrides the default adapter table (DuckDuckGo + Wikipedia).
	Tools *tool.Registry

	// Logger defaults to NoOpLogger.
	Logger logging.Logger

	// Metrics defaults to a private unexported registry; supply one built
	// over a real prometheus.Registerer to export collectors.
	Metrics *metrics.Metrics

	// ExecutorTemperature and ExecutorMaxTokens override the synthesis
	// defaults. Zero values keep the defaults.
	ExecutorTemperature float64
	ExecutorMaxTokens   int64
}

// Swarm aggregates the orchestration core. Fields are exported for direct
// access; the façade methods cover the common paths.
type Swarm struct {
	Catalog     *role.Catalog
	Registry    *registry.Registry
	Tools       *tool.Registry
	Executor    *executor.Executor
	Router      *command.Router
	Coordinator *coordinator.Coordinator
}

// New assembles a Swarm. Any unset collaborator is initialized with its
// default implementation.
func New(optFns ...func(o *Options)) *Swarm {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New(nil)
	}
	if opts.Tools == nil {
		opts.Tools = tool.NewRegistry(
			duckduckgo.New(func(o *duckduckgo.Options) { o.Logger = opts.Logger }),
			wikipedia.New(func(o *wikipedia.Options) { o.Logger = opts.Logger }),
		)
	}

	catalog := role.NewCatalog()
	reg := registry.New(catalog)

	exec := executor.New(catalog, reg, opts.Tools, func(o *executor.Options) {
		o.Model = opts.Model
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
		if opts.ExecutorTemperature != 0 {
			o.Temperature = opts.ExecutorTemperature
		}
		if opts.ExecutorMaxTokens != 0 {
			o.MaxTokens = opts.ExecutorMaxTokens
		}
	})

	router := command.New(func(o *command.Options) {
		o.Model = opts.Model
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
	})

	coord := coordinator.New(catalog, reg, exec, func(o *coordinator.Options) {
		o.Model = opts.Model
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
	})

	return &Swarm{
		Catalog:     catalog,
		Registry:    reg,
		Tools:       opts.Tools,
		Executor:    exec,
		Router:      router,
		Coordinator: coord,
	}
}

// Spawn creates a new agent of the given role. An empty name selects the
// default "<DisplayName>-<ordinal>" form.
func (s *Swarm) Spawn(id role.ID, name string) (registry.AgentInstance, error) {
	return s.Registry.Spawn(id, name)
}

// Execute runs task against the named agent.
func (s *Swarm) Execute(ctx context.Context, agentID, task string, onProgress executor.ProgressFunc) executor.TaskResult {
	return s.Executor.Execute(ctx, agentID, task, onProgress)
}

// Command classifies a control instruction against the current swarm state.
func (s *Swarm) Command(ctx context.Context, text string) command.CommandAction {
	return s.Router.Route(ctx, text, s.AgentSummaries(), nil)
}

// Converse handles one master-agent dialogue turn.
func (s *Swarm) Converse(ctx context.Context, message string, recent []coordinator.FeedMessage) coordinator.Reply {
	return s.Coordinator.Respond(ctx, message, nil, recent)
}

// Apply executes a routed command against the registry: kills, pauses and
// resumes change agent state; everything else is informational and leaves the
// registry untouched.
func (s *Swarm) Apply(ca command.CommandAction) {
	switch ca.Action {
	case command.ActionKillAll:
		s.Registry.KillAll()
	case command.ActionKillAgent:
		if ca.Target != "" {
			s.Registry.Kill(ca.Target)
		}
	case command.ActionPauseAll:
		for _, a := range s.Registry.List() {
			if a.Status == registry.StatusActive {
				s.Registry.SetStatus(a.ID, registry.StatusIdle, nil)
			}
		}
	case command.ActionPauseAgent:
		if ca.Target != "" {
			s.Registry.SetStatus(ca.Target, registry.StatusIdle, nil)
		}
	case command.ActionResumeAll, command.ActionResumeAgent:
		// Resume is a feed-level acknowledgement: idle agents pick up work on
		// the next Execute call, so there is no state to flip here.
	}
}

// AgentSummaries snapshots the registry in the shape the router and
// coordinator accept as parsing context.
func (s *Swarm) AgentSummaries() []command.AgentSummary {
	agents := s.Registry.List()
	out := make([]command.AgentSummary, 0, len(agents))
	for _, a := range agents {
		out = append(out, command.AgentSummary{
			ID:          a.ID,
			Name:        a.Name,
			Status:      a.Status.String(),
			CurrentTask: a.CurrentTask,
		})
	}
	return out
}
