package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/swarmdeck/swarmdeck/role"
)

// Status is the lifecycle state of an agent instance.
type Status string

const (
	// StatusIdle means the agent is alive and waiting for work (initial state).
	StatusIdle Status = "idle"
	// StatusActive means the agent is currently executing a task.
	StatusActive Status = "active"
	// StatusStuck means the agent's last task failed; CurrentTask is retained
	// as a diagnostic.
	StatusStuck Status = "stuck"
	// StatusOffline means the agent was killed. Terminal: offline agents are
	// only ever removed by Cleanup, never reactivated.
	StatusOffline Status = "offline"
)

// String implements fmt.Stringer.
func (s Status) String() string { return string(s) }

// AgentInstance is a point-in-time snapshot of a registered agent. Snapshots
// are values; mutating one has no effect on the registry.
type AgentInstance struct {
	ID           string
	Role         role.ID
	Name         string
	Status       Status
	CurrentTask  string
	CreatedAt    time.Time
	LastActiveAt time.Time
}

// entry is the registry-owned mutable record behind an AgentInstance.
// Status mutations lock the entry, not the whole table.
type entry struct {
	mu    sync.Mutex
	agent AgentInstance
}

func (e *entry) snapshot() AgentInstance {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.agent
}

// Registry is the process-lifetime agent table. Safe for concurrent use.
type Registry struct {
	catalog *role.Catalog

	mu     sync.RWMutex
	agents map[string]*entry
}

// New constructs an empty registry backed by the given role catalog.
func New(catalog *role.Catalog) *Registry {
	return &Registry{catalog: catalog, agents: make(map[string]*entry)}
}

// Spawn creates a new agent instance for the given role in StatusIdle.
// If name is empty a default of the form "<RoleDisplayName>-<ordinal>" is
// assigned, where the ordinal is derived from the current registry size.
// Fails only when the role id is unknown.
func (r *Registry) Spawn(id role.ID, name string) (AgentInstance, error) {
	rc, err := r.catalog.Get(id)
	if err != nil {
		return AgentInstance{}, fmt.Errorf("spawn %q: %w", id, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		name = fmt.Sprintf("%s-%d", rc.DisplayName, len(r.agents)+1)
	}
	now := time.Now()
	agent := AgentInstance{
		ID:           newAgentID(now),
		Role:         rc.ID,
		Name:         name,
		Status:       StatusIdle,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	r.agents[agent.ID] = &entry{agent: agent}
	return agent, nil
}

// newAgentID produces a collision-resistant identifier combining a timestamp
// with a random suffix.
func newAgentID(now time.Time) string {
	return fmt.Sprintf("agent-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

// Get returns a snapshot of the agent with the given id.
func (r *Registry) Get(id string) (AgentInstance, bool) {
	r.mu.RLock()
	e, ok := r.agents[id]
	r.mu.RUnlock()
	if !ok {
		return AgentInstance{}, false
	}
	return e.snapshot(), true
}

// List returns snapshots of all registered agents. Iteration order is the
// map's order and is not guaranteed to match creation order.
func (r *Registry) List() []AgentInstance {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.agents))
	for _, e := range r.agents {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	out := make([]AgentInstance, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.snapshot())
	}
	return out
}

// Begin marks the agent active with the given task. Applies only from
// StatusIdle or StatusActive; any other state (including a concurrent kill)
// leaves the entry untouched. Returns false when nothing was applied.
func (r *Registry) Begin(id, task string) bool {
	return r.mutate(id, func(a *AgentInstance) bool {
		if a.Status != StatusIdle && a.Status != StatusActive {
			return false
		}
		a.Status = StatusActive
		a.CurrentTask = task
		return true
	})
}

// Complete transitions an active agent back to idle, clearing its task.
func (r *Registry) Complete(id string) bool {
	return r.mutate(id, func(a *AgentInstance) bool {
		if a.Status != StatusActive {
			return false
		}
		a.Status = StatusIdle
		a.CurrentTask = ""
		return true
	})
}

// Fail transitions an active agent to stuck. CurrentTask is retained so the
// failed task remains visible for diagnosis.
func (r *Registry) Fail(id string) bool {
	return r.mutate(id, func(a *AgentInstance) bool {
		if a.Status != StatusActive {
			return false
		}
		a.Status = StatusStuck
		return true
	})
}

// SetStatus applies an arbitrary status update, clearing or replacing the
// current task when task is non-nil. Absent ids are a silent no-op: status
// updates may race with a concurrent kill or cleanup and losing such a race
// is not an error. Offline agents are never resurrected.
func (r *Registry) SetStatus(id string, status Status, task *string) {
	r.mutate(id, func(a *AgentInstance) bool {
		if a.Status == StatusOffline {
			return false
		}
		a.Status = status
		if task != nil {
			a.CurrentTask = *task
		}
		return true
	})
}

// Kill transitions the agent to offline from any state, clearing its task.
// Returns false when the id is unknown.
func (r *Registry) Kill(id string) bool {
	return r.mutate(id, func(a *AgentInstance) bool {
		a.Status = StatusOffline
		a.CurrentTask = ""
		return true
	})
}

// KillAll transitions every non-offline agent to offline.
func (r *Registry) KillAll() {
	for _, a := range r.List() {
		if a.Status != StatusOffline {
			r.Kill(a.ID)
		}
	}
}

// Cleanup removes all offline agents from the table and returns the number
// of entries removed. Calling it again without an intervening kill returns 0.
func (r *Registry) Cleanup() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.agents {
		if e.snapshot().Status == StatusOffline {
			delete(r.agents, id)
			removed++
		}
	}
	return removed
}

// Size returns the number of registered agents, offline entries included.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// mutate applies fn to the named entry under its lock. LastActiveAt is
// updated whenever fn reports that it applied a transition.
func (r *Registry) mutate(id string, fn func(*AgentInstance) bool) bool {
	r.mu.RLock()
	e, ok := r.agents[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !fn(&e.agent) {
		return false
	}
	e.agent.LastActiveAt = time.Now()
	return true
}
