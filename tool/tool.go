// Package tool defines the context-gathering adapter contract and the
// registered-function table that maps a role's declared tool identifiers to
// concrete adapters.
//
// An Adapter is an external lookup service with a query-in/findings-out
// contract. Adapters must not fail: on internal error they degrade to an
// empty Result so a broken tool can never abort a task. New tools register
// with a Registry; the executor dispatches by identifier lookup instead of
// conditional branching, so adding a tool never touches executor code.
package tool

import (
	"context"
	"sync"
)

// Result is the structured output of one adapter lookup: formatted findings
// text for the model context plus the ordered citation source URLs backing
// them. The zero value is the degraded "nothing found" outcome.
type Result struct {
	Findings string
	Sources  []string
}

// Empty reports whether the lookup produced neither findings nor sources.
func (r Result) Empty() bool { return r.Findings == "" && len(r.Sources) == 0 }

// Adapter is an independently callable lookup service.
//
// Implementations own their transport concerns (timeouts, retries) and must
// never return an error or panic: internal failures degrade to an empty
// Result. The context bounds the call's lifetime.
type Adapter interface {
	// Name returns the tool identifier roles use to declare this adapter.
	Name() string

	// Lookup queries the service and returns whatever it found.
	Lookup(ctx context.Context, query string) Result
}

// Registry is the tool-id to adapter dispatch table. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry builds a registry preloaded with the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds or replaces the adapter under its own name.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Name()] = a
}

// Get returns the adapter registered under name, if any.
func (r *Registry) Get(name string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[name]
	return a, ok
}

// Names returns the registered tool identifiers in unspecified order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	return names
}

// Func adapts a plain function into an Adapter. Useful for tests and for
// registering small computed tools without a dedicated type.
type Func struct {
	ToolName string
	Fn       func(ctx context.Context, query string) Result
}

// Name implements Adapter.
func (f Func) Name() string { return f.ToolName }

// Lookup implements Adapter.
func (f Func) Lookup(ctx context.Context, query string) Result { return f.Fn(ctx, query) }
