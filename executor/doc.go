// Package executor runs a single task against one registered agent.
//
// The pipeline gathers context by invoking the tool adapters the agent's
// role declares, in declaration order, then synthesizes a response with the
// model client. When no model credential is configured the executor emits a
// deterministic report assembled from the gathered tool context — a fully
// supported mode, not an error path.
//
// Status side effects on the registry: the agent is marked active before the
// first tool call, idle on success and stuck on failure; the executor never
// resolves while leaving the agent active. Concurrent executions against
// different agents are fine; callers must not run two executions for the
// same agent at once.
package executor
