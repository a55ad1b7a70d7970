// Package registry implements the in-memory agent instance table.
//
// The registry is the single shared mutable resource of the orchestration
// core. It owns every AgentInstance exclusively: external components retain
// only the agent identifier and read point-in-time snapshots. Membership is
// guarded by a read/write mutex while each entry carries its own lock, so
// mutations on different agents never contend and mutations on the same agent
// are serialized.
//
// Lifecycle: Spawn creates an agent in StatusIdle; Begin/Complete/Fail move
// it through the task edges; Kill parks it in StatusOffline (terminal — an
// offline agent is never reactivated); Cleanup purges all offline entries.
package registry
