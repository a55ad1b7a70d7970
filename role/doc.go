// Package role defines the static role catalog for the swarm.
//
// A Role is an immutable template binding a role identifier to its display
// identity, system prompt and declared tool set. Roles are defined once at
// process start and never mutated; agents reference them read-only. The
// "master" role coordinates the swarm and is excluded from the spawnable
// subset returned by Spawnable.
package role
