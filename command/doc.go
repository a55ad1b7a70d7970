// Package command classifies free-form control instructions into discrete
// swarm actions.
//
// Routing is two-tiered: a deterministic fast path matches the literal slash
// commands without any external call, and anything else falls back to a
// model-assisted parse. Every failure mode of the fallback — no credential,
// transport error, unparseable reply — resolves to ActionUnknown with a
// displayable message, so callers never see an opaque error.
package command
