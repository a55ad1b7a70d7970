// Package model defines the provider-agnostic chat-completion contract used
// for synthesis and command interpretation.
//
// Core goals:
//   - One minimal interface (Client) over any chat-completion backend
//   - Three distinguishable failure classes so callers can apply the right
//     fallback: ErrUnavailable (no credential configured), TransportError
//     (non-2xx / network failure) and MalformedError (unexpected response
//     shape)
//   - Deterministic mocking for tests (MockClient)
//
// Providers (OpenAI-compatible endpoints such as Groq, Anthropic) implement
// Client in subpackages so the orchestration layers stay decoupled from
// vendor SDKs. ResilientClient optionally wraps any Client with a circuit
// breaker and a rate limiter.
package model
