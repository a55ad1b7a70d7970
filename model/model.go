package model

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Request captures a single chat-completion call: a system prompt framing
// the model's role plus the user content to respond to. MaxTokens and
// Temperature are caller defaults, not role-specific.
type Request struct {
	SystemPrompt string
	UserContent  string
	MaxTokens    int64
	Temperature  float64
}

// Client is the minimal interface the orchestration core needs from a
// language model: one completion in, free text out.
//
// Implementations report failures through the package error taxonomy so the
// executor, command router and coordinator can apply their documented
// fallback policies:
//   - ErrUnavailable: no credential configured; callers fall back to
//     deterministic behavior
//   - *TransportError: the call reached the provider and failed
//   - *MalformedError: the provider answered with an unusable shape
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrUnavailable signals that no model credential is configured. It is not a
// failure: every consumer has a documented credential-free mode.
var ErrUnavailable = fmt.Errorf("model unavailable: no credential configured")

// TransportError wraps a non-2xx or network-level failure from the provider.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("model transport error: %v", e.Err) }

// Unwrap exposes the underlying provider error.
func (e *TransportError) Unwrap() error { return e.Err }

// MalformedError signals a response the client could not interpret (e.g. an
// empty choice list).
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string { return fmt.Sprintf("model malformed response: %s", e.Reason) }

// MockClient is a deterministic in-memory Client for tests and examples.
// Responses are matched by substring of the request's user content; the
// first registered match wins. An unmatched request returns a canned echo.
// Safe for concurrent use.
type MockClient struct {
	mu        sync.Mutex
	responses []mockResponse
	err       error
	calls     int
}

type mockResponse struct {
	match string
	reply string
}

// NewMockClient constructs an empty MockClient.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// AddResponse registers a canned reply for any request whose user content
// contains match.
func (m *MockClient) AddResponse(match, reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{match: match, reply: reply})
}

// FailWith forces every subsequent Complete call to return err.
func (m *MockClient) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the number of Complete invocations observed.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Complete implements Client.
func (m *MockClient) Complete(_ context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	for _, r := range m.responses {
		if strings.Contains(req.UserContent, r.match) {
			return r.reply, nil
		}
	}
	return fmt.Sprintf("Mock response to: %s", req.UserContent), nil
}
