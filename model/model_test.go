package model

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertions)
var (
	_ Client = (*MockClient)(nil)
	_ Client = (*ResilientClient)(nil)
)

func TestMockClient_SubstringMatch(t *testing.T) {
	m := NewMockClient()
	m.AddResponse("capital of France", "Paris")

	out, err := m.Complete(context.Background(), Request{UserContent: "What is the capital of France?"})
	require.NoError(t, err)
	assert.Equal(t, "Paris", out)

	out, err = m.Complete(context.Background(), Request{UserContent: "something else"})
	require.NoError(t, err)
	assert.Contains(t, out, "Mock response to:")
	assert.Equal(t, 2, m.Calls())
}

func TestMockClient_FailWith(t *testing.T) {
	m := NewMockClient()
	m.FailWith(&TransportError{Err: fmt.Errorf("boom")})

	_, err := m.Complete(context.Background(), Request{UserContent: "anything"})
	var te *TransportError
	require.ErrorAs(t, err, &te)
}

func TestErrorTaxonomyDistinguishable(t *testing.T) {
	transport := error(&TransportError{Err: fmt.Errorf("502")})
	malformed := error(&MalformedError{Reason: "empty"})

	var te *TransportError
	var me *MalformedError
	assert.ErrorAs(t, transport, &te)
	assert.False(t, assert.ObjectsAreEqual(nil, te.Unwrap()))
	assert.ErrorAs(t, malformed, &me)
	assert.NotErrorIs(t, transport, ErrUnavailable)
	assert.NotErrorIs(t, malformed, ErrUnavailable)
}

func TestResilientClient_PassThrough(t *testing.T) {
	m := NewMockClient()
	m.AddResponse("ping", "pong")
	rc := NewResilientClient(m)

	out, err := rc.Complete(context.Background(), Request{UserContent: "ping"})
	require.NoError(t, err)
	assert.Equal(t, "pong", out)
}

func TestResilientClient_OpensAfterConsecutiveFailures(t *testing.T) {
	m := NewMockClient()
	m.FailWith(&TransportError{Err: fmt.Errorf("provider down")})
	rc := NewResilientClient(m, func(o *ResilientOptions) {
		o.ConsecutiveFailures = 2
		o.RequestsPerSecond = 0
	})

	for i := 0; i < 5; i++ {
		_, err := rc.Complete(context.Background(), Request{UserContent: "x"})
		require.Error(t, err)
	}

	// Breaker is open: the wrapped client no longer sees calls, and errors
	// still surface as TransportError.
	before := m.Calls()
	_, err := rc.Complete(context.Background(), Request{UserContent: "x"})
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, before, m.Calls())
}

func TestResilientClient_UnavailableDoesNotTrip(t *testing.T) {
	m := NewMockClient()
	m.FailWith(ErrUnavailable)
	rc := NewResilientClient(m, func(o *ResilientOptions) {
		o.ConsecutiveFailures = 1
		o.RequestsPerSecond = 0
	})

	for i := 0; i < 10; i++ {
		_, err := rc.Complete(context.Background(), Request{UserContent: "x"})
		require.ErrorIs(t, err, ErrUnavailable)
	}
	// Every call reached the wrapped client: ErrUnavailable never opens the
	// breaker.
	assert.Equal(t, 10, m.Calls())
}
