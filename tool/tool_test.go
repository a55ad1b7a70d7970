package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertion)
var _ Adapter = Func{}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry(
		Func{ToolName: "echo", Fn: func(_ context.Context, q string) Result {
			return Result{Findings: q}
		}},
	)

	a, ok := r.Get("echo")
	require.True(t, ok)
	assert.Equal(t, "hello", a.Lookup(context.Background(), "hello").Findings)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_ReplaceKeepsLatest(t *testing.T) {
	r := NewRegistry()
	r.Register(Func{ToolName: "t", Fn: func(context.Context, string) Result { return Result{Findings: "v1"} }})
	r.Register(Func{ToolName: "t", Fn: func(context.Context, string) Result { return Result{Findings: "v2"} }})

	a, ok := r.Get("t")
	require.True(t, ok)
	assert.Equal(t, "v2", a.Lookup(context.Background(), "").Findings)
	assert.Len(t, r.Names(), 1)
}

func TestResult_Empty(t *testing.T) {
	assert.True(t, Result{}.Empty())
	assert.False(t, Result{Findings: "x"}.Empty())
	assert.False(t, Result{Sources: []string{"https://a"}}.Empty())
}
