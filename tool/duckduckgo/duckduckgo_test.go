package duckduckgo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const instantAnswerPayload = `{
	"Answer": "Paris",
	"AbstractText": "Paris is the capital of France.",
	"AbstractSource": "Wikipedia",
	"AbstractURL": "https://en.wikipedia.org/wiki/Paris",
	"Results": [
		{"Text": "Paris - Official site", "FirstURL": "https://www.paris.fr"}
	],
	"RelatedTopics": [
		{"Text": "Paris - Capital of France", "FirstURL": "https://duckduckgo.com/Paris"},
		{"Topics": [
			{"Text": "Ile-de-France", "FirstURL": "https://duckduckgo.com/Ile-de-France"}
		]}
	]
}`

func newAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(func(o *Options) {
		o.BaseURL = srv.URL
		o.Attempts = 2
	})
}

func TestLookup(t *testing.T) {
	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "capital of France", r.URL.Query().Get("q"))
		w.Write([]byte(instantAnswerPayload))
	})

	res := a.Lookup(context.Background(), "capital of France")
	require.False(t, res.Empty())
	assert.Contains(t, res.Findings, "**Direct Answer:** Paris")
	assert.Contains(t, res.Findings, "**Summary (Wikipedia):**")
	assert.Contains(t, res.Findings, "**Related Results:**")

	// Abstract URL first, then the first three result URLs.
	assert.Equal(t, []string{
		"https://en.wikipedia.org/wiki/Paris",
		"https://www.paris.fr",
		"https://duckduckgo.com/Paris",
		"https://duckduckgo.com/Ile-de-France",
	}, res.Sources)
}

func TestLookup_DegradesOnServerError(t *testing.T) {
	var calls atomic.Int32
	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	res := a.Lookup(context.Background(), "anything")
	assert.True(t, res.Empty(), "failed lookup must degrade to an empty result")
	assert.Equal(t, int32(2), calls.Load(), "lookup retries before degrading")
}

func TestLookup_EmptyPayload(t *testing.T) {
	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	res := a.Lookup(context.Background(), "obscure query")
	assert.Equal(t, "No results found from DuckDuckGo.", res.Findings)
	assert.Empty(t, res.Sources)
}
