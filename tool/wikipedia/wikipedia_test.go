package wikipedia

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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
		switch {
		case strings.HasPrefix(r.URL.Path, "/w/api.php"):
			fmt.Fprint(w, `{"query":{"search":[
				{"title":"Quantum computing"},
				{"title":"Qubit"}
			]}}`)
		case strings.Contains(r.URL.Path, "Quantum"):
			fmt.Fprint(w, `{
				"title":"Quantum computing",
				"extract":"A <b>quantum</b> computer exploits superposition.",
				"content_urls":{"desktop":{"page":"https://en.wikipedia.org/wiki/Quantum_computing"}}
			}`)
		default:
			fmt.Fprint(w, `{"title":"Qubit","extract":"The basic unit of quantum information."}`)
		}
	})

	res := a.Lookup(context.Background(), "quantum computing")
	require.False(t, res.Empty())
	assert.Contains(t, res.Findings, "**Wikipedia Results:**")
	assert.Contains(t, res.Findings, "### 1. Quantum computing")
	assert.Contains(t, res.Findings, "A quantum computer exploits superposition.", "HTML tags are stripped")
	assert.Contains(t, res.Findings, "### 2. Qubit")

	require.Len(t, res.Sources, 2)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Quantum_computing", res.Sources[0])
	assert.Contains(t, res.Sources[1], "/wiki/Qubit", "missing content_urls falls back to a constructed link")
}

func TestLookup_MissingSummarySkipped(t *testing.T) {
	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/w/api.php") {
			fmt.Fprint(w, `{"query":{"search":[{"title":"Ghost"},{"title":"Real"}]}}`)
			return
		}
		if strings.Contains(r.URL.Path, "Ghost") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"title":"Real","extract":"Exists.","content_urls":{"desktop":{"page":"https://en.wikipedia.org/wiki/Real"}}}`)
	})

	res := a.Lookup(context.Background(), "whatever")
	assert.NotContains(t, res.Findings, "Ghost")
	assert.Equal(t, []string{"https://en.wikipedia.org/wiki/Real"}, res.Sources)
}

func TestLookup_SearchFailureDegrades(t *testing.T) {
	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	res := a.Lookup(context.Background(), "anything")
	assert.True(t, res.Empty())
}

func TestLookup_NoMatches(t *testing.T) {
	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"query":{"search":[]}}`)
	})

	res := a.Lookup(context.Background(), "gibberish")
	assert.Equal(t, "No Wikipedia articles found.", res.Findings)
	assert.Empty(t, res.Sources)
}
