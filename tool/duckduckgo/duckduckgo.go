// Package duckduckgo adapts the DuckDuckGo Instant Answer API (free, no key
// required) to the tool.Adapter contract. The API serves instant answers and
// related topics rather than full web results; the adapter extracts the
// direct answer, the abstract and up to ten related results.
package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v5"

	"github.com/swarmdeck/swarmdeck/logging"
	"github.com/swarmdeck/swarmdeck/tool"
)

// ToolName is the identifier roles use to declare this adapter.
const ToolName = "duckduckgo"

const defaultBaseURL = "https://api.duckduckgo.com"

// Options configure the adapter.
type Options struct {
	// BaseURL overrides the API endpoint (tests point it at a local server).
	BaseURL string
	// HTTPClient overrides the transport. The default enforces a 10s timeout.
	HTTPClient *http.Client
	// Attempts is the per-lookup retry budget.
	Attempts uint
	// Logger receives degraded-lookup notices.
	Logger logging.Logger
}

// Adapter queries the DuckDuckGo Instant Answer API.
type Adapter struct {
	baseURL  string
	client   *http.Client
	attempts uint
	logger   logging.Logger
}

var _ tool.Adapter = (*Adapter)(nil)

// New constructs the adapter with sane transport defaults.
func New(optFns ...func(o *Options)) *Adapter {
	opts := Options{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Attempts:   3,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Adapter{baseURL: opts.BaseURL, client: opts.HTTPClient, attempts: opts.Attempts, logger: opts.Logger}
}

// Name implements tool.Adapter.
func (a *Adapter) Name() string { return ToolName }

// apiResponse mirrors the subset of the Instant Answer payload the adapter
// consumes.
type apiResponse struct {
	Answer         string `json:"Answer"`
	AbstractText   string `json:"AbstractText"`
	AbstractSource string `json:"AbstractSource"`
	AbstractURL    string `json:"AbstractURL"`
	Results        []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"Results"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
		Topics   []struct {
			Text     string `json:"Text"`
			FirstURL string `json:"FirstURL"`
		} `json:"Topics"`
	} `json:"RelatedTopics"`
}

// searchResult is one normalized related result.
type searchResult struct {
	snippet string
	url     string
}

// Lookup implements tool.Adapter. Any transport or decode failure degrades to
// an empty Result; the adapter never errors.
func (a *Adapter) Lookup(ctx context.Context, query string) tool.Result {
	resp, err := a.fetch(ctx, query)
	if err != nil {
		a.logger.Warn("duckduckgo lookup degraded", "query", query, "error", err)
		return tool.Result{}
	}

	results := collectResults(resp)
	return tool.Result{
		Findings: formatFindings(resp, results),
		Sources:  collectSources(resp, results),
	}
}

func (a *Adapter) fetch(ctx context.Context, query string) (*apiResponse, error) {
	endpoint := fmt.Sprintf("%s/?q=%s&format=json&no_html=1&skip_disambig=1",
		a.baseURL, url.QueryEscape(query))

	var out apiResponse
	err := retry.New(
		retry.Context(ctx),
		retry.Attempts(a.attempts),
	).Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := a.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("duckduckgo api status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// collectResults flattens direct results plus related topics (including one
// level of nested topic groups), capped at ten entries.
func collectResults(resp *apiResponse) []searchResult {
	var results []searchResult
	for _, r := range resp.Results {
		if r.FirstURL != "" {
			results = append(results, searchResult{snippet: r.Text, url: r.FirstURL})
		}
	}
	for _, topic := range resp.RelatedTopics {
		if topic.Text != "" && topic.FirstURL != "" {
			results = append(results, searchResult{snippet: topic.Text, url: topic.FirstURL})
		}
		for _, t := range topic.Topics {
			if t.Text != "" && t.FirstURL != "" {
				results = append(results, searchResult{snippet: t.Text, url: t.FirstURL})
			}
		}
	}
	if len(results) > 10 {
		results = results[:10]
	}
	return results
}

// formatFindings renders the findings block fed into the model context.
func formatFindings(resp *apiResponse, results []searchResult) string {
	var parts []string
	if resp.Answer != "" {
		parts = append(parts, fmt.Sprintf("**Direct Answer:** %s", resp.Answer))
	}
	if resp.AbstractText != "" {
		parts = append(parts, fmt.Sprintf("**Summary (%s):** %s", resp.AbstractSource, resp.AbstractText))
		if resp.AbstractURL != "" {
			parts = append(parts, fmt.Sprintf("Source: %s", resp.AbstractURL))
		}
	}
	if len(results) > 0 {
		parts = append(parts, "\n**Related Results:**")
		for i, r := range results {
			if i >= 5 {
				break
			}
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, r.snippet))
			parts = append(parts, fmt.Sprintf("   URL: %s", r.url))
		}
	}
	if len(parts) == 0 {
		return "No results found from DuckDuckGo."
	}
	return strings.Join(parts, "\n")
}

// collectSources returns the abstract URL followed by the first three result
// URLs, in that order.
func collectSources(resp *apiResponse, results []searchResult) []string {
	var sources []string
	if resp.AbstractURL != "" {
		sources = append(sources, resp.AbstractURL)
	}
	for i, r := range results {
		if i >= 3 {
			break
		}
		sources = append(sources, r.url)
	}
	return sources
}
