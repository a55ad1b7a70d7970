// Package wikipedia adapts the Wikipedia search and REST summary APIs (free,
// no key required) to the tool.Adapter contract. A lookup searches for the
// top matching articles, then fetches the summary extract of each.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/avast/retry-go/v5"

	"github.com/swarmdeck/swarmdeck/logging"
	"github.com/swarmdeck/swarmdeck/tool"
)

// ToolName is the identifier roles use to declare this adapter.
const ToolName = "wikipedia"

const defaultBaseURL = "https://en.wikipedia.org"

// searchLimit caps how many articles a lookup summarizes.
const searchLimit = 3

var htmlTags = regexp.MustCompile(`<[^>]*>`)

// Options configure the adapter.
type Options struct {
	// BaseURL overrides the wiki host (tests point it at a local server).
	BaseURL string
	// HTTPClient overrides the transport. The default enforces a 10s timeout.
	HTTPClient *http.Client
	// Attempts is the per-request retry budget.
	Attempts uint
	// Logger receives degraded-lookup notices.
	Logger logging.Logger
}

// Adapter queries Wikipedia for article summaries.
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

// summary is one article summary used for findings and citation.
type summary struct {
	title   string
	extract string
	url     string
}

// Lookup implements tool.Adapter. Search or summary failures degrade to
// whatever was gathered so far; the adapter never errors.
func (a *Adapter) Lookup(ctx context.Context, query string) tool.Result {
	titles, err := a.search(ctx, query)
	if err != nil {
		a.logger.Warn("wikipedia search degraded", "query", query, "error", err)
		return tool.Result{}
	}

	var summaries []summary
	for _, title := range titles {
		s, err := a.summarize(ctx, title)
		if err != nil {
			a.logger.Warn("wikipedia summary skipped", "title", title, "error", err)
			continue
		}
		summaries = append(summaries, s)
	}

	sources := make([]string, 0, len(summaries))
	for _, s := range summaries {
		sources = append(sources, s.url)
	}
	return tool.Result{Findings: formatFindings(summaries), Sources: sources}
}

// search returns the titles of the top matching articles.
func (a *Adapter) search(ctx context.Context, query string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/w/api.php?action=query&list=search&srsearch=%s&srlimit=%d&format=json&origin=*",
		a.baseURL, url.QueryEscape(query), searchLimit)

	var out struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := a.getJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(out.Query.Search))
	for _, s := range out.Query.Search {
		titles = append(titles, s.Title)
	}
	return titles, nil
}

// summarize fetches the REST summary of one article.
func (a *Adapter) summarize(ctx context.Context, title string) (summary, error) {
	endpoint := fmt.Sprintf("%s/api/rest_v1/page/summary/%s", a.baseURL, url.PathEscape(title))

	var out struct {
		Title       string `json:"title"`
		Extract     string `json:"extract"`
		ContentURLs struct {
			Desktop struct {
				Page string `json:"page"`
			} `json:"desktop"`
		} `json:"content_urls"`
	}
	if err := a.getJSON(ctx, endpoint, &out); err != nil {
		return summary{}, err
	}

	pageURL := out.ContentURLs.Desktop.Page
	if pageURL == "" {
		pageURL = fmt.Sprintf("%s/wiki/%s", a.baseURL, url.PathEscape(strings.ReplaceAll(title, " ", "_")))
	}
	return summary{
		title:   out.Title,
		extract: htmlTags.ReplaceAllString(out.Extract, ""),
		url:     pageURL,
	}, nil
}

var errNotFound = fmt.Errorf("wikipedia: not found")

func (a *Adapter) getJSON(ctx context.Context, endpoint string, out any) error {
	// Missing articles are final; flag them instead of erroring so the retry
	// loop does not burn attempts on a 404.
	var notFound bool
	err := retry.New(
		retry.Context(ctx),
		retry.Attempts(a.attempts),
	).Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := a.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			notFound = true
			return nil
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("wikipedia api status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(out)
	})
	if err != nil {
		return err
	}
	if notFound {
		return errNotFound
	}
	return nil
}

// formatFindings renders the findings block fed into the model context.
func formatFindings(summaries []summary) string {
	if len(summaries) == 0 {
		return "No Wikipedia articles found."
	}
	parts := []string{"**Wikipedia Results:**\n"}
	for i, s := range summaries {
		parts = append(parts, fmt.Sprintf("### %d. %s", i+1, s.title))
		parts = append(parts, s.extract)
		parts = append(parts, fmt.Sprintf("Link: %s\n", s.url))
	}
	return strings.Join(parts, "\n")
}
