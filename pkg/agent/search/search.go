// Package search provides the web-search helper behind the agent endpoint.
// A Multi searcher tries Serper first when a key is configured and falls
// back to DuckDuckGo's Instant Answer API.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/quillhq/quill/pkg/observability"
)

// DefaultResultCount is how many results a search returns by default.
const DefaultResultCount = 5

// Result is a single web-search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher runs a web search. Implementations return an empty slice when
// the provider has nothing; errors are reserved for transport failures.
type Searcher interface {
	Search(ctx context.Context, query string, numResults int) ([]Result, error)
	Name() string
}

// Multi tries each configured provider in order and returns the first
// non-empty result set. When every provider comes up empty it returns a
// single placeholder result so the agent response stays well-formed.
type Multi struct {
	providers []Searcher
}

// NewMulti builds the provider chain: Serper when serperKey is set, then
// DuckDuckGo. Timeout of zero means 10 seconds.
func NewMulti(serperKey string, timeout time.Duration) *Multi {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	var providers []Searcher
	if serperKey != "" {
		providers = append(providers, NewSerper(serperKey, timeout))
	}
	providers = append(providers, NewDuckDuckGo(timeout))

	return &Multi{providers: providers}
}

// Providers lists the names of the configured providers, for health
// reporting.
func (m *Multi) Providers() []string {
	names := make([]string, len(m.providers))
	for i, p := range m.providers {
		names[i] = p.Name()
	}
	return names
}

// Search runs the provider chain.
func (m *Multi) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	if numResults <= 0 {
		numResults = DefaultResultCount
	}

	for _, p := range m.providers {
		results, err := p.Search(ctx, query, numResults)
		if err != nil {
			observability.SearchQueriesTotal.WithLabelValues(p.Name(), "error").Inc()
			slog.Warn("search provider failed", "provider", p.Name(), "error", err)
			continue
		}
		if len(results) > 0 {
			observability.SearchQueriesTotal.WithLabelValues(p.Name(), "ok").Inc()
			slog.Info("search results", "provider", p.Name(), "query", query, "count", len(results))
			return results, nil
		}
		observability.SearchQueriesTotal.WithLabelValues(p.Name(), "empty").Inc()
	}

	slog.Warn("no web search results found, returning placeholder", "query", query)
	return []Result{placeholderResult(query)}, nil
}

// placeholderResult stands in when every provider returned nothing, which
// mostly happens in deployments without a Serper key.
func placeholderResult(query string) Result {
	return Result{
		Title:   fmt.Sprintf("Mock Result for: %s", query),
		URL:     "https://example.com/search?q=" + url.QueryEscape(query),
		Snippet: fmt.Sprintf("This is a mock search result for '%s'. To get real results, configure SERPER_API_KEY environment variable.", query),
	}
}
