package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// defaultDuckDuckGoURL is the Instant Answer API endpoint. It is keyless
// but only covers topics with instant answers, so result sets are sparse.
const defaultDuckDuckGoURL = "https://api.duckduckgo.com/"

// DuckDuckGo queries the DuckDuckGo Instant Answer API.
type DuckDuckGo struct {
	httpClient *http.Client
	endpoint   string
}

// NewDuckDuckGo creates a DuckDuckGo searcher.
func NewDuckDuckGo(timeout time.Duration) *DuckDuckGo {
	return &DuckDuckGo{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   defaultDuckDuckGoURL,
	}
}

// Name implements Searcher.
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

type duckDuckGoResponse struct {
	Abstract      string `json:"Abstract"`
	AbstractURL   string `json:"AbstractURL"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Search implements Searcher.
func (d *DuckDuckGo) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_redirect", "1")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying duckduckgo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo returned HTTP %d", resp.StatusCode)
	}

	var data duckDuckGoResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("parsing duckduckgo response: %w", err)
	}

	var results []Result
	for _, topic := range data.RelatedTopics {
		if len(results) >= numResults {
			break
		}
		if topic.Text == "" {
			continue
		}
		// The Text field is "Title - description".
		title, _, _ := strings.Cut(topic.Text, " - ")
		results = append(results, Result{
			Title:   title,
			URL:     topic.FirstURL,
			Snippet: topic.Text,
		})
	}

	// Fall back to the abstract when there are no related topics.
	if len(results) == 0 && data.Abstract != "" {
		results = append(results, Result{
			Title:   "About " + query,
			URL:     data.AbstractURL,
			Snippet: data.Abstract,
		})
	}

	return results, nil
}
