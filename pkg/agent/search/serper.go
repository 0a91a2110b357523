package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// defaultSerperURL is Serper's Google search endpoint.
const defaultSerperURL = "https://google.serper.dev/search"

// Serper queries the Serper API, which proxies Google results.
type Serper struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string
}

// NewSerper creates a Serper searcher.
func NewSerper(apiKey string, timeout time.Duration) *Serper {
	return &Serper{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		endpoint:   defaultSerperURL,
	}
}

// Name implements Searcher.
func (s *Serper) Name() string { return "serper" }

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search implements Searcher.
func (s *Serper) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	body, err := json.Marshal(serperRequest{Q: query, Num: numResults})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying serper: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper returned HTTP %d", resp.StatusCode)
	}

	var data serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("parsing serper response: %w", err)
	}

	results := make([]Result, 0, len(data.Organic))
	for _, item := range data.Organic {
		results = append(results, Result{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}
