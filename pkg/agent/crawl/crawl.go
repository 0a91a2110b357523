// Package crawl fetches a web page and reduces it to a plain-text excerpt
// for the agent endpoint.
package crawl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/quillhq/quill/pkg/observability"
)

// MaxContentLength caps the extracted text. Longer pages are truncated
// with a trailing ellipsis.
const MaxContentLength = 2000

// maxFetchBytes bounds how much of the raw page body is read.
const maxFetchBytes = 1 << 20

var (
	scriptRe     = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	styleRe      = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Crawler fetches pages over HTTP.
type Crawler struct {
	httpClient *http.Client
}

// New creates a Crawler. Timeout of zero means 30 seconds.
func New(timeout time.Duration) *Crawler {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Crawler{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves url and returns its visible text, truncated to
// MaxContentLength runes. Network failures and non-200 statuses are
// returned as errors.
func (c *Crawler) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		observability.CrawlFetchesTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.CrawlFetchesTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		observability.CrawlFetchesTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("unable to access URL (status: %d)", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		observability.CrawlFetchesTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("reading %s: %w", url, err)
	}

	observability.CrawlFetchesTotal.WithLabelValues("ok").Inc()
	return ExtractText(string(body)), nil
}

// ExtractText strips script and style blocks, removes the remaining
// markup, collapses whitespace, and truncates to MaxContentLength runes.
func ExtractText(html string) string {
	text := scriptRe.ReplaceAllString(html, " ")
	text = styleRe.ReplaceAllString(text, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) > MaxContentLength {
		return string(runes[:MaxContentLength]) + "..."
	}
	return text
}
