package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/quillhq/quill/pkg/api"
)

// Client performs HTTP requests against an OpenAI-compatible Chat
// Completions backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewClient creates a new Client. baseURL is the backend root without the
// /v1/chat/completions suffix. Timeout of zero means 120 seconds.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(baseURL, "/")

	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

// Configured reports whether an API key is set. An unconfigured client
// must not be called; handlers surface a configuration error instead.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Model returns the model name requests are sent with.
func (c *Client) Model() string {
	return c.model
}

// Complete sends the conversation to the backend and returns the assistant
// reply text.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if c.apiKey == "" {
		return "", api.NewConfigurationError("LLM API key not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := c.baseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", mapNetworkError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return "", mapHTTPError(httpResp)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&chatResp); err != nil {
		return "", api.NewUpstreamError(api.CodeUpstreamUnavailable,
			fmt.Sprintf("unparseable backend response: %s", err.Error()))
	}

	if len(chatResp.Choices) == 0 {
		return "", api.NewUpstreamError(api.CodeUpstreamUnavailable, "backend returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
