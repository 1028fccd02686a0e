package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/backoff"
)

// DefaultBaseURL is the Tavily search API endpoint.
const DefaultBaseURL = "https://api.tavily.com"

// SearchClient is the narrow contract the researcher needs from a search
// provider.
type SearchClient interface {
	Search(ctx context.Context, query string, maxResults int) (*SearchResponse, error)
}

// SearchResult is one entry returned by the search provider, in relevance
// order.
type SearchResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	PublishedDate string `json:"published_date,omitempty"`
}

// SearchResponse is the provider's reply to one query.
type SearchResponse struct {
	Answer  string         `json:"answer,omitempty"`
	Results []SearchResult `json:"results"`
}

// TavilyClient calls the Tavily search API.
type TavilyClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retryBase  time.Duration
}

// NewTavilyClient creates a search client for the given API key.
func NewTavilyClient(apiKey string) *TavilyClient {
	return &TavilyClient{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retryBase: backoff.DefaultBase,
	}
}

// WithBaseURL overrides the API endpoint. Used in tests.
func (c *TavilyClient) WithBaseURL(baseURL string) *TavilyClient {
	c.baseURL = baseURL
	return c
}

type tavilyRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

// Search runs one query against the provider, retrying transient failures
// with backoff.
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) (*SearchResponse, error) {
	reqBody := tavilyRequest{
		APIKey:        c.apiKey,
		Query:         query,
		SearchDepth:   "advanced",
		MaxResults:    maxResults,
		IncludeAnswer: true,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	var response SearchResponse
	err = backoff.Retry(ctx, backoff.DefaultAttempts, c.retryBase, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("search request failed: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read search response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("search returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
			if retriable(resp.StatusCode) {
				return err
			}
			return backoff.Permanent(err)
		}

		if err := json.Unmarshal(body, &response); err != nil {
			return fmt.Errorf("failed to parse search response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &response, nil
}

// retriable reports whether a status is worth another attempt. Client
// errors other than rate limiting never succeed on retry.
func retriable(status int) bool {
	return status < 400 || status >= 500 || status == http.StatusTooManyRequests
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
