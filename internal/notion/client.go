// Package notion stores generated content as pages in a Notion database.
// The master draft and each platform post become separate pages so they can
// be reviewed and edited independently.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/backoff"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

// DefaultBaseURL is the Notion API endpoint.
const DefaultBaseURL = "https://api.notion.com"

// apiVersion pins the Notion API revision the payloads are written for.
const apiVersion = "2022-06-28"

// maxTitleChars is Notion's limit on title rich text.
const maxTitleChars = 200

// ErrUnavailable indicates the document store could not be reached or
// rejected the request.
var ErrUnavailable = errors.New("document store unavailable")

// Client creates pages through the Notion REST API.
type Client struct {
	apiKey     string
	databaseID string
	baseURL    string
	httpClient *http.Client
	retryBase  time.Duration
}

// NewClient creates a Notion client writing into the given database.
func NewClient(apiKey, databaseID string) *Client {
	return &Client{
		apiKey:     apiKey,
		databaseID: databaseID,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retryBase: backoff.DefaultBase,
	}
}

// WithBaseURL overrides the API endpoint. Used in tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

type pageRequest struct {
	Parent     parent         `json:"parent"`
	Properties map[string]any `json:"properties"`
	Children   []block        `json:"children"`
}

type parent struct {
	DatabaseID string `json:"database_id"`
}

type block struct {
	Object    string     `json:"object"`
	Type      string     `json:"type"`
	Paragraph *paragraph `json:"paragraph,omitempty"`
}

type paragraph struct {
	RichText []richText `json:"rich_text"`
}

type richText struct {
	Type string      `json:"type"`
	Text textContent `json:"text"`
}

type textContent struct {
	Content string `json:"content"`
}

type pageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreatePage stores content as a new page titled title, tagged with the
// platform name ("article" for the master draft). It returns the page ID.
func (c *Client) CreatePage(ctx context.Context, title, platform, content string) (string, error) {
	if runes := []rune(title); len(runes) > maxTitleChars {
		title = string(runes[:maxTitleChars])
	}

	req := pageRequest{
		Parent: parent{DatabaseID: c.databaseID},
		Properties: map[string]any{
			"Name": map[string]any{
				"title": []richText{{Type: "text", Text: textContent{Content: title}}},
			},
			"Platform": map[string]any{
				"select": map[string]string{"name": platform},
			},
			"Status": map[string]any{
				"select": map[string]string{"name": "Draft"},
			},
		},
		Children: contentBlocks(content),
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode page request: %w", err)
	}

	var page pageResponse
	err = backoff.Retry(ctx, backoff.DefaultAttempts, c.retryBase, func(ctx context.Context) error {
		return c.post(ctx, payload, &page)
	})
	if err != nil {
		return "", err
	}
	return page.ID, nil
}

func (c *Client) post(ctx context.Context, payload []byte, out *pageResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/pages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		statusErr := fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			statusErr = fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, apiErr.Message)
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return backoff.Permanent(statusErr)
		}
		return statusErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

// contentBlocks converts cleaned content into paragraph blocks within
// Notion's size limits.
func contentBlocks(content string) []block {
	chunks := ChunkContent(CleanMarkdown(content))
	blocks := make([]block, 0, len(chunks))
	for _, chunk := range chunks {
		blocks = append(blocks, block{
			Object: "block",
			Type:   "paragraph",
			Paragraph: &paragraph{
				RichText: []richText{{Type: "text", Text: textContent{Content: chunk}}},
			},
		})
	}
	return blocks
}

// StoreResult reports what StoreBundle managed to persist.
type StoreResult struct {
	MasterPageID string
	MasterErr    error
	PostPageIDs  map[types.Platform]string
	PostErrors   map[types.Platform]error
}

// Failed reports whether anything in the bundle could not be stored.
func (r *StoreResult) Failed() bool {
	return r.MasterErr != nil || len(r.PostErrors) > 0
}

// StoreBundle persists the master draft and every successful platform post
// as separate pages. Failures are recorded per item; storing continues past
// them so one bad page does not lose the rest.
func (c *Client) StoreBundle(ctx context.Context, topic string, draft *types.Draft, bundle *types.SocialBundle) *StoreResult {
	result := &StoreResult{
		PostPageIDs: make(map[types.Platform]string),
		PostErrors:  make(map[types.Platform]error),
	}

	id, err := c.CreatePage(ctx, draft.Title, "article", draft.Body)
	if err != nil {
		result.MasterErr = fmt.Errorf("store master draft: %w", err)
	} else {
		result.MasterPageID = id
	}

	if bundle == nil {
		return result
	}

	for _, platform := range types.AllPlatforms {
		post, ok := bundle.Posts[platform]
		if !ok || post.Failed() {
			continue
		}
		title := fmt.Sprintf("%s (%s)", topic, platform.DisplayName())
		id, err := c.CreatePage(ctx, title, string(platform), post.ContentText())
		if err != nil {
			result.PostErrors[platform] = err
			continue
		}
		result.PostPageIDs[platform] = id
	}
	return result
}
