package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"lexipipe/internal/model"
)

// DefaultBaseURL is the public Notion API endpoint
const DefaultBaseURL = "https://api.notion.com/v1"

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = time.Second

// Client is a thin Notion API client with rate limiting and 429 retries
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	version    string
	limiter    *rate.Limiter
	maxRetries int

	// Database IDs for this workspace
	ArticlesDB string
	PatternsDB string
	OutputsDB  string
	WordsDB    string
}

// NewClient creates a client from the workspace config
func NewClient(cfg model.NotionConfig) *Client {
	perSec := cfg.RatePerSec
	if perSec <= 0 {
		perSec = 3
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}
	version := cfg.Version
	if version == "" {
		version = "2022-06-28"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    DefaultBaseURL,
		token:      cfg.Token,
		version:    version,
		limiter:    rate.NewLimiter(rate.Limit(perSec), 1),
		maxRetries: maxRetries,
		ArticlesDB: cfg.ArticlesDB,
		PatternsDB: cfg.PatternsDB,
		OutputsDB:  cfg.OutputsDB,
		WordsDB:    cfg.WordsDB,
	}
}

// SetBaseURL points the client at a different endpoint
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// do performs one API call. Rate-limited requests back off exponentially
// and retry; the request body is rebuilt from bytes on every attempt.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Notion-Version", c.version)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("notion %s %s: %w", method, path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.maxRetries {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Method:     method,
				Path:       path,
				Body:       string(data),
			}
		}
		return data, nil
	}
}

// APIError surfaces the Notion error body for diagnosis
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 300 {
		body = body[:300]
	}
	return fmt.Sprintf("notion API %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, body)
}

// IsNotFound reports whether err is a Notion 404 or 400 for a missing
// property or page.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && (apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode == http.StatusBadRequest)
}

// GetPage retrieves a page with its properties
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	data, err := c.do(ctx, http.MethodGet, "/pages/"+pageID, nil)
	if err != nil {
		return nil, err
	}
	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	return &page, nil
}

// CreatePage creates a page and returns its ID
func (c *Client) CreatePage(ctx context.Context, payload any) (string, error) {
	data, err := c.do(ctx, http.MethodPost, "/pages", payload)
	if err != nil {
		return "", err
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	return out.ID, nil
}

// UpdatePage patches page properties
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties Props) error {
	_, err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, map[string]any{"properties": properties})
	return err
}

// ArchivePage removes a page from its database
func (c *Client) ArchivePage(ctx context.Context, pageID string) error {
	_, err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, map[string]any{"archived": true})
	return err
}

// QueryDatabase returns every page in a database, following pagination
func (c *Client) QueryDatabase(ctx context.Context, dbID string, filter any) ([]Page, error) {
	payload := map[string]any{"page_size": 100}
	if filter != nil {
		payload["filter"] = filter
	}

	var results []Page
	for {
		data, err := c.do(ctx, http.MethodPost, "/databases/"+dbID+"/query", payload)
		if err != nil {
			return nil, err
		}
		var resp struct {
			Results    []Page `json:"results"`
			HasMore    bool   `json:"has_more"`
			NextCursor string `json:"next_cursor"`
		}
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("decode query response: %w", err)
		}
		results = append(results, resp.Results...)
		if !resp.HasMore {
			return results, nil
		}
		payload["start_cursor"] = resp.NextCursor
	}
}

// CreateDatabase creates a database under a parent page and returns its ID
func (c *Client) CreateDatabase(ctx context.Context, parentPageID, title string, properties map[string]any) (string, error) {
	payload := map[string]any{
		"parent":     map[string]any{"type": "page_id", "page_id": parentPageID},
		"title":      []any{map[string]any{"type": "text", "text": map[string]any{"content": title}}},
		"properties": properties,
	}
	data, err := c.do(ctx, http.MethodPost, "/databases", payload)
	if err != nil {
		return "", err
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decode database response: %w", err)
	}
	return out.ID, nil
}
