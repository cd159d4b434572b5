package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"lexipipe/internal/cache"
	"lexipipe/internal/model"
)

// Fetcher retrieves remote documents with politeness controls and an
// optional read-through cache.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *HostLimiter
	robots     *RobotsChecker
	store      cache.Cache
	cacheTTL   time.Duration
}

// NewFetcher creates a fetcher from the HTTP config. A nil store disables
// caching.
func NewFetcher(cfg model.HTTPConfig, store cache.Cache, cacheTTL time.Duration) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		limiter:   NewHostLimiter(cfg.RatePerHost, 2),
		store:     store,
		cacheTTL:  cacheTTL,
	}
	if cfg.RespectRobots {
		f.robots = NewRobotsChecker(cfg.UserAgent, 10*time.Second)
	}
	return f
}

// FetchResult contains a fetched document and its resolved location
type FetchResult struct {
	Body     string
	FinalURL string
	Cached   bool
}

// FetchHTML retrieves an HTML page, honoring robots.txt and per-host
// rate limits. Cached pages skip the network entirely.
func (f *Fetcher) FetchHTML(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.store != nil {
		if data, ok := f.store.Get(cache.Key(rawURL)); ok {
			return &FetchResult{Body: string(data), FinalURL: rawURL, Cached: true}, nil
		}
	}

	if f.robots != nil {
		allowed, err := f.robots.Allowed(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("robots.txt disallows %s", rawURL)
		}
	}

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, err
	}

	body, finalURL, err := f.get(ctx, rawURL, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return nil, err
	}

	if f.store != nil {
		_ = f.store.Set(cache.Key(rawURL), []byte(body), f.cacheTTL)
	}
	return &FetchResult{Body: body, FinalURL: finalURL}, nil
}

// FetchText retrieves a plain-text resource such as a word list. Implements
// wordlist.TextFetcher.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	if f.store != nil {
		if data, ok := f.store.Get(cache.Key(rawURL)); ok {
			return string(data), nil
		}
	}

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return "", err
	}

	body, _, err := f.get(ctx, rawURL, "text/plain,text/csv;q=0.9,*/*;q=0.8")
	if err != nil {
		return "", err
	}

	if f.store != nil {
		_ = f.store.Set(cache.Key(rawURL), []byte(body), f.cacheTTL)
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL, accept string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", "", fmt.Errorf("read body: %w", err)
	}
	return string(body), resp.Request.URL.String(), nil
}
