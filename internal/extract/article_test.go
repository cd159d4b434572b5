package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexipipe/internal/cache"
	"lexipipe/internal/model"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "lexipipe-test/0.1",
		MaxBodyBytes: 1 << 20,
		RatePerHost:  100,
	}
}

func longParagraph(sentence string) string {
	return strings.Repeat(sentence+" ", 20)
}

func TestExtractFromJSONLD(t *testing.T) {
	body := longParagraph("The economy grew faster than analysts expected this quarter.")
	page := fmt.Sprintf(`<html><head><title>Fallback</title>
<script type="application/ld+json">{"@type":"NewsArticle","headline":"Growth Surprises","articleBody":%q}</script>
</head><body><p>short</p></body></html>`, body)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/amp") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	extractor := NewExtractor(NewFetcher(testHTTPConfig(), nil, 0))
	article, err := extractor.Extract(context.Background(), srv.URL+"/news/growth")
	require.NoError(t, err)
	assert.Equal(t, "Growth Surprises", article.Title)
	assert.Contains(t, article.Body, "economy grew faster")
	assert.NotContains(t, article.Body, "  ") // whitespace collapsed
}

func TestExtractFromContentBlocks(t *testing.T) {
	para := longParagraph("Researchers described a new method for storing energy in salt.")
	page := fmt.Sprintf(`<html><head><title>Salt Storage</title></head><body>
<nav><a href="/a">Home</a> <a href="/b">World</a> <a href="/c">Sport</a></nav>
<div class="advert-box">Buy now! Great deals on subscriptions.</div>
<article><h1>Salt Batteries</h1><p>%s</p><p>%s</p></article>
</body></html>`, para, para)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/amp") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	extractor := NewExtractor(NewFetcher(testHTTPConfig(), nil, 0))
	article, err := extractor.Extract(context.Background(), srv.URL+"/tech/salt")
	require.NoError(t, err)
	assert.Equal(t, "Salt Batteries", article.Title)
	assert.Contains(t, article.Body, "storing energy in salt")
	assert.NotContains(t, article.Body, "Great deals")
}

func TestFetchHTMLUsesCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, "<html><body>cached page</body></html>")
	}))
	defer srv.Close()

	fetcher := NewFetcher(testHTTPConfig(), cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	first, err := fetcher.FetchHTML(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := fetcher.FetchHTML(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Body, second.Body)
	assert.Equal(t, 1, hits)
}

func TestFetchHTMLRespectsRobots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
			return
		}
		fmt.Fprint(w, "<html><body>secret</body></html>")
	}))
	defer srv.Close()

	cfg := testHTTPConfig()
	cfg.RespectRobots = true
	fetcher := NewFetcher(cfg, nil, 0)

	_, err := fetcher.FetchHTML(context.Background(), srv.URL+"/private/page")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "robots.txt")

	res, err := fetcher.FetchHTML(context.Background(), srv.URL+"/public/page")
	require.NoError(t, err)
	assert.Contains(t, res.Body, "secret")
}

func TestAmpCandidateURL(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><head><link rel="amphtml" href="/amp/story"></head><body></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/amp/story",
		ampCandidateURL(doc, "https://example.com/news/story"))

	plain, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/news/story/amp",
		ampCandidateURL(plain, "https://example.com/news/story/"))
	assert.Empty(t, ampCandidateURL(plain, "https://example.com/news/story/amp"))
}

func TestLinkDensity(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div id="links"><a href="/x">one two three</a></div>
<div id="prose">plain text with <a href="/y">one link</a> inside a longer passage</div>`))
	require.NoError(t, err)

	assert.Greater(t, linkDensity(doc.Find("#links")), 0.9)
	assert.Less(t, linkDensity(doc.Find("#prose")), 0.5)
}
