package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexipipe/internal/analyze"
	"lexipipe/internal/model"
)

func coverageFixture() *analyze.Metrics {
	return &analyze.Metrics{
		TokensTotal:         10,
		TokensTotalFiltered: 9,
		PerList: map[string]analyze.ListStat{
			model.ListNGSL: {Tokens: 5, TokensAll: 6, Pct: 55.6},
			model.ListNAWL: {Tokens: 1, TokensAll: 1, Pct: 11.1},
		},
		WrittenTokens: 6,
		WrittenPct:    66.7,
		TopNonCore:    []analyze.WordCount{{Word: "salt", Count: 2}},
		Encounters:    map[string]int{"store": 1},
	}
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(model.NotionConfig{
		Token:      "test-token",
		Version:    "2022-06-28",
		ArticlesDB: "articles-db",
		PatternsDB: "patterns-db",
		OutputsDB:  "outputs-db",
		WordsDB:    "words-db",
		RatePerSec: 1000,
		MaxRetries: 3,
	})
	client.SetBaseURL(srv.URL)
	return client, srv
}

func TestDoRetriesOn429(t *testing.T) {
	old := RetryBaseDelay
	RetryBaseDelay = time.Millisecond
	defer func() { RetryBaseDelay = old }()

	attempts := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-06-28", r.Header.Get("Notion-Version"))
		fmt.Fprint(w, `{"id": "page-1"}`)
	}))

	page, err := client.GetPage(context.Background(), "page-1")
	require.NoError(t, err)
	assert.Equal(t, "page-1", page.ID)
	assert.Equal(t, 3, attempts)
}

func TestDoSurfacesErrorBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message": "Title is not a property that exists"}`)
	}))

	_, err := client.GetPage(context.Background(), "page-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "not a property")
	assert.True(t, IsNotFound(err))
}

func TestQueryDatabasePaginates(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/databases/words-db/query", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(100), req["page_size"])

		calls++
		if calls == 1 {
			assert.Nil(t, req["start_cursor"])
			fmt.Fprint(w, `{"results": [{"id": "p1", "properties": {"Word": {"type": "title", "title": [{"plain_text": "market"}]}, "UsedInOutput": {"type": "number", "number": 2}}}], "has_more": true, "next_cursor": "cur-2"}`)
			return
		}
		assert.Equal(t, "cur-2", req["start_cursor"])
		fmt.Fprint(w, `{"results": [{"id": "p2", "properties": {"Word": {"type": "title", "title": [{"plain_text": "Asset"}]}}}], "has_more": false}`)
	}))

	words, err := client.LoadWordPages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, words, 2)
	assert.Equal(t, 2, words["market"].UsedInOutput)
	assert.Equal(t, "p2", words["asset"].ID)
}

func TestIncrementUsedInOutput(t *testing.T) {
	patched := map[string]float64{}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/query") {
			fmt.Fprint(w, `{"results": [{"id": "p1", "properties": {"Word": {"title": [{"plain_text": "market"}]}, "UsedInOutput": {"number": 4}}}], "has_more": false}`)
			return
		}
		require.Equal(t, http.MethodPatch, r.Method)
		var req struct {
			Properties map[string]struct {
				Number float64 `json:"number"`
			} `json:"properties"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		patched[r.URL.Path] = req.Properties["UsedInOutput"].Number
		fmt.Fprint(w, `{"id": "p1"}`)
	}))

	updated, err := client.IncrementUsedInOutput(context.Background(), map[string]int{
		"market":  3,
		"unknown": 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, float64(7), patched["/pages/p1"])
}

func TestCreateArticlePayload(t *testing.T) {
	var captured map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/pages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		fmt.Fprint(w, `{"id": "article-1"}`)
	}))

	metrics := coverageFixture()
	id, err := client.CreateArticle(context.Background(), ArticleInput{
		Title:    "Salt Batteries",
		URL:      "https://example.com/salt",
		Level:    "B1",
		Body:     "Researchers store energy in salt.",
		Glossary: []model.GlossaryEntry{{Term: "battery", Definition: "a device that stores power"}},
		Metrics:  metrics,
		Tags:     []string{"science"},
	})
	require.NoError(t, err)
	assert.Equal(t, "article-1", id)

	parent := captured["parent"].(map[string]any)
	assert.Equal(t, "articles-db", parent["database_id"])

	props := captured["properties"].(map[string]any)
	status := props["Status"].(map[string]any)["select"].(map[string]any)
	assert.Equal(t, "Ready", status["name"])
	assert.Contains(t, props, "CoverageSummary")
	assert.Contains(t, props, "Body")
	assert.Contains(t, props, "Glossary")
	assert.NotContains(t, props, "Audio")
}

func TestRichTextPropTruncates(t *testing.T) {
	long := strings.Repeat("x", 3000)
	prop := RichTextProp(long).(map[string]any)
	spans := prop["rich_text"].([]any)
	text := spans[0].(map[string]any)["text"].(map[string]any)["content"].(string)
	assert.Len(t, text, 1900)
}

func TestMultiSelectPropCaps(t *testing.T) {
	names := make([]string, 30)
	for i := range names {
		names[i] = strings.Repeat("t", 100)
	}
	prop := MultiSelectProp(names).(map[string]any)
	options := prop["multi_select"].([]any)
	assert.Len(t, options, 20)
	first := options[0].(map[string]any)["name"].(string)
	assert.Len(t, first, 90)
}

func TestUpdateEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOTION_TOKEN=secret\n# comment\nARTICLES_DB_ID=old\n"), 0o644))

	err := UpdateEnvFile(path, map[string]string{
		"ARTICLES_DB_ID": "new-id",
		"PATTERNS_DB_ID": "patterns-id",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "NOTION_TOKEN=secret")
	assert.Contains(t, content, "# comment")
	assert.Contains(t, content, "ARTICLES_DB_ID=new-id")
	assert.Contains(t, content, "PATTERNS_DB_ID=patterns-id")
	assert.NotContains(t, content, "ARTICLES_DB_ID=old")
}
