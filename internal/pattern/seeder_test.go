package pattern

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexipipe/internal/model"
	"lexipipe/internal/notion"
)

func newSeedClient(t *testing.T, handler http.Handler) *notion.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := notion.NewClient(model.NotionConfig{
		Token:      "test-token",
		PatternsDB: "patterns-db",
		RatePerSec: 1000,
	})
	client.SetBaseURL(srv.URL)
	return client
}

func TestSeedSkipsExistingPatterns(t *testing.T) {
	created := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/databases/patterns-db/query":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{{
					"id": "pat-1",
					"properties": map[string]any{
						"Name": map[string]any{
							"type":  "title",
							"title": []map[string]any{{"plain_text": "Opinion-Because"}},
						},
					},
				}},
				"has_more": false,
			})
		case r.Method == http.MethodPost && r.URL.Path == "/pages":
			created++
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "pat-new"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	client := newSeedClient(t, handler)

	seeds := []model.Pattern{
		{Name: "Opinion-Because", Template: "I think X because Y."},
		{Name: "Contrast", Template: "X, but Y."},
	}
	res, err := Seed(context.Background(), client, seeds, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, created)
}

func TestSeedAbortsWhenListingFails(t *testing.T) {
	created := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/pages" {
			created++
		}
		w.WriteHeader(http.StatusInternalServerError)
	})
	client := newSeedClient(t, handler)

	_, err := Seed(context.Background(), client, Fallback(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list existing patterns")
	assert.Zero(t, created, "no pattern may be created when the duplicate check failed")
}
