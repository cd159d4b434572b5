package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexipipe/internal/model"
)

func TestFormatNotes(t *testing.T) {
	notes := []model.TermNote{
		{
			Term:    "liquidity",
			Meaning: "how easily an asset can be sold for cash",
			Context: "The pool lost liquidity overnight.",
			Tip:     "Think of water flowing freely.",
		},
		{Term: "yield", Meaning: "the return earned on an investment"},
	}

	got := FormatNotes(notes, "")
	want := strings.Join([]string{
		"- **liquidity**: how easily an asset can be sold for cash",
		"  - Context: The pool lost liquidity overnight.",
		"  - Tip: Think of water flowing freely.",
		"- **yield**: the return earned on an investment",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestFormatNotesBilingual(t *testing.T) {
	notes := []model.TermNote{
		{
			Term:         "liquidity",
			Meaning:      "how easily an asset can be sold",
			TermLocal:    "liquidite",
			MeaningLocal: "facilite de vente d'un actif",
		},
	}

	got := FormatNotes(notes, "French")
	assert.Contains(t, got, "- **liquidity** (French: liquidite): how easily an asset can be sold")
	assert.Contains(t, got, "  - French: facilite de vente d'un actif")
}

func TestRunNotesAppendsToArticle(t *testing.T) {
	var patchedNotes string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/pages/art-3":
			writeJSON(t, w, map[string]any{
				"id": "art-3",
				"properties": map[string]any{
					"Title":      titleProp("DeFi basics"),
					"Body":       richTextProp("Liquidity pools hold paired assets."),
					"VocabNotes": richTextProp("- **stake**: lock tokens to earn rewards"),
				},
			})
		case r.Method == http.MethodPatch && r.URL.Path == "/pages/art-3":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			props := body["properties"].(map[string]any)
			spans := props["VocabNotes"].(map[string]any)["rich_text"].([]any)
			patchedNotes = spans[0].(map[string]any)["text"].(map[string]any)["content"].(string)
			writeJSON(t, w, map[string]any{"id": "art-3"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	provider := &stubProvider{note: &model.TermNote{
		Term:    "liquidity",
		Meaning: "how easily an asset can be sold",
		Context: "Liquidity pools hold paired assets.",
	}}
	p := newTestPipeline(t, handler, provider)

	// empty confirm answer saves
	input := strings.NewReader("liquidity\n\n\n")
	var out bytes.Buffer
	result, err := p.RunNotes(context.Background(), NotesOptions{ArticleID: "art-3"}, input, &out)
	require.NoError(t, err)

	assert.True(t, result.Saved)
	require.Len(t, result.Notes, 1)
	assert.True(t, strings.HasPrefix(patchedNotes, "- **stake**: lock tokens to earn rewards\n"))
	assert.Contains(t, patchedNotes, "- **liquidity**: how easily an asset can be sold")
}

func TestRunNotesDiscardWithoutConfirm(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/pages/art-4" {
			writeJSON(t, w, map[string]any{
				"id": "art-4",
				"properties": map[string]any{
					"Title": titleProp("Short read"),
					"Body":  richTextProp("A short body."),
				},
			})
			return
		}
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	provider := &stubProvider{note: &model.TermNote{Term: "body", Meaning: "the main text"}}
	p := newTestPipeline(t, handler, provider)

	input := strings.NewReader("body\n\nn\n")
	var out bytes.Buffer
	result, err := p.RunNotes(context.Background(), NotesOptions{ArticleID: "art-4"}, input, &out)
	require.NoError(t, err)

	assert.False(t, result.Saved)
	assert.Contains(t, out.String(), "Notes discarded")
}
