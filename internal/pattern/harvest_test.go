package pattern

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	html string
	err  error
}

func (f *fakeFetcher) FetchText(ctx context.Context, url string) (string, error) {
	return f.html, f.err
}

func TestExtractPhrasesPrefersOpinionStarters(t *testing.T) {
	html := `<ul>
<li>I think this is a great idea</li>
<li>In my opinion, it works well</li>
<li>12345 not a phrase</li>
<li>Click here</li>
<li>I think this is a great idea</li>
</ul>`
	phrases := extractPhrases(html)
	require.Len(t, phrases, 2)
	assert.Equal(t, "I think this is a great idea", phrases[0])
	assert.Equal(t, "In my opinion, it works well", phrases[1])
}

func TestExtractPhrasesSkipsScriptAndStyleText(t *testing.T) {
	html := `<html><head>
<script>I think this line is code, not prose</script>
<style>I think this one is a stylesheet</style>
</head><body><p>I think the page says this</p></body></html>`
	phrases := extractPhrases(html)
	require.Len(t, phrases, 1)
	assert.Equal(t, "I think the page says this", phrases[0])
}

func TestNormalizeMapsByPrefix(t *testing.T) {
	cases := map[string]string{
		"I think games help learning":      "Opinion-Because",
		"When prices rise, demand falls":   "Cause-Effect",
		"If it rains, we stay home":        "Hypothesis",
		"Compared to trains, buses are":    "Comparison",
		"The problem is time management":   "Problem-Solution",
		"I will practice every day":        "Future-Intention",
		"I have lived abroad before":       "Experience",
		"Coffee is cheap, but tea is fine": "Contrast",
	}
	for phrase, wantName := range cases {
		got := Normalize([]string{phrase})
		require.Len(t, got, 1, "phrase %q", phrase)
		assert.Equal(t, wantName, got[0].Name, "phrase %q", phrase)
		assert.NotEmpty(t, got[0].Template)
		assert.NotEmpty(t, got[0].Example)
	}

	assert.Empty(t, Normalize([]string{"Completely unrelated sentence."}))
}

func TestHarvestBackfillsFullCatalog(t *testing.T) {
	// Fetch failure still yields every canonical pattern exactly once.
	patterns := Harvest(context.Background(), &fakeFetcher{err: fmt.Errorf("offline")})
	require.Len(t, patterns, len(canonicalPatterns))

	names := make(map[string]bool)
	for _, p := range patterns {
		assert.False(t, names[p.Name], "duplicate %s", p.Name)
		names[p.Name] = true
	}
	assert.True(t, names["Description"])
	assert.GreaterOrEqual(t, len(patterns), 7)
}

func TestHarvestMergesWebAndFallback(t *testing.T) {
	html := `<li>I think this helps</li><li>When we practice, we improve</li>`
	patterns := Harvest(context.Background(), &fakeFetcher{html: html})

	bySource := make(map[string]string)
	for _, p := range patterns {
		bySource[p.Name] = p.Source
	}
	assert.Equal(t, "web+normalize", bySource["Opinion-Because"])
	assert.Equal(t, "fallback", bySource["Description"])
	assert.Len(t, patterns, len(canonicalPatterns))
}
