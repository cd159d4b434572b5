package analyze

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeDropsStopwordsAndCase(t *testing.T) {
	tokens := Tokenize("The cat and the dog don't RUN because it is raining.")
	assert.Equal(t, []string{"cat", "dog", "don't", "run", "raining"}, tokens)
}

func TestTokenizeKeepsApostrophes(t *testing.T) {
	tokens := Tokenize("It's the market's best year")
	assert.Contains(t, tokens, "it's")
	assert.Contains(t, tokens, "market's")
}

func TestTokenizeContentFiltersShortTokens(t *testing.T) {
	tokens := TokenizeContent("a b word I at go")
	assert.Equal(t, []string{"word", "at", "go"}, tokens)
}

func TestLoadTermFileMissing(t *testing.T) {
	terms, err := LoadTermFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.NoError(t, err)
	assert.Empty(t, terms)
}

func TestLoadTermFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.txt")
	require.NoError(t, os.WriteFile(path, []byte("Blockchain\n\n  defi  \n"), 0o644))

	terms, err := LoadTermFile(path)
	require.NoError(t, err)
	assert.True(t, terms["blockchain"])
	assert.True(t, terms["defi"])
	assert.Len(t, terms, 2)
}
