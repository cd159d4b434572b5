package analyze

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexipipe/internal/model"
)

func lists(t *testing.T) map[string]map[string]bool {
	t.Helper()
	return map[string]map[string]bool{
		model.ListNGSL:   {"market": true, "money": true, "bank": true},
		model.ListNAWL:   {"liquidity": true, "asset": true},
		model.ListSpoken: {"money": true, "yeah": true},
	}
}

func TestCoverageCountsPerList(t *testing.T) {
	text := "Market money market liquidity ledger ledger ledger"
	m := Coverage(text, lists(t), nil)

	require.Equal(t, 7, m.TokensTotal)
	require.Equal(t, 7, m.TokensTotalFiltered)

	assert.Equal(t, 3, m.PerList[model.ListNGSL].Tokens) // market x2 + money
	assert.Equal(t, 1, m.PerList[model.ListNAWL].Tokens)
	assert.Equal(t, 1, m.PerList[model.ListSpoken].Tokens)
	assert.InDelta(t, 3.0/7.0*100, m.PerList[model.ListNGSL].Pct, 0.001)

	// Written core counts each token once even though money is also Spoken.
	assert.Equal(t, 4, m.WrittenTokens)
	assert.Equal(t, 1, m.SpokenTokens)
}

func TestCoverageSpecializedExclusion(t *testing.T) {
	text := "market ledger ledger money"
	m := Coverage(text, lists(t), map[string]bool{"ledger": true})

	assert.Equal(t, 4, m.TokensTotal)
	assert.Equal(t, 2, m.TokensTotalFiltered)
	assert.Equal(t, 2, m.PerList[model.ListNGSL].Tokens)
	assert.Equal(t, 2, m.PerList[model.ListNGSL].TokensAll)
	assert.InDelta(t, 100.0, m.PerList[model.ListNGSL].Pct, 0.001)

	// Excluded terms never show up as non-core leftovers either.
	for _, wc := range m.TopNonCore {
		assert.NotEqual(t, "ledger", wc.Word)
	}
}

func TestCoverageLemmaFolding(t *testing.T) {
	m := Coverage("markets banks assets", lists(t), nil)

	assert.Equal(t, 2, m.PerList[model.ListNGSL].Tokens)
	assert.Equal(t, 1, m.PerList[model.ListNAWL].Tokens)
	assert.Equal(t, 2, m.Encounters["market"]+m.Encounters["bank"])
	assert.Empty(t, m.TopNonCore)
}

func TestCoverageTopNonCoreOrdering(t *testing.T) {
	m := Coverage("zeta zeta alpha beta beta beta", lists(t), nil)

	require.Len(t, m.TopNonCore, 3)
	assert.Equal(t, WordCount{Word: "beta", Count: 3}, m.TopNonCore[0])
	assert.Equal(t, WordCount{Word: "zeta", Count: 2}, m.TopNonCore[1])
	assert.Equal(t, WordCount{Word: "alpha", Count: 1}, m.TopNonCore[2])
}

func TestSummaryLines(t *testing.T) {
	m := Coverage("market money liquidity", lists(t), nil)
	lines := m.SummaryLines()

	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "NGSL: 2 tokens"))
	assert.True(t, strings.HasPrefix(lines[3], "Written (NGSL+NAWL): 3 tokens"))
	assert.True(t, strings.HasPrefix(lines[4], "Spoken (Spoken): 1 tokens"))
}

func TestAnalysisTextCapped(t *testing.T) {
	m := Coverage(strings.Repeat("verylongnoncoreword ", 400), lists(t), nil)
	m.SpecializedAI = []string{"ledger"}
	assert.LessOrEqual(t, len(m.AnalysisText()), 1900)
	assert.Contains(t, m.AnalysisText(), "Specialized terms (AI): ledger")
}
