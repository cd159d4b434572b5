package analyze

import (
	"fmt"
	"sort"
	"strings"

	"lexipipe/internal/model"
)

// ListStat holds coverage numbers for one word list
type ListStat struct {
	Tokens    int     // matched tokens after specialized-term exclusion
	TokensAll int     // matched tokens including specialized terms
	Pct       float64 // Tokens / filtered total * 100
}

// WordCount pairs a word with its occurrence count
type WordCount struct {
	Word  string
	Count int
}

// Metrics is the full coverage report for one article body
type Metrics struct {
	TokensTotal         int
	TokensTotalFiltered int
	PerList             map[string]ListStat

	WrittenTokens int
	WrittenPct    float64
	SpokenTokens  int
	SpokenPct     float64

	TopNonCore []WordCount

	// Encounters counts, per catalog word, the occurrences in this article
	// (after lemma folding). Drives the seen-token counter updates.
	Encounters map[string]int

	SpecializedManual []string
	SpecializedAI     []string
}

// TokensCore returns the written-core token count including specialized terms
func (m *Metrics) TokensCore() int {
	return m.PerList[model.ListNGSL].TokensAll + m.PerList[model.ListNAWL].TokensAll
}

// Coverage tokenizes text, folds tokens onto the catalog, and intersects
// against each word list. Tokens in the exclusion set are removed from the
// denominators; TokensAll keeps the unfiltered counts for comparison.
func Coverage(text string, wordsByList map[string]map[string]bool, exclude map[string]bool) *Metrics {
	registry := make(map[string]bool)
	for _, words := range wordsByList {
		for w := range words {
			registry[w] = true
		}
	}

	tokensAll := FoldTokens(Tokenize(text), func(w string) bool { return registry[w] })

	counterAll := make(map[string]int)
	for _, t := range tokensAll {
		counterAll[t]++
	}

	counterFiltered := make(map[string]int)
	totalFiltered := 0
	for _, t := range tokensAll {
		if len(exclude) > 0 && exclude[t] {
			continue
		}
		counterFiltered[t]++
		totalFiltered++
	}

	m := &Metrics{
		TokensTotal:         len(tokensAll),
		TokensTotalFiltered: totalFiltered,
		PerList:             make(map[string]ListStat),
		Encounters:          make(map[string]int),
	}

	for name, words := range wordsByList {
		if len(words) == 0 {
			continue
		}
		stat := ListStat{}
		for w := range words {
			stat.TokensAll += counterAll[w]
			stat.Tokens += counterFiltered[w]
		}
		if totalFiltered > 0 {
			stat.Pct = float64(stat.Tokens) / float64(totalFiltered) * 100
		}
		m.PerList[name] = stat
	}

	for _, tag := range model.WrittenListTags {
		for w := range wordsByList[tag] {
			m.WrittenTokens += counterFiltered[w]
		}
	}
	// Written lists overlap is impossible here: each word counts once per
	// list it belongs to, so subtract double-counted NGSL∩NAWL words.
	m.WrittenTokens -= overlapCount(wordsByList[model.ListNGSL], wordsByList[model.ListNAWL], counterFiltered)
	for w := range wordsByList[model.ListSpoken] {
		m.SpokenTokens += counterFiltered[w]
	}
	if totalFiltered > 0 {
		m.WrittenPct = float64(m.WrittenTokens) / float64(totalFiltered) * 100
		m.SpokenPct = float64(m.SpokenTokens) / float64(totalFiltered) * 100
	}

	for w, c := range counterAll {
		if registry[w] {
			m.Encounters[w] = c
		}
	}

	m.TopNonCore = topNonCore(counterFiltered, registry, 20)
	return m
}

func overlapCount(a, b map[string]bool, counter map[string]int) int {
	total := 0
	for w := range a {
		if b[w] {
			total += counter[w]
		}
	}
	return total
}

func topNonCore(counter map[string]int, registry map[string]bool, limit int) []WordCount {
	var out []WordCount
	for w, c := range counter {
		if !registry[w] {
			out = append(out, WordCount{Word: w, Count: c})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SummaryLines renders the per-list and aggregate coverage lines
func (m *Metrics) SummaryLines() []string {
	var lines []string
	for _, tag := range model.AnalysisOrder {
		stat, ok := m.PerList[tag]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %d tokens (%.1f%% specialized-free)", tag, stat.Tokens, stat.Pct))
	}
	lines = append(lines, fmt.Sprintf("Written (NGSL+NAWL): %d tokens (%.1f%% specialized-free)", m.WrittenTokens, m.WrittenPct))
	lines = append(lines, fmt.Sprintf("Spoken (%s): %d tokens (%.1f%% specialized-free)", model.ListSpoken, m.SpokenTokens, m.SpokenPct))
	return lines
}

// TopNonCoreText renders "word(count), ..." for display and the workspace record
func (m *Metrics) TopNonCoreText() string {
	parts := make([]string, 0, len(m.TopNonCore))
	for _, wc := range m.TopNonCore {
		parts = append(parts, fmt.Sprintf("%s(%d)", wc.Word, wc.Count))
	}
	return strings.Join(parts, ", ")
}

// AnalysisText assembles the coverage block stored on the article record
func (m *Metrics) AnalysisText() string {
	text := "Coverage (specialized-free):\n" + strings.Join(m.SummaryLines(), "\n")
	if noncore := m.TopNonCoreText(); noncore != "" {
		text += "\nTop non-core: " + noncore
	}
	if len(m.SpecializedAI) > 0 {
		limit := len(m.SpecializedAI)
		if limit > 20 {
			limit = 20
		}
		text += "\nSpecialized terms (AI): " + strings.Join(m.SpecializedAI[:limit], ", ")
	}
	if len(text) > 1900 {
		text = text[:1900]
	}
	return text
}
