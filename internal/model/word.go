package model

// Word list tags used by the coverage analyzer
const (
	ListNGSL   = "NGSL"
	ListNAWL   = "NAWL"
	ListSpoken = "Spoken"
)

// WrittenListTags are the lists that form the written core (NGSL+NAWL)
var WrittenListTags = []string{ListNGSL, ListNAWL}

// AnalysisOrder is the display order for per-list coverage lines
var AnalysisOrder = []string{ListNGSL, ListNAWL, ListSpoken}

// WordEntry is one row of the local word catalog
type WordEntry struct {
	Word         string
	Lists        map[string]bool
	SeenTokens   int
	SeenArticles int
	LastSeen     string // RFC 3339 UTC, empty when never seen
}

// NewWordEntry creates an empty entry for a word
func NewWordEntry(word string) *WordEntry {
	return &WordEntry{Word: word, Lists: make(map[string]bool)}
}

// Tagged reports whether the entry belongs to the given list
func (e *WordEntry) Tagged(list string) bool {
	return e.Lists[list]
}
