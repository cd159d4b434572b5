package model

// Article is an extracted source article before rewriting
type Article struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Body  string `json:"body"`
}

// GlossaryEntry is one term/definition pair produced by the rewriter
type GlossaryEntry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Rewrite is the simplified article returned by the LLM
type Rewrite struct {
	Body     string          `json:"body"`
	Glossary []GlossaryEntry `json:"glossary"`
}

// CEFR proficiency levels accepted by the rewriter
var Levels = []string{"A2", "B1", "B2", "C1"}

// ValidLevel reports whether level is a supported CEFR tier
func ValidLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}
