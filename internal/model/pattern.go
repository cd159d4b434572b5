package model

// Pattern is a sentence pattern for writing practice
type Pattern struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name"`
	Template string   `json:"pattern"`
	Example  string   `json:"example"`
	Tags     []string `json:"tags,omitempty"`
	CEFR     string   `json:"cefr,omitempty"`
	Source   string   `json:"source,omitempty"`
}

// Correction is the LLM's review of a learner sentence
type Correction struct {
	Draft     string `json:"draft"`
	Corrected string `json:"corrected"`
	Feedback  string `json:"feedback"`
}

// TermNote is one explained vocabulary item
type TermNote struct {
	Term         string `json:"term"`
	Meaning      string `json:"meaning"`
	Context      string `json:"context"`
	Tip          string `json:"tip"`
	TermLocal    string `json:"term_local,omitempty"`
	MeaningLocal string `json:"meaning_local,omitempty"`
}
