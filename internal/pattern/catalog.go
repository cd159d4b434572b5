package pattern

import "lexipipe/internal/model"

// canonical holds the normalization targets for harvested phrases
type canonical struct {
	Name     string
	CEFR     string
	Tag      string
	Template string
	Example  string
}

var canonicalPatterns = []canonical{
	{"Opinion-Because", "B1", "opinion", "I think [topic] is [adj] because [reason].",
		"I think DeFi is useful because it increases financial access."},
	{"Cause-Effect", "B1", "cause-effect", "When [cause] happens, [effect] will occur.",
		"When institutions join DeFi, liquidity will increase."},
	{"Problem-Solution", "B1", "solution", "The problem is [X], and the solution is [Y].",
		"The problem is key management, and the solution is secure custody."},
	{"Comparison", "B1", "comparison", "Compared to [A], [B] is more [adj].",
		"Compared to banks, DeFi is more transparent."},
	{"Contrast", "A2–B1", "contrast", "[A] is [adj], but [B] is [adj].",
		"DeFi is open, but banks are restricted."},
	{"Future-Intention", "A2–B1", "future", "I will [action] to [goal].",
		"I will study Solidity to become a blockchain developer."},
	{"Experience", "B1", "experience", "I have [past experience] with [topic].",
		"I have worked with Layer 2 rollups before."},
	{"Hypothesis", "B1", "conditional", "If [condition], [result].",
		"If fees get lower, user adoption will grow."},
	{"Description", "A2", "description", "[Topic] has [feature] and [benefit].",
		"Blockchain has transparency and security."},
}

// Fallback returns the built-in pattern seeds used when harvesting fails
func Fallback() []model.Pattern {
	out := make([]model.Pattern, 0, len(canonicalPatterns))
	for _, c := range canonicalPatterns {
		out = append(out, model.Pattern{
			Name:     c.Name,
			Template: c.Template,
			Example:  c.Example,
			Tags:     []string{c.Tag},
			CEFR:     c.CEFR,
			Source:   "fallback",
		})
	}
	return out
}

func canonicalByName(name string) (canonical, bool) {
	for _, c := range canonicalPatterns {
		if c.Name == name {
			return c, true
		}
	}
	return canonical{}, false
}
