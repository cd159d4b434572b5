package analyze

import "strings"

// LemmaCandidates returns base-form guesses for a token, most specific
// first. Only suffix stripping: possessives, plurals, -ed and -ing with
// final-e and doubled-consonant restoration.
func LemmaCandidates(token string) []string {
	var out []string
	add := func(s string) {
		if len(s) < 2 || s == token {
			return
		}
		for _, seen := range out {
			if seen == s {
				return
			}
		}
		out = append(out, s)
	}

	t := token
	if strings.HasSuffix(t, "'s") {
		t = strings.TrimSuffix(t, "'s")
		add(t)
	} else if strings.HasSuffix(t, "'") {
		t = strings.TrimSuffix(t, "'")
		add(t)
	}

	switch {
	case strings.HasSuffix(t, "ies") && len(t) > 4:
		add(strings.TrimSuffix(t, "ies") + "y")
	case strings.HasSuffix(t, "es") && len(t) > 3:
		add(strings.TrimSuffix(t, "es"))
		add(strings.TrimSuffix(t, "s"))
	case strings.HasSuffix(t, "s") && !strings.HasSuffix(t, "ss") && len(t) > 2:
		add(strings.TrimSuffix(t, "s"))
	}

	if strings.HasSuffix(t, "ied") && len(t) > 4 {
		add(strings.TrimSuffix(t, "ied") + "y")
	} else if strings.HasSuffix(t, "ed") && len(t) > 3 {
		stem := strings.TrimSuffix(t, "ed")
		add(stem)
		add(stem + "e")
		if hasDoubledFinal(stem) {
			add(stem[:len(stem)-1])
		}
	}

	if strings.HasSuffix(t, "ing") && len(t) > 4 {
		stem := strings.TrimSuffix(t, "ing")
		add(stem)
		add(stem + "e")
		if hasDoubledFinal(stem) {
			add(stem[:len(stem)-1])
		}
	}

	return out
}

func hasDoubledFinal(stem string) bool {
	n := len(stem)
	if n < 2 || stem[n-1] != stem[n-2] {
		return false
	}
	switch stem[n-1] {
	case 'a', 'e', 'i', 'o', 'u', 's':
		return false
	}
	return true
}

// FoldTokens maps each token onto a known registry word where possible:
// exact matches pass through, otherwise the first lemma candidate found in
// the registry is substituted. Unmatched tokens are kept as-is so non-core
// counting still sees them.
func FoldTokens(tokens []string, inRegistry func(string) bool) []string {
	folded := make([]string, len(tokens))
	for i, t := range tokens {
		folded[i] = t
		if inRegistry(t) {
			continue
		}
		for _, cand := range LemmaCandidates(t) {
			if inRegistry(cand) {
				folded[i] = cand
				break
			}
		}
	}
	return folded
}
