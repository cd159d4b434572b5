package llm

import (
	"regexp"
	"strings"
)

var (
	objectPat         = regexp.MustCompile(`(?s)\{.*\}`)
	trailingObjectPat = regexp.MustCompile(`(?s)\{.*\}\s*$`)
)

// stripMarkdownFence unwraps a ```json ... ``` fenced response
func stripMarkdownFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	parts := strings.Split(s, "```")
	if len(parts) < 3 {
		return s
	}
	inner := strings.TrimSpace(parts[1])
	inner = strings.TrimPrefix(inner, "json")
	return strings.TrimSpace(inner)
}

// salvageObject finds the first-to-last braced region in noisy model output
func salvageObject(s string) (string, bool) {
	m := objectPat.FindString(s)
	return m, m != ""
}

// salvageTrailingObject finds a braced region ending the output
func salvageTrailingObject(s string) (string, bool) {
	m := trailingObjectPat.FindString(s)
	return strings.TrimRight(m, " \t\r\n"), m != ""
}
