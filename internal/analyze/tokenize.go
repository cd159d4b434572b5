// Package analyze tokenizes article text and measures vocabulary coverage
// against the loaded word lists.
package analyze

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[A-Za-z']+`)

// stopwords excluded from coverage counting: articles, pronouns, common
// prepositions, auxiliaries and similar function words.
var stopwords = buildStopwords(`
a an the i you he she it we they me him her us them my your his its our their
and or but so because although if when while as of in on at to for from with by
this that these those is am are was were be been being do does did will would can
could should might must not no nor than then there here who which what where why how
`)

func buildStopwords(raw string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(raw) {
		set[w] = true
	}
	return set
}

// Tokenize lowercases text, splits into alphabetic tokens (apostrophes kept)
// and drops stopwords.
func Tokenize(text string) []string {
	raw := wordPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if stopwords[t] {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// TokenizeContent is like Tokenize but filters single-letter tokens instead
// of stopwords, matching the keyword-suggestion path.
func TokenizeContent(text string) []string {
	raw := wordPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if len(t) > 1 {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// LoadTermFile reads one lowercase term per line; a missing file yields an
// empty set.
func LoadTermFile(path string) (map[string]bool, error) {
	terms := make(map[string]bool)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return terms, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word != "" {
			terms[word] = true
		}
	}
	return terms, scanner.Err()
}
