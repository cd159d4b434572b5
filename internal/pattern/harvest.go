package pattern

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"lexipipe/internal/model"
)

// reference pages for B1-level sentence frames and opinion phrases
var harvestSources = []string{
	"https://www.englishclub.com/vocabulary/fl-giving-opinions.php",
}

var (
	opinionSeedPat  = regexp.MustCompile(`(?i)^(I think|In my opinion|Personally,|From my (point|perspective))`)
	contrastWordPat = regexp.MustCompile(`\bbut\b`)
	copulaPat       = regexp.MustCompile(`\bis\b`)
)

// TextFetcher retrieves one harvest source page
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Harvest pulls candidate phrases from reference pages and normalizes them
// onto the canonical templates. The canonical set always backfills anything
// the pages did not yield, so at least the full catalog comes back.
func Harvest(ctx context.Context, fetcher TextFetcher) []model.Pattern {
	var harvested []model.Pattern
	for _, src := range harvestSources {
		page, err := fetcher.FetchText(ctx, src)
		if err != nil {
			continue
		}
		phrases := extractPhrases(page)
		harvested = append(harvested, Normalize(phrases)...)
	}

	names := make(map[string]bool)
	for _, p := range harvested {
		names[p.Name] = true
	}
	for _, fb := range Fallback() {
		if !names[fb.Name] {
			harvested = append(harvested, fb)
		}
	}
	return dedupeByName(harvested)
}

// extractPhrases pulls short text runs out of raw HTML, preferring
// opinion-starter sentences. Script and style text is skipped.
func extractPhrases(page string) []string {
	tok := html.NewTokenizer(strings.NewReader(page))
	var cleaned []string
	skipDepth := 0
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return pickSeeds(cleaned)
		case html.StartTagToken:
			name, _ := tok.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tok.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			s := strings.Join(strings.Fields(string(tok.Text())), " ")
			if len(s) < 3 || len(s) > 90 {
				continue
			}
			if r := rune(s[0]); !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
				continue
			}
			cleaned = append(cleaned, s)
		}
	}
}

// pickSeeds keeps opinion-starter phrases, de-duplicated, at most 20
func pickSeeds(cleaned []string) []string {
	var seeds []string
	seen := make(map[string]bool)
	for _, s := range cleaned {
		if !opinionSeedPat.MatchString(s) || seen[s] {
			continue
		}
		seen[s] = true
		seeds = append(seeds, s)
		if len(seeds) >= 20 {
			break
		}
	}
	return seeds
}

// Normalize maps raw harvested phrases onto canonical patterns by their
// opening words.
func Normalize(phrases []string) []model.Pattern {
	var out []model.Pattern
	for _, raw := range phrases {
		low := strings.ToLower(strings.TrimSpace(raw))

		name := ""
		switch {
		case hasAnyPrefix(low, "i think", "i believe", "in my opinion", "personally", "from my"):
			name = "Opinion-Because"
		case strings.HasPrefix(low, "when "):
			name = "Cause-Effect"
		case strings.HasPrefix(low, "if "):
			name = "Hypothesis"
		case strings.HasPrefix(low, "compared to"):
			name = "Comparison"
		case strings.HasPrefix(low, "the problem is"):
			name = "Problem-Solution"
		case strings.HasPrefix(low, "i will"):
			name = "Future-Intention"
		case strings.HasPrefix(low, "i have"):
			name = "Experience"
		case contrastWordPat.MatchString(low) && copulaPat.MatchString(low):
			name = "Contrast"
		default:
			continue
		}

		c, ok := canonicalByName(name)
		if !ok {
			continue
		}
		out = append(out, model.Pattern{
			Name:     c.Name,
			Template: c.Template,
			Example:  c.Example,
			Tags:     []string{c.Tag},
			CEFR:     c.CEFR,
			Source:   "web+normalize",
		})
	}
	return out
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func dedupeByName(patterns []model.Pattern) []model.Pattern {
	seen := make(map[string]bool)
	var out []model.Pattern
	for _, p := range patterns {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		out = append(out, p)
	}
	return out
}
