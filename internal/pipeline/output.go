package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"lexipipe/internal/analyze"
	"lexipipe/internal/llm"
	"lexipipe/internal/model"
	"lexipipe/internal/notion"
)

// OutputOptions controls one writing-practice session
type OutputOptions struct {
	ArticleID string
	DryRun    bool
}

// OutputResult is the outcome of a writing-practice session
type OutputResult struct {
	Keywords   string
	Pattern    model.Pattern
	Correction *model.Correction
	PageID     string
}

// SuggestKeywords ranks the article's frequent content words against the
// practice vocabulary and returns up to ten candidates. Singular/plural
// near-duplicates are collapsed with a loose trailing-s fold.
func SuggestKeywords(body string, words map[string]bool) []string {
	counter := make(map[string]int)
	for _, tok := range analyze.TokenizeContent(body) {
		counter[tok]++
	}

	type wc struct {
		word  string
		count int
	}
	ranked := make([]wc, 0, len(counter))
	for w, c := range counter {
		ranked = append(ranked, wc{w, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].word < ranked[j].word
	})
	if len(ranked) > 100 {
		ranked = ranked[:100]
	}

	seen := make(map[string]bool)
	var out []string
	for _, r := range ranked {
		if !words[r.word] {
			continue
		}
		stem := strings.TrimRight(r.word, "s")
		if seen[stem] {
			continue
		}
		seen[stem] = true
		out = append(out, r.word)
		if len(out) >= 10 {
			break
		}
	}
	return out
}

// RunOutput guides one writing rep: pick keywords from the article, pick a
// sentence pattern, draft a sentence, get it corrected, and record the result.
func (p *Pipeline) RunOutput(ctx context.Context, opts OutputOptions, in io.Reader, out io.Writer) (*OutputResult, error) {
	if opts.ArticleID == "" {
		return nil, fmt.Errorf("article ID is required")
	}
	if err := p.requireProvider(); err != nil {
		return nil, err
	}
	reader := bufio.NewScanner(in)

	title, body, err := p.client.GetArticleBody(ctx, opts.ArticleID)
	if err != nil {
		return nil, fmt.Errorf("load article: %w", err)
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("article %s has no body text", opts.ArticleID)
	}
	fmt.Fprintf(out, "Article: %s\n", title)

	wordSet, err := p.client.LoadWordSet(ctx)
	if err != nil {
		warnColor.Fprintf(out, "  warn: load word set: %v\n", err)
		wordSet = map[string]bool{}
	}

	suggested := SuggestKeywords(body, wordSet)
	if len(suggested) == 0 {
		suggested = fallbackKeywords(body)
	}
	fmt.Fprintf(out, "\nSuggested keywords: %s\n", strings.Join(suggested, ", "))
	fmt.Fprint(out, "Keywords to practice (comma separated, empty = top 2): ")
	keywords := parseKeywords(readLine(reader), suggested)
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords available for this article")
	}
	fmt.Fprintf(out, "Using: %s\n", strings.Join(keywords, ", "))

	pattern, err := p.choosePattern(ctx, reader, out)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "\nPattern: %s\n  %s\n  e.g. %s\n", pattern.Name, pattern.Template, pattern.Example)

	fmt.Fprint(out, "\nWrite one sentence using the pattern and keywords:\n> ")
	sentence := readLine(reader)
	if strings.TrimSpace(sentence) == "" {
		return nil, fmt.Errorf("empty sentence, nothing to correct")
	}

	correction, err := p.provider.CorrectSentence(ctx, llm.CorrectionRequest{
		Sentence: sentence,
		Pattern:  pattern.Template,
		Topic:    title,
		Keywords: keywords,
	})
	if err != nil {
		return nil, fmt.Errorf("correct sentence: %w", err)
	}
	fmt.Fprintf(out, "\nDraft:     %s\n", correction.Draft)
	fmt.Fprintf(out, "Corrected: %s\n", correction.Corrected)
	if correction.Feedback != "" {
		fmt.Fprintf(out, "Feedback:  %s\n", correction.Feedback)
	}

	result := &OutputResult{
		Keywords:   strings.Join(keywords, ", "),
		Pattern:    pattern,
		Correction: correction,
	}
	if opts.DryRun {
		fmt.Fprintln(out, "\nDry run: skipping workspace record")
		return result, nil
	}

	pageID, err := p.client.CreateOutput(ctx, notion.OutputInput{
		ArticleID:  opts.ArticleID,
		PatternID:  pattern.ID,
		Keywords:   keywords,
		Correction: *correction,
		TokensUsed: len(keywords),
	})
	if err != nil {
		return nil, fmt.Errorf("record output: %w", err)
	}
	result.PageID = pageID
	fmt.Fprintf(out, "\nRecorded output %s\n", pageID)

	encounters := make(map[string]int)
	for _, tok := range analyze.TokenizeContent(correction.Corrected) {
		if wordSet[tok] {
			encounters[tok]++
		}
	}
	if len(encounters) > 0 {
		if updated, err := p.client.IncrementUsedInOutput(ctx, encounters); err != nil {
			warnColor.Fprintf(out, "  warn: update word usage: %v\n", err)
		} else {
			fmt.Fprintf(out, "Updated usage for %d word(s)\n", updated)
		}
	}

	if pattern.ID != "" {
		if err := p.client.TouchPattern(ctx, pattern.ID); err != nil {
			warnColor.Fprintf(out, "  warn: update pattern usage: %v\n", err)
		}
	}
	return result, nil
}

// choosePattern lists the workspace patterns and reads a 1-based choice.
// Empty input picks the first pattern.
func (p *Pipeline) choosePattern(ctx context.Context, reader *bufio.Scanner, out io.Writer) (model.Pattern, error) {
	patterns, err := p.client.ListPatterns(ctx)
	if err != nil {
		return model.Pattern{}, fmt.Errorf("list patterns: %w", err)
	}
	if len(patterns) == 0 {
		return model.Pattern{}, fmt.Errorf("no patterns in the workspace; run `lexipipe patterns seed` first")
	}

	fmt.Fprintln(out, "\nSentence patterns:")
	for i, pat := range patterns {
		label := pat.Name
		if pat.CEFR != "" {
			label += " (" + pat.CEFR + ")"
		}
		fmt.Fprintf(out, "  %2d. %s\n", i+1, label)
	}
	fmt.Fprintf(out, "Pick a pattern [1-%d, empty = 1]: ", len(patterns))

	choice := strings.TrimSpace(readLine(reader))
	if choice == "" {
		return patterns[0], nil
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(patterns) {
		return model.Pattern{}, fmt.Errorf("invalid pattern choice %q", choice)
	}
	return patterns[n-1], nil
}

// parseKeywords splits a comma-separated answer, falling back to the top two
// suggestions when the answer is empty.
func parseKeywords(answer string, suggested []string) []string {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		if len(suggested) > 2 {
			return suggested[:2]
		}
		return suggested
	}
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(answer, ",") {
		w := strings.ToLower(strings.TrimSpace(part))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// fallbackKeywords picks frequent content words when the practice vocabulary
// has no overlap with the article.
func fallbackKeywords(body string) []string {
	counter := make(map[string]int)
	for _, tok := range analyze.TokenizeContent(body) {
		counter[tok]++
	}
	all := make(map[string]bool, len(counter))
	for w := range counter {
		all[w] = true
	}
	return SuggestKeywords(body, all)
}

func readLine(reader *bufio.Scanner) string {
	if !reader.Scan() {
		return ""
	}
	return reader.Text()
}
