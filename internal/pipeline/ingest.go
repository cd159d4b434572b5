package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"lexipipe/internal/analyze"
	"lexipipe/internal/model"
	"lexipipe/internal/notion"
	"lexipipe/internal/wordlist"
)

// IngestOptions controls one article ingest run
type IngestOptions struct {
	URL   string
	Level string
	Tags  []string

	// DryRun stops after analysis and prints the rewrite preview
	DryRun bool

	// SkipWordCount leaves the words catalog untouched
	SkipWordCount bool

	// Audio synthesizes a local MP3 of the rewritten body
	Audio     bool
	AudioLang string
}

// IngestResult is the outcome of a full ingest
type IngestResult struct {
	Article   *model.Article
	Rewrite   *model.Rewrite
	Metrics   *analyze.Metrics
	PageID    string
	AudioPath string
}

var (
	stepColor = color.New(color.FgCyan, color.Bold)
	warnColor = color.New(color.FgYellow)
)

// Ingest runs the full chain: extract, rewrite, analyze, record, count.
func (p *Pipeline) Ingest(ctx context.Context, opts IngestOptions) (*IngestResult, error) {
	if !model.ValidLevel(opts.Level) {
		return nil, fmt.Errorf("invalid CEFR level %q (supported: %s)", opts.Level, strings.Join(model.Levels, ", "))
	}
	if err := p.requireProvider(); err != nil {
		return nil, err
	}

	stepColor.Println("[1] Extracting article...")
	article, err := p.extractor.Extract(ctx, opts.URL)
	if err != nil {
		return nil, fmt.Errorf("extract article: %w", err)
	}
	fmt.Printf("  Title: %s\n", truncate(article.Title, 80))

	stepColor.Printf("[2] Rewriting for %s...\n", opts.Level)
	rewrite, err := p.provider.Rewrite(ctx, article.Body, opts.Level)
	if err != nil {
		return nil, fmt.Errorf("rewrite: %w", err)
	}

	stepColor.Println("[3] Loading word catalog...")
	entries, err := p.words.Load()
	if err != nil {
		return nil, err
	}
	wordsByList := wordlist.Catalog(entries)
	if len(wordsByList[model.ListNGSL]) == 0 {
		return nil, fmt.Errorf("NGSL list is not loaded; run `lexipipe words fetch --list ngsl` first")
	}

	stepColor.Println("[4] Computing coverage...")
	manualTerms, err := analyze.LoadTermFile(p.config.Words.SpecializedTerms)
	if err != nil {
		return nil, err
	}
	aiTerms, err := p.provider.MineTerms(ctx, rewrite.Body, 20)
	if err != nil {
		warnColor.Printf("  warn: specialized-term mining failed: %v\n", err)
		aiTerms = nil
	}
	if len(aiTerms) > 0 {
		fmt.Printf("  Detected specialized terms: %s\n", strings.Join(aiTerms, ", "))
	}

	exclude := make(map[string]bool, len(manualTerms)+len(aiTerms))
	for t := range manualTerms {
		exclude[t] = true
	}
	for _, t := range aiTerms {
		exclude[t] = true
	}

	metrics := analyze.Coverage(rewrite.Body, wordsByList, exclude)
	metrics.SpecializedManual = sortedTerms(manualTerms)
	metrics.SpecializedAI = aiTerms

	fmt.Printf("  tokens_total (raw): %d\n", metrics.TokensTotal)
	fmt.Printf("  tokens_total (specialized-excluded): %d\n", metrics.TokensTotalFiltered)
	for _, line := range metrics.SummaryLines() {
		fmt.Printf("  %s\n", line)
	}

	result := &IngestResult{Article: article, Rewrite: rewrite, Metrics: metrics}

	if opts.DryRun {
		printPreview(rewrite.Body, opts.Level)
		return result, nil
	}

	if opts.Audio {
		stepColor.Println("[5] Synthesizing audio...")
		path, err := p.synth.Synthesize(ctx, rewrite.Body, article.Title, opts.AudioLang)
		if err != nil {
			warnColor.Printf("  warn: audio synthesis failed: %v\n", err)
		} else {
			result.AudioPath = path
			fmt.Printf("  Audio: %s\n", path)
		}
	}

	stepColor.Println("[6] Recording article...")
	pageID, err := p.client.CreateArticle(ctx, notion.ArticleInput{
		Title:    article.Title,
		URL:      opts.URL,
		Level:    opts.Level,
		Body:     rewrite.Body,
		Glossary: rewrite.Glossary,
		Metrics:  metrics,
		Tags:     opts.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("record article: %w", err)
	}
	result.PageID = pageID
	fmt.Printf("  Created page: %s\n", pageID)

	if opts.SkipWordCount {
		stepColor.Println("[7] Updating word counters... (skipped)")
		return result, nil
	}

	stepColor.Println("[7] Updating word counters...")
	encounters := countEncounters(rewrite.Body, entries)
	if len(encounters) > 0 {
		updated, err := p.words.ApplyEncounters(encounters, time.Now())
		if err != nil {
			return nil, fmt.Errorf("apply word counts: %w", err)
		}
		fmt.Printf("  Updated %d words\n", updated)
		if err := p.client.MarkCountsApplied(ctx, pageID); err != nil {
			warnColor.Printf("  warn: could not mark counts applied: %v\n", err)
		}
	}
	return result, nil
}

// ApplyCounts updates word counters from an already recorded article page
func (p *Pipeline) ApplyCounts(ctx context.Context, pageID string) (int, error) {
	_, body, err := p.client.GetArticleBody(ctx, pageID)
	if err != nil {
		return 0, err
	}
	if body == "" {
		return 0, fmt.Errorf("article %s has an empty body", pageID)
	}

	applied, err := p.client.CountsApplied(ctx, pageID)
	if err == nil && applied {
		fmt.Printf("counts already applied, skipping: %s\n", pageID)
		return 0, nil
	}

	encounters, err := p.bodyEncounters(body)
	if err != nil {
		return 0, err
	}
	updated, err := p.words.ApplyEncounters(encounters, time.Now())
	if err != nil {
		return 0, err
	}
	if err := p.client.MarkCountsApplied(ctx, pageID); err != nil {
		warnColor.Printf("warn: could not mark counts applied: %v\n", err)
	}
	return updated, nil
}

// UnapplyCounts reverts word counters for a recorded article page
func (p *Pipeline) UnapplyCounts(ctx context.Context, pageID string) (int, error) {
	_, body, err := p.client.GetArticleBody(ctx, pageID)
	if err != nil {
		return 0, err
	}
	if body == "" {
		return 0, fmt.Errorf("article %s has an empty body", pageID)
	}

	encounters, err := p.bodyEncounters(body)
	if err != nil {
		return 0, err
	}
	if len(encounters) == 0 {
		fmt.Println("no catalog words found in article, nothing to revert")
		return 0, nil
	}
	reverted, err := p.words.RevertEncounters(encounters)
	if err != nil {
		return 0, err
	}
	if err := p.client.UnmarkCountsApplied(ctx, pageID); err != nil {
		warnColor.Printf("warn: could not clear counts mark: %v\n", err)
	}
	return reverted, nil
}

// bodyEncounters counts catalog-word occurrences in a body text
func (p *Pipeline) bodyEncounters(body string) (map[string]int, error) {
	entries, err := p.words.Load()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("word catalog is empty; seed it first")
	}
	return countEncounters(body, entries), nil
}

// countEncounters tallies occurrences of every catalog word in a body text,
// lemma-folding tokens onto the catalog. The registry is the full catalog,
// list-tagged or not, so seeded words accumulate counters too.
func countEncounters(body string, entries map[string]*model.WordEntry) map[string]int {
	registry := func(w string) bool {
		_, ok := entries[w]
		return ok
	}
	encounters := make(map[string]int)
	for _, t := range analyze.FoldTokens(analyze.Tokenize(body), registry) {
		if registry(t) {
			encounters[t]++
		}
	}
	return encounters
}

func printPreview(body, level string) {
	fmt.Printf("\n===== [%s Rewrite Preview] =====\n", level)
	if len(body) > 2000 {
		fmt.Println(body[:2000] + "\n... (truncated)")
	} else {
		fmt.Println(body)
	}
	fmt.Printf("===== [/%s Rewrite Preview] =====\n\n", level)
}

func sortedTerms(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
