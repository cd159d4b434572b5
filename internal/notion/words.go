package notion

import (
	"context"
	"fmt"
	"strings"
)

// WordPage is one row of the Words database
type WordPage struct {
	ID           string
	Word         string
	UsedInOutput int
}

// LoadWordPages returns every word row keyed by lowercase word
func (c *Client) LoadWordPages(ctx context.Context) (map[string]WordPage, error) {
	if c.WordsDB == "" {
		return nil, fmt.Errorf("words database ID is not configured")
	}
	pages, err := c.QueryDatabase(ctx, c.WordsDB, nil)
	if err != nil {
		return nil, err
	}

	out := make(map[string]WordPage, len(pages))
	for _, page := range pages {
		word := strings.ToLower(page.Text("Word"))
		if word == "" {
			continue
		}
		out[word] = WordPage{
			ID:           page.ID,
			Word:         word,
			UsedInOutput: int(page.NumberValue("UsedInOutput")),
		}
	}
	return out, nil
}

// LoadWordSet returns the lowercase words known to the Words database
func (c *Client) LoadWordSet(ctx context.Context) (map[string]bool, error) {
	pages, err := c.LoadWordPages(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(pages))
	for w := range pages {
		set[w] = true
	}
	return set, nil
}

// IncrementUsedInOutput adds per-word counts to the Words database.
// Words without a page are skipped. Returns the number of updated pages.
func (c *Client) IncrementUsedInOutput(ctx context.Context, encounters map[string]int) (int, error) {
	mapping, err := c.LoadWordPages(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for w, count := range encounters {
		page, ok := mapping[w]
		if !ok {
			continue
		}
		err := c.UpdatePage(ctx, page.ID, Props{
			"UsedInOutput": NumberProp(float64(page.UsedInOutput + count)),
		})
		if err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// PushWords upserts catalog words into the Words database and returns the
// number of pages created.
func (c *Client) PushWords(ctx context.Context, words []string, progress func(word string)) (int, error) {
	if c.WordsDB == "" {
		return 0, fmt.Errorf("words database ID is not configured")
	}
	existing, err := c.LoadWordPages(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if progress != nil {
			progress(w)
		}
		if _, ok := existing[w]; ok {
			continue
		}
		payload := map[string]any{
			"parent": map[string]any{"database_id": c.WordsDB},
			"properties": Props{
				"Word":         TitleProp(w),
				"UsedInOutput": NumberProp(0),
			},
		}
		if _, err := c.CreatePage(ctx, payload); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
