package pattern

import (
	"context"
	"fmt"

	"lexipipe/internal/model"
	"lexipipe/internal/notion"
)

// SeedResult summarises a seeding run
type SeedResult struct {
	Created int
	Skipped int
}

// Seed pushes patterns into the workspace, skipping names that already
// exist there. The duplicate check must see the full pattern list, so a
// listing failure aborts the run instead of re-creating everything.
func Seed(ctx context.Context, client *notion.Client, seeds []model.Pattern, progress func(name string)) (*SeedResult, error) {
	patterns, err := client.ListPatterns(ctx)
	if err != nil {
		return nil, fmt.Errorf("list existing patterns: %w", err)
	}
	existing := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		existing[p.Name] = true
	}

	res := &SeedResult{}
	for _, p := range seeds {
		if progress != nil {
			progress(p.Name)
		}
		if existing[p.Name] {
			res.Skipped++
			continue
		}
		if _, err := client.CreatePattern(ctx, p); err != nil {
			return res, err
		}
		res.Created++
	}
	return res, nil
}
