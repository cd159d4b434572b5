package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lexipipe/internal/pattern"
	"lexipipe/internal/pipeline"
)

var patternsDryRun bool

// patternsCmd groups the sentence-pattern commands
var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Manage the sentence pattern library",
}

var patternsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the Patterns database with the canonical sentence patterns",
	Long: `Seed harvests opinion phrases from the web, normalizes them onto the
canonical pattern catalog, and creates any pattern the Patterns database does
not have yet. The built-in catalog backfills patterns the harvest misses, so
seeding works offline too.`,
	RunE: runPatternsSeed,
}

func init() {
	rootCmd.AddCommand(patternsCmd)
	patternsCmd.AddCommand(patternsSeedCmd)

	patternsSeedCmd.Flags().BoolVar(&patternsDryRun, "dry-run", false, "print the seeds without writing to the workspace")
}

func runPatternsSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	seeds := pattern.Harvest(ctx, p.Fetcher())
	fmt.Printf("Collected %d pattern seed(s)\n", len(seeds))

	if patternsDryRun {
		for _, pat := range seeds {
			fmt.Printf("  %-18s (%s, %s)\n    %s\n", pat.Name, pat.CEFR, pat.Source, pat.Template)
		}
		fmt.Println("Dry run: workspace not modified")
		return nil
	}

	bar := newProgressBar(len(seeds), "seeding patterns")
	result, err := pattern.Seed(ctx, p.Client(), seeds, func(string) {
		_ = bar.Add(1)
	})
	fmt.Println()
	if err != nil {
		return err
	}
	fmt.Printf("Created %d pattern(s), skipped %d existing\n", result.Created, result.Skipped)
	return nil
}
