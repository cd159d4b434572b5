package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"lexipipe/internal/model"
	"lexipipe/internal/pipeline"
	"lexipipe/internal/wordlist"
)

var (
	wordsList      string
	wordsSourceURL string
	wordsCatalog   string
	wordsExportCSV string
	wordsDryRun    bool
	wordsResetMode string
)

// wordsCmd groups the word catalog commands
var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Manage the local word catalog",
	Long: `The word catalog is a CSV file tracking which core-list words you have
seen and how often. Ingest updates it automatically; these commands maintain
it directly.`,
}

var wordsFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a published word list into the catalog",
	Long: `Fetch downloads one of the published core word lists and merges it into
the catalog under its list tag.

Example:
  lexipipe words fetch --list ngsl
  lexipipe words fetch --list nawl --csv nawl.csv
  lexipipe words fetch --list ngsl-spoken --dry-run`,
	RunE: runWordsFetch,
}

var wordsSeedCmd = &cobra.Command{
	Use:   "seed <csv>",
	Short: "Merge bare words from a one-column CSV into the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := wordsRepo()
		if err != nil {
			return err
		}
		rows, err := repo.SeedCSV(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Merged %d row(s) from %s into %s\n", rows, args[0], repo.Path())
		return nil
	},
}

var wordsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show catalog size and per-list counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := wordsRepo()
		if err != nil {
			return err
		}
		entries, err := repo.Load()
		if err != nil {
			return err
		}

		seen := 0
		for _, e := range entries {
			if e.SeenTokens > 0 {
				seen++
			}
		}
		fmt.Printf("Catalog: %s\n", repo.Path())
		fmt.Printf("  words total: %d\n", len(entries))
		fmt.Printf("  words seen:  %d\n", seen)

		byList := wordlist.Catalog(entries)
		for _, tag := range model.AnalysisOrder {
			if set := byList[tag]; set != nil {
				fmt.Printf("  %-7s %d\n", tag+":", len(set))
			}
		}
		return nil
	},
}

var wordsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the catalog words, one per line",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := wordsRepo()
		if err != nil {
			return err
		}
		entries, err := repo.Load()
		if err != nil {
			return err
		}
		words := make([]string, 0, len(entries))
		for w := range entries {
			words = append(words, w)
		}
		sort.Strings(words)
		fmt.Println(strings.Join(words, "\n"))
		return nil
	},
}

var wordsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the catalog counters or drop the catalog",
	Long: `Reset mode "zero" clears every counter but keeps the words; mode
"archive" drops every entry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := wordsRepo()
		if err != nil {
			return err
		}
		before, err := repo.Reset(wordsResetMode)
		if err != nil {
			return err
		}
		fmt.Printf("Reset %d entr(ies) with mode %q\n", before, wordsResetMode)
		return nil
	},
}

var wordsApplyCmd = &cobra.Command{
	Use:   "apply-counts <page-id>",
	Short: "Count an article's stored body into the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := wordsPipeline()
		if err != nil {
			return err
		}
		updated, err := p.ApplyCounts(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Applied counts for %d word(s)\n", updated)
		return nil
	},
}

var wordsUnapplyCmd = &cobra.Command{
	Use:   "unapply-counts <page-id>",
	Short: "Revert an article's counts from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := wordsPipeline()
		if err != nil {
			return err
		}
		updated, err := p.UnapplyCounts(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Reverted counts for %d word(s)\n", updated)
		return nil
	},
}

var wordsPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Mirror the catalog into the Words database",
	RunE:  runWordsPush,
}

func init() {
	rootCmd.AddCommand(wordsCmd)
	wordsCmd.AddCommand(wordsFetchCmd, wordsSeedCmd, wordsSummaryCmd, wordsExportCmd,
		wordsResetCmd, wordsApplyCmd, wordsUnapplyCmd, wordsPushCmd)

	wordsCmd.PersistentFlags().StringVar(&wordsCatalog, "catalog", "", "catalog CSV path (default from config)")

	wordsFetchCmd.Flags().StringVar(&wordsList, "list", wordlist.SourceNGSL, "list to fetch (ngsl, nawl, ngsl-spoken)")
	wordsFetchCmd.Flags().StringVar(&wordsSourceURL, "source-url", "", "override the published list URL")
	wordsFetchCmd.Flags().StringVar(&wordsExportCSV, "csv", "", "also save the fetched list to a one-column CSV file")
	wordsFetchCmd.Flags().BoolVar(&wordsDryRun, "dry-run", false, "parse the list without touching the catalog")

	wordsResetCmd.Flags().StringVar(&wordsResetMode, "mode", wordlist.ResetZero, "reset mode (zero, archive)")
}

func wordsPipeline() (*pipeline.Pipeline, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if wordsCatalog != "" {
		cfg.Words.CSVPath = wordsCatalog
	}
	return pipeline.NewPipeline(cfg)
}

func wordsRepo() (*wordlist.Repo, error) {
	p, err := wordsPipeline()
	if err != nil {
		return nil, err
	}
	return p.Words(), nil
}

func runWordsFetch(cmd *cobra.Command, args []string) error {
	label, err := wordlist.ListLabel(wordsList)
	if err != nil {
		return err
	}
	url := wordsSourceURL
	if url == "" {
		url = wordlist.DefaultSources[wordsList]
	}

	p, err := wordsPipeline()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	fmt.Printf("Fetching %s list from %s\n", label, url)
	words, err := wordlist.FetchList(ctx, p.Fetcher(), url)
	if err != nil {
		return err
	}
	fmt.Printf("  parsed %d word(s)\n", len(words))

	if wordsExportCSV != "" {
		if err := wordlist.WriteColumn(wordsExportCSV, words); err != nil {
			return err
		}
		fmt.Printf("  saved list -> %s\n", wordsExportCSV)
	}

	if wordsDryRun {
		sample := words
		if len(sample) > 10 {
			sample = sample[:10]
		}
		fmt.Printf("  sample: %s\n", strings.Join(sample, ", "))
		fmt.Println("Dry run: catalog not modified")
		return nil
	}

	res, err := p.Words().MergeList(words, label)
	if err != nil {
		return err
	}
	fmt.Printf("Merged into %s: %d new, %d tagged, %d total\n",
		p.Words().Path(), res.Created, res.Tagged, res.Total)
	return nil
}

func runWordsPush(cmd *cobra.Command, args []string) error {
	p, err := wordsPipeline()
	if err != nil {
		return err
	}
	entries, err := p.Words().Load()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("word catalog is empty; run `lexipipe words fetch` first")
	}

	words := make([]string, 0, len(entries))
	for w := range entries {
		words = append(words, w)
	}
	sort.Strings(words)

	bar := newProgressBar(len(words), "pushing words")
	created, err := p.Client().PushWords(context.Background(), words, func(string) {
		_ = bar.Add(1)
	})
	fmt.Println()
	if err != nil {
		return err
	}
	fmt.Printf("Created %d new word page(s) (%d already present)\n", created, len(words)-created)
	return nil
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetPredictTime(true),
	)
}
