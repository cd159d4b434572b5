package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lexipipe/internal/pipeline"
)

var (
	ingestLevel     string
	ingestTags      []string
	ingestDryRun    bool
	ingestSkipCount bool
	ingestAudio     bool
	ingestAudioLang string
	ingestTimeout   time.Duration
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <url>",
	Short: "Turn a web article into a graded reader",
	Long: `Ingest extracts an article from a URL, rewrites it to the target CEFR
level, measures vocabulary coverage against the core word lists, and records
the result in the Articles database.

Example:
  lexipipe ingest https://example.com/article --level B1
  lexipipe ingest https://example.com/article --level A2 --dry-run
  lexipipe ingest https://example.com/article --audio --tags defi,markets`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestLevel, "level", "B1", "target CEFR level (A2, B1, B2, C1)")
	ingestCmd.Flags().StringSliceVar(&ingestTags, "tags", nil, "tags for the article page")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "analyze and preview without writing to the workspace")
	ingestCmd.Flags().BoolVar(&ingestSkipCount, "skip-word-count", false, "do not update the local word counters")
	ingestCmd.Flags().BoolVar(&ingestAudio, "audio", false, "synthesize an MP3 of the rewritten body")
	ingestCmd.Flags().StringVar(&ingestAudioLang, "audio-lang", "en", "TTS language code")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 5*time.Minute, "overall ingest timeout")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	result, err := p.Ingest(ctx, pipeline.IngestOptions{
		URL:           args[0],
		Level:         ingestLevel,
		Tags:          ingestTags,
		DryRun:        ingestDryRun,
		SkipWordCount: ingestSkipCount,
		Audio:         ingestAudio,
		AudioLang:     ingestAudioLang,
	})
	if err != nil {
		return err
	}

	if result.PageID != "" {
		fmt.Printf("\nDone. Article page: %s\n", result.PageID)
	}
	return nil
}
