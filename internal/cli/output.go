package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lexipipe/internal/pipeline"
)

var (
	outputArticleID string
	outputDryRun    bool
)

// outputCmd represents the output command
var outputCmd = &cobra.Command{
	Use:   "output",
	Short: "Practice writing with article keywords and a sentence pattern",
	Long: `Output runs one writing rep against an ingested article: it suggests
keywords from the article that overlap your practice vocabulary, lets you pick
a sentence pattern, corrects your sentence with the LLM, and records the rep
in the Outputs database.

Example:
  lexipipe output --article-id 27e5a1b2c3d4
  lexipipe output --article-id 27e5a1b2c3d4 --dry-run`,
	RunE: runOutput,
}

func init() {
	rootCmd.AddCommand(outputCmd)

	outputCmd.Flags().StringVar(&outputArticleID, "article-id", "", "article page ID to practice against")
	outputCmd.Flags().BoolVar(&outputDryRun, "dry-run", false, "correct the sentence without recording anything")
	_ = outputCmd.MarkFlagRequired("article-id")
}

func runOutput(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	result, err := p.RunOutput(context.Background(), pipeline.OutputOptions{
		ArticleID: outputArticleID,
		DryRun:    outputDryRun,
	}, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}

	if result.PageID != "" && verbose {
		fmt.Fprintf(os.Stderr, "output page: %s\n", result.PageID)
	}
	return nil
}
