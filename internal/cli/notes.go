package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"lexipipe/internal/pipeline"
)

var (
	notesArticleID string
	notesExtraLang string
	notesAutoSave  bool
)

// notesCmd represents the notes command
var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Build vocabulary notes for an ingested article",
	Long: `Notes explains terms from an article one at a time and appends the
formatted notes to the article page.

Example:
  lexipipe notes --article-id 27e5a1b2c3d4
  lexipipe notes --article-id 27e5a1b2c3d4 --extra-language Russian --auto-save`,
	RunE: runNotes,
}

func init() {
	rootCmd.AddCommand(notesCmd)

	notesCmd.Flags().StringVar(&notesArticleID, "article-id", "", "article page ID to annotate")
	notesCmd.Flags().StringVar(&notesExtraLang, "extra-language", "", "add translations into this language")
	notesCmd.Flags().BoolVar(&notesAutoSave, "auto-save", false, "save without asking for confirmation")
	_ = notesCmd.MarkFlagRequired("article-id")
}

func runNotes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	_, err = p.RunNotes(context.Background(), pipeline.NotesOptions{
		ArticleID:     notesArticleID,
		ExtraLanguage: notesExtraLang,
		AutoSave:      notesAutoSave,
	}, os.Stdin, os.Stdout)
	return err
}
