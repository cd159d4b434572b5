package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lexipipe/internal/notion"
)

var (
	setupParentID string
	setupEnvFile  string
)

// setupCmd represents the setup command
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision the workspace databases",
	Long: `Setup creates the Articles, Patterns and Outputs databases under a
parent page and records their IDs in the .env file.

Example:
  lexipipe setup --parent-id 27e5a1b2c3d4
  lexipipe setup --parent-id 27e5a1b2c3d4 --env-file .env.local`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().StringVar(&setupParentID, "parent-id", "", "parent page ID for the new databases")
	setupCmd.Flags().StringVar(&setupEnvFile, "env-file", ".env", "env file to record the database IDs in")
	_ = setupCmd.MarkFlagRequired("parent-id")
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Notion.Token == "" {
		return fmt.Errorf("NOTION_TOKEN is not set")
	}
	client := notion.NewClient(cfg.Notion)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := client.Provision(ctx, setupParentID)
	if err != nil {
		return err
	}
	fmt.Printf("Created databases:\n")
	fmt.Printf("  Articles: %s\n", result.ArticlesDB)
	fmt.Printf("  Patterns: %s\n", result.PatternsDB)
	fmt.Printf("  Outputs:  %s\n", result.OutputsDB)

	err = notion.UpdateEnvFile(setupEnvFile, map[string]string{
		"ARTICLES_DB_ID": result.ArticlesDB,
		"PATTERNS_DB_ID": result.PatternsDB,
		"OUTPUTS_DB_ID":  result.OutputsDB,
	})
	if err != nil {
		return err
	}
	fmt.Printf("\nRecorded database IDs in %s\n", setupEnvFile)
	return nil
}
