package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javariai/corpus/internal/cli"
	"github.com/javariai/corpus/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "corpus",
		Short: "Corpus CLI - Bulk knowledge ingestion",
		Long: `Corpus CLI provides commands to run bulk imports into the knowledge
store and to inspect what made it in.

Environment variables:
  CORPUS_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.ImportCmd())
	rootCmd.AddCommand(client.JobsCmd())
	rootCmd.AddCommand(client.StatsCmd())
	rootCmd.AddCommand(client.VerifyCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
