package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javariai/corpus/internal/cli"
	"github.com/javariai/corpus/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "corpusd",
		Short: "Corpus daemon",
		Long:  "Corpus daemon for running the knowledge ingestion API server",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
