package client

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// KnowledgeStats represents the knowledge store statistics from the API.
type KnowledgeStats struct {
	TotalRecords      int            `json:"total_records"`
	WithEmbeddings    int            `json:"with_embeddings"`
	Categories        int            `json:"categories"`
	ByCategory        map[string]int `json:"by_category"`
	EmbeddingCoverage int            `json:"embedding_coverage"`
	LastUpdated       string         `json:"last_updated,omitempty"`
}

// StatsCmd creates the stats command.
func StatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show knowledge store statistics",
		Long:  "Shows record counts, per-category breakdown, and embedding coverage.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runStats(outputJSON)
		},
	}

	return cmd
}

func runStats(outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	resp, err := api.Get("/knowledge/stats")
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	var stats KnowledgeStats
	if err := json.Unmarshal(resp.Data, &stats); err != nil {
		return fmt.Errorf("failed to parse stats: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Total records: %d\n", stats.TotalRecords)
	fmt.Printf("With embeddings: %d (%d%%)\n", stats.WithEmbeddings, stats.EmbeddingCoverage)
	if stats.LastUpdated != "" {
		fmt.Printf("Last updated: %s\n", stats.LastUpdated)
	}

	if len(stats.ByCategory) > 0 {
		fmt.Printf("\nCategories (%d):\n", stats.Categories)
		names := make([]string, 0, len(stats.ByCategory))
		for name := range stats.ByCategory {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-24s %d\n", name, stats.ByCategory[name])
		}
	}

	return nil
}
