package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// CreateImportJobRequest represents the import job creation request.
type CreateImportJobRequest struct {
	SourceType     string   `json:"source_type"`
	SourceLocation string   `json:"source_location"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags,omitempty"`
}

// CreateImportJobResponse represents the import job creation response.
type CreateImportJobResponse struct {
	JobID             string `json:"job_id"`
	Status            string `json:"status"`
	EstimatedDuration string `json:"estimated_duration"`
}

// ImportCmd creates the import command.
func ImportCmd() *cobra.Command {
	var (
		sourceType string
		category   string
		tags       []string
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "import <source-location>",
		Short: "Queue a bulk import job",
		Long: `Queues a bulk import job for the given source location.

Source types:
  single-url        one web page
  link-list         sitemap or page of links
  tabular           CSV file
  api-feed          JSON API endpoint
  syndication-feed  RSS or Atom feed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runImport(args[0], sourceType, category, tags, watch, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&sourceType, "type", "t", "", "Source type (required)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category for imported records (required)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag to attach to imported records (repeatable)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Poll job progress until it finishes")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func runImport(sourceLocation, sourceType, category string, tags []string, watch, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	resp, err := api.Post("/import-jobs", CreateImportJobRequest{
		SourceType:     sourceType,
		SourceLocation: sourceLocation,
		Category:       category,
		Tags:           tags,
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	var created CreateImportJobResponse
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON && !watch {
		output, _ := json.MarshalIndent(created, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Job queued: %s\n", created.JobID)
	fmt.Printf("Estimated duration: %s\n", created.EstimatedDuration)

	if !watch {
		fmt.Printf("\nCheck progress with: corpus jobs %s\n", created.JobID)
		return nil
	}

	return watchJob(api, created.JobID)
}

func watchJob(api *APIClient, jobID string) error {
	for {
		time.Sleep(2 * time.Second)

		job, err := fetchJob(api, jobID)
		if err != nil {
			return err
		}

		switch job.Status {
		case "completed":
			fmt.Printf("\rProcessed %d/%d records\n", job.Processed, job.Total)
			fmt.Println("Import completed.")
			return nil
		case "failed":
			fmt.Printf("\rProcessed %d/%d records\n", job.Processed, job.Total)
			return fmt.Errorf("import failed: %s", job.Error)
		default:
			fmt.Printf("\rProcessed %d/%d records", job.Processed, job.Total)
		}
	}
}
