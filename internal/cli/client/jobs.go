package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// ImportJob represents an import job from the API.
type ImportJob struct {
	ID             string   `json:"id"`
	SourceType     string   `json:"source_type"`
	SourceLocation string   `json:"source_location"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags,omitempty"`
	Status         string   `json:"status"`
	Processed      int      `json:"processed"`
	Total          int      `json:"total"`
	CreatedAt      string   `json:"created_at"`
	StartedAt      string   `json:"started_at,omitempty"`
	CompletedAt    string   `json:"completed_at,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// JobsCmd creates the jobs command.
func JobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs [job_id]",
		Short: "List import jobs or show one job",
		Long:  "Lists all import jobs, or shows the full status of a single job when an ID is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			if len(args) == 1 {
				return runJobsGet(args[0], outputJSON)
			}
			return runJobsList(outputJSON)
		},
	}

	return cmd
}

func fetchJob(api *APIClient, jobID string) (*ImportJob, error) {
	resp, err := api.Get(fmt.Sprintf("/import-jobs/%s", jobID))
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	var job ImportJob
	if err := json.Unmarshal(resp.Data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job: %w", err)
	}
	return &job, nil
}

func runJobsGet(jobID string, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	job, err := fetchJob(api, jobID)
	if err != nil {
		return err
	}

	if outputJSON {
		output, _ := json.MarshalIndent(job, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Job: %s\n", job.ID)
	fmt.Printf("Status: %s\n", job.Status)
	fmt.Printf("Source: %s (%s)\n", job.SourceLocation, job.SourceType)
	fmt.Printf("Category: %s\n", job.Category)
	fmt.Printf("Progress: %d/%d\n", job.Processed, job.Total)
	fmt.Printf("Created: %s\n", job.CreatedAt)
	if job.StartedAt != "" {
		fmt.Printf("Started: %s\n", job.StartedAt)
	}
	if job.CompletedAt != "" {
		fmt.Printf("Completed: %s\n", job.CompletedAt)
	}
	if job.Error != "" {
		fmt.Printf("Error: %s\n", job.Error)
	}

	return nil
}

func runJobsList(outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	resp, err := api.Get("/import-jobs")
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}

	var jobList []ImportJob
	if err := json.Unmarshal(resp.Data, &jobList); err != nil {
		return fmt.Errorf("failed to parse jobs: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(jobList, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(jobList) == 0 {
		fmt.Println("No import jobs.")
		return nil
	}

	for _, job := range jobList {
		fmt.Printf("%s  %-10s  %4d/%-4d  %-16s  %s\n",
			job.ID, job.Status, job.Processed, job.Total, job.SourceType, job.SourceLocation)
	}

	return nil
}
