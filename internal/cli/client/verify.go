package client

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// VerifyQuestion represents one question outcome in a verification run.
type VerifyQuestion struct {
	Question string `json:"question"`
	Correct  bool   `json:"correct"`
}

// VerifyCategory represents one category in a verification run.
type VerifyCategory struct {
	Total     int              `json:"total"`
	Correct   int              `json:"correct"`
	Score     int              `json:"score"`
	Questions []VerifyQuestion `json:"questions"`
}

// VerifyReport represents the verification run response.
type VerifyReport struct {
	Total        int                       `json:"total"`
	Correct      int                       `json:"correct"`
	OverallScore int                       `json:"overall_score"`
	ByCategory   map[string]VerifyCategory `json:"by_category"`
	Timestamp    string                    `json:"timestamp"`
}

// VerifyCmd creates the verify command.
func VerifyCmd() *cobra.Command {
	var showQuestions bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run the retrieval verification battery",
		Long:  "Runs the built-in question battery against the knowledge store and reports per-category retrieval scores.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runVerify(showQuestions, outputJSON)
		},
	}

	cmd.Flags().BoolVarP(&showQuestions, "questions", "q", false, "Show per-question results")

	return cmd
}

func runVerify(showQuestions, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	resp, err := api.Post("/verify", nil)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	var report VerifyReport
	if err := json.Unmarshal(resp.Data, &report); err != nil {
		return fmt.Errorf("failed to parse report: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Overall: %d/%d correct (%d%%)\n\n", report.Correct, report.Total, report.OverallScore)

	names := make([]string, 0, len(report.ByCategory))
	for name := range report.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cat := report.ByCategory[name]
		fmt.Printf("%-20s %d/%d (%d%%)\n", name, cat.Correct, cat.Total, cat.Score)
		if showQuestions {
			for _, q := range cat.Questions {
				mark := "PASS"
				if !q.Correct {
					mark = "FAIL"
				}
				fmt.Printf("  [%s] %s\n", mark, q.Question)
			}
		}
	}

	return nil
}
