// Package verify scores the knowledge store against a battery of
// questions with known keyword expectations. It measures retrieval
// coverage, not answer quality: a question passes when the top search
// hits mention enough of the expected keywords.
package verify

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/javariai/corpus/internal/domain"
	"github.com/javariai/corpus/internal/service"
)

const (
	// matchCount is how many hits each question retrieves.
	matchCount = 5
	// topResults is how many of those hits are inspected for keywords.
	topResults = 3
)

// Searcher runs a semantic search over the knowledge store.
type Searcher interface {
	Search(ctx context.Context, query string, matchCount int) ([]*service.SearchMatch, error)
}

// QuestionResult is the outcome for a single question.
type QuestionResult struct {
	Question string
	Correct  bool
}

// CategoryReport aggregates results within one category.
type CategoryReport struct {
	Total     int
	Correct   int
	Score     int // percentage, 0-100
	Questions []QuestionResult
}

// Report is the outcome of a full verification run.
type Report struct {
	Total        int
	Correct      int
	OverallScore int // percentage, 0-100
	ByCategory   map[string]*CategoryReport
	Timestamp    time.Time
}

// Harness runs the question battery against a Searcher.
type Harness struct {
	searcher Searcher
	battery  []domain.TestQuestion
}

// NewHarness creates a Harness with the default question battery.
func NewHarness(searcher Searcher) *Harness {
	return NewHarnessWithBattery(searcher, DefaultBattery())
}

// NewHarnessWithBattery creates a Harness with a custom battery (for testing)
func NewHarnessWithBattery(searcher Searcher, battery []domain.TestQuestion) *Harness {
	return &Harness{searcher: searcher, battery: battery}
}

// Run evaluates every question and always returns a report. A search
// failure marks the question incorrect instead of aborting the run.
func (h *Harness) Run(ctx context.Context) *Report {
	report := &Report{
		ByCategory: make(map[string]*CategoryReport),
		Timestamp:  time.Now().UTC(),
	}

	for _, q := range h.battery {
		cat, ok := report.ByCategory[q.Category]
		if !ok {
			cat = &CategoryReport{}
			report.ByCategory[q.Category] = cat
		}

		correct := h.evaluate(ctx, q)
		cat.Total++
		report.Total++
		if correct {
			cat.Correct++
			report.Correct++
		}
		cat.Questions = append(cat.Questions, QuestionResult{
			Question: q.Text,
			Correct:  correct,
		})
	}

	for _, cat := range report.ByCategory {
		cat.Score = percentage(cat.Correct, cat.Total)
	}
	report.OverallScore = percentage(report.Correct, report.Total)
	return report
}

func (h *Harness) evaluate(ctx context.Context, q domain.TestQuestion) bool {
	matches, err := h.searcher.Search(ctx, q.Text, matchCount)
	if err != nil {
		log.Printf("verify: search failed for %q: %v", q.Text, err)
		return false
	}
	if len(matches) == 0 {
		return false
	}

	if len(matches) > topResults {
		matches = matches[:topResults]
	}
	var sb strings.Builder
	for _, m := range matches {
		sb.WriteString(m.Title)
		sb.WriteString(" ")
		sb.WriteString(m.Body)
		sb.WriteString(" ")
	}
	blob := strings.ToLower(sb.String())

	found := 0
	for _, keyword := range q.ExpectedKeywords {
		if strings.Contains(blob, strings.ToLower(keyword)) {
			found++
		}
	}

	// At least half the keywords must show up, rounding up.
	return found >= (len(q.ExpectedKeywords)+1)/2
}

func percentage(correct, total int) int {
	if total == 0 {
		return 0
	}
	// Round half up, matching integer percent reporting elsewhere.
	return (correct*100 + total/2) / total
}
