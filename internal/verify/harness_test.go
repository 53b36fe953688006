package verify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javariai/corpus/internal/domain"
	"github.com/javariai/corpus/internal/service"
)

// cannedSearcher returns fixed matches per query.
type cannedSearcher struct {
	matches map[string][]*service.SearchMatch
	errs    map[string]error
	calls   []int
}

func (s *cannedSearcher) Search(ctx context.Context, query string, matchCount int) ([]*service.SearchMatch, error) {
	s.calls = append(s.calls, matchCount)
	if err, ok := s.errs[query]; ok {
		return nil, err
	}
	return s.matches[query], nil
}

func match(title, body string) *service.SearchMatch {
	return &service.SearchMatch{Title: title, Body: body, Score: 0.9}
}

func TestHarness_Run_Scoring(t *testing.T) {
	battery := []domain.TestQuestion{
		{Category: "real_estate", Text: "What is cap rate?", ExpectedKeywords: []string{"cap rate", "noi", "property value", "return"}},
		{Category: "real_estate", Text: "What is earnest money?", ExpectedKeywords: []string{"earnest money", "deposit", "good faith"}},
		{Category: "grants", Text: "What is SBIR funding?", ExpectedKeywords: []string{"sbir", "small business", "innovation", "research"}},
	}

	searcher := &cannedSearcher{matches: map[string][]*service.SearchMatch{
		// 2 of 4 keywords in the top results: passes (>= ceil(4/2)).
		"What is cap rate?": {
			match("Cap Rate Basics", "Cap rate divides NOI by purchase price."),
		},
		// 1 of 3 keywords: fails (needs ceil(3/2) = 2).
		"What is earnest money?": {
			match("Buying a Home", "A deposit shows the seller you are serious."),
		},
		// No results: fails.
		"What is SBIR funding?": nil,
	}}

	report := NewHarnessWithBattery(searcher, battery).Run(context.Background())

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Correct)
	assert.Equal(t, 33, report.OverallScore)

	re := report.ByCategory["real_estate"]
	require.NotNil(t, re)
	assert.Equal(t, 2, re.Total)
	assert.Equal(t, 1, re.Correct)
	assert.Equal(t, 50, re.Score)
	require.Len(t, re.Questions, 2)
	assert.True(t, re.Questions[0].Correct)
	assert.False(t, re.Questions[1].Correct)

	grants := report.ByCategory["grants"]
	require.NotNil(t, grants)
	assert.Equal(t, 0, grants.Score)
}

func TestHarness_Run_SearchErrorCountsAsIncorrect(t *testing.T) {
	battery := []domain.TestQuestion{
		{Category: "legal", Text: "What is a living trust?", ExpectedKeywords: []string{"living trust", "probate"}},
	}
	searcher := &cannedSearcher{errs: map[string]error{
		"What is a living trust?": errors.New("embedding service down"),
	}}

	report := NewHarnessWithBattery(searcher, battery).Run(context.Background())

	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 0, report.Correct)
	assert.Equal(t, 0, report.OverallScore)
	assert.False(t, report.ByCategory["legal"].Questions[0].Correct)
}

func TestHarness_Run_OnlyTopThreeResultsInspected(t *testing.T) {
	battery := []domain.TestQuestion{
		{Category: "legal", Text: "What is an NDA?", ExpectedKeywords: []string{"nda", "confidentiality"}},
	}
	searcher := &cannedSearcher{matches: map[string][]*service.SearchMatch{
		"What is an NDA?": {
			match("Unrelated", "nothing here"),
			match("Also Unrelated", "nothing here either"),
			match("Still Unrelated", "nope"),
			// Keywords only beyond the top 3, so they must not count.
			match("NDA Guide", "An NDA is a confidentiality agreement."),
		},
	}}

	report := NewHarnessWithBattery(searcher, battery).Run(context.Background())

	assert.Equal(t, 0, report.Correct)
	// Five hits are requested even though only three are inspected.
	require.NotEmpty(t, searcher.calls)
	assert.Equal(t, 5, searcher.calls[0])
}

func TestHarness_Run_KeywordMatchingIsCaseInsensitive(t *testing.T) {
	battery := []domain.TestQuestion{
		{Category: "legal", Text: "What is an NDA?", ExpectedKeywords: []string{"NDA", "Confidentiality"}},
	}
	searcher := &cannedSearcher{matches: map[string][]*service.SearchMatch{
		"What is an NDA?": {
			match("nda guide", "a confidentiality agreement between parties"),
		},
	}}

	report := NewHarnessWithBattery(searcher, battery).Run(context.Background())
	assert.Equal(t, 1, report.Correct)
}

func TestDefaultBattery_CoversFiveCategories(t *testing.T) {
	battery := DefaultBattery()
	categories := make(map[string]bool)
	for _, q := range battery {
		categories[q.Category] = true
		assert.NotEmpty(t, q.Text)
		assert.NotEmpty(t, q.ExpectedKeywords)
	}
	assert.Len(t, categories, 5)
}
