package jobs

import (
	"context"
	"log"

	"github.com/javariai/corpus/internal/domain"
)

// FeedSourceLister lists the feed sources eligible for scheduled
// refresh.
type FeedSourceLister interface {
	ListAutoUpdateSources(ctx context.Context) ([]*domain.KnowledgeSource, error)
}

// JobCreator accepts new import jobs.
type JobCreator interface {
	CreateJob(ctx context.Context, input CreateJobInput) (*domain.ImportJob, error)
}

// FeedRefresher re-imports syndication feeds marked auto_update so
// newly published items keep flowing into the store.
type FeedRefresher struct {
	sources FeedSourceLister
	jobs    JobCreator
}

// NewFeedRefresher creates a new FeedRefresher instance
func NewFeedRefresher(sources FeedSourceLister, jobs JobCreator) *FeedRefresher {
	return &FeedRefresher{sources: sources, jobs: jobs}
}

// RefreshFeeds queues one import job per live feed source.
func (f *FeedRefresher) RefreshFeeds(ctx context.Context) error {
	sources, err := f.sources.ListAutoUpdateSources(ctx)
	if err != nil {
		return err
	}

	for _, s := range sources {
		input := CreateJobInput{
			SourceType:     string(domain.SourceTypeFeed),
			SourceLocation: s.OriginLocation,
			Category:       metadataString(s.Metadata, "category"),
			Tags:           metadataStrings(s.Metadata, "tags"),
		}
		if input.Category == "" {
			input.Category = "uncategorized"
		}
		if _, err := f.jobs.CreateJob(ctx, input); err != nil {
			log.Printf("refresh: failed to queue feed %s: %v", s.OriginLocation, err)
			continue
		}
		log.Printf("refresh: queued feed %s", s.OriginLocation)
	}
	return nil
}

func metadataString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// metadataStrings reads a string list from metadata. JSONB round-trips
// hand back []any, so both shapes are accepted.
func metadataStrings(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
