// Package adapter turns one external source address into a bounded,
// ordered sequence of raw records. Each supported source shape has its
// own adapter; all of them share the Content Fetcher for retrieval.
package adapter

import (
	"context"
	"time"

	"github.com/javariai/corpus/internal/domain"
	"github.com/javariai/corpus/internal/fetch"
)

// Adapter enumerates the candidate records of one source type.
//
// Enumerate fails with a FETCH_ERROR when the location is unreachable
// or returns a non-success status, and with a FORMAT_ERROR when the
// payload cannot be parsed as the declared shape. Both are fatal to the
// job that drives the adapter.
type Adapter interface {
	Enumerate(ctx context.Context, location string) ([]domain.RawRecord, error)

	// BatchSize is the number of records a job attempts concurrently.
	// Page-fetch-heavy sources use small batches, structured data uses
	// larger ones.
	BatchSize() int

	// BatchPause is the delay inserted between batches to respect
	// third-party rate limits. Zero for sources that need no further
	// fetching per record.
	BatchPause() time.Duration
}

const pageBatchPause = 2 * time.Second

// ForSourceType selects the adapter for a source type.
func ForSourceType(t domain.SourceType, fetcher *fetch.Fetcher) (Adapter, error) {
	switch t {
	case domain.SourceTypeSingleURL:
		return NewSingleURLAdapter(), nil
	case domain.SourceTypeLinkList:
		return NewSitemapAdapter(fetcher), nil
	case domain.SourceTypeTabular:
		return NewTabularAdapter(fetcher), nil
	case domain.SourceTypeAPIFeed:
		return NewAPIFeedAdapter(fetcher), nil
	case domain.SourceTypeFeed:
		return NewFeedAdapter(fetcher), nil
	default:
		return nil, domain.ErrInvalidSourceType
	}
}

// EstimatedDuration is the human-readable processing estimate returned
// when a job is accepted.
func EstimatedDuration(t domain.SourceType) string {
	switch t {
	case domain.SourceTypeTabular:
		return "5-15 minutes"
	case domain.SourceTypeAPIFeed:
		return "10-30 minutes"
	case domain.SourceTypeLinkList:
		return "30-60 minutes"
	case domain.SourceTypeFeed:
		return "5-10 minutes"
	case domain.SourceTypeSingleURL:
		return "1-2 minutes"
	default:
		return "15-45 minutes"
	}
}
