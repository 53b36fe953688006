package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/javariai/corpus/internal/domain"
	"github.com/javariai/corpus/internal/fetch"
)

// APIFeedAdapter enumerates objects from one JSON API response. Three
// shapes are accepted: a bare array, an object with an array under
// "data", or an object with an array under "results". Anything else is
// a format error.
type APIFeedAdapter struct {
	fetcher *fetch.Fetcher
}

func NewAPIFeedAdapter(fetcher *fetch.Fetcher) *APIFeedAdapter {
	return &APIFeedAdapter{fetcher: fetcher}
}

func (a *APIFeedAdapter) Enumerate(ctx context.Context, location string) ([]domain.RawRecord, error) {
	body, err := a.fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.NewFormatError(fmt.Sprintf("%s did not return valid JSON", location), err)
	}

	items, err := extractItems(payload)
	if err != nil {
		return nil, err
	}

	records := make([]domain.RawRecord, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			// Scalar array elements still become records; the raw
			// value is preserved for the normalizer's fallbacks.
			fields = map[string]any{"value": item}
		}
		records = append(records, domain.RawRecord{Fields: fields})
	}

	return records, nil
}

func (a *APIFeedAdapter) BatchSize() int { return 20 }

func (a *APIFeedAdapter) BatchPause() time.Duration { return 0 }

func extractItems(payload any) ([]any, error) {
	if items, ok := payload.([]any); ok {
		return items, nil
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, domain.NewFormatError("unknown API response format", nil)
	}

	for _, key := range []string{"data", "results"} {
		if items, ok := obj[key].([]any); ok {
			return items, nil
		}
	}

	return nil, domain.NewFormatError("unknown API response format", nil)
}
