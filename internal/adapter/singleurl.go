package adapter

import (
	"context"
	"time"

	"github.com/javariai/corpus/internal/domain"
)

// SingleURLAdapter treats the given location as exactly one page
// record. It performs no fetch of its own; the page is retrieved during
// normalization like any other page record.
type SingleURLAdapter struct{}

func NewSingleURLAdapter() *SingleURLAdapter {
	return &SingleURLAdapter{}
}

func (a *SingleURLAdapter) Enumerate(ctx context.Context, location string) ([]domain.RawRecord, error) {
	return []domain.RawRecord{{PageURL: location}}, nil
}

func (a *SingleURLAdapter) BatchSize() int { return 1 }

func (a *SingleURLAdapter) BatchPause() time.Duration { return pageBatchPause }
