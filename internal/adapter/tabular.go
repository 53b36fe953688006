package adapter

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/javariai/corpus/internal/domain"
	"github.com/javariai/corpus/internal/fetch"
)

// TabularAdapter enumerates header-keyed rows from one delimited-text
// document. Rows carry their own content, so no per-record fetch
// happens later.
type TabularAdapter struct {
	fetcher *fetch.Fetcher
}

func NewTabularAdapter(fetcher *fetch.Fetcher) *TabularAdapter {
	return &TabularAdapter{fetcher: fetcher}
}

func (a *TabularAdapter) Enumerate(ctx context.Context, location string) ([]domain.RawRecord, error) {
	body, err := a.fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(string(body)))
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, domain.NewFormatError(fmt.Sprintf("%s is not parseable delimited text", location), err)
	}

	// A header-only (or empty) document is a valid source with zero
	// records, not a format error.
	if len(rows) <= 1 {
		return []domain.RawRecord{}, nil
	}

	header := rows[0]
	records := make([]domain.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		fields := make(map[string]any, len(header))
		for i, key := range header {
			key = strings.TrimSpace(key)
			if key == "" || i >= len(row) {
				continue
			}
			fields[key] = row[i]
		}
		records = append(records, domain.RawRecord{Fields: fields})
	}

	return records, nil
}

func (a *TabularAdapter) BatchSize() int { return 50 }

func (a *TabularAdapter) BatchPause() time.Duration { return 0 }
