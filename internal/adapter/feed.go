package adapter

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/javariai/corpus/internal/domain"
	"github.com/javariai/corpus/internal/fetch"
)

// FeedAdapter enumerates items from one RSS-style syndication feed.
// Each item carries title, link, summary, and publication date; no
// further fetch is needed per record.
type FeedAdapter struct {
	fetcher *fetch.Fetcher
}

func NewFeedAdapter(fetcher *fetch.Fetcher) *FeedAdapter {
	return &FeedAdapter{fetcher: fetcher}
}

type feedDocument struct {
	Items []feedItem `xml:"channel>item"`
}

type feedItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

func (a *FeedAdapter) Enumerate(ctx context.Context, location string) ([]domain.RawRecord, error) {
	body, err := a.fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}

	var doc feedDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, domain.NewFormatError(fmt.Sprintf("%s is not a parseable syndication feed", location), err)
	}

	records := make([]domain.RawRecord, 0, len(doc.Items))
	for _, item := range doc.Items {
		records = append(records, domain.RawRecord{
			Fields: map[string]any{
				"title":       strings.TrimSpace(item.Title),
				"link":        strings.TrimSpace(item.Link),
				"description": strings.TrimSpace(item.Description),
				"pubDate":     strings.TrimSpace(item.PubDate),
			},
		})
	}

	return records, nil
}

func (a *FeedAdapter) BatchSize() int { return 1 }

func (a *FeedAdapter) BatchPause() time.Duration { return 0 }
