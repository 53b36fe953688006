package adapter

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/javariai/corpus/internal/domain"
	"github.com/javariai/corpus/internal/fetch"
)

// SitemapAdapter enumerates page URLs from an XML sitemap-style link
// list. Every <loc> entry becomes one page record; the pages themselves
// are fetched later, during normalization.
type SitemapAdapter struct {
	fetcher *fetch.Fetcher
}

func NewSitemapAdapter(fetcher *fetch.Fetcher) *SitemapAdapter {
	return &SitemapAdapter{fetcher: fetcher}
}

func (a *SitemapAdapter) Enumerate(ctx context.Context, location string) ([]domain.RawRecord, error) {
	body, err := a.fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}

	urls, err := extractLocEntries(body)
	if err != nil {
		return nil, domain.NewFormatError(fmt.Sprintf("%s is not a parseable XML link list", location), err)
	}

	records := make([]domain.RawRecord, 0, len(urls))
	for _, u := range urls {
		records = append(records, domain.RawRecord{PageURL: u})
	}
	return records, nil
}

func (a *SitemapAdapter) BatchSize() int { return 10 }

func (a *SitemapAdapter) BatchPause() time.Duration { return pageBatchPause }

// extractLocEntries collects the text of every <loc> element. Scanning
// tokens instead of decoding a fixed struct handles both urlset and
// sitemapindex documents.
func extractLocEntries(body []byte) ([]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(body)))

	var urls []string
	var inLoc bool
	var current strings.Builder

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "loc" {
				inLoc = true
				current.Reset()
			}
		case xml.CharData:
			if inLoc {
				current.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "loc" {
				inLoc = false
				if u := strings.TrimSpace(current.String()); u != "" {
					urls = append(urls, u)
				}
			}
		}
	}

	return urls, nil
}
