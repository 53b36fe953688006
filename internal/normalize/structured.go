package normalize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/javariai/corpus/internal/domain"
)

// Field names checked, in order, when deriving a title and a body from
// a structured record.
var (
	titleFields = []string{"title", "name", "heading"}
	bodyFields  = []string{"content", "description", "body", "summary"}
	urlFields   = []string{"url", "link"}
)

// RecordContext carries the surrounding job information a structured
// record needs for fallbacks and synthetic locators.
type RecordContext struct {
	SourceID string
	Category string
	// Scheme prefixes synthetic locators for records without a URL of
	// their own, e.g. "csv" or "api".
	Scheme string
	// Index is the record's position within the enumeration; it keeps
	// synthetic locators unique.
	Index int
}

// NormalizeFields derives canonical content from an already-structured
// record (tabular row, API object, feed item). No network fetch
// happens; title and body come from field heuristics and every original
// scalar field is preserved in metadata.
func NormalizeFields(fields map[string]any, rc RecordContext) (*domain.NormalizedRecord, error) {
	title := firstStringField(fields, titleFields)
	if title == "" {
		title = fmt.Sprintf("%s Entry", rc.Category)
	}

	body := firstStringField(fields, bodyFields)
	if body == "" {
		body = serializeFields(fields)
	}
	body = CollapseWhitespace(body)
	if body == "" {
		return nil, ErrContentTooShort
	}

	locator := firstStringField(fields, urlFields)
	if locator == "" {
		locator = fmt.Sprintf("%s://%s/%d", rc.Scheme, rc.SourceID, rc.Index)
	}

	metadata := make(map[string]any, len(fields))
	for k, v := range fields {
		metadata[k] = v
	}

	return &domain.NormalizedRecord{
		Locator:  locator,
		Title:    title,
		Body:     body,
		Metadata: metadata,
	}, nil
}

func firstStringField(fields map[string]any, names []string) string {
	for _, name := range names {
		if s, ok := fields[name].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// serializeFields renders every field as a "key: value" line, sorted
// for determinism.
func serializeFields(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		v := fields[k]
		if v == nil {
			continue
		}
		text := strings.TrimSpace(fmt.Sprintf("%v", v))
		if text == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", k, text))
	}
	return strings.Join(lines, "\n")
}
