package domain

// RawRecord is one candidate unit of content enumerated by a source
// adapter, before normalization. Exactly one of PageURL or Fields is
// populated: page-type records carry the URL to fetch, structured
// records carry the already-retrieved scalar fields.
type RawRecord struct {
	PageURL string
	Fields  map[string]any
}

// IsPage reports whether the record requires a page fetch during
// normalization.
func (r RawRecord) IsPage() bool {
	return r.PageURL != ""
}

// NormalizedRecord is the canonical {title, body} form of a raw record,
// ready for embedding and storage.
type NormalizedRecord struct {
	Locator  string
	Title    string
	Body     string
	Metadata map[string]any
}

// TestQuestion is one fixed verification fixture: the question text,
// the lowercase keywords expected in retrieved content, and the
// category the question belongs to.
type TestQuestion struct {
	Text             string
	ExpectedKeywords []string
	Category         string
}
