// Package normalize converts raw records into canonical {title, body}
// pairs ready for embedding and storage.
package normalize

import (
	"context"
	"errors"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"

	"github.com/javariai/corpus/internal/domain"
	"github.com/javariai/corpus/internal/fetch"
)

// ErrContentTooShort marks a page whose extracted body is below the
// minimum useful length. Callers treat it as a silent skip, not a
// record failure.
var ErrContentTooShort = errors.New("insufficient content")

// DefaultMinBodyLength is the smallest body worth storing.
const DefaultMinBodyLength = 100

var (
	spaceRunRe = regexp.MustCompile(`[ \t]+`)
	blankRunRe = regexp.MustCompile(`\n{3,}`)
)

// Elements that never carry article content.
var boilerplateTags = []string{
	"nav", "header", "footer", "aside", "script", "style", "noscript",
	"iframe", "object", "embed", "form", "input", "button",
}

// Class names that mark navigation, advertisement, and other chrome.
var boilerplateClasses = []string{
	"nav", "navbar", "navigation", "sidebar", "menu", "footer", "header",
	"ad", "ads", "advertisement", "social", "share", "comments",
	"related", "breadcrumb",
}

// PageNormalizer fetches a page and reduces it to title and body text.
type PageNormalizer struct {
	fetcher       *fetch.Fetcher
	converter     *md.Converter
	minBodyLength int
}

// NewPageNormalizer creates a PageNormalizer backed by the given fetcher.
func NewPageNormalizer(fetcher *fetch.Fetcher, minBodyLength int) *PageNormalizer {
	if minBodyLength <= 0 {
		minBodyLength = DefaultMinBodyLength
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &PageNormalizer{
		fetcher:       fetcher,
		converter:     converter,
		minBodyLength: minBodyLength,
	}
}

// Normalize fetches pageURL and extracts its canonical content. A fetch
// failure propagates as a FETCH_ERROR; a page with too little content
// after boilerplate removal returns ErrContentTooShort.
func (n *PageNormalizer) Normalize(ctx context.Context, pageURL string) (*domain.NormalizedRecord, error) {
	body, err := n.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return n.NormalizeHTML(pageURL, body)
}

// NormalizeHTML extracts canonical content from already-fetched HTML.
func (n *PageNormalizer) NormalizeHTML(pageURL string, content []byte) (*domain.NormalizedRecord, error) {
	doc, err := html.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, domain.NewFormatError("page is not parseable HTML", err)
	}

	title := firstElementText(doc, "h1")
	if title == "" {
		title = firstElementText(doc, "title")
	}

	region := contentRegion(doc)
	markdown, err := n.converter.ConvertString(renderNode(region))
	if err != nil {
		return nil, domain.NewFormatError("page content could not be converted", err)
	}

	bodyText := CollapseWhitespace(markdown)
	if len(bodyText) < n.minBodyLength {
		return nil, ErrContentTooShort
	}

	if title == "" {
		title = pageURL
	}

	return &domain.NormalizedRecord{
		Locator: pageURL,
		Title:   title,
		Body:    bodyText,
	}, nil
}

// contentRegion picks the most content-bearing region: an explicit
// main/article element if present, otherwise the body stripped of
// boilerplate.
func contentRegion(doc *html.Node) *html.Node {
	for _, tag := range []string{"main", "article"} {
		if node := findElement(doc, tag); node != nil {
			return node
		}
	}

	removeTags(doc, boilerplateTags)
	removeByClass(doc, boilerplateClasses)

	if body := findElement(doc, "body"); body != nil {
		return body
	}
	return doc
}

func firstElementText(n *html.Node, tag string) string {
	node := findElement(n, tag)
	if node == nil {
		return ""
	}
	var sb strings.Builder
	collectText(node, &sb)
	return strings.TrimSpace(sb.String())
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func findElement(n *html.Node, tag string) *html.Node {
	var result *html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if result != nil {
			return
		}
		if node.Type == html.ElementNode && node.Data == tag {
			result = node
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return result
}

func removeTags(n *html.Node, tags []string) {
	tagSet := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tagSet[tag] = true
	}

	var doomed []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && tagSet[node.Data] {
			doomed = append(doomed, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	for _, node := range doomed {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

func removeByClass(n *html.Node, classes []string) {
	classSet := make(map[string]bool, len(classes))
	for _, class := range classes {
		classSet[class] = true
	}

	var doomed []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			for _, attr := range node.Attr {
				if attr.Key != "class" {
					continue
				}
				for _, c := range strings.Fields(strings.ToLower(attr.Val)) {
					if classSet[c] {
						doomed = append(doomed, node)
						return
					}
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	for _, node := range doomed {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	html.Render(&sb, n)
	return sb.String()
}

// CollapseWhitespace squeezes runs of spaces and blank lines while
// preserving paragraph breaks.
func CollapseWhitespace(s string) string {
	s = spaceRunRe.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	s = strings.Join(lines, "\n")

	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
