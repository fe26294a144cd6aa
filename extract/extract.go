package extract

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// fetchTimeout bounds a single page fetch.
const fetchTimeout = 10 * time.Second

// Result carries either extracted page content or a tagged degraded
// fallback. Degraded means the page could not be fetched or parsed; Text is
// empty and the caller decides what to substitute. Call sites should check
// the flag rather than treating a fallback as genuine content.
type Result struct {
	Text     string
	ImageURL *string
	Degraded bool
}

// Extractor fetches article pages and derives plain text plus a
// representative image URL.
type Extractor struct {
	client *http.Client
}

// NewExtractor creates an extractor with the default fetch timeout.
func NewExtractor() *Extractor {
	return &Extractor{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// Extract fetches the page at the given URL and returns its visible text and
// a best-guess representative image. Any fetch or parse failure degrades
// locally: the result is tagged Degraded and the pipeline continues.
func (e *Extractor) Extract(ctx context.Context, url string) Result {
	doc, err := e.fetch(ctx, url)
	if err != nil {
		log.Printf("Warning: failed to extract %s: %v", url, err)
		return Result{Degraded: true}
	}

	// Strip non-content elements before collecting text
	doc.Find("script, style").Remove()

	return Result{
		Text:     visibleText(doc),
		ImageURL: selectImage(doc),
	}
}

// fetch retrieves and parses a page into a goquery document.
func (e *Extractor) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "ainav/1.0 (article ingestion)")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}

// visibleText concatenates the document's text nodes with newline
// separators, trimming each fragment and dropping empty ones.
func visibleText(doc *goquery.Document) string {
	var fragments []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				fragments = append(fragments, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}

	return strings.TrimSpace(strings.Join(fragments, "\n"))
}

// selectImage picks a representative image, in priority order:
//  1. the first img whose class contains "hero", "featured", or "main"
//     (case-insensitive) and that has a src;
//  2. the first img whose src does not end in .ico/.svg and either declares
//     width and height both over 200, or declares no dimensions at all
//     (first match, not best match);
//  3. none.
func selectImage(doc *goquery.Document) *string {
	// Pass 1: class-designated images win outright
	var classMatch *string
	doc.Find("img").EachWithBreak(func(i int, s *goquery.Selection) bool {
		class := strings.ToLower(s.AttrOr("class", ""))
		if !strings.Contains(class, "hero") &&
			!strings.Contains(class, "featured") &&
			!strings.Contains(class, "main") {
			return true
		}
		if src, ok := s.Attr("src"); ok && src != "" {
			classMatch = &src
			return false
		}
		return true
	})
	if classMatch != nil {
		return classMatch
	}

	// Pass 2: first decently-sized image
	var sizeMatch *string
	doc.Find("img").EachWithBreak(func(i int, s *goquery.Selection) bool {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			return true
		}
		if strings.HasSuffix(src, ".ico") || strings.HasSuffix(src, ".svg") {
			return true
		}

		width, hasWidth := s.Attr("width")
		height, hasHeight := s.Attr("height")
		if hasWidth && hasHeight {
			w, werr := strconv.Atoi(width)
			h, herr := strconv.Atoi(height)
			if werr != nil || herr != nil {
				return true
			}
			if w > 200 && h > 200 {
				sizeMatch = &src
				return false
			}
			return true
		}

		// No usable dimensions declared: take the first candidate as-is
		sizeMatch = &src
		return false
	})

	return sizeMatch
}
