package feed

import (
	"context"
	"log"
	"time"

	"github.com/mmcdole/gofeed"
)

// maxEntries caps how many entries a single read hands downstream. Feeds are
// assumed to be recency-ordered already, so the cap keeps the newest items.
const maxEntries = 10

// defaultTimeout bounds a single feed fetch.
const defaultTimeout = 10 * time.Second

// Entry is a transient feed item before enrichment. Description is the raw
// feed-provided summary, kept as a fallback when page extraction fails.
type Entry struct {
	Title       string
	Link        string
	PublishedAt *time.Time
	Description string
}

// Reader fetches and parses RSS/Atom feeds into candidate entries.
type Reader struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewReader creates a feed reader with the default fetch timeout.
func NewReader() *Reader {
	return &Reader{
		parser:  gofeed.NewParser(),
		timeout: defaultTimeout,
	}
}

// Read fetches and parses the feed at the given URL, returning at most 10
// entries in feed order. Entries without a link are dropped silently. A feed
// that cannot be fetched or parsed yields an empty slice and a logged
// warning, never an error: one broken feed must not abort ingestion for the
// other sources.
func (r *Reader) Read(ctx context.Context, feedURL string) []Entry {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	parsed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		log.Printf("Warning: failed to read feed %s: %v", feedURL, err)
		return []Entry{}
	}

	// Only the first 10 items are considered at all; link-less items inside
	// that window are dropped rather than replaced by later ones.
	items := parsed.Items
	if len(items) > maxEntries {
		items = items[:maxEntries]
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if item.Link == "" {
			continue
		}

		entries = append(entries, Entry{
			Title:       item.Title,
			Link:        item.Link,
			PublishedAt: publishedTime(item),
			Description: item.Description,
		})
	}

	return entries
}

// publishedTime normalizes an item's timestamp. gofeed parses <pubDate>
// (RSS) into PublishedParsed and <updated> (Atom) into UpdatedParsed; an
// item carrying neither propagates as unknown.
func publishedTime(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed
	}
	return nil
}
