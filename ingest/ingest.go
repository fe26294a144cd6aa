package ingest

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ainav/navigator/articles"
	"github.com/ainav/navigator/extract"
	"github.com/ainav/navigator/feed"
	"github.com/ainav/navigator/sources"
	"github.com/ainav/navigator/summarize"
)

// dedupWindow is the rolling lookback used to decide novelty: an article
// whose URL or title was seen inside this window is dropped.
const dedupWindow = 72 * time.Hour

// defaultSourceWorkers bounds how many sources are processed concurrently.
const defaultSourceWorkers = 4

// noContentFallback is stored when neither page extraction nor the feed
// description yielded any text.
const noContentFallback = "No content available"

// ingestLevel is the knowledge level used for pipeline summaries. Readers
// get summaries at their own level through the on-demand summarize path,
// not here.
const ingestLevel = summarize.Intermediate

// SourceLister provides the enabled-source configuration.
type SourceLister interface {
	ListEnabled() ([]sources.Source, error)
}

// ArticleStore is the slice of the document store the coordinator writes to.
type ArticleStore interface {
	FindRecent(since time.Time) ([]articles.Article, error)
	InsertArticles([]articles.Article) (int, error)
	SetTrending(id uuid.UUID, trending bool) error
}

// FeedReader produces candidate entries from a feed URL.
type FeedReader interface {
	Read(ctx context.Context, feedURL string) []feed.Entry
}

// Extractor derives page text and a representative image from a URL.
type Extractor interface {
	Extract(ctx context.Context, url string) extract.Result
}

// Summarizer produces an article summary, degrading instead of failing.
type Summarizer interface {
	Summarize(ctx context.Context, text string, level summarize.KnowledgeLevel) summarize.Summary
}

// SourceError records a failure scoped to a single source; the rest of the
// cycle is unaffected by it.
type SourceError struct {
	SourceName string
	Err        error
}

// CycleResult summarizes one ingestion cycle.
type CycleResult struct {
	SourcesProcessed int
	SourcesFailed    int
	ArticlesAdded    int
	Errors           []SourceError
}

// Coordinator runs the ingestion pipeline: feed entries are enriched with
// extracted content and a summary, deduplicated against recently stored
// articles, and persisted. It is the only writer that creates articles.
type Coordinator struct {
	sources    SourceLister
	store      ArticleStore
	feeds      FeedReader
	extractor  Extractor
	summarizer Summarizer
	workers    int

	// dedupMu serializes the snapshot-filter-insert step so two sources
	// carrying the same story cannot both see it as novel.
	dedupMu sync.Mutex
}

// NewCoordinator creates a coordinator over the given collaborators.
// workers bounds cross-source concurrency; values below 1 use the default.
func NewCoordinator(src SourceLister, store ArticleStore, feeds FeedReader,
	extractor Extractor, summarizer Summarizer, workers int) *Coordinator {
	if workers < 1 {
		workers = defaultSourceWorkers
	}
	return &Coordinator{
		sources:    src,
		store:      store,
		feeds:      feeds,
		extractor:  extractor,
		summarizer: summarizer,
		workers:    workers,
	}
}

// RunCycle ingests all enabled sources and returns a summary of the run. It
// never returns an error: every failure is scoped to its source, logged,
// and recorded in the result. The worst outcome of a cycle is zero new
// articles, which self-heals on the next scheduled run.
func (c *Coordinator) RunCycle(ctx context.Context) *CycleResult {
	result := &CycleResult{}

	enabled, err := c.sources.ListEnabled()
	if err != nil {
		log.Printf("Error: failed to list enabled sources: %v", err)
		result.Errors = append(result.Errors, SourceError{Err: err})
		return result
	}

	// Sources without a feed URL are configured but not ingestable
	var ingestable []sources.Source
	for _, src := range enabled {
		if src.FeedURL == nil {
			continue
		}
		ingestable = append(ingestable, src)
	}

	// Process sources through a bounded worker pool; each source's state is
	// independent, the store is the only shared resource
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		semaphore = make(chan struct{}, c.workers)
	)

	for _, src := range ingestable {
		wg.Add(1)
		go func(src sources.Source) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			added, err := c.processSource(ctx, src)

			mu.Lock()
			defer mu.Unlock()
			result.SourcesProcessed++
			result.ArticlesAdded += added
			if err != nil {
				result.SourcesFailed++
				result.Errors = append(result.Errors, SourceError{
					SourceName: src.Name,
					Err:        err,
				})
			}
		}(src)
	}

	wg.Wait()

	if result.ArticlesAdded > 0 {
		c.refreshTrending()
	}

	return result
}

// refreshTrending re-marks the trending flags over the recent window after
// new articles land. Best effort: a failure here costs stale flags, not the
// cycle.
func (c *Coordinator) refreshTrending() {
	recent, err := c.store.FindRecent(time.Now().UTC().Add(-dedupWindow))
	if err != nil {
		log.Printf("Warning: failed to load articles for trend marking: %v", err)
		return
	}

	for _, a := range articles.MarkTrending(recent) {
		if !a.Trending {
			continue
		}
		if err := c.store.SetTrending(a.ID, true); err != nil {
			log.Printf("Warning: failed to mark article %s trending: %v", a.ID, err)
		}
	}
}

// processSource ingests a single source. A returned error aborts only this
// source's batch for this cycle.
func (c *Coordinator) processSource(ctx context.Context, src sources.Source) (int, error) {
	log.Printf("Ingesting from source: %s", src.Name)

	entries := c.feeds.Read(ctx, *src.FeedURL)
	if len(entries) == 0 {
		log.Printf("No entries from %s", src.Name)
		return 0, nil
	}

	candidates := make([]articles.Article, 0, len(entries))
	for _, entry := range entries {
		// Shutdown abandons unfinished entries; they come back on the next
		// feed read
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("ingestion canceled: %w", err)
		}
		candidates = append(candidates, c.buildArticle(ctx, src, entry))
	}

	// Point-in-time dedup snapshot, read once per source. Snapshot and
	// insert happen under one lock: without it two concurrent sources could
	// both judge the same URL novel and store it twice.
	c.dedupMu.Lock()
	defer c.dedupMu.Unlock()

	snapshot, err := c.store.FindRecent(time.Now().UTC().Add(-dedupWindow))
	if err != nil {
		return 0, fmt.Errorf("failed to load dedup snapshot: %w", err)
	}

	existingURLs := make(map[string]struct{}, len(snapshot))
	existingTitles := make(map[string]struct{}, len(snapshot))
	for _, a := range snapshot {
		existingURLs[a.URL] = struct{}{}
		existingTitles[a.Title] = struct{}{}
	}

	// A match on URL or title alone drops the candidate. Title collisions
	// across different sources count too; over-aggressive on purpose.
	kept := make([]articles.Article, 0, len(candidates))
	for _, candidate := range candidates {
		if _, seen := existingURLs[candidate.URL]; seen {
			continue
		}
		if _, seen := existingTitles[candidate.Title]; seen {
			continue
		}
		kept = append(kept, candidate)
	}

	if len(kept) == 0 {
		log.Printf("No new articles from %s", src.Name)
		return 0, nil
	}

	inserted, err := c.store.InsertArticles(kept)
	if err != nil {
		return inserted, fmt.Errorf("failed to insert articles: %w", err)
	}

	log.Printf("Added %d new articles from %s", inserted, src.Name)
	return inserted, nil
}

// buildArticle enriches a feed entry into a full article record. Extraction
// and summarization both degrade rather than fail, so this always produces
// a persistable article.
func (c *Coordinator) buildArticle(ctx context.Context, src sources.Source, entry feed.Entry) articles.Article {
	extracted := c.extractor.Extract(ctx, entry.Link)

	content := extracted.Text
	if extracted.Degraded {
		content = entry.Description
		if content == "" {
			content = noContentFallback
		}
	}

	summary := c.summarizer.Summarize(ctx, content, ingestLevel)

	return articles.Article{
		ID:          uuid.New(),
		Title:       entry.Title,
		URL:         entry.Link,
		SourceID:    src.ID,
		SourceName:  src.Name,
		PublishedAt: entry.PublishedAt,
		Categories:  []string{}, // populated by a later classification pass
		Summary:     summary.Text,
		Content:     content,
		ImageURL:    extracted.ImageURL,
		CreatedAt:   time.Now().UTC(),
	}
}
