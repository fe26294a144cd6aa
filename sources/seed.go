package sources

import "fmt"

// defaultSource describes a source installed on first run.
type defaultSource struct {
	Name     string
	URL      string
	FeedURL  string
	Category string
}

var defaultSources = []defaultSource{
	{
		Name:     "VentureBeat AI",
		URL:      "https://venturebeat.com/category/ai/",
		FeedURL:  "https://venturebeat.com/category/ai/feed/",
		Category: "AI News",
	},
	{
		Name:     "MIT Technology Review AI",
		URL:      "https://www.technologyreview.com/topic/artificial-intelligence/",
		FeedURL:  "https://www.technologyreview.com/feed/",
		Category: "AI Research",
	},
	{
		Name:     "Google AI Blog",
		URL:      "https://blog.research.google/",
		FeedURL:  "https://blog.research.google/feeds/posts/default?alt=rss",
		Category: "AI Research",
	},
	{
		Name:     "AI News",
		URL:      "https://www.artificialintelligence-news.com/",
		FeedURL:  "https://www.artificialintelligence-news.com/feed/",
		Category: "AI News",
	},
}

// SeedDefaults installs the default source set if, and only if, the sources
// table is empty. Returns the number of sources created, so calling it on an
// already-populated store is a no-op.
func (s *SourceStore) SeedDefaults() (int, error) {
	existing, err := s.ListSources(SourceFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to check existing sources: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	created := 0
	for _, d := range defaultSources {
		feedURL := d.FeedURL
		if _, err := s.CreateSource(d.Name, d.URL, &feedURL, d.Category, true); err != nil {
			return created, fmt.Errorf("failed to seed source %q: %w", d.Name, err)
		}
		created++
	}

	return created, nil
}
