package articles

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Article is the persisted unit of ingested content: a feed entry enriched
// with extracted page text, a representative image, and an AI summary.
type Article struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	SourceID    uuid.UUID  `json:"source_id"`
	SourceName  string     `json:"source_name"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Categories  []string   `json:"categories"`
	Summary     string     `json:"summary"`
	Content     string     `json:"content"`
	ImageURL    *string    `json:"image_url,omitempty"`
	Trending    bool       `json:"is_trending"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ArticleFilter represents filtering and pagination options for reads.
type ArticleFilter struct {
	Categories []string // Match any of these category tags
	Trending   *bool    // Filter by trending flag
	Limit      int      // Pagination limit (0 means default)
	Skip       int      // Pagination offset
}

// marshalCategories serializes the category list for storage. Empty and nil
// both store as "[]" so reads always see a non-nil slice.
func marshalCategories(categories []string) (string, error) {
	if categories == nil {
		categories = []string{}
	}
	data, err := json.Marshal(categories)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
