package articles

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: create a test article store
func createTestArticleStore(t *testing.T) *ArticleStore {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")
	store, err := NewArticleStore(dbPath)
	require.NoError(t, err, "should create article store")
	t.Cleanup(func() { store.Close() })
	return store
}

// Test helper: build an article with sensible defaults
func makeArticle(url, title string, createdAt time.Time) Article {
	return Article{
		ID:         uuid.New(),
		Title:      title,
		URL:        url,
		SourceID:   uuid.New(),
		SourceName: "Test Source",
		Summary:    "A summary",
		Content:    "Some content",
		CreatedAt:  createdAt,
	}
}

// TestInsertArticles_Basic verifies bulk insert and round-trip
func TestInsertArticles_Basic(t *testing.T) {
	store := createTestArticleStore(t)

	published := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	image := "https://example.com/hero.png"
	article := makeArticle("https://example.com/a", "Article A", time.Now().UTC())
	article.PublishedAt = &published
	article.ImageURL = &image
	article.Categories = []string{"NLP", "AI Research"}

	inserted, err := store.InsertArticles([]Article{article})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	got, err := store.GetArticle(article.ID)
	require.NoError(t, err)
	assert.Equal(t, article.Title, got.Title)
	assert.Equal(t, article.URL, got.URL)
	assert.Equal(t, article.SourceID, got.SourceID)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, published.Equal(*got.PublishedAt))
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, image, *got.ImageURL)
	assert.Equal(t, []string{"NLP", "AI Research"}, got.Categories)
	assert.False(t, got.Trending)
}

// TestInsertArticles_OptionalFieldsAbsent verifies nil published date and image
func TestInsertArticles_OptionalFieldsAbsent(t *testing.T) {
	store := createTestArticleStore(t)

	article := makeArticle("https://example.com/a", "Article A", time.Now().UTC())
	_, err := store.InsertArticles([]Article{article})
	require.NoError(t, err)

	got, err := store.GetArticle(article.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PublishedAt)
	assert.Nil(t, got.ImageURL)
	assert.Equal(t, []string{}, got.Categories, "categories should read back as empty, not nil")
}

// TestInsertArticles_RepeatedURLAccepted verifies the store itself does not
// enforce URL uniqueness; recency-window novelty lives with the caller
func TestInsertArticles_RepeatedURLAccepted(t *testing.T) {
	store := createTestArticleStore(t)

	first := makeArticle("https://example.com/a", "First", time.Now().UTC().Add(-96*time.Hour))
	_, err := store.InsertArticles([]Article{first})
	require.NoError(t, err)

	second := makeArticle("https://example.com/a", "Second", time.Now().UTC())
	inserted, err := store.InsertArticles([]Article{second})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	_, err = store.GetArticle(second.ID)
	require.NoError(t, err)
}

// TestFindRecent_WindowBoundary verifies the since filter
func TestFindRecent_WindowBoundary(t *testing.T) {
	store := createTestArticleStore(t)

	now := time.Now().UTC()
	recent := makeArticle("https://example.com/recent", "Recent", now.Add(-1*time.Hour))
	old := makeArticle("https://example.com/old", "Old", now.Add(-96*time.Hour))

	_, err := store.InsertArticles([]Article{recent, old})
	require.NoError(t, err)

	got, err := store.FindRecent(now.Add(-72 * time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1, "only the article inside the window should match")
	assert.Equal(t, "Recent", got[0].Title)
}

// TestFindArticles_TrendingFilter verifies the trending filter
func TestFindArticles_TrendingFilter(t *testing.T) {
	store := createTestArticleStore(t)

	hot := makeArticle("https://example.com/hot", "Hot", time.Now().UTC())
	hot.Trending = true
	cold := makeArticle("https://example.com/cold", "Cold", time.Now().UTC())

	_, err := store.InsertArticles([]Article{hot, cold})
	require.NoError(t, err)

	trending := true
	got, err := store.FindArticles(ArticleFilter{Trending: &trending})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Hot", got[0].Title)
}

// TestFindArticles_CategoryFilter verifies category matching
func TestFindArticles_CategoryFilter(t *testing.T) {
	store := createTestArticleStore(t)

	nlp := makeArticle("https://example.com/nlp", "NLP Piece", time.Now().UTC())
	nlp.Categories = []string{"NLP"}
	vision := makeArticle("https://example.com/cv", "Vision Piece", time.Now().UTC())
	vision.Categories = []string{"Computer Vision"}

	_, err := store.InsertArticles([]Article{nlp, vision})
	require.NoError(t, err)

	got, err := store.FindArticles(ArticleFilter{Categories: []string{"NLP"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "NLP Piece", got[0].Title)

	// Matching any of several categories
	got, err = store.FindArticles(ArticleFilter{Categories: []string{"NLP", "Computer Vision"}})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

// TestFindArticles_SortAndPagination verifies published-date ordering with
// limit and skip
func TestFindArticles_SortAndPagination(t *testing.T) {
	store := createTestArticleStore(t)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	batch := make([]Article, 0, 5)
	for i := 0; i < 5; i++ {
		a := makeArticle(
			"https://example.com/"+string(rune('a'+i)),
			"Article "+string(rune('A'+i)),
			time.Now().UTC(),
		)
		published := base.Add(time.Duration(i) * time.Hour)
		a.PublishedAt = &published
		batch = append(batch, a)
	}
	_, err := store.InsertArticles(batch)
	require.NoError(t, err)

	got, err := store.FindArticles(ArticleFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Article E", got[0].Title, "newest published should come first")
	assert.Equal(t, "Article D", got[1].Title)

	got, err = store.FindArticles(ArticleFilter{Limit: 2, Skip: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Article C", got[0].Title)
	assert.Equal(t, "Article B", got[1].Title)
}

// TestSetTrending_UpdatesFlag verifies the trending flag mutation
func TestSetTrending_UpdatesFlag(t *testing.T) {
	store := createTestArticleStore(t)

	article := makeArticle("https://example.com/a", "Article A", time.Now().UTC())
	_, err := store.InsertArticles([]Article{article})
	require.NoError(t, err)

	require.NoError(t, store.SetTrending(article.ID, true))

	got, err := store.GetArticle(article.ID)
	require.NoError(t, err)
	assert.True(t, got.Trending)
}

// TestSetTrending_NotFound verifies updating a missing article fails
func TestSetTrending_NotFound(t *testing.T) {
	store := createTestArticleStore(t)

	err := store.SetTrending(uuid.New(), true)
	assert.ErrorIs(t, err, ErrArticleNotFound)
}
