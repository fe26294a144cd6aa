package articles

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrArticleNotFound indicates a lookup by ID matched nothing.
var ErrArticleNotFound = errors.New("article not found")

// defaultLimit is the page size used when a filter does not specify one.
const defaultLimit = 20

// ArticleStore persists articles using SQLite. URL novelty is a rolling
// 3-day property enforced by the ingestion coordinator, not a table
// constraint: the same URL may legitimately reappear outside the window.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new article store with the given database path.
func NewArticleStore(dbPath string) (*ArticleStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &ArticleStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the articles table if it doesn't exist.
func (s *ArticleStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		source_id TEXT NOT NULL,
		source_name TEXT NOT NULL,
		published_at TEXT,
		categories TEXT NOT NULL DEFAULT '[]',
		summary TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		image_url TEXT,
		is_trending INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *ArticleStore) Close() error {
	return s.db.Close()
}

// InsertArticles inserts articles one at a time and returns how many were
// written. A failure partway through leaves the earlier inserts in place
// (partial insert is acceptable).
func (s *ArticleStore) InsertArticles(arts []Article) (int, error) {
	query := `
		INSERT INTO articles (
			id, title, url, source_id, source_name, published_at,
			categories, summary, content, image_url, is_trending, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	inserted := 0
	for _, a := range arts {
		categoriesJSON, err := marshalCategories(a.Categories)
		if err != nil {
			return inserted, fmt.Errorf("failed to marshal categories: %w", err)
		}

		var publishedAt *string
		if a.PublishedAt != nil {
			v := a.PublishedAt.UTC().Format(time.RFC3339Nano)
			publishedAt = &v
		}

		_, err = s.db.Exec(query,
			a.ID.String(),
			a.Title,
			a.URL,
			a.SourceID.String(),
			a.SourceName,
			publishedAt,
			categoriesJSON,
			a.Summary,
			a.Content,
			a.ImageURL,
			boolToInt(a.Trending),
			a.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert article %q: %w", a.URL, err)
		}
		inserted++
	}

	return inserted, nil
}

// FindRecent returns all articles created at or after the given time. This
// is the snapshot the ingestion coordinator dedupes against.
func (s *ArticleStore) FindRecent(since time.Time) ([]Article, error) {
	query := `
		SELECT id, title, url, source_id, source_name, published_at,
		       categories, summary, content, image_url, is_trending, created_at
		FROM articles
		WHERE created_at >= ?
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(query, since.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("failed to query recent articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// FindArticles returns articles matching the filter, newest published first.
// Articles without a published date sort last.
func (s *ArticleStore) FindArticles(filter ArticleFilter) ([]Article, error) {
	query := `
		SELECT id, title, url, source_id, source_name, published_at,
		       categories, summary, content, image_url, is_trending, created_at
		FROM articles
	`

	var whereClauses []string
	var args []any

	if len(filter.Categories) > 0 {
		// Categories are stored as a JSON array; match on the quoted element
		clauses := make([]string, 0, len(filter.Categories))
		for _, c := range filter.Categories {
			clauses = append(clauses, "categories LIKE ?")
			args = append(args, "%"+`"`+c+`"`+"%")
		}
		whereClauses = append(whereClauses, "("+strings.Join(clauses, " OR ")+")")
	}
	if filter.Trending != nil {
		whereClauses = append(whereClauses, "is_trending = ?")
		args = append(args, boolToInt(*filter.Trending))
	}

	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query += " ORDER BY published_at IS NULL, published_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	query += fmt.Sprintf(" LIMIT %d", limit)
	if filter.Skip > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Skip)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// GetArticle retrieves an article by ID.
func (s *ArticleStore) GetArticle(id uuid.UUID) (*Article, error) {
	query := `
		SELECT id, title, url, source_id, source_name, published_at,
		       categories, summary, content, image_url, is_trending, created_at
		FROM articles
		WHERE id = ?
	`

	article, err := scanArticle(s.db.QueryRow(query, id.String()))
	if err == sql.ErrNoRows {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query article: %w", err)
	}

	return article, nil
}

// SetTrending updates the trending flag on a stored article.
func (s *ArticleStore) SetTrending(id uuid.UUID, trending bool) error {
	result, err := s.db.Exec("UPDATE articles SET is_trending = ? WHERE id = ?",
		boolToInt(trending), id.String())
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrArticleNotFound
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func collectArticles(rows *sql.Rows) ([]Article, error) {
	arts := []Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		arts = append(arts, *article)
	}
	return arts, rows.Err()
}

func scanArticle(row scanner) (*Article, error) {
	var idStr, title, url, sourceIDStr, sourceName string
	var categoriesJSON, summary, content, createdAtStr string
	var publishedAtStr, imageURL sql.NullString
	var trending int

	err := row.Scan(&idStr, &title, &url, &sourceIDStr, &sourceName,
		&publishedAtStr, &categoriesJSON, &summary, &content,
		&imageURL, &trending, &createdAtStr)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid article id %q: %w", idStr, err)
	}

	sourceID, err := uuid.Parse(sourceIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid source id %q: %w", sourceIDStr, err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAtStr, err)
	}

	var categories []string
	if err := json.Unmarshal([]byte(categoriesJSON), &categories); err != nil {
		return nil, fmt.Errorf("invalid categories %q: %w", categoriesJSON, err)
	}

	article := &Article{
		ID:         id,
		Title:      title,
		URL:        url,
		SourceID:   sourceID,
		SourceName: sourceName,
		Categories: categories,
		Summary:    summary,
		Content:    content,
		Trending:   trending != 0,
		CreatedAt:  createdAt,
	}

	if publishedAtStr.Valid {
		publishedAt, err := time.Parse(time.RFC3339Nano, publishedAtStr.String)
		if err != nil {
			return nil, fmt.Errorf("invalid published_at %q: %w", publishedAtStr.String, err)
		}
		article.PublishedAt = &publishedAt
	}
	if imageURL.Valid {
		article.ImageURL = &imageURL.String
	}

	return article, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
