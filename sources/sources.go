package sources

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Custom errors for source operations
var (
	ErrSourceNotFound = errors.New("source not found")
	ErrDuplicateURL   = errors.New("source with this URL already exists")
)

// SourceStore manages news source configurations using SQLite.
type SourceStore struct {
	db *sql.DB
}

// Source represents a configured origin of articles. FeedURL is optional:
// sources without one are listed but never ingested.
type Source struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	FeedURL   *string   `json:"feed_url,omitempty"`
	Category  string    `json:"category"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// SourceFilter represents filtering options for listing sources.
type SourceFilter struct {
	Enabled  *bool   // Filter by enabled status
	Category *string // Filter by category tag
}

// NewSourceStore creates a new source store with the given database path.
func NewSourceStore(dbPath string) (*SourceStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SourceStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the sources table if it doesn't exist.
func (s *SourceStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sources (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		feed_url TEXT,
		category TEXT NOT NULL DEFAULT '',
		enabled INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SourceStore) Close() error {
	return s.db.Close()
}

// CreateSource creates a new source. A source with the same canonical URL
// as an existing one is rejected with ErrDuplicateURL.
func (s *SourceStore) CreateSource(name, url string, feedURL *string, category string, enabled bool) (*Source, error) {
	source := &Source{
		ID:        uuid.New(),
		Name:      name,
		URL:       url,
		FeedURL:   feedURL,
		Category:  category,
		Enabled:   enabled,
		CreatedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO sources (id, name, url, feed_url, category, enabled, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		source.ID.String(),
		source.Name,
		source.URL,
		source.FeedURL,
		source.Category,
		boolToInt(source.Enabled),
		source.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		// Check for duplicate URL constraint violation
		if strings.Contains(err.Error(), "UNIQUE constraint") ||
			strings.Contains(err.Error(), "unique constraint") {
			return nil, ErrDuplicateURL
		}
		return nil, fmt.Errorf("failed to insert source: %w", err)
	}

	return source, nil
}

// GetSource retrieves a source by ID.
func (s *SourceStore) GetSource(id uuid.UUID) (*Source, error) {
	query := `
		SELECT id, name, url, feed_url, category, enabled, created_at
		FROM sources
		WHERE id = ?
	`

	source, err := scanSource(s.db.QueryRow(query, id.String()))
	if err == sql.ErrNoRows {
		return nil, ErrSourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query source: %w", err)
	}

	return source, nil
}

// ListSources lists sources with optional filtering, oldest first.
func (s *SourceStore) ListSources(filter SourceFilter) ([]Source, error) {
	query := `
		SELECT id, name, url, feed_url, category, enabled, created_at
		FROM sources
	`

	var whereClauses []string
	var args []any

	if filter.Enabled != nil {
		whereClauses = append(whereClauses, "enabled = ?")
		args = append(args, boolToInt(*filter.Enabled))
	}
	if filter.Category != nil {
		whereClauses = append(whereClauses, "category = ?")
		args = append(args, *filter.Category)
	}

	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query += " ORDER BY created_at ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	sources := []Source{}
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, *source)
	}

	return sources, rows.Err()
}

// ListEnabled returns all enabled sources. Callers that need a feed to read
// are expected to skip sources whose FeedURL is nil.
func (s *SourceStore) ListEnabled() ([]Source, error) {
	enabled := true
	return s.ListSources(SourceFilter{Enabled: &enabled})
}

// SetEnabled flips the enabled flag on a source.
func (s *SourceStore) SetEnabled(id uuid.UUID, enabled bool) error {
	result, err := s.db.Exec("UPDATE sources SET enabled = ? WHERE id = ?",
		boolToInt(enabled), id.String())
	if err != nil {
		return fmt.Errorf("failed to update source: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrSourceNotFound
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSource(row scanner) (*Source, error) {
	var idStr, name, url, category, createdAtStr string
	var feedURL sql.NullString
	var enabled int

	if err := row.Scan(&idStr, &name, &url, &feedURL, &category, &enabled, &createdAtStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid source id %q: %w", idStr, err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAtStr, err)
	}

	source := &Source{
		ID:        id,
		Name:      name,
		URL:       url,
		Category:  category,
		Enabled:   enabled != 0,
		CreatedAt: createdAt,
	}
	if feedURL.Valid {
		source.FeedURL = &feedURL.String
	}

	return source, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
