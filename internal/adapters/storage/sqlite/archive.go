// Package sqlite persists the league news board and manager signups in a
// SQLite file through the pure-Go glebarez driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/go-sqlite" // registers the "sqlite" driver

	"github.com/google/uuid"

	"github.com/okian/peloton/internal/domain/model"
)

const (
	driverName      = "sqlite"
	memoryPath      = ":memory:"
	maxOpenConns    = 4
	maxIdleConns    = 2
	connMaxLifetime = 5 * time.Minute
)

// Archive stores articles and signups.
type Archive struct {
	db *sql.DB
}

// Open opens or creates the archive at path and runs the migrations.
func Open(ctx context.Context, path string) (*Archive, error) {
	if path != memoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrOpen, err)
			}
		}
	}
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if path == memoryPath {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxIdleConns)
		db.SetConnMaxLifetime(connMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	a := &Archive{db: db}
	if err := a.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func (a *Archive) migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS news_articles (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			body TEXT NOT NULL,
			published_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS signups (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			manager_name TEXT NOT NULL,
			email TEXT NOT NULL,
			team_id TEXT NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			season INTEGER NOT NULL,
			submitted_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_news_published ON news_articles(published_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_signups_team ON signups(team_id)`,
	}
	for _, q := range queries {
		if _, err := a.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("%w: %w", ErrMigrate, err)
		}
	}
	return nil
}

// Close closes the database.
func (a *Archive) Close() error { return a.db.Close() }

// Articles lists every article, newest first.
func (a *Archive) Articles(ctx context.Context) ([]model.Article, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, title, author, body, published_at
		FROM news_articles
		ORDER BY published_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: articles: %w", ErrQuery, err)
	}
	defer rows.Close()

	out := make([]model.Article, 0)
	for rows.Next() {
		var (
			art model.Article
			ms  int64
		)
		if err := rows.Scan(&art.ID, &art.Title, &art.Author, &art.Body, &ms); err != nil {
			return nil, fmt.Errorf("%w: articles: %w", ErrQuery, err)
		}
		art.PublishedAt = time.UnixMilli(ms).UTC()
		out = append(out, art)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: articles: %w", ErrQuery, err)
	}
	return out, nil
}

// Publish stores an article. A missing id gets a fresh UUID and a zero
// timestamp becomes now. The stored article is returned.
func (a *Archive) Publish(ctx context.Context, art model.Article) (model.Article, error) {
	if err := art.Validate(); err != nil {
		return model.Article{}, err
	}
	if art.ID == "" {
		art.ID = uuid.NewString()
	}
	if art.PublishedAt.IsZero() {
		art.PublishedAt = time.Now()
	}
	art.PublishedAt = art.PublishedAt.UTC().Truncate(time.Millisecond)

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO news_articles (id, title, author, body, published_at)
		VALUES (?, ?, ?, ?, ?)
	`, art.ID, art.Title, art.Author, art.Body, art.PublishedAt.UnixMilli())
	if err != nil {
		return model.Article{}, fmt.Errorf("%w: publish: %w", ErrQuery, err)
	}
	return art, nil
}

// launchArticles are the first stories of a fresh news board.
var launchArticles = []model.Article{
	{
		Title:  "A New Era Begins: The League Opens in 1992",
		Author: "League Desk",
		Body: "The PCM League launches with teams hunting sponsors, riders seeking contracts, and managers ready to shape history. " +
			"More features will roll out soon: transfers, race results, standings, and finances.",
	},
	{
		Title:  "Rumours Swirl Ahead of the First Transfer Window",
		Author: "The Peloton",
		Body: "Scouts are watching the free agent pool closely. Strong sprinters and time trial engines could decide the early season. " +
			"Expect surprise signings once the market opens.",
	},
}

// SeedIfEmpty publishes the launch articles when the board is empty and
// reports whether it did.
func (a *Archive) SeedIfEmpty(ctx context.Context, now time.Time) (bool, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news_articles`).Scan(&n); err != nil {
		return false, fmt.Errorf("%w: count articles: %w", ErrQuery, err)
	}
	if n > 0 {
		return false, nil
	}
	for _, art := range launchArticles {
		art.PublishedAt = now
		if _, err := a.Publish(ctx, art); err != nil {
			return false, err
		}
	}
	return true, nil
}

// AddSignup stores a signup. A zero timestamp becomes now.
func (a *Archive) AddSignup(ctx context.Context, s model.Signup) (model.Signup, error) {
	if err := s.Validate(); err != nil {
		return model.Signup{}, err
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now()
	}
	s.SubmittedAt = s.SubmittedAt.UTC().Truncate(time.Millisecond)

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO signups (manager_name, email, team_id, note, season, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.ManagerName, s.Email, s.TeamID, s.Note, s.Season, s.SubmittedAt.UnixMilli())
	if err != nil {
		return model.Signup{}, fmt.Errorf("%w: add signup: %w", ErrQuery, err)
	}
	return s, nil
}

// Signups lists every signup in submission order.
func (a *Archive) Signups(ctx context.Context) ([]model.Signup, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT manager_name, email, team_id, note, season, submitted_at
		FROM signups
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: signups: %w", ErrQuery, err)
	}
	defer rows.Close()

	out := make([]model.Signup, 0)
	for rows.Next() {
		var (
			s  model.Signup
			ms int64
		)
		if err := rows.Scan(&s.ManagerName, &s.Email, &s.TeamID, &s.Note, &s.Season, &ms); err != nil {
			return nil, fmt.Errorf("%w: signups: %w", ErrQuery, err)
		}
		s.SubmittedAt = time.UnixMilli(ms).UTC()
		s.Agree = true
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: signups: %w", ErrQuery, err)
	}
	return out, nil
}

// Stats reports the connection pool, the way the service reports its own.
func (a *Archive) Stats() map[string]interface{} {
	st := a.db.Stats()
	return map[string]interface{}{
		"open_connections": st.OpenConnections,
		"in_use":           st.InUse,
		"idle":             st.Idle,
		"wait_count":       st.WaitCount,
	}
}
