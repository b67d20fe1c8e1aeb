package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"movie-discovery-backend/internal/config"
)

// NewPostgres creates a new PostgreSQL connection and runs migrations.
func NewPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	migrations := []string{
		// Media cache. Sortable/searchable fields are real columns, the full
		// normalized document lives in payload. The compound unique index is
		// what makes concurrent upserts safe: INSERT .. ON CONFLICT on it is
		// atomic, so duplicate (tmdb_id, media_type, category) rows cannot
		// appear even when two requests miss at the same time.
		`CREATE TABLE IF NOT EXISTS media_cache (
			id SERIAL PRIMARY KEY,
			tmdb_id INTEGER NOT NULL,
			media_type VARCHAR(10) NOT NULL,
			category VARCHAR(20) NOT NULL,
			title VARCHAR(500) DEFAULT '',
			original_title VARCHAR(500) DEFAULT '',
			overview TEXT DEFAULT '',
			popularity DOUBLE PRECISION DEFAULT 0,
			vote_average DOUBLE PRECISION DEFAULT 0,
			release_date VARCHAR(10) DEFAULT '',
			payload JSONB NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			CONSTRAINT media_cache_key UNIQUE (tmdb_id, media_type, category)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_media_cache_listing
			ON media_cache (media_type, category, popularity DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_media_cache_fetched
			ON media_cache (category, fetched_at DESC)`,

		// Trending is rebuilt wholesale per window, so it gets its own table
		// keyed by (tmdb_id, media_type, time_window).
		`CREATE TABLE IF NOT EXISTS trending_cache (
			id SERIAL PRIMARY KEY,
			tmdb_id INTEGER NOT NULL,
			media_type VARCHAR(10) NOT NULL,
			time_window VARCHAR(10) NOT NULL,
			popularity DOUBLE PRECISION DEFAULT 0,
			vote_average DOUBLE PRECISION DEFAULT 0,
			payload JSONB NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			CONSTRAINT trending_cache_key UNIQUE (tmdb_id, media_type, time_window)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trending_window
			ON trending_cache (time_window, popularity DESC, vote_average DESC)`,

		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			subject_id VARCHAR(128) UNIQUE NOT NULL,
			email VARCHAR(255) DEFAULT '',
			display_name VARCHAR(255) DEFAULT '',
			photo_url VARCHAR(500) DEFAULT '',
			total_favorites INTEGER DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS favorites (
			id UUID PRIMARY KEY,
			user_id VARCHAR(128) NOT NULL,
			media_type VARCHAR(10) NOT NULL,
			media_id INTEGER NOT NULL,
			title VARCHAR(500) NOT NULL,
			poster_path VARCHAR(500) DEFAULT '',
			backdrop_path VARCHAR(500) DEFAULT '',
			overview TEXT DEFAULT '',
			rating DOUBLE PRECISION DEFAULT 0,
			release_date VARCHAR(10) DEFAULT '',
			genres TEXT[] DEFAULT '{}',
			added_at TIMESTAMPTZ DEFAULT NOW(),
			CONSTRAINT favorites_user_media UNIQUE (user_id, media_type, media_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_favorites_user ON favorites (user_id, added_at DESC)`,

		`CREATE TABLE IF NOT EXISTS recently_viewed (
			id UUID PRIMARY KEY,
			user_id VARCHAR(128) NOT NULL,
			media_type VARCHAR(10) NOT NULL,
			media_id INTEGER NOT NULL,
			title VARCHAR(500) NOT NULL,
			poster_path VARCHAR(500) DEFAULT '',
			backdrop_path VARCHAR(500) DEFAULT '',
			overview TEXT DEFAULT '',
			rating DOUBLE PRECISION DEFAULT 0,
			release_date VARCHAR(10) DEFAULT '',
			view_count INTEGER DEFAULT 1,
			watch_progress DOUBLE PRECISION DEFAULT 0,
			last_watch_position INTEGER DEFAULT 0,
			viewed_at TIMESTAMPTZ DEFAULT NOW(),
			CONSTRAINT recently_viewed_user_media UNIQUE (user_id, media_type, media_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recently_viewed_user
			ON recently_viewed (user_id, viewed_at DESC)`,

		`CREATE TABLE IF NOT EXISTS watchlists (
			id UUID PRIMARY KEY,
			user_id VARCHAR(128) NOT NULL,
			name VARCHAR(100) NOT NULL,
			description VARCHAR(500) DEFAULT '',
			is_public BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_watchlists_user ON watchlists (user_id, created_at DESC)`,

		`CREATE TABLE IF NOT EXISTS watchlist_items (
			id UUID PRIMARY KEY,
			watchlist_id UUID NOT NULL REFERENCES watchlists(id) ON DELETE CASCADE,
			media_type VARCHAR(10) NOT NULL,
			media_id INTEGER NOT NULL,
			title VARCHAR(500) NOT NULL,
			poster_path VARCHAR(500) DEFAULT '',
			added_at TIMESTAMPTZ DEFAULT NOW(),
			CONSTRAINT watchlist_items_media UNIQUE (watchlist_id, media_type, media_id)
		)`,

		`CREATE TABLE IF NOT EXISTS comments (
			id UUID PRIMARY KEY,
			media_id INTEGER NOT NULL,
			media_type VARCHAR(10) NOT NULL,
			user_id VARCHAR(128) NOT NULL,
			user_name VARCHAR(255) NOT NULL,
			user_photo_url VARCHAR(500) DEFAULT '',
			text VARCHAR(2000) NOT NULL,
			parent_id UUID REFERENCES comments(id),
			likes_count INTEGER DEFAULT 0,
			reply_count INTEGER DEFAULT 0,
			is_deleted BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_media
			ON comments (media_id, media_type, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments (parent_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS comment_likes (
			comment_id UUID NOT NULL REFERENCES comments(id) ON DELETE CASCADE,
			user_id VARCHAR(128) NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (comment_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS reviews (
			id UUID PRIMARY KEY,
			media_id INTEGER NOT NULL,
			media_type VARCHAR(10) NOT NULL,
			user_id VARCHAR(128) NOT NULL,
			user_name VARCHAR(255) NOT NULL,
			user_photo_url VARCHAR(500) DEFAULT '',
			sentiment VARCHAR(20) NOT NULL,
			title VARCHAR(200) DEFAULT '',
			text VARCHAR(5000) NOT NULL,
			contains_spoilers BOOLEAN DEFAULT FALSE,
			helpful_count INTEGER DEFAULT 0,
			unhelpful_count INTEGER DEFAULT 0,
			is_deleted BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			CONSTRAINT reviews_user_media UNIQUE (media_id, media_type, user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_media
			ON reviews (media_id, media_type, created_at DESC)`,

		`CREATE TABLE IF NOT EXISTS review_votes (
			review_id UUID NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
			user_id VARCHAR(128) NOT NULL,
			helpful BOOLEAN NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (review_id, user_id)
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	// A legacy deployment carried a unique index on tmdb_id alone, which
	// breaks caching the same title under several categories. Dropping it is
	// expected to fail on fresh databases; that is the one error we only log.
	if _, err := db.Exec(`DROP INDEX idx_media_cache_tmdb_unique`); err != nil {
		slog.Debug("legacy tmdb_id index not present, skipping drop", "error", err)
	}

	slog.Info("database migrations completed")
	return nil
}
