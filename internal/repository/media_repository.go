package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"movie-discovery-backend/internal/models"
)

// MediaRepository is the persisted cache store for media documents. Sortable
// fields are real columns; the full normalized document rides in a JSONB
// payload column and is what gets served back.
type MediaRepository struct {
	db *sql.DB
}

// NewMediaRepository creates a new MediaRepository.
func NewMediaRepository(db *sql.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Upsert inserts or replaces the cache row keyed
// (tmdbID, mediaType, category). The ON CONFLICT clause makes each upsert an
// atomic compare-and-set, so concurrent misses on the same key cannot create
// duplicates; the last writer wins.
func (r *MediaRepository) Upsert(ctx context.Context, item models.MediaItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal media payload: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO media_cache (tmdb_id, media_type, category, title, original_title,
			overview, popularity, vote_average, release_date, payload, fetched_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT ON CONSTRAINT media_cache_key DO UPDATE SET
			title = EXCLUDED.title,
			original_title = EXCLUDED.original_title,
			overview = EXCLUDED.overview,
			popularity = EXCLUDED.popularity,
			vote_average = EXCLUDED.vote_average,
			release_date = EXCLUDED.release_date,
			payload = EXCLUDED.payload,
			fetched_at = EXCLUDED.fetched_at,
			expires_at = EXCLUDED.expires_at
	`, item.TMDBID, item.MediaType, item.Category,
		titleOf(item), originalTitleOf(item), item.Overview,
		item.Popularity, item.VoteAverage, dateOf(item),
		payload, item.FetchedAt, item.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to upsert media %d/%s/%s: %w",
			item.TMDBID, item.MediaType, item.Category, err)
	}
	return nil
}

// Find returns one sorted page of cached rows for a category.
func (r *MediaRepository) Find(ctx context.Context, mediaType models.MediaType, category models.Category, page, limit int) ([]models.MediaItem, error) {
	offset := (page - 1) * limit
	query := fmt.Sprintf(`
		SELECT payload, fetched_at FROM media_cache
		WHERE media_type = $1 AND category = $2
		ORDER BY %s
		LIMIT $3 OFFSET $4
	`, strings.Join(category.SortColumns(), ", "))

	rows, err := r.db.QueryContext(ctx, query, mediaType, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("cache query failed: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// Count returns how many rows are cached for a category.
func (r *MediaRepository) Count(ctx context.Context, mediaType models.MediaType, category models.Category) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM media_cache WHERE media_type = $1 AND category = $2
	`, mediaType, category).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("cache count failed: %w", err)
	}
	return n, nil
}

// FindOne returns the cached row for a single key, or nil when absent.
func (r *MediaRepository) FindOne(ctx context.Context, tmdbID int, mediaType models.MediaType, category models.Category) (*models.MediaItem, error) {
	var (
		payload   []byte
		fetchedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT payload, fetched_at FROM media_cache
		WHERE tmdb_id = $1 AND media_type = $2 AND category = $3
	`, tmdbID, mediaType, category).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache lookup failed: %w", err)
	}

	var item models.MediaItem
	if err := json.Unmarshal(payload, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached media: %w", err)
	}
	if fetchedAt.Valid {
		item.FetchedAt = fetchedAt.Time
	}
	return &item, nil
}

// Search runs a case-insensitive substring match over title, original title,
// name and overview for one media type, best matches by popularity first.
// This is how free-text search treats the whole cache as a secondary index.
func (r *MediaRepository) Search(ctx context.Context, mediaType models.MediaType, query string, limit int) ([]models.MediaItem, error) {
	pattern := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT ON (tmdb_id) payload, fetched_at FROM media_cache
		WHERE media_type = $1
		  AND (title ILIKE $2 OR original_title ILIKE $2 OR overview ILIKE $2)
		ORDER BY tmdb_id, popularity DESC
	`, mediaType, pattern)
	if err != nil {
		return nil, fmt.Errorf("cache search failed: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	sortByPopularity(items)
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// DeleteTrending clears trending rows for a window, optionally restricted to
// one media type. Used by the clear-and-rebuild refresh.
func (r *MediaRepository) DeleteTrending(ctx context.Context, window models.TimeWindow, mediaType models.MediaType) (int, error) {
	var (
		res sql.Result
		err error
	)
	if mediaType == "" {
		res, err = r.db.ExecContext(ctx,
			`DELETE FROM trending_cache WHERE time_window = $1`, window)
	} else {
		res, err = r.db.ExecContext(ctx,
			`DELETE FROM trending_cache WHERE time_window = $1 AND media_type = $2`,
			window, mediaType)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to clear trending: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// InsertTrending writes one trending row. Rebuilds delete first, so a plain
// conflict-tolerant insert is enough; the unique key still guards against a
// concurrent rebuild inserting the same item twice.
func (r *MediaRepository) InsertTrending(ctx context.Context, item models.MediaItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal trending payload: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO trending_cache (tmdb_id, media_type, time_window,
			popularity, vote_average, payload, fetched_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT ON CONSTRAINT trending_cache_key DO UPDATE SET
			popularity = EXCLUDED.popularity,
			vote_average = EXCLUDED.vote_average,
			payload = EXCLUDED.payload,
			fetched_at = EXCLUDED.fetched_at,
			expires_at = EXCLUDED.expires_at
	`, item.TMDBID, item.MediaType, item.TimeWindow,
		item.Popularity, item.VoteAverage, payload, item.FetchedAt, item.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert trending %d/%s: %w", item.TMDBID, item.MediaType, err)
	}
	return nil
}

// FindTrending returns the ranked trending rows for a window, optionally
// restricted to one media type.
func (r *MediaRepository) FindTrending(ctx context.Context, window models.TimeWindow, mediaType models.MediaType, limit int) ([]models.MediaItem, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if mediaType == "" {
		rows, err = r.db.QueryContext(ctx, `
			SELECT payload, fetched_at FROM trending_cache
			WHERE time_window = $1
			ORDER BY popularity DESC, vote_average DESC
			LIMIT $2
		`, window, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, `
			SELECT payload, fetched_at FROM trending_cache
			WHERE time_window = $1 AND media_type = $2
			ORDER BY popularity DESC, vote_average DESC
			LIMIT $3
		`, window, mediaType, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("trending query failed: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]models.MediaItem, error) {
	items := make([]models.MediaItem, 0)
	for rows.Next() {
		var (
			payload   []byte
			fetchedAt sql.NullTime
		)
		if err := rows.Scan(&payload, &fetchedAt); err != nil {
			slog.Error("failed to scan cache row", "error", err)
			continue
		}
		var item models.MediaItem
		if err := json.Unmarshal(payload, &item); err != nil {
			slog.Error("failed to unmarshal cache row", "error", err)
			continue
		}
		if fetchedAt.Valid {
			item.FetchedAt = fetchedAt.Time
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func sortByPopularity(items []models.MediaItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Popularity > items[j].Popularity
	})
}

func titleOf(item models.MediaItem) string {
	if item.Title != "" {
		return item.Title
	}
	return item.Name
}

func originalTitleOf(item models.MediaItem) string {
	if item.OriginalTitle != "" {
		return item.OriginalTitle
	}
	return item.OriginalName
}

func dateOf(item models.MediaItem) string {
	if item.ReleaseDate != "" {
		return item.ReleaseDate
	}
	return item.FirstAirDate
}
