package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"movie-discovery-backend/internal/models"
)

// WatchlistRepository stores named user collections and their items.
type WatchlistRepository struct {
	db *sql.DB
}

// NewWatchlistRepository creates a new WatchlistRepository.
func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Create inserts an empty watchlist owned by the user.
func (r *WatchlistRepository) Create(ctx context.Context, userID string, req models.CreateWatchlistRequest) (*models.Watchlist, error) {
	var w models.Watchlist
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO watchlists (id, user_id, name, description, is_public)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, name, description, is_public, created_at, updated_at
	`, uuid.NewString(), userID, req.Name, req.Description, req.IsPublic).Scan(
		&w.ID, &w.UserID, &w.Name, &w.Description, &w.IsPublic,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create watchlist: %w", err)
	}
	w.Items = []models.WatchlistItem{}
	return &w, nil
}

// List returns all of a user's watchlists, newest first, items included.
func (r *WatchlistRepository) List(ctx context.Context, userID string) ([]models.Watchlist, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, description, is_public, created_at, updated_at
		FROM watchlists WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("watchlists query failed: %w", err)
	}
	defer rows.Close()

	lists := make([]models.Watchlist, 0)
	for rows.Next() {
		var w models.Watchlist
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.Description,
			&w.IsPublic, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist: %w", err)
		}
		lists = append(lists, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range lists {
		items, err := r.listItems(ctx, lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Items = items
	}
	return lists, nil
}

// Get returns one watchlist with its items, or nil when absent. Ownership is
// checked by the caller so public lists stay readable.
func (r *WatchlistRepository) Get(ctx context.Context, watchlistID string) (*models.Watchlist, error) {
	var w models.Watchlist
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, is_public, created_at, updated_at
		FROM watchlists WHERE id = $1
	`, watchlistID).Scan(
		&w.ID, &w.UserID, &w.Name, &w.Description, &w.IsPublic,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("watchlist lookup failed: %w", err)
	}

	items, err := r.listItems(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	w.Items = items
	return &w, nil
}

// Update renames a watchlist or flips its visibility.
func (r *WatchlistRepository) Update(ctx context.Context, watchlistID string, req models.CreateWatchlistRequest) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE watchlists
		SET name = $1, description = $2, is_public = $3, updated_at = NOW()
		WHERE id = $4
	`, req.Name, req.Description, req.IsPublic, watchlistID)
	if err != nil {
		return fmt.Errorf("failed to update watchlist: %w", err)
	}
	return nil
}

// Delete removes a watchlist; items go with it via ON DELETE CASCADE.
func (r *WatchlistRepository) Delete(ctx context.Context, watchlistID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM watchlists WHERE id = $1`, watchlistID)
	if err != nil {
		return fmt.Errorf("failed to delete watchlist: %w", err)
	}
	return nil
}

// AddItem appends media to a watchlist. The unique constraint on
// (watchlist_id, media_type, media_id) rejects duplicates.
func (r *WatchlistRepository) AddItem(ctx context.Context, watchlistID string, req models.AddWatchlistItemRequest) (*models.WatchlistItem, error) {
	var item models.WatchlistItem
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO watchlist_items (id, watchlist_id, media_type, media_id, title, poster_path)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, media_type, media_id, title, poster_path, added_at
	`, uuid.NewString(), watchlistID, req.MediaType, req.MediaID,
		req.Title, req.PosterPath).Scan(
		&item.ID, &item.MediaType, &item.MediaID, &item.Title,
		&item.PosterPath, &item.AddedAt,
	)
	if err != nil {
		return nil, err
	}

	_, _ = r.db.ExecContext(ctx,
		`UPDATE watchlists SET updated_at = NOW() WHERE id = $1`, watchlistID)
	return &item, nil
}

// RemoveItem drops one item from a watchlist. Returns false when no row
// matched.
func (r *WatchlistRepository) RemoveItem(ctx context.Context, watchlistID, itemID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM watchlist_items WHERE id = $1 AND watchlist_id = $2
	`, itemID, watchlistID)
	if err != nil {
		return false, fmt.Errorf("failed to remove watchlist item: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		_, _ = r.db.ExecContext(ctx,
			`UPDATE watchlists SET updated_at = NOW() WHERE id = $1`, watchlistID)
	}
	return n > 0, nil
}

func (r *WatchlistRepository) listItems(ctx context.Context, watchlistID string) ([]models.WatchlistItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, media_type, media_id, title, poster_path, added_at
		FROM watchlist_items WHERE watchlist_id = $1
		ORDER BY added_at DESC
	`, watchlistID)
	if err != nil {
		return nil, fmt.Errorf("watchlist items query failed: %w", err)
	}
	defer rows.Close()

	items := make([]models.WatchlistItem, 0)
	for rows.Next() {
		var item models.WatchlistItem
		if err := rows.Scan(&item.ID, &item.MediaType, &item.MediaID,
			&item.Title, &item.PosterPath, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
