package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"movie-discovery-backend/internal/models"
)

// UserRepository handles user accounts, favorites and recently-viewed rows.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertUser finds or creates the account mirrored from the identity
// provider. Email follows the provider; a display name the user set
// themselves is not overwritten by the provider name.
func (r *UserRepository) UpsertUser(ctx context.Context, subjectID, email, displayName string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (subject_id, email, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (subject_id) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = CASE WHEN users.display_name = ''
				THEN EXCLUDED.display_name ELSE users.display_name END,
			updated_at = NOW()
		RETURNING id, subject_id, email, display_name, photo_url,
			total_favorites, created_at, updated_at
	`, subjectID, email, displayName).Scan(
		&u.ID, &u.SubjectID, &u.Email, &u.DisplayName, &u.PhotoURL,
		&u.TotalFavorites, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &u, nil
}

// UpdateDisplayName stores a user-chosen display name, which wins over the
// provider name mirrored on sign-in.
func (r *UserRepository) UpdateDisplayName(ctx context.Context, subjectID, displayName string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, `
		UPDATE users SET display_name = $1, updated_at = NOW()
		WHERE subject_id = $2
		RETURNING id, subject_id, email, display_name, photo_url,
			total_favorites, created_at, updated_at
	`, displayName, subjectID).Scan(
		&u.ID, &u.SubjectID, &u.Email, &u.DisplayName, &u.PhotoURL,
		&u.TotalFavorites, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update display name: %w", err)
	}
	return &u, nil
}

// UpdatePhotoURL stores the uploaded avatar location for a user.
func (r *UserRepository) UpdatePhotoURL(ctx context.Context, subjectID, photoURL string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET photo_url = $1, updated_at = NOW() WHERE subject_id = $2
	`, photoURL, subjectID)
	return err
}

// ---- Favorites ----

// ListFavorites returns one page of a user's favorites, newest first,
// optionally filtered by media type, plus the total for pagination.
func (r *UserRepository) ListFavorites(ctx context.Context, userID string, mediaType models.MediaType, page, limit int) ([]models.Favorite, int, error) {
	where := "user_id = $1"
	args := []any{userID}
	if mediaType != "" {
		where += " AND media_type = $2"
		args = append(args, mediaType)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM favorites WHERE %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("favorites count failed: %w", err)
	}

	offset := (page - 1) * limit
	listQuery := fmt.Sprintf(`
		SELECT id, user_id, media_type, media_id, title, poster_path,
			backdrop_path, overview, rating, release_date, genres, added_at
		FROM favorites WHERE %s
		ORDER BY added_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("favorites query failed: %w", err)
	}
	defer rows.Close()

	favorites := make([]models.Favorite, 0)
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.MediaType, &f.MediaID, &f.Title,
			&f.PosterPath, &f.BackdropPath, &f.Overview, &f.Rating,
			&f.ReleaseDate, pq.Array(&f.Genres), &f.AddedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, f)
	}
	return favorites, total, rows.Err()
}

// InsertFavorite creates a favorite. The unique constraint on
// (user_id, media_type, media_id) rejects duplicates; callers translate the
// pq unique-violation into a conflict error.
func (r *UserRepository) InsertFavorite(ctx context.Context, userID string, req models.AddFavoriteRequest) (*models.Favorite, error) {
	var f models.Favorite
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO favorites (id, user_id, media_type, media_id, title,
			poster_path, backdrop_path, overview, rating, release_date, genres)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, user_id, media_type, media_id, title, poster_path,
			backdrop_path, overview, rating, release_date, genres, added_at
	`, uuid.NewString(), userID, req.MediaType, req.MediaID, req.Title,
		req.PosterPath, req.BackdropPath, req.Overview, req.Rating,
		req.ReleaseDate, pq.Array(req.Genres)).Scan(
		&f.ID, &f.UserID, &f.MediaType, &f.MediaID, &f.Title, &f.PosterPath,
		&f.BackdropPath, &f.Overview, &f.Rating, &f.ReleaseDate,
		pq.Array(&f.Genres), &f.AddedAt,
	)
	if err != nil {
		return nil, err
	}

	_, _ = r.db.ExecContext(ctx, `
		UPDATE users SET total_favorites = total_favorites + 1 WHERE subject_id = $1
	`, userID)
	return &f, nil
}

// GetFavorite returns a user's favorite for one media key, or nil.
func (r *UserRepository) GetFavorite(ctx context.Context, userID string, mediaType models.MediaType, mediaID int) (*models.Favorite, error) {
	var f models.Favorite
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, media_type, media_id, title, poster_path,
			backdrop_path, overview, rating, release_date, genres, added_at
		FROM favorites
		WHERE user_id = $1 AND media_type = $2 AND media_id = $3
	`, userID, mediaType, mediaID).Scan(
		&f.ID, &f.UserID, &f.MediaType, &f.MediaID, &f.Title, &f.PosterPath,
		&f.BackdropPath, &f.Overview, &f.Rating, &f.ReleaseDate,
		pq.Array(&f.Genres), &f.AddedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("favorite lookup failed: %w", err)
	}
	return &f, nil
}

// DeleteFavorite removes a favorite owned by the user. Returns false when no
// row matched.
func (r *UserRepository) DeleteFavorite(ctx context.Context, userID, favoriteID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM favorites WHERE id = $1 AND user_id = $2
	`, favoriteID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		_, _ = r.db.ExecContext(ctx, `
			UPDATE users SET total_favorites = GREATEST(total_favorites - 1, 0)
			WHERE subject_id = $1
		`, userID)
	}
	return n > 0, nil
}

// DeleteFavoriteByMedia removes a favorite by its media key.
func (r *UserRepository) DeleteFavoriteByMedia(ctx context.Context, userID string, mediaType models.MediaType, mediaID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND media_type = $2 AND media_id = $3
	`, userID, mediaType, mediaID)
	if err != nil {
		return false, fmt.Errorf("failed to delete favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		_, _ = r.db.ExecContext(ctx, `
			UPDATE users SET total_favorites = GREATEST(total_favorites - 1, 0)
			WHERE subject_id = $1
		`, userID)
	}
	return n > 0, nil
}

// ClearFavorites removes all favorites for a user and resets the counter.
func (r *UserRepository) ClearFavorites(ctx context.Context, userID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear favorites: %w", err)
	}
	n, _ := res.RowsAffected()
	_, _ = r.db.ExecContext(ctx, `
		UPDATE users SET total_favorites = 0 WHERE subject_id = $1
	`, userID)
	return int(n), nil
}

// ---- Recently viewed ----

// UpsertView records a view, bumping view_count and viewed_at on repeats and
// refreshing the cached media fields. Watch progress only moves when the
// request carries it.
func (r *UserRepository) UpsertView(ctx context.Context, userID string, req models.TrackViewRequest) (*models.RecentlyViewed, error) {
	progress := sql.NullFloat64{}
	if req.WatchProgress != nil {
		progress = sql.NullFloat64{Float64: *req.WatchProgress, Valid: true}
	}
	position := sql.NullInt64{}
	if req.LastWatchPosition != nil {
		position = sql.NullInt64{Int64: int64(*req.LastWatchPosition), Valid: true}
	}

	var rv models.RecentlyViewed
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO recently_viewed (id, user_id, media_type, media_id, title,
			poster_path, backdrop_path, overview, rating, release_date,
			watch_progress, last_watch_position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			COALESCE($11, 0), COALESCE($12, 0))
		ON CONFLICT ON CONSTRAINT recently_viewed_user_media DO UPDATE SET
			title = EXCLUDED.title,
			poster_path = EXCLUDED.poster_path,
			backdrop_path = EXCLUDED.backdrop_path,
			overview = EXCLUDED.overview,
			rating = EXCLUDED.rating,
			release_date = EXCLUDED.release_date,
			watch_progress = COALESCE($11, recently_viewed.watch_progress),
			last_watch_position = COALESCE($12, recently_viewed.last_watch_position),
			view_count = recently_viewed.view_count + 1,
			viewed_at = NOW()
		RETURNING id, user_id, media_type, media_id, title, poster_path,
			backdrop_path, overview, rating, release_date, view_count,
			watch_progress, last_watch_position, viewed_at
	`, uuid.NewString(), userID, req.MediaType, req.MediaID, req.Title,
		req.PosterPath, req.BackdropPath, req.Overview, req.Rating,
		req.ReleaseDate, progress, position).Scan(
		&rv.ID, &rv.UserID, &rv.MediaType, &rv.MediaID, &rv.Title,
		&rv.PosterPath, &rv.BackdropPath, &rv.Overview, &rv.Rating,
		&rv.ReleaseDate, &rv.ViewCount, &rv.WatchProgress,
		&rv.LastWatchPosition, &rv.ViewedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to track view: %w", err)
	}
	return &rv, nil
}

// ListViews returns one page of a user's recently viewed items, most recent
// first, optionally filtered by media type.
func (r *UserRepository) ListViews(ctx context.Context, userID string, mediaType models.MediaType, page, limit int) ([]models.RecentlyViewed, int, error) {
	where := "user_id = $1"
	args := []any{userID}
	if mediaType != "" {
		where += " AND media_type = $2"
		args = append(args, mediaType)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM recently_viewed WHERE %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("recently viewed count failed: %w", err)
	}

	offset := (page - 1) * limit
	listQuery := fmt.Sprintf(`
		SELECT id, user_id, media_type, media_id, title, poster_path,
			backdrop_path, overview, rating, release_date, view_count,
			watch_progress, last_watch_position, viewed_at
		FROM recently_viewed WHERE %s
		ORDER BY viewed_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("recently viewed query failed: %w", err)
	}
	defer rows.Close()

	views := make([]models.RecentlyViewed, 0)
	for rows.Next() {
		var rv models.RecentlyViewed
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.MediaType, &rv.MediaID,
			&rv.Title, &rv.PosterPath, &rv.BackdropPath, &rv.Overview,
			&rv.Rating, &rv.ReleaseDate, &rv.ViewCount, &rv.WatchProgress,
			&rv.LastWatchPosition, &rv.ViewedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan recently viewed: %w", err)
		}
		views = append(views, rv)
	}
	return views, total, rows.Err()
}

// GetView returns a user's recently-viewed row for one media key, or nil.
func (r *UserRepository) GetView(ctx context.Context, userID string, mediaType models.MediaType, mediaID int) (*models.RecentlyViewed, error) {
	var rv models.RecentlyViewed
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, media_type, media_id, title, poster_path,
			backdrop_path, overview, rating, release_date, view_count,
			watch_progress, last_watch_position, viewed_at
		FROM recently_viewed
		WHERE user_id = $1 AND media_type = $2 AND media_id = $3
	`, userID, mediaType, mediaID).Scan(
		&rv.ID, &rv.UserID, &rv.MediaType, &rv.MediaID, &rv.Title,
		&rv.PosterPath, &rv.BackdropPath, &rv.Overview, &rv.Rating,
		&rv.ReleaseDate, &rv.ViewCount, &rv.WatchProgress,
		&rv.LastWatchPosition, &rv.ViewedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("recently viewed lookup failed: %w", err)
	}
	return &rv, nil
}

// DeleteView removes one recently-viewed row owned by the user.
func (r *UserRepository) DeleteView(ctx context.Context, userID, viewID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM recently_viewed WHERE id = $1 AND user_id = $2
	`, viewID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete recently viewed: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ClearViews removes all recently-viewed rows for a user.
func (r *UserRepository) ClearViews(ctx context.Context, userID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recently_viewed WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear recently viewed: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
