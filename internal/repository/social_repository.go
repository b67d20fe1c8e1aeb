package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"movie-discovery-backend/internal/models"
)

// SocialRepository stores comments, reviews and their vote tables.
type SocialRepository struct {
	db *sql.DB
}

// NewSocialRepository creates a new SocialRepository.
func NewSocialRepository(db *sql.DB) *SocialRepository {
	return &SocialRepository{db: db}
}

// ---- Comments ----

const commentColumns = `id, media_id, media_type, user_id, user_name,
	user_photo_url, text, parent_id, likes_count, reply_count, is_deleted,
	created_at, updated_at`

// InsertComment posts a top-level comment or a reply. Replies bump the
// parent's reply_count.
func (r *SocialRepository) InsertComment(ctx context.Context, mediaType models.MediaType, mediaID int, userID, userName, userPhotoURL string, req models.CreateCommentRequest) (*models.Comment, error) {
	parent := sql.NullString{}
	if req.ParentID != nil {
		parent = sql.NullString{String: *req.ParentID, Valid: true}
	}

	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		INSERT INTO comments (id, media_id, media_type, user_id, user_name,
			user_photo_url, text, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s
	`, commentColumns), uuid.NewString(), mediaID, mediaType, userID,
		userName, userPhotoURL, req.Text, parent)

	c, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	if parent.Valid {
		_, _ = r.db.ExecContext(ctx, `
			UPDATE comments SET reply_count = reply_count + 1 WHERE id = $1
		`, parent.String)
	}
	return c, nil
}

// commentOrder maps the API sort keys onto ORDER BY clauses. Unknown keys
// fall back to newest.
func commentOrder(sort string) string {
	switch sort {
	case "oldest":
		return "created_at"
	case "mostLiked":
		return "likes_count DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

// ListComments returns one page of top-level comments for a media item in
// the requested order, plus the total for pagination. Replies are fetched
// per comment via ListReplies.
func (r *SocialRepository) ListComments(ctx context.Context, mediaType models.MediaType, mediaID, page, limit int, sort string) ([]models.Comment, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM comments
		WHERE media_id = $1 AND media_type = $2 AND parent_id IS NULL AND NOT is_deleted
	`, mediaID, mediaType).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("comments count failed: %w", err)
	}

	offset := (page - 1) * limit
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM comments
		WHERE media_id = $1 AND media_type = $2 AND parent_id IS NULL AND NOT is_deleted
		ORDER BY %s
		LIMIT $3 OFFSET $4
	`, commentColumns, commentOrder(sort)), mediaID, mediaType, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("comments query failed: %w", err)
	}
	defer rows.Close()

	comments, err := scanComments(rows)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// ListReplies returns the replies under one comment, oldest first.
func (r *SocialRepository) ListReplies(ctx context.Context, parentID string) ([]models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM comments
		WHERE parent_id = $1 AND NOT is_deleted
		ORDER BY created_at
	`, commentColumns), parentID)
	if err != nil {
		return nil, fmt.Errorf("replies query failed: %w", err)
	}
	defer rows.Close()

	return scanComments(rows)
}

// GetComment returns one comment, or nil when absent.
func (r *SocialRepository) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s FROM comments WHERE id = $1
	`, commentColumns), commentID)

	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("comment lookup failed: %w", err)
	}
	return c, nil
}

// UpdateCommentText edits the body of a comment.
func (r *SocialRepository) UpdateCommentText(ctx context.Context, commentID, text string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE comments SET text = $1, updated_at = NOW() WHERE id = $2
	`, text, commentID)
	return err
}

// SoftDeleteComment replaces the body with a tombstone but keeps the row so
// reply threads under it stay intact.
func (r *SocialRepository) SoftDeleteComment(ctx context.Context, commentID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE comments
		SET is_deleted = TRUE, text = '[Comment deleted]', updated_at = NOW()
		WHERE id = $1
	`, commentID)
	return err
}

// CommentStats counts the live comments and replies on a media item.
func (r *SocialRepository) CommentStats(ctx context.Context, mediaType models.MediaType, mediaID int) (*models.CommentStats, error) {
	var stats models.CommentStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE parent_id IS NULL),
			COUNT(*) FILTER (WHERE parent_id IS NOT NULL)
		FROM comments
		WHERE media_id = $1 AND media_type = $2 AND NOT is_deleted
	`, mediaID, mediaType).Scan(&stats.Total, &stats.TopLevel, &stats.Replies)
	if err != nil {
		return nil, fmt.Errorf("comment stats failed: %w", err)
	}
	return &stats, nil
}

// ToggleCommentLike flips a user's like on a comment and returns the new
// liked state with the updated count.
func (r *SocialRepository) ToggleCommentLike(ctx context.Context, commentID, userID string) (liked bool, likes int, err error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2
	`, commentID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("failed to toggle like: %w", err)
	}
	removed, _ := res.RowsAffected()

	if removed > 0 {
		_, err = r.db.ExecContext(ctx, `
			UPDATE comments SET likes_count = GREATEST(likes_count - 1, 0) WHERE id = $1
		`, commentID)
	} else {
		liked = true
		if _, err = r.db.ExecContext(ctx, `
			INSERT INTO comment_likes (comment_id, user_id) VALUES ($1, $2)
		`, commentID, userID); err == nil {
			_, err = r.db.ExecContext(ctx, `
				UPDATE comments SET likes_count = likes_count + 1 WHERE id = $1
			`, commentID)
		}
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to toggle like: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT likes_count FROM comments WHERE id = $1`, commentID).Scan(&likes)
	if err != nil {
		return false, 0, fmt.Errorf("failed to read like count: %w", err)
	}
	return liked, likes, nil
}

// ---- Reviews ----

const reviewColumns = `id, media_id, media_type, user_id, user_name,
	user_photo_url, sentiment, title, text, contains_spoilers, helpful_count,
	unhelpful_count, is_deleted, created_at, updated_at`

// InsertReview posts a review. The unique constraint on
// (media_id, media_type, user_id) enforces one review per user per title;
// callers translate the pq unique-violation into a conflict error.
func (r *SocialRepository) InsertReview(ctx context.Context, mediaType models.MediaType, mediaID int, userID, userName, userPhotoURL string, req models.CreateReviewRequest) (*models.Review, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		INSERT INTO reviews (id, media_id, media_type, user_id, user_name,
			user_photo_url, sentiment, title, text, contains_spoilers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s
	`, reviewColumns), uuid.NewString(), mediaID, mediaType, userID,
		userName, userPhotoURL, req.Sentiment, req.Title, req.Text,
		req.ContainsSpoilers)

	return scanReview(row)
}

// reviewOrder maps the API sort keys onto ORDER BY clauses. Unknown keys
// fall back to newest.
func reviewOrder(sort string) string {
	switch sort {
	case "oldest":
		return "created_at"
	case "mostHelpful":
		return "helpful_count DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

// ListReviews returns one page of reviews for a media item in the requested
// order, optionally filtered by sentiment, plus the total for pagination.
func (r *SocialRepository) ListReviews(ctx context.Context, mediaType models.MediaType, mediaID, page, limit int, sentiment models.Sentiment, sort string) ([]models.Review, int, error) {
	where := "media_id = $1 AND media_type = $2 AND NOT is_deleted"
	args := []any{mediaID, mediaType}
	if sentiment != "" {
		where += " AND sentiment = $3"
		args = append(args, sentiment)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM reviews WHERE %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("reviews count failed: %w", err)
	}

	offset := (page - 1) * limit
	listQuery := fmt.Sprintf(`
		SELECT %s FROM reviews
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, reviewColumns, where, reviewOrder(sort), len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("reviews query failed: %w", err)
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, *rv)
	}
	return reviews, total, rows.Err()
}

// GetReview returns one review, or nil when absent.
func (r *SocialRepository) GetReview(ctx context.Context, reviewID string) (*models.Review, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s FROM reviews WHERE id = $1
	`, reviewColumns), reviewID)

	rv, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("review lookup failed: %w", err)
	}
	return rv, nil
}

// GetUserReview returns the user's review for one media key, or nil.
func (r *SocialRepository) GetUserReview(ctx context.Context, mediaType models.MediaType, mediaID int, userID string) (*models.Review, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s FROM reviews
		WHERE media_id = $1 AND media_type = $2 AND user_id = $3 AND NOT is_deleted
	`, reviewColumns), mediaID, mediaType, userID)

	rv, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("review lookup failed: %w", err)
	}
	return rv, nil
}

// UpdateReview applies the non-nil fields of req to an existing review.
func (r *SocialRepository) UpdateReview(ctx context.Context, reviewID string, req models.UpdateReviewRequest) (*models.Review, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		UPDATE reviews SET
			sentiment = COALESCE($1, sentiment),
			title = COALESCE($2, title),
			text = COALESCE($3, text),
			contains_spoilers = COALESCE($4, contains_spoilers),
			updated_at = NOW()
		WHERE id = $5
		RETURNING %s
	`, reviewColumns), req.Sentiment, req.Title, req.Text,
		req.ContainsSpoilers, reviewID)

	rv, err := scanReview(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return rv, nil
}

// SoftDeleteReview hides a review while keeping its vote history.
func (r *SocialRepository) SoftDeleteReview(ctx context.Context, reviewID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE reviews SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1
	`, reviewID)
	return err
}

// ReviewStats returns the live review count and per-sentiment breakdown for
// a media item.
func (r *SocialRepository) ReviewStats(ctx context.Context, mediaType models.MediaType, mediaID int) (*models.ReviewStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sentiment, COUNT(*) FROM reviews
		WHERE media_id = $1 AND media_type = $2 AND NOT is_deleted
		GROUP BY sentiment
	`, mediaID, mediaType)
	if err != nil {
		return nil, fmt.Errorf("review stats failed: %w", err)
	}
	defer rows.Close()

	stats := models.ReviewStats{Breakdown: map[models.Sentiment]int{}}
	for rows.Next() {
		var (
			sentiment models.Sentiment
			count     int
		)
		if err := rows.Scan(&sentiment, &count); err != nil {
			return nil, fmt.Errorf("failed to scan review stats: %w", err)
		}
		stats.Breakdown[sentiment] = count
		stats.Total += count
	}
	return &stats, rows.Err()
}

// VoteReview records a helpful/unhelpful vote, replacing the user's earlier
// vote on the same review, and returns the updated counts.
func (r *SocialRepository) VoteReview(ctx context.Context, reviewID, userID string, helpful bool) (helpfulCount, unhelpfulCount int, err error) {
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO review_votes (review_id, user_id, helpful)
		VALUES ($1, $2, $3)
		ON CONFLICT (review_id, user_id) DO UPDATE SET
			helpful = EXCLUDED.helpful,
			created_at = NOW()
	`, reviewID, userID, helpful)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to record vote: %w", err)
	}

	// Recompute from the vote table so replaced votes cannot drift the
	// counters.
	err = r.db.QueryRowContext(ctx, `
		UPDATE reviews SET
			helpful_count = (SELECT COUNT(*) FROM review_votes WHERE review_id = $1 AND helpful),
			unhelpful_count = (SELECT COUNT(*) FROM review_votes WHERE review_id = $1 AND NOT helpful)
		WHERE id = $1
		RETURNING helpful_count, unhelpful_count
	`, reviewID).Scan(&helpfulCount, &unhelpfulCount)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to update vote counts: %w", err)
	}
	return helpfulCount, unhelpfulCount, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var (
		c      models.Comment
		parent sql.NullString
	)
	err := row.Scan(&c.ID, &c.MediaID, &c.MediaType, &c.UserID, &c.UserName,
		&c.UserPhotoURL, &c.Text, &parent, &c.LikesCount, &c.ReplyCount,
		&c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if parent.Valid {
		c.ParentID = &parent.String
	}
	return &c, nil
}

func scanComments(rows *sql.Rows) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

func scanReview(row rowScanner) (*models.Review, error) {
	var rv models.Review
	err := row.Scan(&rv.ID, &rv.MediaID, &rv.MediaType, &rv.UserID,
		&rv.UserName, &rv.UserPhotoURL, &rv.Sentiment, &rv.Title, &rv.Text,
		&rv.ContainsSpoilers, &rv.HelpfulCount, &rv.UnhelpfulCount,
		&rv.IsDeleted, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}
