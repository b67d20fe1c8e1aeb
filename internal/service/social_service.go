package service

import (
	"context"

	"movie-discovery-backend/internal/models"
)

// SocialStore is the comments and reviews storage surface.
type SocialStore interface {
	InsertComment(ctx context.Context, mediaType models.MediaType, mediaID int, userID, userName, userPhotoURL string, req models.CreateCommentRequest) (*models.Comment, error)
	ListComments(ctx context.Context, mediaType models.MediaType, mediaID, page, limit int, sort string) ([]models.Comment, int, error)
	ListReplies(ctx context.Context, parentID string) ([]models.Comment, error)
	GetComment(ctx context.Context, commentID string) (*models.Comment, error)
	UpdateCommentText(ctx context.Context, commentID, text string) error
	SoftDeleteComment(ctx context.Context, commentID string) error
	ToggleCommentLike(ctx context.Context, commentID, userID string) (bool, int, error)
	CommentStats(ctx context.Context, mediaType models.MediaType, mediaID int) (*models.CommentStats, error)

	InsertReview(ctx context.Context, mediaType models.MediaType, mediaID int, userID, userName, userPhotoURL string, req models.CreateReviewRequest) (*models.Review, error)
	ListReviews(ctx context.Context, mediaType models.MediaType, mediaID, page, limit int, sentiment models.Sentiment, sort string) ([]models.Review, int, error)
	GetReview(ctx context.Context, reviewID string) (*models.Review, error)
	GetUserReview(ctx context.Context, mediaType models.MediaType, mediaID int, userID string) (*models.Review, error)
	UpdateReview(ctx context.Context, reviewID string, req models.UpdateReviewRequest) (*models.Review, error)
	SoftDeleteReview(ctx context.Context, reviewID string) error
	VoteReview(ctx context.Context, reviewID, userID string, helpful bool) (int, int, error)
	ReviewStats(ctx context.Context, mediaType models.MediaType, mediaID int) (*models.ReviewStats, error)
}

// Identity is the verified caller attached to social writes, denormalized
// onto rows so threads render without user lookups.
type Identity struct {
	SubjectID string
	Email     string
	Name      string
	PhotoURL  string
}

// SocialService owns comments and reviews on media items.
type SocialService struct {
	store SocialStore
}

// NewSocialService creates a new SocialService.
func NewSocialService(store SocialStore) *SocialService {
	return &SocialService{store: store}
}

// ---- Comments ----

// PostComment creates a top-level comment or, when ParentID is set, a reply.
// Replies to replies are flattened upstream by the client; the server only
// checks that the parent exists on the same media.
func (s *SocialService) PostComment(ctx context.Context, who Identity, mediaType models.MediaType, mediaID int, req models.CreateCommentRequest) (*models.Comment, error) {
	if req.ParentID != nil {
		parent, err := s.store.GetComment(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.IsDeleted {
			return nil, ErrNotFound
		}
		if parent.MediaID != mediaID || parent.MediaType != mediaType {
			return nil, ErrNotFound
		}
	}
	return s.store.InsertComment(ctx, mediaType, mediaID, who.SubjectID, who.Name, who.PhotoURL, req)
}

// Comments returns one page of top-level comments for a media item. sort is
// newest, oldest or mostLiked; anything else means newest.
func (s *SocialService) Comments(ctx context.Context, mediaType models.MediaType, mediaID int, params models.ListParams, sort string) ([]models.Comment, models.Pagination, error) {
	comments, total, err := s.store.ListComments(ctx, mediaType, mediaID, params.Page, params.Limit, sort)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return comments, models.NewPagination(params.Page, params.Limit, total), nil
}

// CommentStats summarizes live comment activity on a media item.
func (s *SocialService) CommentStats(ctx context.Context, mediaType models.MediaType, mediaID int) (*models.CommentStats, error) {
	return s.store.CommentStats(ctx, mediaType, mediaID)
}

// Replies returns the thread under one comment, oldest first.
func (s *SocialService) Replies(ctx context.Context, commentID string) ([]models.Comment, error) {
	parent, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, ErrNotFound
	}
	return s.store.ListReplies(ctx, commentID)
}

// EditComment changes the text of the caller's own comment.
func (s *SocialService) EditComment(ctx context.Context, who Identity, commentID, text string) (*models.Comment, error) {
	c, err := s.ownComment(ctx, who, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateCommentText(ctx, c.ID, text); err != nil {
		return nil, err
	}
	return s.store.GetComment(ctx, c.ID)
}

// DeleteComment soft-deletes the caller's own comment, keeping the row so
// replies under it stay threaded.
func (s *SocialService) DeleteComment(ctx context.Context, who Identity, commentID string) error {
	c, err := s.ownComment(ctx, who, commentID)
	if err != nil {
		return err
	}
	return s.store.SoftDeleteComment(ctx, c.ID)
}

// ToggleLike flips the caller's like on a comment and returns the new state
// with the updated count.
func (s *SocialService) ToggleLike(ctx context.Context, who Identity, commentID string) (liked bool, likes int, err error) {
	c, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return false, 0, err
	}
	if c == nil || c.IsDeleted {
		return false, 0, ErrNotFound
	}
	return s.store.ToggleCommentLike(ctx, commentID, who.SubjectID)
}

func (s *SocialService) ownComment(ctx context.Context, who Identity, commentID string) (*models.Comment, error) {
	c, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.IsDeleted {
		return nil, ErrNotFound
	}
	if c.UserID != who.SubjectID {
		return nil, ErrForbidden
	}
	return c, nil
}

// ---- Reviews ----

// PostReview creates the caller's review for a media item; a second review
// of the same title is a conflict.
func (s *SocialService) PostReview(ctx context.Context, who Identity, mediaType models.MediaType, mediaID int, req models.CreateReviewRequest) (*models.Review, error) {
	rv, err := s.store.InsertReview(ctx, mediaType, mediaID, who.SubjectID, who.Name, who.PhotoURL, req)
	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return rv, nil
}

// Reviews returns one page of reviews for a media item, optionally filtered
// by sentiment. sort is newest, oldest or mostHelpful.
func (s *SocialService) Reviews(ctx context.Context, mediaType models.MediaType, mediaID int, params models.ListParams, sentiment models.Sentiment, sort string) ([]models.Review, models.Pagination, error) {
	reviews, total, err := s.store.ListReviews(ctx, mediaType, mediaID, params.Page, params.Limit, sentiment, sort)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return reviews, models.NewPagination(params.Page, params.Limit, total), nil
}

// ReviewStats summarizes live reviews on a media item per sentiment.
func (s *SocialService) ReviewStats(ctx context.Context, mediaType models.MediaType, mediaID int) (*models.ReviewStats, error) {
	return s.store.ReviewStats(ctx, mediaType, mediaID)
}

// UserReview returns the caller's own review for a title, or ErrNotFound.
func (s *SocialService) UserReview(ctx context.Context, who Identity, mediaType models.MediaType, mediaID int) (*models.Review, error) {
	rv, err := s.store.GetUserReview(ctx, mediaType, mediaID, who.SubjectID)
	if err != nil {
		return nil, err
	}
	if rv == nil {
		return nil, ErrNotFound
	}
	return rv, nil
}

// EditReview applies a partial update to the caller's own review.
func (s *SocialService) EditReview(ctx context.Context, who Identity, reviewID string, req models.UpdateReviewRequest) (*models.Review, error) {
	if _, err := s.ownReview(ctx, who, reviewID); err != nil {
		return nil, err
	}
	return s.store.UpdateReview(ctx, reviewID, req)
}

// DeleteReview soft-deletes the caller's own review.
func (s *SocialService) DeleteReview(ctx context.Context, who Identity, reviewID string) error {
	if _, err := s.ownReview(ctx, who, reviewID); err != nil {
		return err
	}
	return s.store.SoftDeleteReview(ctx, reviewID)
}

// VoteReview records a helpful/unhelpful vote on someone else's review,
// replacing any earlier vote by the same caller.
func (s *SocialService) VoteReview(ctx context.Context, who Identity, reviewID string, helpful bool) (helpfulCount, unhelpfulCount int, err error) {
	rv, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return 0, 0, err
	}
	if rv == nil || rv.IsDeleted {
		return 0, 0, ErrNotFound
	}
	if rv.UserID == who.SubjectID {
		return 0, 0, ErrForbidden
	}
	return s.store.VoteReview(ctx, reviewID, who.SubjectID, helpful)
}

func (s *SocialService) ownReview(ctx context.Context, who Identity, reviewID string) (*models.Review, error) {
	rv, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rv == nil || rv.IsDeleted {
		return nil, ErrNotFound
	}
	if rv.UserID != who.SubjectID {
		return nil, ErrForbidden
	}
	return rv, nil
}
