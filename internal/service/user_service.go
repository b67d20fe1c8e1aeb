package service

import (
	"context"

	"movie-discovery-backend/internal/models"
)

// UserStore is the account, favorites and recently-viewed storage surface.
type UserStore interface {
	UpsertUser(ctx context.Context, subjectID, email, displayName string) (*models.User, error)
	UpdateDisplayName(ctx context.Context, subjectID, displayName string) (*models.User, error)
	UpdatePhotoURL(ctx context.Context, subjectID, photoURL string) error

	ListFavorites(ctx context.Context, userID string, mediaType models.MediaType, page, limit int) ([]models.Favorite, int, error)
	InsertFavorite(ctx context.Context, userID string, req models.AddFavoriteRequest) (*models.Favorite, error)
	GetFavorite(ctx context.Context, userID string, mediaType models.MediaType, mediaID int) (*models.Favorite, error)
	DeleteFavorite(ctx context.Context, userID, favoriteID string) (bool, error)
	DeleteFavoriteByMedia(ctx context.Context, userID string, mediaType models.MediaType, mediaID int) (bool, error)
	ClearFavorites(ctx context.Context, userID string) (int, error)

	UpsertView(ctx context.Context, userID string, req models.TrackViewRequest) (*models.RecentlyViewed, error)
	ListViews(ctx context.Context, userID string, mediaType models.MediaType, page, limit int) ([]models.RecentlyViewed, int, error)
	GetView(ctx context.Context, userID string, mediaType models.MediaType, mediaID int) (*models.RecentlyViewed, error)
	DeleteView(ctx context.Context, userID, viewID string) (bool, error)
	ClearViews(ctx context.Context, userID string) (int, error)
}

// UserService owns accounts, favorites and viewing history. Accounts are
// mirrored from the identity provider on first authenticated request; the
// subject ID is the stable key everywhere.
type UserService struct {
	store UserStore
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// EnsureUser mirrors the verified identity into the users table and returns
// the account.
func (s *UserService) EnsureUser(ctx context.Context, subjectID, email, displayName string) (*models.User, error) {
	return s.store.UpsertUser(ctx, subjectID, email, displayName)
}

// UpdateProfile changes the user's display name.
func (s *UserService) UpdateProfile(ctx context.Context, subjectID, displayName string) (*models.User, error) {
	user, err := s.store.UpdateDisplayName(ctx, subjectID, displayName)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// SetAvatar stores the uploaded avatar path on the user's profile.
func (s *UserService) SetAvatar(ctx context.Context, subjectID, photoURL string) error {
	return s.store.UpdatePhotoURL(ctx, subjectID, photoURL)
}

// ---- Favorites ----

// Favorites returns one page of the user's favorites.
func (s *UserService) Favorites(ctx context.Context, userID string, mediaType models.MediaType, params models.ListParams) ([]models.Favorite, models.Pagination, error) {
	favorites, total, err := s.store.ListFavorites(ctx, userID, mediaType, params.Page, params.Limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return favorites, models.NewPagination(params.Page, params.Limit, total), nil
}

// AddFavorite saves a favorite; saving the same media twice is a conflict.
func (s *UserService) AddFavorite(ctx context.Context, userID string, req models.AddFavoriteRequest) (*models.Favorite, error) {
	fav, err := s.store.InsertFavorite(ctx, userID, req)
	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return fav, nil
}

// IsFavorite reports whether the user has favorited a media item.
func (s *UserService) IsFavorite(ctx context.Context, userID string, mediaType models.MediaType, mediaID int) (bool, *models.Favorite, error) {
	fav, err := s.store.GetFavorite(ctx, userID, mediaType, mediaID)
	if err != nil {
		return false, nil, err
	}
	return fav != nil, fav, nil
}

// RemoveFavorite deletes a favorite by its ID.
func (s *UserService) RemoveFavorite(ctx context.Context, userID, favoriteID string) error {
	removed, err := s.store.DeleteFavorite(ctx, userID, favoriteID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// RemoveFavoriteByMedia deletes a favorite by its media key, for clients
// that toggle from a detail page without holding the favorite ID.
func (s *UserService) RemoveFavoriteByMedia(ctx context.Context, userID string, mediaType models.MediaType, mediaID int) error {
	removed, err := s.store.DeleteFavoriteByMedia(ctx, userID, mediaType, mediaID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// ClearFavorites removes everything and returns how many rows went.
func (s *UserService) ClearFavorites(ctx context.Context, userID string) (int, error) {
	return s.store.ClearFavorites(ctx, userID)
}

// ---- Recently viewed ----

// TrackView records a view, bumping the count on repeats.
func (s *UserService) TrackView(ctx context.Context, userID string, req models.TrackViewRequest) (*models.RecentlyViewed, error) {
	return s.store.UpsertView(ctx, userID, req)
}

// RecentlyViewed returns one page of viewing history, most recent first.
func (s *UserService) RecentlyViewed(ctx context.Context, userID string, mediaType models.MediaType, params models.ListParams) ([]models.RecentlyViewed, models.Pagination, error) {
	views, total, err := s.store.ListViews(ctx, userID, mediaType, params.Page, params.Limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return views, models.NewPagination(params.Page, params.Limit, total), nil
}

// Progress returns playback state for one media item. Unwatched media yields
// zeroes rather than a not-found error so players can always ask.
func (s *UserService) Progress(ctx context.Context, userID string, mediaType models.MediaType, mediaID int) (*models.WatchProgress, error) {
	view, err := s.store.GetView(ctx, userID, mediaType, mediaID)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return &models.WatchProgress{}, nil
	}
	viewedAt := view.ViewedAt
	return &models.WatchProgress{
		WatchProgress:     view.WatchProgress,
		LastWatchPosition: view.LastWatchPosition,
		ViewCount:         view.ViewCount,
		ViewedAt:          &viewedAt,
	}, nil
}

// RemoveView deletes one history entry.
func (s *UserService) RemoveView(ctx context.Context, userID, viewID string) error {
	removed, err := s.store.DeleteView(ctx, userID, viewID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// ClearViews wipes the user's viewing history.
func (s *UserService) ClearViews(ctx context.Context, userID string) (int, error) {
	return s.store.ClearViews(ctx, userID)
}
