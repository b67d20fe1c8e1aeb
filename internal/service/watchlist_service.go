package service

import (
	"context"

	"movie-discovery-backend/internal/models"
)

// WatchlistStore is the watchlist storage surface.
type WatchlistStore interface {
	Create(ctx context.Context, userID string, req models.CreateWatchlistRequest) (*models.Watchlist, error)
	List(ctx context.Context, userID string) ([]models.Watchlist, error)
	Get(ctx context.Context, watchlistID string) (*models.Watchlist, error)
	Update(ctx context.Context, watchlistID string, req models.CreateWatchlistRequest) error
	Delete(ctx context.Context, watchlistID string) error
	AddItem(ctx context.Context, watchlistID string, req models.AddWatchlistItemRequest) (*models.WatchlistItem, error)
	RemoveItem(ctx context.Context, watchlistID, itemID string) (bool, error)
}

// WatchlistService owns named user collections. Reads of public lists are
// open; every mutation requires ownership.
type WatchlistService struct {
	store WatchlistStore
}

// NewWatchlistService creates a new WatchlistService.
func NewWatchlistService(store WatchlistStore) *WatchlistService {
	return &WatchlistService{store: store}
}

// Create makes a new empty watchlist for the user.
func (s *WatchlistService) Create(ctx context.Context, userID string, req models.CreateWatchlistRequest) (*models.Watchlist, error) {
	return s.store.Create(ctx, userID, req)
}

// List returns all of the user's watchlists with items.
func (s *WatchlistService) List(ctx context.Context, userID string) ([]models.Watchlist, error) {
	return s.store.List(ctx, userID)
}

// Get returns one watchlist. Non-owners may only read public lists.
func (s *WatchlistService) Get(ctx context.Context, userID, watchlistID string) (*models.Watchlist, error) {
	w, err := s.store.Get(ctx, watchlistID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNotFound
	}
	if w.UserID != userID && !w.IsPublic {
		return nil, ErrForbidden
	}
	return w, nil
}

// Update renames a watchlist or flips its visibility. Owner only.
func (s *WatchlistService) Update(ctx context.Context, userID, watchlistID string, req models.CreateWatchlistRequest) (*models.Watchlist, error) {
	if err := s.requireOwner(ctx, userID, watchlistID); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, watchlistID, req); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, watchlistID)
}

// Delete removes a watchlist and its items. Owner only.
func (s *WatchlistService) Delete(ctx context.Context, userID, watchlistID string) error {
	if err := s.requireOwner(ctx, userID, watchlistID); err != nil {
		return err
	}
	return s.store.Delete(ctx, watchlistID)
}

// AddItem appends media to a watchlist; the same media twice is a conflict.
// Owner only.
func (s *WatchlistService) AddItem(ctx context.Context, userID, watchlistID string, req models.AddWatchlistItemRequest) (*models.WatchlistItem, error) {
	if err := s.requireOwner(ctx, userID, watchlistID); err != nil {
		return nil, err
	}
	item, err := s.store.AddItem(ctx, watchlistID, req)
	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem drops one entry from a watchlist. Owner only.
func (s *WatchlistService) RemoveItem(ctx context.Context, userID, watchlistID, itemID string) error {
	if err := s.requireOwner(ctx, userID, watchlistID); err != nil {
		return err
	}
	removed, err := s.store.RemoveItem(ctx, watchlistID, itemID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

func (s *WatchlistService) requireOwner(ctx context.Context, userID, watchlistID string) error {
	w, err := s.store.Get(ctx, watchlistID)
	if err != nil {
		return err
	}
	if w == nil {
		return ErrNotFound
	}
	if w.UserID != userID {
		return ErrForbidden
	}
	return nil
}
