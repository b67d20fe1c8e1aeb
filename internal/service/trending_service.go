package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/tmdb"
	"movie-discovery-backend/internal/transform"
)

// trendingLimit is the fixed size of a trending response.
const trendingLimit = 10

// TrendingStore is what the trending refresh needs from the cache.
type TrendingStore interface {
	DeleteTrending(ctx context.Context, window models.TimeWindow, mediaType models.MediaType) (int, error)
	InsertTrending(ctx context.Context, item models.MediaItem) error
	FindTrending(ctx context.Context, window models.TimeWindow, mediaType models.MediaType, limit int) ([]models.MediaItem, error)
}

// TrendingUpstream fetches the provider's ranked trending list.
type TrendingUpstream interface {
	Trending(ctx context.Context, mediaType, window string) (*tmdb.ListResponse, error)
}

// TrendingService serves the ranked trending list per time window. Unlike
// listings, a stale window is refreshed by clearing its rows and rebuilding
// from the provider, since trending ranks churn wholesale rather than drift.
type TrendingService struct {
	store    TrendingStore
	upstream TrendingUpstream
	now      func() time.Time
}

// NewTrendingService creates a new TrendingService.
func NewTrendingService(store TrendingStore, upstream TrendingUpstream) *TrendingService {
	return &TrendingService{store: store, upstream: upstream, now: time.Now}
}

// Trending returns the top trending titles for a window, optionally
// restricted to one media type. mediaType "" means movies and TV mixed.
func (s *TrendingService) Trending(ctx context.Context, window models.TimeWindow, mediaType models.MediaType, forceRefresh bool) ([]models.MediaItem, models.Source, error) {
	cached, err := s.store.FindTrending(ctx, window, mediaType, trendingLimit)
	if err != nil {
		return nil, "", err
	}
	if len(cached) > 0 && cached[0].Fresh(s.now()) && !forceRefresh {
		return cached, models.SourceCache, nil
	}

	scope := "all"
	if mediaType != "" {
		scope = string(mediaType)
	}
	resp, err := s.upstream.Trending(ctx, scope, string(window))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	// Clear-and-rebuild: yesterday's entries must not linger under today's
	// ranking, so the window is wiped before the fresh rows go in.
	if _, err := s.store.DeleteTrending(ctx, window, mediaType); err != nil {
		return nil, "", err
	}

	now := s.now()
	for _, raw := range resp.Results {
		if raw.MediaType != "movie" && raw.MediaType != "tv" {
			continue
		}
		item := transform.Trending(raw, window, now)
		if err := s.store.InsertTrending(ctx, item); err != nil {
			slog.Error("failed to cache trending item",
				"tmdb_id", item.TMDBID, "window", window, "error", err)
		}
	}

	items, err := s.store.FindTrending(ctx, window, mediaType, trendingLimit)
	if err != nil {
		return nil, "", err
	}
	return items, models.SourceTMDB, nil
}
