package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc/pool"

	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/tmdb"
	"movie-discovery-backend/internal/transform"
)

// upsertConcurrency caps parallel cache writes per request so one listing
// refresh cannot hog the connection pool.
const upsertConcurrency = 5

// CacheStore is what the catalog needs from the persisted media cache.
type CacheStore interface {
	Upsert(ctx context.Context, item models.MediaItem) error
	Find(ctx context.Context, mediaType models.MediaType, category models.Category, page, limit int) ([]models.MediaItem, error)
	Count(ctx context.Context, mediaType models.MediaType, category models.Category) (int, error)
	FindOne(ctx context.Context, tmdbID int, mediaType models.MediaType, category models.Category) (*models.MediaItem, error)
}

// Upstream is the TMDB surface the catalog consumes.
type Upstream interface {
	Listing(ctx context.Context, mediaType, listing string, page int) (*tmdb.ListResponse, error)
	Details(ctx context.Context, mediaType string, tmdbID int) (*tmdb.RawDetail, error)
	Videos(ctx context.Context, mediaType string, tmdbID int) ([]tmdb.RawVideo, error)
	Related(ctx context.Context, mediaType string, tmdbID int, relation string, page int) (*tmdb.ListResponse, error)
}

// CatalogService is the cache-aside core: serve from the store while fresh,
// refill from TMDB on miss or staleness.
type CatalogService struct {
	store    CacheStore
	upstream Upstream
	now      func() time.Time
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(store CacheStore, upstream Upstream) *CatalogService {
	return &CatalogService{store: store, upstream: upstream, now: time.Now}
}

// Listing serves one page of a listing category (popular, top_rated,
// upcoming, now_playing, on_the_air), cache first.
//
// Freshness is judged on the first row of the sorted page: listing rows are
// written together on refill, so the head of the page ages with the rest.
func (s *CatalogService) Listing(ctx context.Context, mediaType models.MediaType, category models.Category, params models.ListParams) (*models.Page, error) {
	cached, err := s.store.Find(ctx, mediaType, category, params.Page, params.Limit)
	if err != nil {
		return nil, err
	}

	if len(cached) > 0 && cached[0].Fresh(s.now()) && !params.ForceRefresh {
		return s.cachePage(ctx, mediaType, category, params, cached)
	}

	resp, err := s.upstream.Listing(ctx, string(mediaType), listingPath(category), params.Page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	now := s.now()
	items := make([]models.MediaItem, 0, len(resp.Results))
	for _, raw := range resp.Results {
		items = append(items, transform.Item(raw, mediaType, category, now))
	}
	s.upsertAll(ctx, items)

	// Refill responses keep provider order; the store sort only applies to
	// cache hits.
	if len(items) > params.Limit {
		items = items[:params.Limit]
	}
	total, err := s.store.Count(ctx, mediaType, category)
	if err != nil || total == 0 {
		total = resp.TotalResults
	}

	return &models.Page{
		Items:      items,
		Source:     models.SourceTMDB,
		Pagination: models.NewPagination(params.Page, params.Limit, total),
	}, nil
}

// Details serves a full movie or TV record, cache first. Detail rows carry
// credits and videos, so a fresh row answers the details, videos and credits
// endpoints without touching the provider.
func (s *CatalogService) Details(ctx context.Context, mediaType models.MediaType, tmdbID int, forceRefresh bool) (*models.MediaItem, models.Source, error) {
	cached, err := s.store.FindOne(ctx, tmdbID, mediaType, models.CategoryDetails)
	if err != nil {
		return nil, "", err
	}
	if cached != nil && cached.Fresh(s.now()) && !forceRefresh {
		return cached, models.SourceCache, nil
	}

	raw, err := s.upstream.Details(ctx, string(mediaType), tmdbID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	item := transform.Detail(raw, mediaType, s.now())
	if err := s.store.Upsert(ctx, item); err != nil {
		slog.Error("failed to cache detail record",
			"media_type", mediaType, "tmdb_id", tmdbID, "error", err)
	}
	return &item, models.SourceTMDB, nil
}

// Videos returns the bounded trailer list for a record, reusing a fresh
// cached detail row when one exists.
func (s *CatalogService) Videos(ctx context.Context, mediaType models.MediaType, tmdbID int) ([]models.Video, models.Source, error) {
	cached, err := s.store.FindOne(ctx, tmdbID, mediaType, models.CategoryDetails)
	if err == nil && cached != nil && cached.Fresh(s.now()) {
		return cached.Videos, models.SourceCache, nil
	}

	raw, err := s.upstream.Videos(ctx, string(mediaType), tmdbID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return transform.Videos(raw), models.SourceTMDB, nil
}

// Related serves the similar or recommended listing for a record. These pages
// are keyed by the source title upstream, so they proxy the provider and warm
// the cache as a side effect rather than being served back from it.
func (s *CatalogService) Related(ctx context.Context, mediaType models.MediaType, tmdbID int, category models.Category, params models.ListParams) (*models.Page, error) {
	relation := "similar"
	if category == models.CategoryRecommended {
		relation = "recommendations"
	}

	resp, err := s.upstream.Related(ctx, string(mediaType), tmdbID, relation, params.Page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	now := s.now()
	items := make([]models.MediaItem, 0, len(resp.Results))
	for _, raw := range resp.Results {
		items = append(items, transform.Item(raw, mediaType, category, now))
	}
	s.upsertAll(ctx, items)

	if len(items) > params.Limit {
		items = items[:params.Limit]
	}
	return &models.Page{
		Items:      items,
		Source:     models.SourceTMDB,
		Pagination: models.NewPagination(params.Page, params.Limit, resp.TotalResults),
	}, nil
}

func (s *CatalogService) cachePage(ctx context.Context, mediaType models.MediaType, category models.Category, params models.ListParams, items []models.MediaItem) (*models.Page, error) {
	total, err := s.store.Count(ctx, mediaType, category)
	if err != nil {
		return nil, err
	}
	return &models.Page{
		Items:      items,
		Source:     models.SourceCache,
		Pagination: models.NewPagination(params.Page, params.Limit, total),
	}, nil
}

// upsertAll writes a batch of cache rows concurrently. Each upsert is atomic
// on its own key; a failed write only costs a future cache hit, so failures
// are logged and the batch continues.
func (s *CatalogService) upsertAll(ctx context.Context, items []models.MediaItem) {
	p := pool.New().WithMaxGoroutines(upsertConcurrency)
	for _, item := range items {
		item := item
		p.Go(func() {
			if err := s.store.Upsert(ctx, item); err != nil {
				slog.Error("failed to cache media item",
					"tmdb_id", item.TMDBID, "category", item.Category, "error", err)
			}
		})
	}
	p.Wait()
}

// listingPath maps a cache category onto the TMDB listing path segment.
func listingPath(category models.Category) string {
	return string(category)
}
