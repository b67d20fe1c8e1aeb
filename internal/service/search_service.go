package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/tmdb"
	"movie-discovery-backend/internal/transform"
)

// SearchStore is the cache surface free-text search runs over.
type SearchStore interface {
	Upsert(ctx context.Context, item models.MediaItem) error
	Search(ctx context.Context, mediaType models.MediaType, query string, limit int) ([]models.MediaItem, error)
}

// SearchUpstream is the provider's multi-search endpoint.
type SearchUpstream interface {
	SearchMulti(ctx context.Context, query string, page int) (*tmdb.ListResponse, error)
}

// Result caps for free-text search: per-type cache matches, the merged cache
// response, and the proxied provider response.
const (
	searchPerType     = 10
	searchCacheLimit  = 20
	searchRemoteLimit = 10
)

// SearchService answers free-text queries. Every cached row, whatever
// category put it there, doubles as a search index entry, so the cache is
// consulted across movie and TV rows before the provider is.
type SearchService struct {
	store    SearchStore
	upstream SearchUpstream
	now      func() time.Time
}

// NewSearchService creates a new SearchService.
func NewSearchService(store SearchStore, upstream SearchUpstream) *SearchService {
	return &SearchService{store: store, upstream: upstream, now: time.Now}
}

// Search returns matches for a query. Any cache hit at all is served
// without touching the provider; only a fully empty local result proxies
// the provider's multi-search, whose results are stored under the search
// category so repeat queries stay local.
func (s *SearchService) Search(ctx context.Context, query string, params models.ListParams) (*models.Page, error) {
	movies, err := s.store.Search(ctx, models.MediaTypeMovie, query, searchPerType)
	if err != nil {
		return nil, err
	}
	shows, err := s.store.Search(ctx, models.MediaTypeTV, query, searchPerType)
	if err != nil {
		return nil, err
	}

	local := mergeByPopularity(movies, shows, searchCacheLimit)
	if len(local) > 0 {
		return &models.Page{
			Items:      local,
			Source:     models.SourceCache,
			Pagination: models.NewPagination(params.Page, params.Limit, len(local)),
		}, nil
	}

	resp, err := s.upstream.SearchMulti(ctx, query, params.Page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	now := s.now()
	items := make([]models.MediaItem, 0, len(resp.Results))
	for _, raw := range resp.Results {
		// Multi-search mixes in people; only movie and TV rows are kept.
		if raw.MediaType != "movie" && raw.MediaType != "tv" {
			continue
		}
		items = append(items, transform.Item(raw, models.MediaType(raw.MediaType), models.CategorySearch, now))
	}

	p := pool.New().WithMaxGoroutines(upsertConcurrency)
	for _, item := range items {
		item := item
		p.Go(func() {
			if err := s.store.Upsert(ctx, item); err != nil {
				slog.Error("failed to cache search result",
					"tmdb_id", item.TMDBID, "media_type", item.MediaType, "error", err)
			}
		})
	}
	p.Wait()

	if len(items) > searchRemoteLimit {
		items = items[:searchRemoteLimit]
	}
	return &models.Page{
		Items:      items,
		Source:     models.SourceTMDB,
		Pagination: models.NewPagination(params.Page, params.Limit, resp.TotalResults),
	}, nil
}

// mergeByPopularity interleaves movie and TV matches into one ranked list.
func mergeByPopularity(movies, shows []models.MediaItem, limit int) []models.MediaItem {
	merged := make([]models.MediaItem, 0, len(movies)+len(shows))
	merged = append(merged, movies...)
	merged = append(merged, shows...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Popularity > merged[j].Popularity
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
