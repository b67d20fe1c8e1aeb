package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/tmdb"
)

func newSearch(store *fakeStore, upstream *fakeUpstream, now time.Time) *SearchService {
	svc := NewSearchService(store, upstream)
	svc.now = func() time.Time { return now }
	return svc
}

func TestSearchCacheHitSkipsUpstream(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	require.NoError(t, store.Upsert(context.Background(), models.MediaItem{
		TMDBID: 603, MediaType: models.MediaTypeMovie, Category: models.CategoryPopular,
		Title: "The Matrix", Popularity: 90, FetchedAt: now,
	}))
	require.NoError(t, store.Upsert(context.Background(), models.MediaItem{
		TMDBID: 2, MediaType: models.MediaTypeTV, Category: models.CategoryTopRated,
		Name: "Matrix Documentary", Popularity: 95, FetchedAt: now,
	}))
	upstream := &fakeUpstream{}
	svc := newSearch(store, upstream, now)

	page, err := svc.Search(context.Background(), "matrix", models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, models.SourceCache, page.Source)
	require.Len(t, page.Items, 2, "matches come from every cached category")
	assert.Equal(t, 2, page.Items[0].TMDBID, "merged results ranked by popularity")
	assert.Equal(t, 0, upstream.searchCalls, "any local hit skips the provider")
}

func TestSearchMissProxiesAndCaches(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	upstream := &fakeUpstream{search: &tmdb.ListResponse{
		Results: []tmdb.RawItem{
			{ID: 634649, MediaType: "movie", Title: "Spider-Man", Popularity: 80},
			{ID: 94605, MediaType: "tv", Name: "Arcane", Popularity: 70},
			{ID: 12345, MediaType: "person", Popularity: 99},
		},
		TotalResults: 3,
	}}
	svc := newSearch(store, upstream, now)

	page, err := svc.Search(context.Background(), "nothing cached", models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, models.SourceTMDB, page.Source)
	assert.Len(t, page.Items, 2, "person results are dropped")
	assert.Equal(t, 1, upstream.searchCalls)

	// Results land in the cache under the search category, one per media type.
	movie, err := store.FindOne(context.Background(), 634649, models.MediaTypeMovie, models.CategorySearch)
	require.NoError(t, err)
	require.NotNil(t, movie)
	show, err := store.FindOne(context.Background(), 94605, models.MediaTypeTV, models.CategorySearch)
	require.NoError(t, err)
	require.NotNil(t, show)
}

func TestSearchRepeatQueryServedLocally(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	upstream := &fakeUpstream{search: &tmdb.ListResponse{
		Results:      []tmdb.RawItem{{ID: 1, MediaType: "movie", Title: "Dune", Popularity: 60}},
		TotalResults: 1,
	}}
	svc := newSearch(store, upstream, now)

	_, err := svc.Search(context.Background(), "dune", models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)

	page, err := svc.Search(context.Background(), "dune", models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, models.SourceCache, page.Source)
	assert.Equal(t, 1, upstream.searchCalls, "repeat queries stay local")
}
