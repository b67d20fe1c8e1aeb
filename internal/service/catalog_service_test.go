package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/tmdb"
)

func listingResponse(ids ...int) *tmdb.ListResponse {
	results := make([]tmdb.RawItem, 0, len(ids))
	for i, id := range ids {
		results = append(results, tmdb.RawItem{
			ID:          id,
			Title:       "Movie",
			Popularity:  float64(100 - i),
			VoteAverage: 7.5,
			ReleaseDate: "2024-01-01",
		})
	}
	return &tmdb.ListResponse{Page: 1, Results: results, TotalPages: 1, TotalResults: len(ids)}
}

func newCatalog(store *fakeStore, upstream *fakeUpstream, now time.Time) *CatalogService {
	svc := NewCatalogService(store, upstream)
	svc.now = func() time.Time { return now }
	return svc
}

func TestListingMissFetchesAndCaches(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	upstream := &fakeUpstream{listing: listingResponse(1, 2, 3)}
	svc := newCatalog(store, upstream, now)

	page, err := svc.Listing(context.Background(), models.MediaTypeMovie, models.CategoryPopular,
		models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, models.SourceTMDB, page.Source)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 1, upstream.listingCalls)
	assert.Equal(t, 3, store.upserts)
	assert.Equal(t, 3, page.Pagination.Total)
}

func TestListingHitSkipsUpstream(t *testing.T) {
	start := time.Now()
	store := newFakeStore()
	upstream := &fakeUpstream{listing: listingResponse(1, 2)}
	svc := newCatalog(store, upstream, start)

	_, err := svc.Listing(context.Background(), models.MediaTypeMovie, models.CategoryPopular,
		models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)

	// One second inside the weekly window the rows still count as fresh.
	svc.now = func() time.Time { return start.Add(7*24*time.Hour - time.Second) }

	page, err := svc.Listing(context.Background(), models.MediaTypeMovie, models.CategoryPopular,
		models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, models.SourceCache, page.Source)
	assert.Equal(t, 1, upstream.listingCalls, "second request must not hit the provider")
}

func TestListingStaleRefetches(t *testing.T) {
	start := time.Now()
	store := newFakeStore()
	upstream := &fakeUpstream{listing: listingResponse(1)}
	svc := newCatalog(store, upstream, start)

	_, err := svc.Listing(context.Background(), models.MediaTypeMovie, models.CategoryPopular,
		models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)

	// Popular rows live a week; step past the TTL.
	svc.now = func() time.Time { return start.Add(7*24*time.Hour + time.Minute) }

	page, err := svc.Listing(context.Background(), models.MediaTypeMovie, models.CategoryPopular,
		models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, models.SourceTMDB, page.Source)
	assert.Equal(t, 2, upstream.listingCalls)
}

func TestListingForceRefreshBypassesFreshCache(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	upstream := &fakeUpstream{listing: listingResponse(1)}
	svc := newCatalog(store, upstream, now)

	_, err := svc.Listing(context.Background(), models.MediaTypeMovie, models.CategoryPopular,
		models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)

	page, err := svc.Listing(context.Background(), models.MediaTypeMovie, models.CategoryPopular,
		models.ListParams{Page: 1, Limit: 10, ForceRefresh: true})
	require.NoError(t, err)

	assert.Equal(t, models.SourceTMDB, page.Source)
	assert.Equal(t, 2, upstream.listingCalls)
}

func TestListingCategoryIsolation(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	upstream := &fakeUpstream{listing: listingResponse(1, 2)}
	svc := newCatalog(store, upstream, now)

	_, err := svc.Listing(context.Background(), models.MediaTypeMovie, models.CategoryPopular,
		models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)

	// Same titles cached under popular must not satisfy top_rated.
	_, err = svc.Listing(context.Background(), models.MediaTypeMovie, models.CategoryTopRated,
		models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, 2, upstream.listingCalls)
	assert.Equal(t, 4, store.upserts, "two rows per category")
}

func TestListingUpsertIdempotent(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	upstream := &fakeUpstream{listing: listingResponse(1)}
	svc := newCatalog(store, upstream, now)

	for i := 0; i < 3; i++ {
		_, err := svc.Listing(context.Background(), models.MediaTypeMovie, models.CategoryPopular,
			models.ListParams{Page: 1, Limit: 10, ForceRefresh: true})
		require.NoError(t, err)
	}

	count, err := store.Count(context.Background(), models.MediaTypeMovie, models.CategoryPopular)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "repeated refreshes must not duplicate rows")
}

func TestListingUpstreamFailure(t *testing.T) {
	store := newFakeStore()
	upstream := &fakeUpstream{err: errors.New("connection refused")}
	svc := newCatalog(store, upstream, time.Now())

	_, err := svc.Listing(context.Background(), models.MediaTypeMovie, models.CategoryPopular,
		models.ListParams{Page: 1, Limit: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestDetailsCacheRoundTrip(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	upstream := &fakeUpstream{detail: &tmdb.RawDetail{
		RawItem: tmdb.RawItem{ID: 603, Title: "The Matrix"},
		Runtime: 136,
	}}
	svc := newCatalog(store, upstream, now)

	item, source, err := svc.Details(context.Background(), models.MediaTypeMovie, 603, false)
	require.NoError(t, err)
	assert.Equal(t, models.SourceTMDB, source)
	assert.Equal(t, 136, item.Runtime)

	item, source, err = svc.Details(context.Background(), models.MediaTypeMovie, 603, false)
	require.NoError(t, err)
	assert.Equal(t, models.SourceCache, source)
	assert.Equal(t, 136, item.Runtime)
	assert.Equal(t, 1, upstream.detailCalls)
}

func TestDetailsForceRefresh(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	upstream := &fakeUpstream{detail: &tmdb.RawDetail{RawItem: tmdb.RawItem{ID: 603}}}
	svc := newCatalog(store, upstream, now)

	_, _, err := svc.Details(context.Background(), models.MediaTypeMovie, 603, false)
	require.NoError(t, err)

	_, source, err := svc.Details(context.Background(), models.MediaTypeMovie, 603, true)
	require.NoError(t, err)
	assert.Equal(t, models.SourceTMDB, source)
	assert.Equal(t, 2, upstream.detailCalls)
}

func TestVideosServedFromCachedDetails(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	upstream := &fakeUpstream{detail: &tmdb.RawDetail{
		RawItem: tmdb.RawItem{ID: 603},
		Videos: tmdb.RawVideoList{Results: []tmdb.RawVideo{
			{Key: "abc", Site: "YouTube", Type: "Trailer"},
		}},
	}}
	svc := newCatalog(store, upstream, now)

	_, _, err := svc.Details(context.Background(), models.MediaTypeMovie, 603, false)
	require.NoError(t, err)

	videos, source, err := svc.Videos(context.Background(), models.MediaTypeMovie, 603)
	require.NoError(t, err)
	assert.Equal(t, models.SourceCache, source)
	require.Len(t, videos, 1)
	assert.Equal(t, "abc", videos[0].Key)
}

func TestVideosFallsBackToProvider(t *testing.T) {
	store := newFakeStore()
	upstream := &fakeUpstream{videos: []tmdb.RawVideo{
		{Key: "xyz", Site: "YouTube", Type: "Teaser"},
		{Key: "nope", Site: "Vimeo", Type: "Trailer"},
	}}
	svc := newCatalog(store, upstream, time.Now())

	videos, source, err := svc.Videos(context.Background(), models.MediaTypeMovie, 42)
	require.NoError(t, err)
	assert.Equal(t, models.SourceTMDB, source)
	require.Len(t, videos, 1)
	assert.Equal(t, "xyz", videos[0].Key)
}

func TestRelatedProxiesAndWarmsCache(t *testing.T) {
	store := newFakeStore()
	upstream := &fakeUpstream{related: listingResponse(7, 8, 9)}
	svc := newCatalog(store, upstream, time.Now())

	page, err := svc.Related(context.Background(), models.MediaTypeMovie, 603,
		models.CategorySimilar, models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, models.SourceTMDB, page.Source)
	assert.Len(t, page.Items, 3)

	count, err := store.Count(context.Background(), models.MediaTypeMovie, models.CategorySimilar)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
