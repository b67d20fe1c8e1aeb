package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/popular", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"page": 2,
			"results": [{"id": 603, "title": "The Matrix", "vote_average": 8.2}],
			"total_pages": 10,
			"total_results": 200
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL)
	resp, err := client.Listing(context.Background(), "movie", "popular", 2)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 603, resp.Results[0].ID)
	assert.Equal(t, "The Matrix", resp.Results[0].Title)
	assert.Equal(t, 200, resp.TotalResults)
}

func TestDetailsAppendsCreditsAndVideos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/1399", r.URL.Path)
		assert.Equal(t, "videos,credits", r.URL.Query().Get("append_to_response"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 1399,
			"name": "Game of Thrones",
			"episode_run_time": [60],
			"credits": {"cast": [{"id": 22970, "name": "Peter Dinklage"}]},
			"videos": {"results": [{"key": "abc", "site": "YouTube", "type": "Trailer"}]}
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL)
	detail, err := client.Details(context.Background(), "tv", 1399)
	require.NoError(t, err)
	assert.Equal(t, "Game of Thrones", detail.Name)
	require.Len(t, detail.Credits.Cast, 1)
	assert.Equal(t, "Peter Dinklage", detail.Credits.Cast[0].Name)
	require.Len(t, detail.Videos.Results, 1)
	assert.Equal(t, "abc", detail.Videos.Results[0].Key)
}

func TestSearchMultiEscapesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/multi", r.URL.Path)
		assert.Equal(t, "spider man: no way home", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [{"id": 634649, "media_type": "movie"}]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL)
	resp, err := client.SearchMulti(context.Background(), "spider man: no way home", 1)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "movie", resp.Results[0].MediaType)
}

func TestNon200CarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_message": "Invalid API key"}`))
	}))
	defer srv.Close()

	client := NewClient("bad-key", srv.URL)
	_, err := client.Listing(context.Background(), "movie", "popular", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestMalformedJSONPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL)
	_, err := client.Trending(context.Background(), "all", "day")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("test-key", srv.URL)
	_, err := client.Related(ctx, "movie", 603, "similar", 1)
	require.Error(t, err)
}
