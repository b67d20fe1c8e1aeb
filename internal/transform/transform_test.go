package transform

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/tmdb"
)

func TestItemMovie(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	raw := tmdb.RawItem{
		ID:          603,
		Title:       "The Matrix",
		Overview:    "A hacker learns the truth.",
		PosterPath:  "/matrix.jpg",
		VoteAverage: 8.2,
		Popularity:  95.5,
		ReleaseDate: "1999-03-31",
		GenreIDs:    []int{28, 878},
	}

	item := Item(raw, models.MediaTypeMovie, models.CategoryPopular, now)

	assert.Equal(t, 603, item.TMDBID)
	assert.Equal(t, models.CategoryPopular, item.Category)
	assert.Equal(t, 8.2, item.Rating, "legacy rating mirrors voteAverage")
	assert.Equal(t, models.TMDBImageBaseW500+"/matrix.jpg", item.Poster)
	require.NotNil(t, item.Year)
	assert.Equal(t, 1999, *item.Year)
	assert.Equal(t, []string{"Action", "Science Fiction"}, item.Genres)
	assert.Equal(t, now, item.FetchedAt)
	assert.Equal(t, now.Add(7*24*time.Hour), item.ExpiresAt)
}

func TestItemDefaults(t *testing.T) {
	item := Item(tmdb.RawItem{ID: 1}, models.MediaTypeMovie, models.CategoryPopular, time.Now())

	assert.Nil(t, item.Year, "absent date yields nil year")
	assert.Empty(t, item.Poster, "no poster URL without a poster path")
	assert.Equal(t, "en", item.OriginalLanguage)
	assert.Equal(t, "Released", item.Status)
	assert.NotNil(t, item.GenreIDs)
	assert.Empty(t, item.GenreIDs)
}

func TestYearOf(t *testing.T) {
	year := yearOf("", "2021-09-17")
	require.NotNil(t, year)
	assert.Equal(t, 2021, *year, "falls back to first air date")

	assert.Nil(t, yearOf("", ""))
	assert.Nil(t, yearOf("bad", ""))
	assert.Nil(t, yearOf("20", ""))
}

func TestDetail(t *testing.T) {
	now := time.Now()
	raw := &tmdb.RawDetail{
		RawItem: tmdb.RawItem{ID: 603, Title: "The Matrix", GenreIDs: []int{28}},
		Genres:  []tmdb.RawGenre{{ID: 878, Name: "Science Fiction"}},
		Runtime: 136,
		Tagline: "Free your mind.",
		Status:  "Released",
		Credits: tmdb.RawCredits{
			Cast: manyCast(30),
			Crew: []tmdb.RawCrewMember{
				{ID: 1, Name: "Lana Wachowski", Job: "Director"},
				{ID: 2, Name: "Key Grip", Job: "Key Grip"},
				{ID: 3, Name: "Lilly Wachowski", Job: "Writer"},
			},
		},
		Videos: tmdb.RawVideoList{Results: []tmdb.RawVideo{
			{Key: "abc", Site: "YouTube", Type: "Trailer"},
			{Key: "", Site: "YouTube", Type: "Trailer"},
			{Key: "def", Site: "Vimeo", Type: "Trailer"},
			{Key: "ghi", Site: "YouTube", Type: "Clip"},
			{Key: "jkl", Site: "YouTube", Type: "Teaser"},
		}},
	}

	item := Detail(raw, models.MediaTypeMovie, now)

	assert.Equal(t, models.CategoryDetails, item.Category)
	assert.Equal(t, 136, item.Runtime)
	assert.Equal(t, []int{878}, item.GenreIDs, "detail genre objects replace genre_ids")
	assert.Equal(t, []string{"Science Fiction"}, item.Genres)
	assert.Len(t, item.Cast, 20, "cast capped at 20")
	require.Len(t, item.Crew, 2, "crew filtered to allow-listed jobs")
	assert.Equal(t, "Director", item.Crew[0].Job)
	assert.Equal(t, "Writer", item.Crew[1].Job)
	require.Len(t, item.Videos, 2, "only YouTube trailers/teasers with keys")
	assert.Equal(t, "abc", item.Videos[0].Key)
	assert.Equal(t, "jkl", item.Videos[1].Key)
	assert.Equal(t, now.Add(30*24*time.Hour), item.ExpiresAt)
}

func TestDetailEpisodeRuntimeFallback(t *testing.T) {
	raw := &tmdb.RawDetail{
		RawItem:        tmdb.RawItem{ID: 1, Name: "Foundation"},
		EpisodeRunTime: []int{59, 62},
	}
	item := Detail(raw, models.MediaTypeTV, time.Now())
	assert.Equal(t, 59, item.Runtime)
}

func TestTrending(t *testing.T) {
	now := time.Now()
	movie := Trending(tmdb.RawItem{ID: 1, MediaType: "movie"}, models.WindowDay, now)
	show := Trending(tmdb.RawItem{ID: 2, MediaType: "tv"}, models.WindowWeek, now)

	assert.Equal(t, models.MediaTypeMovie, movie.MediaType)
	assert.Equal(t, models.WindowDay, movie.TimeWindow)
	assert.Equal(t, models.MediaTypeTV, show.MediaType)
	assert.Equal(t, models.CategoryTrending, show.Category)
}

func TestGenreNames(t *testing.T) {
	assert.Equal(t, []string{"Action", "Comedy"}, GenreNames([]int{28, 35}))
	assert.Equal(t, []string{"Sci-Fi & Fantasy"}, GenreNames([]int{10765}))
	assert.Empty(t, GenreNames([]int{424242}), "unknown ids are dropped")
}

func manyCast(n int) []tmdb.RawCastMember {
	cast := make([]tmdb.RawCastMember, n)
	for i := range cast {
		cast[i] = tmdb.RawCastMember{ID: i + 1, Name: fmt.Sprintf("Actor %d", i+1), Order: i}
	}
	return cast
}
