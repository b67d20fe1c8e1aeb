package models

import "time"

// MediaType distinguishes movie and TV rows in the cache.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// Category identifies which TMDB listing or endpoint produced a cached row.
// A media item may be cached once per category; uniqueness is
// (tmdbId, mediaType, category).
type Category string

const (
	CategoryPopular     Category = "popular"
	CategoryTopRated    Category = "top_rated"
	CategoryUpcoming    Category = "upcoming"
	CategoryNowPlaying  Category = "now_playing"
	CategoryOnTheAir    Category = "on_the_air"
	CategoryDetails     Category = "details"
	CategorySearch      Category = "search"
	CategoryTrending    Category = "trending"
	CategorySimilar     Category = "similar"
	CategoryRecommended Category = "recommended"
)

// Cache windows per category. Trending-style listings churn daily, broad
// listings weekly, and detail records are stable for a month.
const (
	ttlDaily   = 24 * time.Hour
	ttlWeekly  = 7 * 24 * time.Hour
	ttlMonthly = 30 * 24 * time.Hour
)

// TTL returns how long a cached row of this category stays fresh.
func (c Category) TTL() time.Duration {
	switch c {
	case CategoryTrending, CategoryUpcoming, CategoryNowPlaying, CategoryOnTheAir:
		return ttlDaily
	case CategoryDetails:
		return ttlMonthly
	default:
		return ttlWeekly
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryPopular, CategoryTopRated, CategoryUpcoming, CategoryNowPlaying,
		CategoryOnTheAir, CategoryDetails, CategorySearch, CategoryTrending,
		CategorySimilar, CategoryRecommended:
		return true
	}
	return false
}

// SortColumns returns the cache-store sort order for listing pages of this
// category. Columns must match the allow-listed media_cache columns.
func (c Category) SortColumns() []string {
	switch c {
	case CategoryTopRated:
		return []string{"vote_average DESC"}
	case CategoryUpcoming:
		return []string{"release_date DESC"}
	case CategoryTrending, CategorySimilar, CategoryRecommended:
		return []string{"popularity DESC", "vote_average DESC"}
	default:
		return []string{"popularity DESC"}
	}
}

// TimeWindow scopes trending rows; the provider ranks per window.
type TimeWindow string

const (
	WindowDay  TimeWindow = "day"
	WindowWeek TimeWindow = "week"
)

// Valid reports whether w is a supported trending window.
func (w TimeWindow) Valid() bool {
	return w == WindowDay || w == WindowWeek
}
