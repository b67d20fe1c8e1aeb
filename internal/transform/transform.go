// Package transform maps raw TMDB payloads into the internal media schema.
// All functions are pure; cache metadata is stamped from the clock passed in
// so the service layer controls time in tests.
package transform

import (
	"strconv"
	"time"

	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/tmdb"
)

// Bounded list sizes for detail records.
const (
	maxCast      = 20
	maxCrew      = 15
	maxVideos    = 5
	maxCompanies = 5
)

// crewJobs is the allow-list applied before truncating crew credits.
var crewJobs = map[string]bool{
	"Director":                true,
	"Writer":                  true,
	"Producer":                true,
	"Director of Photography": true,
	"Music":                   true,
}

// Item normalizes one listing entry into a cache row for the given category.
func Item(raw tmdb.RawItem, mediaType models.MediaType, category models.Category, now time.Time) models.MediaItem {
	item := models.MediaItem{
		TMDBID:           raw.ID,
		MediaType:        mediaType,
		Category:         category,
		Title:            raw.Title,
		OriginalTitle:    raw.OriginalTitle,
		Name:             raw.Name,
		OriginalName:     raw.OriginalName,
		Overview:         raw.Overview,
		PosterPath:       raw.PosterPath,
		BackdropPath:     raw.BackdropPath,
		VoteAverage:      raw.VoteAverage,
		VoteCount:        raw.VoteCount,
		Rating:           raw.VoteAverage,
		Popularity:       raw.Popularity,
		ReleaseDate:      raw.ReleaseDate,
		FirstAirDate:     raw.FirstAirDate,
		GenreIDs:         defaultIDs(raw.GenreIDs),
		Genres:           GenreNames(raw.GenreIDs),
		Adult:            raw.Adult,
		Video:            raw.Video,
		OriginalLanguage: defaultLanguage(raw.OriginalLanguage),
		Status:           "Released",
		FetchedAt:        now,
		ExpiresAt:        now.Add(category.TTL()),
	}

	item.Year = yearOf(raw.ReleaseDate, raw.FirstAirDate)
	if raw.PosterPath != "" {
		item.Poster = models.TMDBImageBaseW500 + raw.PosterPath
	}
	return item
}

// Detail normalizes a detail response, including the bounded cast, crew,
// video and production company lists.
func Detail(raw *tmdb.RawDetail, mediaType models.MediaType, now time.Time) models.MediaItem {
	item := Item(raw.RawItem, mediaType, models.CategoryDetails, now)

	item.Runtime = runtimeOf(raw)
	item.Budget = raw.Budget
	item.Revenue = raw.Revenue
	item.Tagline = raw.Tagline
	item.Homepage = raw.Homepage
	if raw.Status != "" {
		item.Status = raw.Status
	}

	// Detail responses carry full genre objects instead of genre_ids.
	if len(raw.Genres) > 0 {
		ids := make([]int, 0, len(raw.Genres))
		names := make([]string, 0, len(raw.Genres))
		for _, g := range raw.Genres {
			ids = append(ids, g.ID)
			names = append(names, g.Name)
		}
		item.GenreIDs = ids
		item.Genres = names
	}

	item.Cast = Cast(raw.Credits.Cast)
	item.Crew = Crew(raw.Credits.Crew)
	item.Videos = Videos(raw.Videos.Results)
	item.ProductionCompanies = companies(raw.ProductionCompanies)
	return item
}

// Trending normalizes one trending entry, tagging it with its time window.
// The upstream media_type field decides the variant.
func Trending(raw tmdb.RawItem, window models.TimeWindow, now time.Time) models.MediaItem {
	mediaType := models.MediaTypeMovie
	if raw.MediaType == "tv" {
		mediaType = models.MediaTypeTV
	}
	item := Item(raw, mediaType, models.CategoryTrending, now)
	item.TimeWindow = window
	return item
}

// Cast keeps the first maxCast entries in upstream billing order.
func Cast(raw []tmdb.RawCastMember) []models.CastMember {
	if len(raw) > maxCast {
		raw = raw[:maxCast]
	}
	cast := make([]models.CastMember, 0, len(raw))
	for _, p := range raw {
		cast = append(cast, models.CastMember{
			ID:          p.ID,
			Name:        p.Name,
			Character:   p.Character,
			ProfilePath: p.ProfilePath,
			Order:       p.Order,
		})
	}
	return cast
}

// Crew filters to the allow-listed jobs, then keeps the first maxCrew.
func Crew(raw []tmdb.RawCrewMember) []models.CrewMember {
	crew := make([]models.CrewMember, 0, maxCrew)
	for _, p := range raw {
		if !crewJobs[p.Job] {
			continue
		}
		crew = append(crew, models.CrewMember{
			ID:          p.ID,
			Name:        p.Name,
			Job:         p.Job,
			Department:  p.Department,
			ProfilePath: p.ProfilePath,
		})
		if len(crew) == maxCrew {
			break
		}
	}
	return crew
}

// Videos keeps YouTube-hosted trailers and teasers with a usable key,
// truncated to maxVideos.
func Videos(raw []tmdb.RawVideo) []models.Video {
	videos := make([]models.Video, 0, maxVideos)
	for _, v := range raw {
		if v.Site != "YouTube" || v.Key == "" {
			continue
		}
		if v.Type != "Trailer" && v.Type != "Teaser" {
			continue
		}
		videos = append(videos, models.Video{
			ID:       v.ID,
			Key:      v.Key,
			Name:     v.Name,
			Site:     v.Site,
			Type:     v.Type,
			Official: v.Official,
		})
		if len(videos) == maxVideos {
			break
		}
	}
	return videos
}

func companies(raw []tmdb.RawCompany) []models.ProductionCompany {
	if len(raw) > maxCompanies {
		raw = raw[:maxCompanies]
	}
	out := make([]models.ProductionCompany, 0, len(raw))
	for _, c := range raw {
		out = append(out, models.ProductionCompany{
			ID:       c.ID,
			Name:     c.Name,
			LogoPath: c.LogoPath,
		})
	}
	return out
}

// yearOf derives the calendar year from a YYYY-MM-DD date string, preferring
// the release date over the first air date. Absent dates yield nil.
func yearOf(releaseDate, firstAirDate string) *int {
	date := releaseDate
	if date == "" {
		date = firstAirDate
	}
	if len(date) < 4 {
		return nil
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return &year
}

// runtimeOf reads the movie runtime, falling back to the first TV episode
// runtime when present.
func runtimeOf(raw *tmdb.RawDetail) int {
	if raw.Runtime > 0 {
		return raw.Runtime
	}
	if len(raw.EpisodeRunTime) > 0 {
		return raw.EpisodeRunTime[0]
	}
	return 0
}

func defaultIDs(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}

func defaultLanguage(lang string) string {
	if lang == "" {
		return "en"
	}
	return lang
}
