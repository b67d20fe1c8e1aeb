package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/tmdb"
)

// fakeStore is an in-memory stand-in for the Postgres cache store.
type fakeStore struct {
	mu       sync.Mutex
	media    map[string]models.MediaItem
	trending map[string]models.MediaItem
	upserts  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		media:    map[string]models.MediaItem{},
		trending: map[string]models.MediaItem{},
	}
}

func mediaKey(tmdbID int, mediaType models.MediaType, category models.Category) string {
	return fmt.Sprintf("%d|%s|%s", tmdbID, mediaType, category)
}

func (s *fakeStore) Upsert(_ context.Context, item models.MediaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	s.media[mediaKey(item.TMDBID, item.MediaType, item.Category)] = item
	return nil
}

func (s *fakeStore) Find(_ context.Context, mediaType models.MediaType, category models.Category, page, limit int) ([]models.MediaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.filtered(mediaType, category)
	offset := (page - 1) * limit
	if offset >= len(items) {
		return nil, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], nil
}

func (s *fakeStore) Count(_ context.Context, mediaType models.MediaType, category models.Category) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.filtered(mediaType, category)), nil
}

func (s *fakeStore) FindOne(_ context.Context, tmdbID int, mediaType models.MediaType, category models.Category) (*models.MediaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.media[mediaKey(tmdbID, mediaType, category)]; ok {
		return &item, nil
	}
	return nil, nil
}

func (s *fakeStore) Search(_ context.Context, mediaType models.MediaType, query string, limit int) ([]models.MediaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(query)
	seen := map[int]bool{}
	matches := make([]models.MediaItem, 0)
	for _, item := range s.media {
		if item.MediaType != mediaType || seen[item.TMDBID] {
			continue
		}
		haystack := strings.ToLower(item.Title + " " + item.OriginalTitle + " " + item.Name + " " + item.Overview)
		if strings.Contains(haystack, needle) {
			matches = append(matches, item)
			seen[item.TMDBID] = true
		}
	}
	sortByPopularity(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *fakeStore) DeleteTrending(_ context.Context, window models.TimeWindow, mediaType models.MediaType) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, item := range s.trending {
		if item.TimeWindow != window {
			continue
		}
		if mediaType != "" && item.MediaType != mediaType {
			continue
		}
		delete(s.trending, key)
		removed++
	}
	return removed, nil
}

func (s *fakeStore) InsertTrending(_ context.Context, item models.MediaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%d|%s|%s", item.TMDBID, item.MediaType, item.TimeWindow)
	s.trending[key] = item
	return nil
}

func (s *fakeStore) FindTrending(_ context.Context, window models.TimeWindow, mediaType models.MediaType, limit int) ([]models.MediaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]models.MediaItem, 0)
	for _, item := range s.trending {
		if item.TimeWindow != window {
			continue
		}
		if mediaType != "" && item.MediaType != mediaType {
			continue
		}
		items = append(items, item)
	}
	sortByPopularity(items)
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *fakeStore) filtered(mediaType models.MediaType, category models.Category) []models.MediaItem {
	items := make([]models.MediaItem, 0)
	for _, item := range s.media {
		if item.MediaType == mediaType && item.Category == category {
			items = append(items, item)
		}
	}
	sortByPopularity(items)
	return items
}

func sortByPopularity(items []models.MediaItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Popularity > items[j].Popularity
	})
}

// fakeUpstream is a scripted TMDB client double with call counters.
type fakeUpstream struct {
	mu sync.Mutex

	listing  *tmdb.ListResponse
	detail   *tmdb.RawDetail
	videos   []tmdb.RawVideo
	related  *tmdb.ListResponse
	trending *tmdb.ListResponse
	search   *tmdb.ListResponse
	err      error

	listingCalls  int
	detailCalls   int
	trendingCalls int
	searchCalls   int
}

func (u *fakeUpstream) Listing(_ context.Context, _, _ string, _ int) (*tmdb.ListResponse, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.listingCalls++
	return u.listing, u.err
}

func (u *fakeUpstream) Details(_ context.Context, _ string, _ int) (*tmdb.RawDetail, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.detailCalls++
	return u.detail, u.err
}

func (u *fakeUpstream) Videos(_ context.Context, _ string, _ int) ([]tmdb.RawVideo, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.videos, u.err
}

func (u *fakeUpstream) Related(_ context.Context, _ string, _ int, _ string, _ int) (*tmdb.ListResponse, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.related, u.err
}

func (u *fakeUpstream) Trending(_ context.Context, _, _ string) (*tmdb.ListResponse, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.trendingCalls++
	return u.trending, u.err
}

func (u *fakeUpstream) SearchMulti(_ context.Context, _ string, _ int) (*tmdb.ListResponse, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.searchCalls++
	return u.search, u.err
}
