package handler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"movie-discovery-backend/internal/models"
)

// memStore is a minimal in-memory cache store for handler tests.
type memStore struct {
	mu       sync.Mutex
	media    map[string]models.MediaItem
	trending map[string]models.MediaItem
}

func newMemStore() *memStore {
	return &memStore{
		media:    map[string]models.MediaItem{},
		trending: map[string]models.MediaItem{},
	}
}

func (s *memStore) Upsert(_ context.Context, item models.MediaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%d|%s|%s", item.TMDBID, item.MediaType, item.Category)
	s.media[key] = item
	return nil
}

func (s *memStore) Find(_ context.Context, mediaType models.MediaType, category models.Category, page, limit int) ([]models.MediaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]models.MediaItem, 0)
	for _, item := range s.media {
		if item.MediaType == mediaType && item.Category == category {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Popularity > items[j].Popularity
	})

	offset := (page - 1) * limit
	if offset >= len(items) {
		return nil, nil
	}
	if end := offset + limit; end < len(items) {
		items = items[offset:end]
	} else {
		items = items[offset:]
	}
	return items, nil
}

func (s *memStore) Count(_ context.Context, mediaType models.MediaType, category models.Category) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, item := range s.media {
		if item.MediaType == mediaType && item.Category == category {
			n++
		}
	}
	return n, nil
}

func (s *memStore) FindOne(_ context.Context, tmdbID int, mediaType models.MediaType, category models.Category) (*models.MediaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%d|%s|%s", tmdbID, mediaType, category)
	if item, ok := s.media[key]; ok {
		return &item, nil
	}
	return nil, nil
}

func (s *memStore) Search(_ context.Context, mediaType models.MediaType, query string, limit int) ([]models.MediaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(query)
	items := make([]models.MediaItem, 0)
	for _, item := range s.media {
		if item.MediaType != mediaType {
			continue
		}
		if strings.Contains(strings.ToLower(item.Title+" "+item.Name+" "+item.Overview), needle) {
			items = append(items, item)
		}
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *memStore) DeleteTrending(_ context.Context, window models.TimeWindow, mediaType models.MediaType) (int, error) {
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

func (s *memStore) InsertTrending(_ context.Context, item models.MediaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%d|%s|%s", item.TMDBID, item.MediaType, item.TimeWindow)
	s.trending[key] = item
	return nil
}

func (s *memStore) FindTrending(_ context.Context, window models.TimeWindow, mediaType models.MediaType, limit int) ([]models.MediaItem, error) {
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
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Popularity > items[j].Popularity
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
