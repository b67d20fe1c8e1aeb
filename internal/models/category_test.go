package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategoryTTL(t *testing.T) {
	tests := []struct {
		category Category
		want     time.Duration
	}{
		{CategoryTrending, 24 * time.Hour},
		{CategoryUpcoming, 24 * time.Hour},
		{CategoryNowPlaying, 24 * time.Hour},
		{CategoryOnTheAir, 24 * time.Hour},
		{CategoryPopular, 7 * 24 * time.Hour},
		{CategoryTopRated, 7 * 24 * time.Hour},
		{CategorySearch, 7 * 24 * time.Hour},
		{CategorySimilar, 7 * 24 * time.Hour},
		{CategoryRecommended, 7 * 24 * time.Hour},
		{CategoryDetails, 30 * 24 * time.Hour},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.category.TTL(), "category %s", tt.category)
	}
}

func TestCategorySortColumns(t *testing.T) {
	assert.Equal(t, []string{"vote_average DESC"}, CategoryTopRated.SortColumns())
	assert.Equal(t, []string{"release_date DESC"}, CategoryUpcoming.SortColumns())
	assert.Equal(t, []string{"popularity DESC", "vote_average DESC"}, CategoryTrending.SortColumns())
	assert.Equal(t, []string{"popularity DESC"}, CategoryPopular.SortColumns())
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryPopular.Valid())
	assert.True(t, CategoryOnTheAir.Valid())
	assert.False(t, Category("bogus").Valid())
	assert.False(t, Category("").Valid())
}

func TestTimeWindowValid(t *testing.T) {
	assert.True(t, WindowDay.Valid())
	assert.True(t, WindowWeek.Valid())
	assert.False(t, TimeWindow("month").Valid())
}

func TestMediaItemFresh(t *testing.T) {
	now := time.Now()
	item := MediaItem{Category: CategoryTrending, FetchedAt: now.Add(-23 * time.Hour)}
	assert.True(t, item.Fresh(now))

	// Right at the TTL boundary the row counts as stale.
	item.FetchedAt = now.Add(-24 * time.Hour)
	assert.False(t, item.Fresh(now))

	item.FetchedAt = now.Add(-24*time.Hour + time.Second)
	assert.True(t, item.Fresh(now))

	item.FetchedAt = now.Add(-24*time.Hour - time.Second)
	assert.False(t, item.Fresh(now))
}

func TestListParamsValidate(t *testing.T) {
	p := ListParams{}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)

	p = ListParams{Page: -3, Limit: 100}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)

	p = ListParams{Page: 4, Limit: 50}
	p.Validate()
	assert.Equal(t, 4, p.Page)
	assert.Equal(t, 50, p.Limit)
}

func TestNewPagination(t *testing.T) {
	pg := NewPagination(2, 10, 45)
	assert.Equal(t, 5, pg.Pages)
	assert.Equal(t, 45, pg.Total)

	pg = NewPagination(1, 10, 0)
	assert.Equal(t, 0, pg.Pages)

	pg = NewPagination(1, 10, 10)
	assert.Equal(t, 1, pg.Pages)
}
