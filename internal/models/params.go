package models

// ListParams holds pagination parameters shared by listing endpoints.
type ListParams struct {
	Page         int  `query:"page"`
	Limit        int  `query:"limit"`
	ForceRefresh bool `query:"forceRefresh"`
}

// Validate sets defaults and clamps out-of-range values.
func (p *ListParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 50 {
		p.Limit = 10
	}
}

// Pagination is the paging metadata attached to listing responses.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination computes page counts from a total row count.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Source tags a response with where the data came from.
type Source string

const (
	SourceCache Source = "cache"
	SourceTMDB  Source = "tmdb"
)

// Page is a page of media items together with its origin and paging metadata.
type Page struct {
	Items      []MediaItem
	Source     Source
	Pagination Pagination
}
