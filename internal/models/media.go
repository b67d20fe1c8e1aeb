package models

import "time"

const (
	// TMDBImageBaseW500 prefixes relative poster paths at render time.
	TMDBImageBaseW500 = "https://image.tmdb.org/t/p/w500"
	// TMDBImageBaseW780 prefixes relative backdrop paths at render time.
	TMDBImageBaseW780 = "https://image.tmdb.org/t/p/w780"
)

// CastMember is one credited actor, kept in upstream billing order.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profilePath"`
	Order       int    `json:"order"`
}

// CrewMember is a credited crew member from the allow-listed jobs.
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profilePath"`
}

// Video is a YouTube-hosted trailer or teaser.
type Video struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// ProductionCompany is a studio attached to a detail record.
type ProductionCompany struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	LogoPath string `json:"logoPath"`
}

// MediaItem is one cached media document. The base fields are shared across
// all categories; Cast, Crew, Videos and ProductionCompanies are only
// populated for details rows, TimeWindow only for trending rows.
type MediaItem struct {
	TMDBID    int       `json:"tmdbId"`
	MediaType MediaType `json:"mediaType"`
	Category  Category  `json:"category"`

	Title         string `json:"title,omitempty"`
	OriginalTitle string `json:"originalTitle,omitempty"`
	// Name and FirstAirDate are the TV-side counterparts of Title/ReleaseDate.
	Name         string `json:"name,omitempty"`
	OriginalName string `json:"originalName,omitempty"`

	Overview     string `json:"overview"`
	PosterPath   string `json:"posterPath"`
	BackdropPath string `json:"backdropPath"`
	// Poster is the legacy full-URL field retained for older app builds.
	Poster string `json:"poster,omitempty"`

	VoteAverage float64 `json:"voteAverage"`
	VoteCount   int     `json:"voteCount"`
	// Rating mirrors VoteAverage for older app builds.
	Rating     float64 `json:"rating"`
	Popularity float64 `json:"popularity"`

	ReleaseDate  string `json:"releaseDate,omitempty"`
	FirstAirDate string `json:"firstAirDate,omitempty"`
	Year         *int   `json:"year"`

	GenreIDs []int `json:"genreIds"`
	// Genres is the legacy human-readable list derived from the static
	// id-to-name table.
	Genres []string `json:"genres"`

	Adult            bool   `json:"adult"`
	Video            bool   `json:"video"`
	OriginalLanguage string `json:"originalLanguage"`

	Runtime  int    `json:"runtime"`
	Budget   int64  `json:"budget"`
	Revenue  int64  `json:"revenue"`
	Tagline  string `json:"tagline"`
	Homepage string `json:"homepage"`
	Status   string `json:"status"`

	Cast                []CastMember        `json:"cast,omitempty"`
	Crew                []CrewMember        `json:"crew,omitempty"`
	Videos              []Video             `json:"videos,omitempty"`
	ProductionCompanies []ProductionCompany `json:"productionCompanies,omitempty"`

	TimeWindow TimeWindow `json:"timeWindow,omitempty"`

	FetchedAt time.Time `json:"fetchedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DisplayTitle returns the movie title or the TV name, whichever is set.
func (m MediaItem) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.Name
}

// Fresh reports whether the row is still within its category TTL at now.
func (m MediaItem) Fresh(now time.Time) bool {
	if m.FetchedAt.IsZero() {
		return false
	}
	return now.Sub(m.FetchedAt) < m.Category.TTL()
}
