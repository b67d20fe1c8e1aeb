package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Client is the TMDB API client. It is a plain I/O wrapper; caching decisions
// live in the service layer.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new TMDB API client.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ---- TMDB Response Types (internal, not exposed to consumers) ----

// ListResponse is a paginated TMDB listing response.
type ListResponse struct {
	Page         int       `json:"page"`
	Results      []RawItem `json:"results"`
	TotalPages   int       `json:"total_pages"`
	TotalResults int       `json:"total_results"`
}

// RawItem is one listing entry. Movie and TV results share this shape;
// movies fill title/release_date, TV fills name/first_air_date.
type RawItem struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Name             string  `json:"name"`
	OriginalName     string  `json:"original_name"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	GenreIDs         []int   `json:"genre_ids"`
	Adult            bool    `json:"adult"`
	Video            bool    `json:"video"`
	OriginalLanguage string  `json:"original_language"`
	MediaType        string  `json:"media_type"`
}

// RawDetail is a movie or TV detail response with credits and videos
// appended via append_to_response.
type RawDetail struct {
	RawItem
	Genres              []RawGenre   `json:"genres"`
	Runtime             int          `json:"runtime"`
	EpisodeRunTime      []int        `json:"episode_run_time"`
	Budget              int64        `json:"budget"`
	Revenue             int64        `json:"revenue"`
	Tagline             string       `json:"tagline"`
	Homepage            string       `json:"homepage"`
	Status              string       `json:"status"`
	Credits             RawCredits   `json:"credits"`
	Videos              RawVideoList `json:"videos"`
	ProductionCompanies []RawCompany `json:"production_companies"`
}

// RawGenre is a full genre object on detail responses.
type RawGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RawCredits holds cast and crew lists from an appended credits response.
type RawCredits struct {
	Cast []RawCastMember `json:"cast"`
	Crew []RawCrewMember `json:"crew"`
}

// RawCastMember is one cast credit in upstream billing order.
type RawCastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// RawCrewMember is one crew credit.
type RawCrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

// RawVideoList wraps the appended videos response.
type RawVideoList struct {
	Results []RawVideo `json:"results"`
}

// RawVideo is one video entry (trailer, teaser, clip, ...).
type RawVideo struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// RawCompany is one production company on a detail response.
type RawCompany struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	LogoPath string `json:"logo_path"`
}

// ---- Client Methods ----

// Listing fetches one page of a movie or TV listing endpoint
// (popular, top_rated, upcoming, now_playing, on_the_air).
func (c *Client) Listing(ctx context.Context, mediaType, listing string, page int) (*ListResponse, error) {
	u := fmt.Sprintf("%s/%s/%s?api_key=%s&page=%d",
		c.baseURL, mediaType, listing, c.apiKey, page)

	slog.Debug("fetching TMDB listing", "media_type", mediaType, "listing", listing, "page", page)
	var result ListResponse
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Details fetches a single movie or TV record with credits and videos
// appended in one call.
func (c *Client) Details(ctx context.Context, mediaType string, tmdbID int) (*RawDetail, error) {
	u := fmt.Sprintf("%s/%s/%d?api_key=%s&append_to_response=videos,credits",
		c.baseURL, mediaType, tmdbID, c.apiKey)

	slog.Debug("fetching TMDB details", "media_type", mediaType, "tmdb_id", tmdbID)
	var result RawDetail
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Videos fetches the standalone video list for a movie or TV record.
func (c *Client) Videos(ctx context.Context, mediaType string, tmdbID int) ([]RawVideo, error) {
	u := fmt.Sprintf("%s/%s/%d/videos?api_key=%s", c.baseURL, mediaType, tmdbID, c.apiKey)

	var result RawVideoList
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// Related fetches the similar or recommendations listing for a record.
// relation must be "similar" or "recommendations".
func (c *Client) Related(ctx context.Context, mediaType string, tmdbID int, relation string, page int) (*ListResponse, error) {
	u := fmt.Sprintf("%s/%s/%d/%s?api_key=%s&page=%d",
		c.baseURL, mediaType, tmdbID, relation, c.apiKey, page)

	slog.Debug("fetching TMDB related", "media_type", mediaType, "tmdb_id", tmdbID, "relation", relation)
	var result ListResponse
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Trending fetches the ranked trending list for a media type
// ("all", "movie" or "tv") and time window ("day" or "week").
func (c *Client) Trending(ctx context.Context, mediaType, window string) (*ListResponse, error) {
	u := fmt.Sprintf("%s/trending/%s/%s?api_key=%s", c.baseURL, mediaType, window, c.apiKey)

	slog.Debug("fetching TMDB trending", "media_type", mediaType, "window", window)
	var result ListResponse
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchMulti searches movies and TV shows in one call.
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (*ListResponse, error) {
	u := fmt.Sprintf("%s/search/multi?api_key=%s&query=%s&page=%d",
		c.baseURL, c.apiKey, url.QueryEscape(query), page)

	slog.Debug("searching TMDB", "query", query, "page", page)
	var result ListResponse
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build TMDB request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("TMDB request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("TMDB API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode TMDB response: %w", err)
	}
	return nil
}
