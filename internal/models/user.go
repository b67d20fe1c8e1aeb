package models

import "time"

// User is an account mirrored from the identity provider on first request.
type User struct {
	ID             int       `json:"id"`
	SubjectID      string    `json:"subjectId"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"displayName"`
	PhotoURL       string    `json:"photoUrl"`
	TotalFavorites int       `json:"totalFavorites"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Favorite is a media item saved by a user. One row per
// (userId, mediaType, mediaId).
type Favorite struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	MediaType    MediaType `json:"mediaType"`
	MediaID      int       `json:"mediaId"`
	Title        string    `json:"title"`
	PosterPath   string    `json:"posterPath"`
	BackdropPath string    `json:"backdropPath"`
	Overview     string    `json:"overview"`
	Rating       float64   `json:"rating"`
	ReleaseDate  string    `json:"releaseDate"`
	Genres       []string  `json:"genres"`
	AddedAt      time.Time `json:"addedAt"`
}

// AddFavoriteRequest is the payload for saving a favorite.
type AddFavoriteRequest struct {
	MediaType    MediaType `json:"mediaType" validate:"required,oneof=movie tv"`
	MediaID      int       `json:"mediaId" validate:"required,gt=0"`
	Title        string    `json:"title" validate:"required,max=500"`
	PosterPath   string    `json:"posterPath"`
	BackdropPath string    `json:"backdropPath"`
	Overview     string    `json:"overview"`
	Rating       float64   `json:"rating" validate:"gte=0,lte=10"`
	ReleaseDate  string    `json:"releaseDate"`
	Genres       []string  `json:"genres"`
}

// RecentlyViewed tracks the media a user opened, one row per
// (userId, mediaType, mediaId), bumped on every view.
type RecentlyViewed struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	MediaType         MediaType `json:"mediaType"`
	MediaID           int       `json:"mediaId"`
	Title             string    `json:"title"`
	PosterPath        string    `json:"posterPath"`
	BackdropPath      string    `json:"backdropPath"`
	Overview          string    `json:"overview"`
	Rating            float64   `json:"rating"`
	ReleaseDate       string    `json:"releaseDate"`
	ViewCount         int       `json:"viewCount"`
	WatchProgress     float64   `json:"watchProgress"`
	LastWatchPosition int       `json:"lastWatchPosition"`
	ViewedAt          time.Time `json:"viewedAt"`
}

// TrackViewRequest is the payload for recording a view.
type TrackViewRequest struct {
	MediaType         MediaType `json:"mediaType" validate:"required,oneof=movie tv"`
	MediaID           int       `json:"mediaId" validate:"required,gt=0"`
	Title             string    `json:"title" validate:"required,max=500"`
	PosterPath        string    `json:"posterPath"`
	BackdropPath      string    `json:"backdropPath"`
	Overview          string    `json:"overview"`
	Rating            float64   `json:"rating" validate:"gte=0,lte=10"`
	ReleaseDate       string    `json:"releaseDate"`
	WatchProgress     *float64  `json:"watchProgress" validate:"omitempty,gte=0,lte=100"`
	LastWatchPosition *int      `json:"lastWatchPosition" validate:"omitempty,gte=0"`
}

// WatchProgress is the playback state returned for a single media.
type WatchProgress struct {
	WatchProgress     float64    `json:"watchProgress"`
	LastWatchPosition int        `json:"lastWatchPosition"`
	ViewCount         int        `json:"viewCount"`
	ViewedAt          *time.Time `json:"viewedAt,omitempty"`
}

// Watchlist is a named, user-owned collection of media.
type Watchlist struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	IsPublic    bool            `json:"isPublic"`
	Items       []WatchlistItem `json:"items"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// WatchlistItem is one media entry inside a watchlist, unique per
// (watchlistId, mediaType, mediaId).
type WatchlistItem struct {
	ID         string    `json:"id"`
	MediaType  MediaType `json:"mediaType"`
	MediaID    int       `json:"mediaId"`
	Title      string    `json:"title"`
	PosterPath string    `json:"posterPath"`
	AddedAt    time.Time `json:"addedAt"`
}

// CreateWatchlistRequest is the payload for creating a watchlist.
type CreateWatchlistRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	IsPublic    bool   `json:"isPublic"`
}

// AddWatchlistItemRequest is the payload for adding media to a watchlist.
type AddWatchlistItemRequest struct {
	MediaType  MediaType `json:"mediaType" validate:"required,oneof=movie tv"`
	MediaID    int       `json:"mediaId" validate:"required,gt=0"`
	Title      string    `json:"title" validate:"required,max=500"`
	PosterPath string    `json:"posterPath"`
}

// Comment is a user comment on a media item, optionally a reply.
type Comment struct {
	ID           string    `json:"id"`
	MediaID      int       `json:"mediaId"`
	MediaType    MediaType `json:"mediaType"`
	UserID       string    `json:"userId"`
	UserName     string    `json:"userName"`
	UserPhotoURL string    `json:"userPhotoUrl"`
	Text         string    `json:"text"`
	ParentID     *string   `json:"parentCommentId"`
	LikesCount   int       `json:"likesCount"`
	ReplyCount   int       `json:"replyCount"`
	IsDeleted    bool      `json:"isDeleted"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateCommentRequest is the payload for posting a comment or reply.
type CreateCommentRequest struct {
	Text     string  `json:"text" validate:"required,max=2000"`
	ParentID *string `json:"parentCommentId" validate:"omitempty,uuid4"`
}

// CommentStats summarizes the live comment activity on a media item.
type CommentStats struct {
	Total    int `json:"total"`
	TopLevel int `json:"topLevel"`
	Replies  int `json:"replies"`
}

// Sentiment is the coarse review verdict scale.
type Sentiment string

// Review sentiments, worst to best.
const (
	SentimentTerrible  Sentiment = "terrible"
	SentimentBad       Sentiment = "bad"
	SentimentAverage   Sentiment = "average"
	SentimentGood      Sentiment = "good"
	SentimentGreat     Sentiment = "great"
	SentimentExcellent Sentiment = "excellent"
)

// Review is a long-form user review, one per (userId, mediaType, mediaId).
type Review struct {
	ID               string    `json:"id"`
	MediaID          int       `json:"mediaId"`
	MediaType        MediaType `json:"mediaType"`
	UserID           string    `json:"userId"`
	UserName         string    `json:"userName"`
	UserPhotoURL     string    `json:"userPhotoUrl"`
	Sentiment        Sentiment `json:"sentiment"`
	Title            string    `json:"title"`
	Text             string    `json:"text"`
	ContainsSpoilers bool      `json:"containsSpoilers"`
	HelpfulCount     int       `json:"helpfulCount"`
	UnhelpfulCount   int       `json:"unhelpfulCount"`
	IsDeleted        bool      `json:"isDeleted"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// CreateReviewRequest is the payload for posting a review.
type CreateReviewRequest struct {
	Sentiment        Sentiment `json:"sentiment" validate:"required,oneof=terrible bad average good great excellent"`
	Title            string    `json:"title" validate:"max=200"`
	Text             string    `json:"text" validate:"required,min=10,max=5000"`
	ContainsSpoilers bool      `json:"containsSpoilers"`
}

// ReviewStats summarizes the live reviews on a media item per sentiment.
type ReviewStats struct {
	Total     int               `json:"total"`
	Breakdown map[Sentiment]int `json:"breakdown"`
}

// UpdateReviewRequest is the payload for editing an existing review.
type UpdateReviewRequest struct {
	Sentiment        *Sentiment `json:"sentiment" validate:"omitempty,oneof=terrible bad average good great excellent"`
	Title            *string    `json:"title" validate:"omitempty,max=200"`
	Text             *string    `json:"text" validate:"omitempty,min=10,max=5000"`
	ContainsSpoilers *bool      `json:"containsSpoilers"`
}
